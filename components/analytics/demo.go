package analytics

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// DemoMetricsRepository returns deterministic synthetic series for demos and
// tests.
type DemoMetricsRepository struct{}

func (DemoMetricsRepository) FetchMetricSeries(_ context.Context, query MetricQuery) (MetricSeries, error) {
	buckets, step := bucketsFor(query.Timeframe)
	now := time.Now().UTC().Truncate(24 * time.Hour)
	points := make([]SeriesPoint, 0, buckets)
	var total float64
	for i := 0; i < buckets; i++ {
		value := float64(120 + (i*37+len(query.Metric)*11)%480)
		point := SeriesPoint{
			Date:  now.AddDate(0, 0, -step*(buckets-1-i)),
			Value: value,
		}
		// Rolling averages need a warm-up window; the first buckets have none.
		if i >= 3 {
			avg := (points[i-1].Value + points[i-2].Value + points[i-3].Value + value) / 4
			point.RollingAvg = &avg
		}
		total += value
		points = append(points, point)
	}
	return MetricSeries{
		Points:            points,
		HasSufficientData: buckets >= 7,
		Total:             total,
	}, nil
}

func bucketsFor(tf Timeframe) (count, stepDays int) {
	switch tf {
	case Timeframe7Days:
		return 7, 1
	case Timeframe90Days:
		return 90, 1
	case Timeframe6Months:
		return 26, 7
	default:
		return 30, 1
	}
}

// DemoTrafficRepository serves a static traffic-source breakdown.
type DemoTrafficRepository struct{}

func (DemoTrafficRepository) FetchTrafficSources(_ context.Context, _ Platform, _ Timeframe) ([]TrafficSlice, error) {
	return []TrafficSlice{
		{Source: "Browse features", Views: 48200},
		{Source: "Suggested videos", Views: 31900},
		{Source: "YouTube search", Views: 27400},
		{Source: "External", Views: 9100},
		{Source: "Channel pages", Views: 4800},
	}, nil
}

// DemoPostsRepository paginates a fixed set of synthetic posts.
type DemoPostsRepository struct{}

func (DemoPostsRepository) FetchPostsPage(_ context.Context, query PostsQuery) (PostsPage, error) {
	perPage := query.PerPage
	if perPage <= 0 {
		perPage = 10
	}
	page := query.Page
	if page < 1 {
		page = 1
	}
	all := demoPosts()
	if query.Filter != "" {
		filtered := all[:0:0]
		for _, post := range all {
			if strings.Contains(strings.ToLower(post.Text), strings.ToLower(query.Filter)) {
				filtered = append(filtered, post)
			}
		}
		all = filtered
	}
	start := (page - 1) * perPage
	if start > len(all) {
		start = len(all)
	}
	end := start + perPage
	if end > len(all) {
		end = len(all)
	}
	return PostsPage{
		Items:        all[start:end],
		CurrentPage:  page,
		ItemsPerPage: perPage,
		TotalItems:   len(all),
		Filter:       query.Filter,
	}, nil
}

func demoPosts() []PostItem {
	now := time.Now().UTC()
	posts := make([]PostItem, 24)
	for i := range posts {
		posts[i] = PostItem{
			ID:          fmt.Sprintf("post-%02d", i+1),
			Text:        fmt.Sprintf("Draft %d: shipping notes from the studio", i+1),
			PublishedAt: now.AddDate(0, 0, -i),
			Impressions: float64(900 + i*412),
			Likes:       14 + i*3,
			Replies:     2 + i%5,
			Reposts:     1 + i%4,
		}
	}
	return posts
}

// DemoSyncClient succeeds for every platform except those listed in Failing.
type DemoSyncClient struct {
	Failing map[Platform]bool
	Synced  []Platform
}

func (c *DemoSyncClient) TriggerSync(_ context.Context, platform Platform) error {
	if c.Failing[platform] {
		return fmt.Errorf("analytics: sync %s: upstream unavailable", platform)
	}
	c.Synced = append(c.Synced, platform)
	return nil
}
