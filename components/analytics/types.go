package analytics

import (
	"context"
	"time"
)

// Platform identifies a connected social account source.
type Platform string

const (
	PlatformX       Platform = "x"
	PlatformYouTube Platform = "youtube"
	PlatformTikTok  Platform = "tiktok"
	PlatformNone    Platform = "none"
)

// Platforms lists every selectable platform in display order.
func Platforms() []Platform {
	return []Platform{PlatformX, PlatformYouTube, PlatformTikTok}
}

// ParsePlatform maps a URL query value onto a known platform. Unknown values
// resolve to PlatformNone so the caller can fall back to connection flags.
func ParsePlatform(raw string) Platform {
	switch Platform(raw) {
	case PlatformX, PlatformYouTube, PlatformTikTok:
		return Platform(raw)
	default:
		return PlatformNone
	}
}

// Timeframe selects the aggregation window sent with every metric fetch.
type Timeframe string

const (
	Timeframe7Days   Timeframe = "7days"
	Timeframe30Days  Timeframe = "30days"
	Timeframe90Days  Timeframe = "90days"
	Timeframe6Months Timeframe = "6months"
)

// Valid reports whether the timeframe is one the server recognizes.
func (tf Timeframe) Valid() bool {
	switch tf {
	case Timeframe7Days, Timeframe30Days, Timeframe90Days, Timeframe6Months:
		return true
	}
	return false
}

// Granularity returns the title prefix for charts under this timeframe. The
// six month window is served pre-bucketed by week; everything else is daily.
func (tf Timeframe) Granularity() string {
	if tf == Timeframe6Months {
		return "Weekly"
	}
	return "Daily"
}

// ViewMode switches impressions/engagement charts between per-period totals
// and the rolling average over recent posts.
type ViewMode string

const (
	ViewDaily   ViewMode = "daily"
	ViewRolling ViewMode = "rolling"
)

// Metric names a single analytics endpoint per platform.
type Metric string

const (
	MetricImpressions      Metric = "impressions"
	MetricEngagement       Metric = "engagement"
	MetricPostsCount       Metric = "posts"
	MetricFollowers        Metric = "followers"
	MetricViews            Metric = "views"
	MetricTraffic          Metric = "traffic"
	MetricTikTokViews      Metric = "tiktok_views"
	MetricTikTokEngagement Metric = "tiktok_engagement"
	MetricTikTokFrequency  Metric = "tiktok_frequency"
)

// SeriesPoint is one bucket of a metric time series. RollingAvg is nil when
// the server has not accumulated enough posts to compute it for that bucket.
type SeriesPoint struct {
	Date       time.Time `json:"date"`
	Value      float64   `json:"value"`
	RollingAvg *float64  `json:"rolling_avg"`
}

// MetricSeries is the reshaped payload of one metric endpoint.
type MetricSeries struct {
	Points            []SeriesPoint `json:"points"`
	HasSufficientData bool          `json:"has_sufficient_data"`
	Total             float64       `json:"total"`
}

// RollingPoints filters out buckets without a rolling average. Nil averages
// are dropped, never rendered as zeros.
func (s MetricSeries) RollingPoints() []SeriesPoint {
	out := make([]SeriesPoint, 0, len(s.Points))
	for _, p := range s.Points {
		if p.RollingAvg == nil {
			continue
		}
		out = append(out, SeriesPoint{Date: p.Date, Value: *p.RollingAvg})
	}
	return out
}

// TrafficSlice is one source bucket of the YouTube traffic breakdown.
type TrafficSlice struct {
	Source string  `json:"source"`
	Views  float64 `json:"views"`
}

// PostItem is one row of the posts table.
type PostItem struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	PublishedAt time.Time `json:"published_at"`
	Impressions float64   `json:"impressions"`
	Likes       int       `json:"likes"`
	Replies     int       `json:"replies"`
	Reposts     int       `json:"reposts"`
}

// PostsPage is a server-paginated slice of the posts table. Pagination and
// filter changes re-fetch; the client never paginates locally.
type PostsPage struct {
	Items        []PostItem `json:"items"`
	CurrentPage  int        `json:"current_page"`
	ItemsPerPage int        `json:"items_per_page"`
	TotalItems   int        `json:"total_items"`
	Filter       string     `json:"filter"`
}

// MetricQuery addresses a single metric fetch.
type MetricQuery struct {
	Platform  Platform
	Metric    Metric
	Timeframe Timeframe
}

// PostsQuery addresses one page of the posts table.
type PostsQuery struct {
	Platform  Platform
	Timeframe Timeframe
	Page      int
	PerPage   int
	Filter    string
}

// MetricSeriesRepository loads metric time series from the analytics API.
type MetricSeriesRepository interface {
	FetchMetricSeries(ctx context.Context, query MetricQuery) (MetricSeries, error)
}

// TrafficSourcesRepository loads the YouTube traffic-source breakdown.
type TrafficSourcesRepository interface {
	FetchTrafficSources(ctx context.Context, platform Platform, tf Timeframe) ([]TrafficSlice, error)
}

// PostsRepository loads server-paginated post tables.
type PostsRepository interface {
	FetchPostsPage(ctx context.Context, query PostsQuery) (PostsPage, error)
}

// SyncClient triggers a server-side re-sync for one platform.
type SyncClient interface {
	TriggerSync(ctx context.Context, platform Platform) error
}

// Telemetry records analytics controller events for observability.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}
