package backend

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/pulsekit/go-studio/components/analytics"
)

// FetchMetricSeries implements analytics.MetricSeriesRepository.
func (c *Client) FetchMetricSeries(ctx context.Context, query analytics.MetricQuery) (analytics.MetricSeries, error) {
	params := url.Values{}
	params.Set("timeframe", string(query.Timeframe))

	var series analytics.MetricSeries
	path := fmt.Sprintf("/analytics/%s/%s", query.Platform, query.Metric)
	if err := c.get(ctx, path, params, &series); err != nil {
		return analytics.MetricSeries{}, err
	}
	return series, nil
}

// FetchTrafficSources implements analytics.TrafficSourcesRepository.
func (c *Client) FetchTrafficSources(ctx context.Context, platform analytics.Platform, tf analytics.Timeframe) ([]analytics.TrafficSlice, error) {
	params := url.Values{}
	params.Set("timeframe", string(tf))

	var slices []analytics.TrafficSlice
	path := fmt.Sprintf("/analytics/%s/traffic", platform)
	if err := c.get(ctx, path, params, &slices); err != nil {
		return nil, err
	}
	return slices, nil
}

// FetchPostsPage implements analytics.PostsRepository.
func (c *Client) FetchPostsPage(ctx context.Context, query analytics.PostsQuery) (analytics.PostsPage, error) {
	params := url.Values{}
	params.Set("timeframe", string(query.Timeframe))
	params.Set("page", strconv.Itoa(query.Page))
	params.Set("per_page", strconv.Itoa(query.PerPage))
	if query.Filter != "" {
		params.Set("filter", query.Filter)
	}

	var page analytics.PostsPage
	path := fmt.Sprintf("/analytics/%s/posts", query.Platform)
	if err := c.get(ctx, path, params, &page); err != nil {
		return analytics.PostsPage{}, err
	}
	return page, nil
}

// TriggerSync implements analytics.SyncClient.
func (c *Client) TriggerSync(ctx context.Context, platform analytics.Platform) error {
	path := fmt.Sprintf("/analytics/%s/refresh", platform)
	return c.post(ctx, path, nil, nil)
}
