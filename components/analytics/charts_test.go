package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chartPoints(n int) []SeriesPoint {
	base := time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	points := make([]SeriesPoint, n)
	for i := range points {
		points[i] = SeriesPoint{Date: base.AddDate(0, 0, i), Value: float64(1000 + i*500)}
	}
	return points
}

func TestRenderLine(t *testing.T) {
	t.Parallel()
	renderer := NewChartRenderer()
	html, err := renderer.RenderLine("Daily Impressions", "Impressions", chartPoints(5))
	require.NoError(t, err)
	assert.Contains(t, html, "echarts")
	assert.Contains(t, html, "Daily Impressions")
	assert.Contains(t, html, "Apr 1")
}

func TestRenderBar(t *testing.T) {
	t.Parallel()
	renderer := NewChartRenderer()
	html, err := renderer.RenderBar("Daily Posts Published", "Posts", chartPoints(3))
	require.NoError(t, err)
	assert.Contains(t, html, "echarts")
	assert.Contains(t, html, "Daily Posts Published")
}

func TestRenderPie(t *testing.T) {
	t.Parallel()
	renderer := NewChartRenderer()
	html, err := renderer.RenderPie("Traffic Sources", []TrafficSlice{
		{Source: "Search", Views: 1200},
		{Source: "Suggested", Views: 800},
	})
	require.NoError(t, err)
	assert.Contains(t, html, "echarts")
	assert.Contains(t, html, "Search")
}

func TestRenderRejectsEmptySeries(t *testing.T) {
	t.Parallel()
	renderer := NewChartRenderer()
	_, err := renderer.RenderLine("Empty", "None", nil)
	require.Error(t, err)
	_, err = renderer.RenderPie("Empty", nil)
	require.Error(t, err)
}

func TestSummaryLineAbbreviates(t *testing.T) {
	t.Parallel()
	points := []SeriesPoint{{Value: 700_000}, {Value: 800_000}}
	assert.Equal(t, "Total: 1.5M", summaryLine(points))
}
