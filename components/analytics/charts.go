package analytics

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/pulsekit/go-studio/components/ui"
)

const defaultChartHeight = "320px"

// ChartRenderer converts metric series into echarts markup. It is stateless;
// one renderer serves every slot on the page.
type ChartRenderer struct {
	theme      string
	assetsHost string
}

// ChartRendererOption customizes renderer behavior.
type ChartRendererOption func(*ChartRenderer)

// WithTheme sets the echarts theme (defaults to Westeros).
func WithTheme(theme string) ChartRendererOption {
	return func(r *ChartRenderer) {
		r.theme = theme
	}
}

// WithAssetsHost rewrites the assets host so the echarts runtime loads from a
// CDN or self-hosted bucket.
func WithAssetsHost(host string) ChartRendererOption {
	return func(r *ChartRenderer) {
		r.assetsHost = host
	}
}

// NewChartRenderer builds a renderer with the given options.
func NewChartRenderer(options ...ChartRendererOption) *ChartRenderer {
	r := &ChartRenderer{theme: types.ThemeWesteros}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// RenderLine draws a time-series line chart for the given points.
func (r *ChartRenderer) RenderLine(title, seriesName string, points []SeriesPoint) (string, error) {
	if len(points) == 0 {
		return "", fmt.Errorf("analytics: no data points for %q", title)
	}
	line := charts.NewLine()
	line.SetGlobalOptions(r.globalOptions(title, summaryLine(points))...)
	line.SetXAxis(axisLabels(points))
	line.AddSeries(seriesName, toLineData(points))
	line.SetSeriesOptions(charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}))
	return renderChart(line)
}

// RenderBar draws a bucketed bar chart for the given points.
func (r *ChartRenderer) RenderBar(title, seriesName string, points []SeriesPoint) (string, error) {
	if len(points) == 0 {
		return "", fmt.Errorf("analytics: no data points for %q", title)
	}
	bar := charts.NewBar()
	bar.SetGlobalOptions(r.globalOptions(title, summaryLine(points))...)
	bar.SetXAxis(axisLabels(points))
	bar.AddSeries(seriesName, toBarData(points))
	return renderChart(bar)
}

// RenderPie draws the traffic-source breakdown.
func (r *ChartRenderer) RenderPie(title string, slices []TrafficSlice) (string, error) {
	if len(slices) == 0 {
		return "", fmt.Errorf("analytics: no data points for %q", title)
	}
	pie := charts.NewPie()
	pie.SetGlobalOptions(r.globalOptions(title, "")...)
	pie.AddSeries("Traffic sources", toPieData(slices))
	return renderChart(pie)
}

func (r *ChartRenderer) globalOptions(title, subtitle string) []charts.GlobalOpts {
	initOpts := opts.Initialization{
		Theme:  r.theme,
		Width:  "100%",
		Height: defaultChartHeight,
	}
	if r.assetsHost != "" {
		initOpts.AssetsHost = r.assetsHost
	}
	return []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: subtitle}),
		charts.WithInitializationOpts(initOpts),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(false)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func axisLabels(points []SeriesPoint) []string {
	labels := make([]string, len(points))
	for i, p := range points {
		labels[i] = ui.ShortDate(p.Date)
	}
	return labels
}

func toLineData(points []SeriesPoint) []opts.LineData {
	data := make([]opts.LineData, len(points))
	for i, p := range points {
		data[i] = opts.LineData{Name: ui.ShortDate(p.Date), Value: p.Value}
	}
	return data
}

func toBarData(points []SeriesPoint) []opts.BarData {
	data := make([]opts.BarData, len(points))
	for i, p := range points {
		data[i] = opts.BarData{Name: ui.ShortDate(p.Date), Value: p.Value}
	}
	return data
}

func toPieData(slices []TrafficSlice) []opts.PieData {
	data := make([]opts.PieData, len(slices))
	for i, s := range slices {
		name := s.Source
		if name == "" {
			name = fmt.Sprintf("Source %d", i+1)
		}
		data[i] = opts.PieData{Name: name, Value: s.Views}
	}
	return data
}

func summaryLine(points []SeriesPoint) string {
	var total float64
	for _, p := range points {
		total += p.Value
	}
	return "Total: " + ui.AbbreviateCount(total)
}
