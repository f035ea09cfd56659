package analytics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/pulsekit/go-studio/components/ui"
)

var (
	errMissingMetricsRepo = errors.New("analytics: metric series repository not configured")
	errInvalidTimeframe   = errors.New("analytics: unknown timeframe")
)

type chartKind string

const (
	chartLine chartKind = "line"
	chartBar  chartKind = "bar"
	chartPie  chartKind = "pie"
)

// slotSpec describes one chart slot of a platform page.
type slotSpec struct {
	metric     Metric
	kind       chartKind
	title      string
	series     string
	toggleable bool
}

var platformSlots = map[Platform][]slotSpec{
	PlatformX: {
		{metric: MetricImpressions, kind: chartLine, title: "Impressions", series: "Impressions", toggleable: true},
		{metric: MetricEngagement, kind: chartLine, title: "Engagement", series: "Engagement", toggleable: true},
		{metric: MetricPostsCount, kind: chartBar, title: "Posts Published", series: "Posts"},
		{metric: MetricFollowers, kind: chartLine, title: "Followers", series: "Followers"},
	},
	PlatformYouTube: {
		{metric: MetricViews, kind: chartLine, title: "Views", series: "Views"},
		{metric: MetricTraffic, kind: chartPie, title: "Traffic Sources"},
	},
	PlatformTikTok: {
		{metric: MetricTikTokViews, kind: chartLine, title: "Views", series: "Views"},
		{metric: MetricTikTokEngagement, kind: chartLine, title: "Engagement", series: "Engagement"},
		{metric: MetricTikTokFrequency, kind: chartBar, title: "Posting Frequency", series: "Posts"},
	},
}

// SlotName derives the registry key for a platform metric.
func SlotName(platform Platform, metric Metric) string {
	return string(platform) + "." + string(metric)
}

// Options configures the analytics page controller. Collaborators arrive via
// interface so transports and tests can swap implementations.
type Options struct {
	Metrics     MetricSeriesRepository
	Traffic     TrafficSourcesRepository
	Posts       PostsRepository
	Sync        SyncClient
	Renderer    *ChartRenderer
	Connections map[Platform]bool
	Toasts      *ui.ToastCenter
	Telemetry   Telemetry
	// Manifest overrides the built-in slot layout when provided.
	Manifest *PlatformManifestDocument
}

// Controller owns the analytics page state: active platform, timeframe,
// per-chart view modes, and the chart slot registry. One controller is
// constructed per page mount.
type Controller struct {
	opts   Options
	slots  *SlotRegistry
	layout map[Platform][]slotSpec

	mu        sync.Mutex
	platform  Platform
	timeframe Timeframe
	viewModes map[Metric]ViewMode
	postsPage PostsPage
}

// NewController builds a controller with slots registered for every platform.
func NewController(opts Options) *Controller {
	if opts.Renderer == nil {
		opts.Renderer = NewChartRenderer()
	}
	if opts.Connections == nil {
		opts.Connections = map[Platform]bool{}
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	layout := platformSlots
	if opts.Manifest != nil {
		layout = opts.Manifest.slotLayout()
	}
	c := &Controller{
		opts:      opts,
		slots:     NewSlotRegistry(),
		layout:    layout,
		platform:  PlatformNone,
		timeframe: Timeframe30Days,
		viewModes: map[Metric]ViewMode{
			MetricImpressions: ViewDaily,
			MetricEngagement:  ViewDaily,
		},
	}
	for _, platform := range Platforms() {
		for _, spec := range layout[platform] {
			_, _ = c.slots.Register(SlotName(platform, spec.metric))
		}
	}
	return c
}

// Slots exposes the slot registry, mainly for snapshots and tests.
func (c *Controller) Slots() *SlotRegistry { return c.slots }

// CurrentPlatform returns the active platform.
func (c *Controller) CurrentPlatform() Platform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.platform
}

// CurrentTimeframe returns the active timeframe.
func (c *Controller) CurrentTimeframe() Timeframe {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timeframe
}

// ViewMode returns the view mode for a toggleable chart.
func (c *Controller) ViewMode(metric Metric) ViewMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	if mode, ok := c.viewModes[metric]; ok {
		return mode
	}
	return ViewDaily
}

// Connected reports whether a platform has a linked account.
func (c *Controller) Connected(platform Platform) bool {
	return c.opts.Connections[platform]
}

// InitialPlatform resolves the platform shown on first load: the ?platform=
// query value when that platform is connected, otherwise the first connected
// platform, otherwise none.
func (c *Controller) InitialPlatform(queryParam string) Platform {
	if p := ParsePlatform(queryParam); p != PlatformNone && c.Connected(p) {
		return p
	}
	for _, p := range Platforms() {
		if c.Connected(p) {
			return p
		}
	}
	return PlatformNone
}

// SwitchPlatform destroys every live chart handle, makes the target platform
// the visible one, and re-runs its full load sequence. Switching to a
// platform that was never connected only updates the selection.
func (c *Controller) SwitchPlatform(ctx context.Context, platform Platform) {
	c.slots.DestroyAll()
	c.mu.Lock()
	c.platform = platform
	c.mu.Unlock()
	c.opts.Telemetry.Record(ctx, "analytics.platform.switch", map[string]any{
		"platform":  string(platform),
		"connected": c.Connected(platform),
	})
	if !c.Connected(platform) {
		return
	}
	c.loadPlatform(ctx, platform)
}

// ChangeTimeframe updates the global timeframe and reloads only the current
// platform's charts. Chart titles pick up the new granularity prefix.
func (c *Controller) ChangeTimeframe(ctx context.Context, tf Timeframe) error {
	if !tf.Valid() {
		return fmt.Errorf("%w: %q", errInvalidTimeframe, tf)
	}
	c.mu.Lock()
	c.timeframe = tf
	platform := c.platform
	c.mu.Unlock()
	c.opts.Telemetry.Record(ctx, "analytics.timeframe.change", map[string]any{"timeframe": string(tf)})
	if c.Connected(platform) {
		c.loadPlatform(ctx, platform)
	}
	return nil
}

// ToggleChartView flips one chart between daily and rolling mode and
// re-renders only that chart.
func (c *Controller) ToggleChartView(ctx context.Context, metric Metric, mode ViewMode) error {
	spec, ok := c.findSpec(metric)
	if !ok || !spec.toggleable {
		return fmt.Errorf("analytics: chart %s has no view toggle", metric)
	}
	c.mu.Lock()
	c.viewModes[metric] = mode
	platform := c.platform
	c.mu.Unlock()
	if c.Connected(platform) {
		c.loadSlot(ctx, platform, spec)
	}
	return nil
}

// Per-metric loaders. Each one fetches its own endpoint independently; a
// failure is contained to its slot.

func (c *Controller) LoadImpressions(ctx context.Context) { c.loadMetric(ctx, MetricImpressions) }
func (c *Controller) LoadEngagement(ctx context.Context)  { c.loadMetric(ctx, MetricEngagement) }
func (c *Controller) LoadPostsCount(ctx context.Context)  { c.loadMetric(ctx, MetricPostsCount) }
func (c *Controller) LoadFollowers(ctx context.Context)   { c.loadMetric(ctx, MetricFollowers) }
func (c *Controller) LoadYouTubeViews(ctx context.Context) {
	c.loadMetric(ctx, MetricViews)
}
func (c *Controller) LoadYouTubeTraffic(ctx context.Context) {
	c.loadMetric(ctx, MetricTraffic)
}
func (c *Controller) LoadTikTokViews(ctx context.Context) { c.loadMetric(ctx, MetricTikTokViews) }
func (c *Controller) LoadTikTokEngagement(ctx context.Context) {
	c.loadMetric(ctx, MetricTikTokEngagement)
}
func (c *Controller) LoadTikTokFrequency(ctx context.Context) {
	c.loadMetric(ctx, MetricTikTokFrequency)
}

func (c *Controller) loadMetric(ctx context.Context, metric Metric) {
	spec, ok := c.findSpec(metric)
	if !ok {
		return
	}
	c.loadSlot(ctx, c.CurrentPlatform(), spec)
}

// RefreshAll triggers a server-side re-sync for every connected platform.
// Failures are tallied per platform and surfaced as one warning toast;
// successful platforms reload.
func (c *Controller) RefreshAll(ctx context.Context) []Platform {
	var failed []Platform
	var succeeded []Platform
	for _, platform := range Platforms() {
		if !c.Connected(platform) {
			continue
		}
		if c.opts.Sync == nil {
			failed = append(failed, platform)
			continue
		}
		if err := c.opts.Sync.TriggerSync(ctx, platform); err != nil {
			failed = append(failed, platform)
			c.opts.Telemetry.Record(ctx, "analytics.refresh.error", map[string]any{
				"platform": string(platform),
				"error":    err.Error(),
			})
			continue
		}
		succeeded = append(succeeded, platform)
	}
	if len(failed) > 0 && c.opts.Toasts != nil {
		names := make([]string, len(failed))
		for i, p := range failed {
			names[i] = string(p)
		}
		c.opts.Toasts.Push(ui.ToastWarning, "Refresh failed for: "+strings.Join(names, ", "))
	}
	current := c.CurrentPlatform()
	for _, platform := range succeeded {
		if platform == current {
			c.loadPlatform(ctx, platform)
		}
	}
	c.opts.Telemetry.Record(ctx, "analytics.refresh.all", map[string]any{
		"succeeded": len(succeeded),
		"failed":    len(failed),
	})
	return failed
}

// LoadPosts fetches one server-paginated page of the posts table.
func (c *Controller) LoadPosts(ctx context.Context, page int, filter string) (PostsPage, error) {
	if c.opts.Posts == nil {
		return PostsPage{}, errors.New("analytics: posts repository not configured")
	}
	if page < 1 {
		page = 1
	}
	c.mu.Lock()
	platform := c.platform
	tf := c.timeframe
	perPage := c.postsPage.ItemsPerPage
	c.mu.Unlock()
	if perPage <= 0 {
		perPage = 10
	}
	result, err := c.opts.Posts.FetchPostsPage(ctx, PostsQuery{
		Platform:  platform,
		Timeframe: tf,
		Page:      page,
		PerPage:   perPage,
		Filter:    filter,
	})
	if err != nil {
		return PostsPage{}, fmt.Errorf("analytics: fetch posts page: %w", err)
	}
	c.mu.Lock()
	c.postsPage = result
	c.mu.Unlock()
	return result, nil
}

// PostsSnapshot returns the last fetched posts page.
func (c *Controller) PostsSnapshot() PostsPage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.postsPage
}

func (c *Controller) loadPlatform(ctx context.Context, platform Platform) {
	for _, spec := range c.layout[platform] {
		c.loadSlot(ctx, platform, spec)
	}
}

func (c *Controller) loadSlot(ctx context.Context, platform Platform, spec slotSpec) {
	slot, ok := c.slots.Slot(SlotName(platform, spec.metric))
	if !ok {
		return
	}
	token := slot.Begin()

	c.mu.Lock()
	tf := c.timeframe
	mode := c.viewModes[spec.metric]
	c.mu.Unlock()

	if spec.kind == chartPie {
		c.loadTrafficSlot(ctx, slot, token, platform, tf, spec)
		return
	}
	if c.opts.Metrics == nil {
		slot.Fail(token, errMissingMetricsRepo.Error())
		return
	}
	series, err := c.opts.Metrics.FetchMetricSeries(ctx, MetricQuery{
		Platform:  platform,
		Metric:    spec.metric,
		Timeframe: tf,
	})
	if err != nil {
		slot.Fail(token, userMessage(err))
		c.opts.Telemetry.Record(ctx, "analytics.slot.error", map[string]any{
			"slot":  slot.Name(),
			"error": err.Error(),
		})
		return
	}

	points := series.Points
	title := tf.Granularity() + " " + spec.title
	if spec.toggleable && mode == ViewRolling {
		if !series.HasSufficientData {
			slot.Commit(token, nil, insufficientDataNote(spec.title))
			return
		}
		points = series.RollingPoints()
		if len(points) == 0 {
			slot.Commit(token, nil, insufficientDataNote(spec.title))
			return
		}
		title = "Rolling " + spec.title
	}
	if len(points) == 0 {
		slot.Commit(token, nil, emptyStateNote(spec.title))
		return
	}

	var html string
	switch spec.kind {
	case chartBar:
		html, err = c.opts.Renderer.RenderBar(title, spec.series, points)
	default:
		html, err = c.opts.Renderer.RenderLine(title, spec.series, points)
	}
	if err != nil {
		slot.Fail(token, "Failed to render chart")
		return
	}
	slot.Commit(token, NewChartHandle(), html)
}

func (c *Controller) loadTrafficSlot(ctx context.Context, slot *ChartSlot, token LoadToken, platform Platform, tf Timeframe, spec slotSpec) {
	if c.opts.Traffic == nil {
		slot.Fail(token, "Failed to load data")
		return
	}
	slices, err := c.opts.Traffic.FetchTrafficSources(ctx, platform, tf)
	if err != nil {
		slot.Fail(token, userMessage(err))
		return
	}
	if len(slices) == 0 {
		slot.Commit(token, nil, emptyStateNote(spec.title))
		return
	}
	html, err := c.opts.Renderer.RenderPie(spec.title, slices)
	if err != nil {
		slot.Fail(token, "Failed to render chart")
		return
	}
	slot.Commit(token, NewChartHandle(), html)
}

func (c *Controller) findSpec(metric Metric) (slotSpec, bool) {
	for _, specs := range c.layout {
		for _, spec := range specs {
			if spec.metric == metric {
				return spec, true
			}
		}
	}
	return slotSpec{}, false
}

func insufficientDataNote(title string) string {
	return fmt.Sprintf(`<div class="chart-note">Insufficient data for rolling %s view</div>`, strings.ToLower(title))
}

func emptyStateNote(title string) string {
	return fmt.Sprintf(`<div class="chart-note">No %s data for this period</div>`, strings.ToLower(title))
}

// userFacing errors carry a message safe to show in a slot placeholder.
// Server-reported logical errors surface their payload message this way.
type userFacing interface {
	UserMessage() string
}

func userMessage(err error) string {
	var uf userFacing
	if errors.As(err, &uf) && uf.UserMessage() != "" {
		return uf.UserMessage()
	}
	return "Failed to load data"
}
