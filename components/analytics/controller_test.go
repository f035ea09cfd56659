package analytics

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsekit/go-studio/components/ui"
)

type fakeMetricsRepo struct {
	mu      sync.Mutex
	queries []MetricQuery
	series  MetricSeries
	err     error
	// gate, when set, is invoked before returning so tests can stall a fetch.
	gate func(MetricQuery)
}

func (f *fakeMetricsRepo) FetchMetricSeries(_ context.Context, query MetricQuery) (MetricSeries, error) {
	f.mu.Lock()
	f.queries = append(f.queries, query)
	f.mu.Unlock()
	if f.gate != nil {
		f.gate(query)
	}
	if f.err != nil {
		return MetricSeries{}, f.err
	}
	return f.series, nil
}

func (f *fakeMetricsRepo) recorded() []MetricQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]MetricQuery(nil), f.queries...)
}

func sampleSeries(n int) MetricSeries {
	now := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	points := make([]SeriesPoint, n)
	var total float64
	for i := range points {
		v := float64(100 + i*10)
		points[i] = SeriesPoint{Date: now.AddDate(0, 0, i), Value: v}
		if i > 0 {
			avg := v - 5
			points[i].RollingAvg = &avg
		}
		total += v
	}
	return MetricSeries{Points: points, HasSufficientData: true, Total: total}
}

func newTestController(repo *fakeMetricsRepo, opts ...func(*Options)) *Controller {
	options := Options{
		Metrics:     repo,
		Traffic:     DemoTrafficRepository{},
		Posts:       DemoPostsRepository{},
		Connections: map[Platform]bool{PlatformX: true, PlatformYouTube: true},
	}
	for _, opt := range opts {
		opt(&options)
	}
	return NewController(options)
}

func TestSwitchPlatformIdempotent(t *testing.T) {
	t.Parallel()
	repo := &fakeMetricsRepo{series: sampleSeries(7)}
	c := newTestController(repo)

	c.SwitchPlatform(context.Background(), PlatformX)
	c.SwitchPlatform(context.Background(), PlatformX)

	assert.Equal(t, PlatformX, c.CurrentPlatform())
	// Four X slots, each holding exactly one live handle after both switches.
	assert.Equal(t, 4, c.Slots().LiveCount())
	for _, spec := range platformSlots[PlatformX] {
		slot, ok := c.Slots().Slot(SlotName(PlatformX, spec.metric))
		require.True(t, ok)
		state, _, _ := slot.Snapshot()
		assert.Equal(t, SlotRendered, state)
	}
}

func TestSwitchPlatformDisconnectedIsSelectionOnly(t *testing.T) {
	t.Parallel()
	repo := &fakeMetricsRepo{series: sampleSeries(7)}
	c := newTestController(repo)

	c.SwitchPlatform(context.Background(), PlatformTikTok)

	assert.Equal(t, PlatformTikTok, c.CurrentPlatform())
	assert.Zero(t, c.Slots().LiveCount())
	assert.Empty(t, repo.recorded())
}

func TestSwitchPlatformDestroysOtherPlatformCharts(t *testing.T) {
	t.Parallel()
	repo := &fakeMetricsRepo{series: sampleSeries(7)}
	c := newTestController(repo)

	c.SwitchPlatform(context.Background(), PlatformX)
	require.Equal(t, 4, c.Slots().LiveCount())

	c.SwitchPlatform(context.Background(), PlatformYouTube)

	// Only the YouTube slots are live now; X handles were destroyed.
	assert.Equal(t, 2, c.Slots().LiveCount())
	slot, _ := c.Slots().Slot(SlotName(PlatformX, MetricImpressions))
	assert.False(t, slot.Live())
}

func TestChangeTimeframePropagatesToQueriesAndTitles(t *testing.T) {
	t.Parallel()
	repo := &fakeMetricsRepo{series: sampleSeries(7)}
	c := newTestController(repo)
	c.SwitchPlatform(context.Background(), PlatformX)

	require.NoError(t, c.ChangeTimeframe(context.Background(), Timeframe6Months))

	queries := repo.recorded()
	require.NotEmpty(t, queries)
	for _, q := range queries[4:] {
		assert.Equal(t, Timeframe6Months, q.Timeframe)
	}
	snapshot := c.Snapshot()
	for _, view := range snapshot.Slots {
		assert.True(t, strings.HasPrefix(view.Title, "Weekly "), "title %q", view.Title)
	}

	require.NoError(t, c.ChangeTimeframe(context.Background(), Timeframe30Days))
	for _, view := range c.Snapshot().Slots {
		assert.True(t, strings.HasPrefix(view.Title, "Daily "), "title %q", view.Title)
	}
}

func TestChangeTimeframeRejectsUnknownValue(t *testing.T) {
	t.Parallel()
	c := newTestController(&fakeMetricsRepo{series: sampleSeries(7)})
	err := c.ChangeTimeframe(context.Background(), Timeframe("14days"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errInvalidTimeframe)
}

func TestRollingViewFiltersNullPoints(t *testing.T) {
	t.Parallel()
	avg := 5.0
	series := MetricSeries{
		Points: []SeriesPoint{
			{Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), Value: 10},
			{Date: time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC), Value: 12, RollingAvg: &avg},
		},
		HasSufficientData: true,
	}
	rolling := series.RollingPoints()
	require.Len(t, rolling, 1)
	assert.Equal(t, 5.0, rolling[0].Value)

	repo := &fakeMetricsRepo{series: series}
	c := newTestController(repo)
	c.SwitchPlatform(context.Background(), PlatformX)
	require.NoError(t, c.ToggleChartView(context.Background(), MetricImpressions, ViewRolling))

	slot, _ := c.Slots().Slot(SlotName(PlatformX, MetricImpressions))
	state, html, _ := slot.Snapshot()
	assert.Equal(t, SlotRendered, state)
	assert.Contains(t, html, "Rolling Impressions")
}

func TestRollingViewInsufficientDataNote(t *testing.T) {
	t.Parallel()
	series := sampleSeries(7)
	series.HasSufficientData = false
	repo := &fakeMetricsRepo{series: series}
	c := newTestController(repo)
	c.SwitchPlatform(context.Background(), PlatformX)

	require.NoError(t, c.ToggleChartView(context.Background(), MetricImpressions, ViewRolling))

	slot, _ := c.Slots().Slot(SlotName(PlatformX, MetricImpressions))
	state, html, _ := slot.Snapshot()
	assert.Equal(t, SlotRendered, state)
	assert.Contains(t, html, "Insufficient data")
	assert.False(t, slot.Live())
}

func TestToggleChartViewRejectsNonToggleable(t *testing.T) {
	t.Parallel()
	c := newTestController(&fakeMetricsRepo{series: sampleSeries(7)})
	require.Error(t, c.ToggleChartView(context.Background(), MetricFollowers, ViewRolling))
}

func TestLoaderFailureIsContainedToItsSlot(t *testing.T) {
	t.Parallel()
	repo := &fakeMetricsRepo{err: errors.New("boom")}
	c := newTestController(repo)
	c.SwitchPlatform(context.Background(), PlatformX)

	for _, spec := range platformSlots[PlatformX] {
		slot, _ := c.Slots().Slot(SlotName(PlatformX, spec.metric))
		state, _, message := slot.Snapshot()
		assert.Equal(t, SlotError, state)
		assert.Equal(t, "Failed to load data", message)
	}
}

type msgError struct{ msg string }

func (e msgError) Error() string       { return e.msg }
func (e msgError) UserMessage() string { return e.msg }

func TestLoaderSurfacesServerErrorMessage(t *testing.T) {
	t.Parallel()
	repo := &fakeMetricsRepo{err: msgError{msg: "Account not connected"}}
	c := newTestController(repo)
	c.SwitchPlatform(context.Background(), PlatformX)

	slot, _ := c.Slots().Slot(SlotName(PlatformX, MetricImpressions))
	_, _, message := slot.Snapshot()
	assert.Equal(t, "Account not connected", message)
}

func TestRefreshAllTalliesPartialFailure(t *testing.T) {
	t.Parallel()
	repo := &fakeMetricsRepo{series: sampleSeries(7)}
	sync := &DemoSyncClient{Failing: map[Platform]bool{PlatformYouTube: true}}
	toasts := ui.NewToastCenter()
	c := newTestController(repo, func(o *Options) {
		o.Sync = sync
		o.Toasts = toasts
		o.Connections = map[Platform]bool{PlatformX: true, PlatformYouTube: true, PlatformTikTok: true}
	})
	c.SwitchPlatform(context.Background(), PlatformX)

	failed := c.RefreshAll(context.Background())

	assert.Equal(t, []Platform{PlatformYouTube}, failed)
	assert.ElementsMatch(t, []Platform{PlatformX, PlatformTikTok}, sync.Synced)
	drained := toasts.Drain()
	require.Len(t, drained, 1)
	assert.Equal(t, ui.ToastWarning, drained[0].Level)
	assert.Contains(t, drained[0].Message, "youtube")
}

func TestStaleResponseDoesNotOverwriteNewerOne(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once
	repo := &fakeMetricsRepo{series: sampleSeries(7)}
	c := newTestController(repo)
	c.SwitchPlatform(context.Background(), PlatformX)

	// Stall only the next impressions fetch; later fetches pass through.
	var stallArmed = true
	repo.gate = func(q MetricQuery) {
		if q.Metric == MetricImpressions && stallArmed {
			stallArmed = false
			once.Do(func() { close(started) })
			<-release
		}
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.LoadImpressions(context.Background())
	}()
	<-started

	// A newer timeframe change supersedes the stalled request.
	require.NoError(t, c.ChangeTimeframe(context.Background(), Timeframe6Months))
	close(release)
	<-done

	slot, _ := c.Slots().Slot(SlotName(PlatformX, MetricImpressions))
	state, html, _ := slot.Snapshot()
	assert.Equal(t, SlotRendered, state)
	assert.Contains(t, html, "Weekly Impressions")
	assert.True(t, slot.Live())
}

func TestInitialPlatformResolution(t *testing.T) {
	t.Parallel()
	c := newTestController(&fakeMetricsRepo{series: sampleSeries(7)}, func(o *Options) {
		o.Connections = map[Platform]bool{PlatformYouTube: true, PlatformTikTok: true}
	})

	assert.Equal(t, PlatformTikTok, c.InitialPlatform("tiktok"))
	// Query names an unconnected platform: fall through to first connected.
	assert.Equal(t, PlatformYouTube, c.InitialPlatform("x"))
	assert.Equal(t, PlatformYouTube, c.InitialPlatform(""))
	assert.Equal(t, PlatformYouTube, c.InitialPlatform("garbage"))
}

func TestLoadPostsReFetches(t *testing.T) {
	t.Parallel()
	c := newTestController(&fakeMetricsRepo{series: sampleSeries(7)})
	c.SwitchPlatform(context.Background(), PlatformX)

	page, err := c.LoadPosts(context.Background(), 1, "")
	require.NoError(t, err)
	assert.Equal(t, 1, page.CurrentPage)
	assert.Len(t, page.Items, 10)

	page, err = c.LoadPosts(context.Background(), 3, "")
	require.NoError(t, err)
	assert.Equal(t, 3, page.CurrentPage)
	assert.Len(t, page.Items, 4)

	page, err = c.LoadPosts(context.Background(), 1, "Draft 2")
	require.NoError(t, err)
	assert.Equal(t, "Draft 2", page.Filter)
	for _, item := range page.Items {
		assert.Contains(t, item.Text, "Draft 2")
	}
}
