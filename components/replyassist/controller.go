package replyassist

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/pulsekit/go-studio/components/ui"
	"github.com/pulsekit/go-studio/pkg/store"
)

const (
	brandVoicePrefKey = "reply_assist.brand_voice"

	defaultGIFRate  = rate.Limit(1)
	defaultGIFBurst = 3
)

var (
	// ErrNoListSelected is returned by operations that need an active list.
	ErrNoListSelected = errors.New("replyassist: no list selected")
	// ErrUnknownOpportunity is returned when an opportunity ID does not
	// belong to the current result set.
	ErrUnknownOpportunity = errors.New("replyassist: unknown opportunity")
	// ErrGenerationInFlight rejects duplicate generate requests for the
	// same opportunity.
	ErrGenerationInFlight = errors.New("replyassist: generation already running")
	// ErrBrandVoiceUnavailable is returned when the per-account voice model
	// has no source material yet.
	ErrBrandVoiceUnavailable = errors.New("replyassist: brand voice not ready")
	// ErrNoGIFSelected is returned by SelectGIF for IDs outside the panel.
	ErrNoGIFSelected = errors.New("replyassist: gif not in current candidates")
)

// Options configures a reply-assistant Controller.
type Options struct {
	Lists      ListRepository
	Generator  ReplyGenerator
	GIFs       GIFClient
	BrandVoice BrandVoiceClient
	Sessions   store.SessionStore
	Prefs      store.PreferenceStore

	UserID       string
	Toasts       *ui.ToastCenter
	Telemetry    Telemetry
	PollInterval time.Duration

	// GIFRate and GIFBurst bound upstream GIF searches; zero values take
	// the defaults.
	GIFRate  rate.Limit
	GIFBurst int

	// OnAnalysisDone observes job completion; the controller already
	// refreshes opportunities and raises toasts before calling it.
	OnAnalysisDone func(listID string, status UpdateStatus)
}

// Controller is the state holder for one mounted reply-assistant page.
type Controller struct {
	opts      Options
	telemetry Telemetry
	gifs      *GIFCache
	tracker   *UpdateTracker

	mu            sync.Mutex
	lists         []List
	selectedList  string
	opportunities []Opportunity
	replies       map[string]GeneratedReply
	panels        map[string]*GIFPanel
	generating    map[string]bool
	voiceReady    bool
	voiceGlobal   bool
	voicePerOpp   map[string]bool
}

// NewController builds an idle controller; Mount loads initial state.
func NewController(opts Options) (*Controller, error) {
	if opts.Lists == nil {
		return nil, errors.New("replyassist: Options.Lists is required")
	}
	if opts.Generator == nil {
		return nil, errors.New("replyassist: Options.Generator is required")
	}
	if opts.Sessions == nil {
		opts.Sessions = store.NewMemorySessionStore(store.DefaultSessionTTL)
	}
	if opts.Prefs == nil {
		opts.Prefs = store.NewMemoryPreferenceStore()
	}
	if opts.GIFRate == 0 {
		opts.GIFRate = defaultGIFRate
	}
	if opts.GIFBurst == 0 {
		opts.GIFBurst = defaultGIFBurst
	}

	c := &Controller{
		opts:        opts,
		telemetry:   normalizeTelemetry(opts.Telemetry),
		replies:     map[string]GeneratedReply{},
		panels:      map[string]*GIFPanel{},
		generating:  map[string]bool{},
		voicePerOpp: map[string]bool{},
	}
	if opts.GIFs != nil {
		c.gifs = NewGIFCache(opts.GIFs, opts.GIFRate, opts.GIFBurst)
	}
	c.tracker = NewUpdateTracker(opts.Lists, opts.Sessions, opts.PollInterval, c.analysisDone)
	return c, nil
}

// Mount loads lists, resumes persisted analysis jobs, restores the brand
// voice preference, and selects the default list.
func (c *Controller) Mount(ctx context.Context) error {
	lists, err := c.opts.Lists.FetchLists(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.lists = lists
	c.mu.Unlock()

	if err := c.tracker.Resume(ctx, lists); err != nil {
		return err
	}
	c.restoreBrandVoice(ctx)

	for _, list := range lists {
		if list.IsDefault {
			return c.SelectList(ctx, list.ID)
		}
	}
	if len(lists) > 0 {
		return c.SelectList(ctx, lists[0].ID)
	}
	return nil
}

// Lists returns the available lists.
func (c *Controller) Lists() []List {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]List, len(c.lists))
	copy(out, c.lists)
	return out
}

// SelectedList returns the active list ID, or "" when none is selected.
func (c *Controller) SelectedList() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedList
}

// SelectList switches the active list and loads its current opportunities.
// Reply drafts and GIF panels belong to the previous result set and are
// discarded.
func (c *Controller) SelectList(ctx context.Context, listID string) error {
	opportunities, err := c.opts.Lists.FetchOpportunities(ctx, listID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.selectedList = listID
	c.opportunities = opportunities
	c.replies = map[string]GeneratedReply{}
	c.panels = map[string]*GIFPanel{}
	c.generating = map[string]bool{}
	c.voicePerOpp = map[string]bool{}
	c.mu.Unlock()

	c.telemetry.Record(ctx, "replyassist.list.selected", map[string]any{
		"list":          listID,
		"opportunities": len(opportunities),
	})
	return nil
}

// Opportunities returns the current result set.
func (c *Controller) Opportunities() []Opportunity {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Opportunity, len(c.opportunities))
	copy(out, c.opportunities)
	return out
}

// StartAnalysis kicks off a fresh background scan of the selected list and
// tracks it for polling. Starting a list that is already being tracked is a
// no-op.
func (c *Controller) StartAnalysis(ctx context.Context) error {
	c.mu.Lock()
	listID := c.selectedList
	c.mu.Unlock()
	if listID == "" {
		return ErrNoListSelected
	}
	if c.tracker.Tracking(listID) {
		return nil
	}

	if err := c.opts.Lists.StartListAnalysis(ctx, listID); err != nil {
		c.opts.Toasts.Push(ui.ToastError, "Could not start list analysis")
		return err
	}
	if err := c.tracker.Track(ctx, listID); err != nil {
		return err
	}

	c.opts.Toasts.Push(ui.ToastInfo, "List analysis started")
	c.telemetry.Record(ctx, "replyassist.analysis.started", map[string]any{"list": listID})
	return nil
}

// AnalysisRunning reports whether the given list has a tracked job.
func (c *Controller) AnalysisRunning(listID string) bool {
	return c.tracker.Tracking(listID)
}

// analysisDone runs on the poller goroutine once per finished job.
func (c *Controller) analysisDone(listID string, status UpdateStatus) {
	ctx := context.Background()

	switch status {
	case UpdateCompleted:
		c.opts.Toasts.Push(ui.ToastSuccess, "List analysis finished")
		c.mu.Lock()
		current := c.selectedList == listID
		c.mu.Unlock()
		if current {
			// Refresh failures keep the stale result set on screen.
			if opportunities, err := c.opts.Lists.FetchOpportunities(ctx, listID); err == nil {
				c.mu.Lock()
				c.opportunities = opportunities
				c.mu.Unlock()
			}
		}
	case UpdateFailed:
		c.opts.Toasts.Push(ui.ToastError, "List analysis failed")
	}

	c.telemetry.Record(ctx, "replyassist.analysis.done", map[string]any{
		"list":   listID,
		"status": string(status),
	})
	if c.opts.OnAnalysisDone != nil {
		c.opts.OnAnalysisDone(listID, status)
	}
}

// GenerateReply asks the server for a suggestion on one opportunity. While a
// request is in flight further requests for the same opportunity are
// rejected. When the reply carries GIF queries the first query's candidates
// are prefetched into the panel.
func (c *Controller) GenerateReply(ctx context.Context, opportunityID string) (GeneratedReply, error) {
	c.mu.Lock()
	if !c.hasOpportunityLocked(opportunityID) {
		c.mu.Unlock()
		return GeneratedReply{}, ErrUnknownOpportunity
	}
	if c.generating[opportunityID] {
		c.mu.Unlock()
		return GeneratedReply{}, ErrGenerationInFlight
	}
	c.generating[opportunityID] = true
	voice := c.voiceEnabledLocked(opportunityID)
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.generating, opportunityID)
		c.mu.Unlock()
	}()

	reply, err := c.opts.Generator.GenerateReply(ctx, opportunityID, voice)
	if err != nil {
		c.opts.Toasts.Push(ui.ToastError, "Could not generate a reply")
		return GeneratedReply{}, err
	}

	panel := &GIFPanel{Queries: reply.GIFQueries}
	if c.gifs != nil && panel.Query() != "" {
		if gifs, err := c.gifs.Search(ctx, panel.Query()); err == nil {
			panel.Candidates = gifs
		}
	}

	c.mu.Lock()
	c.replies[opportunityID] = reply
	c.panels[opportunityID] = panel
	c.mu.Unlock()

	c.telemetry.Record(ctx, "replyassist.reply.generated", map[string]any{
		"opportunity": opportunityID,
		"brand_voice": voice,
		"gif_queries": len(reply.GIFQueries),
	})
	return reply, nil
}

// Reply returns the stored suggestion for an opportunity.
func (c *Controller) Reply(opportunityID string) (GeneratedReply, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	reply, ok := c.replies[opportunityID]
	return reply, ok
}

// Panel returns a copy of the opportunity's GIF picker state.
func (c *Controller) Panel(opportunityID string) (GIFPanel, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	panel, ok := c.panels[opportunityID]
	if !ok {
		return GIFPanel{}, false
	}
	return *panel, true
}

// NextGIFQuery advances the opportunity's panel to the following query and
// loads its candidates. At the last query it is a no-op.
func (c *Controller) NextGIFQuery(ctx context.Context, opportunityID string) error {
	return c.stepGIFQuery(ctx, opportunityID, 1)
}

// PrevGIFQuery steps the panel back one query.
func (c *Controller) PrevGIFQuery(ctx context.Context, opportunityID string) error {
	return c.stepGIFQuery(ctx, opportunityID, -1)
}

func (c *Controller) stepGIFQuery(ctx context.Context, opportunityID string, delta int) error {
	c.mu.Lock()
	panel, ok := c.panels[opportunityID]
	if !ok {
		c.mu.Unlock()
		return ErrUnknownOpportunity
	}
	next := panel.Index + delta
	if next < 0 || next >= len(panel.Queries) {
		c.mu.Unlock()
		return nil
	}
	panel.Index = next
	query := panel.Query()
	c.mu.Unlock()

	if c.gifs == nil || query == "" {
		return nil
	}
	gifs, err := c.gifs.Search(ctx, query)
	if err != nil {
		c.opts.Toasts.Push(ui.ToastError, "Could not load GIFs")
		return err
	}

	c.mu.Lock()
	if current, ok := c.panels[opportunityID]; ok && current.Query() == query {
		current.Candidates = gifs
	}
	c.mu.Unlock()
	return nil
}

// SelectGIF resolves gifID against the opportunity's candidates, registers
// the share without waiting on it, and returns the image bytes for the
// download step.
func (c *Controller) SelectGIF(ctx context.Context, opportunityID, gifID string) ([]byte, error) {
	c.mu.Lock()
	panel, ok := c.panels[opportunityID]
	if !ok {
		c.mu.Unlock()
		return nil, ErrUnknownOpportunity
	}
	var selected *GIF
	for i := range panel.Candidates {
		if panel.Candidates[i].ID == gifID {
			selected = &panel.Candidates[i]
			break
		}
	}
	c.mu.Unlock()
	if selected == nil {
		return nil, ErrNoGIFSelected
	}

	gif := *selected
	go func() {
		// Share outcome never blocks the download.
		_ = c.opts.GIFs.ShareGIF(context.Background(), gif)
	}()

	data, err := c.opts.GIFs.DownloadGIF(ctx, gif)
	if err != nil {
		c.opts.Toasts.Push(ui.ToastError, "Could not download the GIF")
		return nil, err
	}

	c.telemetry.Record(ctx, "replyassist.gif.selected", map[string]any{
		"opportunity": opportunityID,
		"gif":         gifID,
	})
	return data, nil
}

// BrandVoiceReady reports whether the voice model can be enabled at all.
func (c *Controller) BrandVoiceReady() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.voiceReady
}

// BrandVoiceEnabled reports the effective setting for one opportunity: a
// per-opportunity override when present, otherwise the global toggle.
func (c *Controller) BrandVoiceEnabled(opportunityID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.voiceEnabledLocked(opportunityID)
}

// SetBrandVoice flips the global toggle, cascades it over every
// per-opportunity override, and persists the choice.
func (c *Controller) SetBrandVoice(ctx context.Context, on bool) error {
	c.mu.Lock()
	if on && !c.voiceReady {
		c.mu.Unlock()
		return ErrBrandVoiceUnavailable
	}
	c.voiceGlobal = on
	c.voicePerOpp = map[string]bool{}
	c.mu.Unlock()

	value := "off"
	if on {
		value = "on"
	}
	if err := c.opts.Prefs.SavePreference(ctx, c.opts.UserID, brandVoicePrefKey, value); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "replyassist.brandvoice.toggled", map[string]any{"enabled": on})
	return nil
}

// SetOpportunityBrandVoice overrides the toggle for a single opportunity
// without touching the global setting.
func (c *Controller) SetOpportunityBrandVoice(opportunityID string, on bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasOpportunityLocked(opportunityID) {
		return ErrUnknownOpportunity
	}
	if on && !c.voiceReady {
		return ErrBrandVoiceUnavailable
	}
	c.voicePerOpp[opportunityID] = on
	return nil
}

// Close stops the background poller.
func (c *Controller) Close() {
	c.tracker.Close()
}

func (c *Controller) hasOpportunityLocked(opportunityID string) bool {
	for _, opp := range c.opportunities {
		if opp.ID == opportunityID {
			return true
		}
	}
	return false
}

func (c *Controller) voiceEnabledLocked(opportunityID string) bool {
	if !c.voiceReady {
		return false
	}
	if override, ok := c.voicePerOpp[opportunityID]; ok {
		return override
	}
	return c.voiceGlobal
}

func (c *Controller) restoreBrandVoice(ctx context.Context) {
	ready := false
	if c.opts.BrandVoice != nil {
		var err error
		ready, err = c.opts.BrandVoice.BrandVoiceReady(ctx)
		if err != nil {
			ready = false
		}
	}

	enabled := false
	if ready {
		if value, ok, err := c.opts.Prefs.Preference(ctx, c.opts.UserID, brandVoicePrefKey); err == nil && ok {
			enabled = value == "on"
		}
	}

	c.mu.Lock()
	c.voiceReady = ready
	c.voiceGlobal = enabled
	c.mu.Unlock()
}

// TrackedLists returns the IDs under poll, sorted for stable output.
func (c *Controller) TrackedLists() []string {
	ids := c.tracker.Active()
	sort.Strings(ids)
	return ids
}
