package calendar

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/pulsekit/go-studio/components/ui"
	"github.com/pulsekit/go-studio/pkg/store"
)

// ViewMode selects how the month is presented.
type ViewMode string

const (
	ViewMonth  ViewMode = "month"
	ViewTable  ViewMode = "table"
	ViewKanban ViewMode = "kanban"
)

// WeekStart is the first weekday of the month grid.
type WeekStart string

const (
	WeekStartSunday WeekStart = "sunday"
	WeekStartMonday WeekStart = "monday"
)

const weekStartPrefKey = "calendar.week_start"

var (
	// ErrUnknownEvent is returned for IDs outside the loaded month.
	ErrUnknownEvent = errors.New("calendar: unknown event")
	// ErrInvalidView rejects view modes the page does not render.
	ErrInvalidView = errors.New("calendar: invalid view mode")
	// ErrEmptyTitle rejects drafts without a title.
	ErrEmptyTitle = errors.New("calendar: event title is required")
)

// Options configures a calendar Controller.
type Options struct {
	Events EventRepository
	Prefs  store.PreferenceStore

	UserID    string
	Toasts    *ui.ToastCenter
	Telemetry Telemetry

	// Now supplies the clock; tests override it.
	Now func() time.Time
}

// Controller is the state holder for one mounted calendar page: the loaded
// month, its events, the active view, and the week-start preference.
type Controller struct {
	opts      Options
	telemetry Telemetry

	mu        sync.Mutex
	anchor    time.Time
	events    []Event
	view      ViewMode
	weekStart WeekStart
}

// NewController builds an idle controller; Mount loads initial state.
func NewController(opts Options) (*Controller, error) {
	if opts.Events == nil {
		return nil, errors.New("calendar: Options.Events is required")
	}
	if opts.Prefs == nil {
		opts.Prefs = store.NewMemoryPreferenceStore()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Controller{
		opts:      opts,
		telemetry: normalizeTelemetry(opts.Telemetry),
		view:      ViewMonth,
		weekStart: WeekStartSunday,
	}, nil
}

// Mount restores the week-start preference and loads the current month.
func (c *Controller) Mount(ctx context.Context) error {
	if value, ok, err := c.opts.Prefs.Preference(ctx, c.opts.UserID, weekStartPrefKey); err == nil && ok {
		if ws := WeekStart(value); ws == WeekStartSunday || ws == WeekStartMonday {
			c.mu.Lock()
			c.weekStart = ws
			c.mu.Unlock()
		}
	}
	return c.LoadMonth(ctx, c.opts.Now())
}

// LoadMonth replaces the loaded events with the month containing anchor.
func (c *Controller) LoadMonth(ctx context.Context, anchor time.Time) error {
	anchor = monthStart(anchor)
	events, err := c.opts.Events.FetchMonth(ctx, anchor)
	if err != nil {
		c.opts.Toasts.Push(ui.ToastError, "Failed to load the calendar")
		return err
	}

	c.mu.Lock()
	c.anchor = anchor
	c.events = events
	c.mu.Unlock()
	return nil
}

// NextMonth advances the loaded month.
func (c *Controller) NextMonth(ctx context.Context) error {
	c.mu.Lock()
	next := c.anchor.AddDate(0, 1, 0)
	c.mu.Unlock()
	return c.LoadMonth(ctx, next)
}

// PrevMonth steps the loaded month back.
func (c *Controller) PrevMonth(ctx context.Context) error {
	c.mu.Lock()
	prev := c.anchor.AddDate(0, -1, 0)
	c.mu.Unlock()
	return c.LoadMonth(ctx, prev)
}

// Anchor returns the first day of the loaded month.
func (c *Controller) Anchor() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.anchor
}

// Events returns the loaded events.
func (c *Controller) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

// Event returns one loaded event by ID.
func (c *Controller) Event(id string) (Event, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, event := range c.events {
		if event.ID == id {
			return event, true
		}
	}
	return Event{}, false
}

// SetView switches the presentation mode.
func (c *Controller) SetView(mode ViewMode) error {
	switch mode {
	case ViewMonth, ViewTable, ViewKanban:
	default:
		return ErrInvalidView
	}
	c.mu.Lock()
	c.view = mode
	c.mu.Unlock()
	return nil
}

// View returns the active presentation mode.
func (c *Controller) View() ViewMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// SetWeekStart persists the grid's first weekday.
func (c *Controller) SetWeekStart(ctx context.Context, ws WeekStart) error {
	if ws != WeekStartSunday && ws != WeekStartMonday {
		return errors.New("calendar: invalid week start")
	}
	c.mu.Lock()
	c.weekStart = ws
	c.mu.Unlock()
	return c.opts.Prefs.SavePreference(ctx, c.opts.UserID, weekStartPrefKey, string(ws))
}

// WeekStartDay returns the configured first weekday.
func (c *Controller) WeekStartDay() WeekStart {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.weekStart
}

// CreateEvent submits a new event and reloads the month so the page shows
// the server's view of it.
func (c *Controller) CreateEvent(ctx context.Context, draft EventDraft) (Event, error) {
	if draft.Title == "" {
		return Event{}, ErrEmptyTitle
	}
	created, err := c.opts.Events.CreateEvent(ctx, draft)
	if err != nil {
		c.opts.Toasts.Push(ui.ToastError, "Failed to create the event")
		return Event{}, err
	}

	c.telemetry.Record(ctx, "calendar.event.created", map[string]any{
		"platform": string(created.Platform),
		"status":   string(created.Status),
	})
	return created, c.reload(ctx)
}

// UpdateEvent submits edited fields and reloads the month.
func (c *Controller) UpdateEvent(ctx context.Context, id string, draft EventDraft) (Event, error) {
	if draft.Title == "" {
		return Event{}, ErrEmptyTitle
	}
	if _, ok := c.Event(id); !ok {
		return Event{}, ErrUnknownEvent
	}
	updated, err := c.opts.Events.UpdateEvent(ctx, id, draft)
	if err != nil {
		c.opts.Toasts.Push(ui.ToastError, "Failed to save the event")
		return Event{}, err
	}
	return updated, c.reload(ctx)
}

// DeleteEvent removes an event and reloads the month.
func (c *Controller) DeleteEvent(ctx context.Context, id string) error {
	if _, ok := c.Event(id); !ok {
		return ErrUnknownEvent
	}
	if err := c.opts.Events.DeleteEvent(ctx, id); err != nil {
		c.opts.Toasts.Push(ui.ToastError, "Failed to delete the event")
		return err
	}
	return c.reload(ctx)
}

// MoveEvent reschedules an event optimistically: the loaded copy moves
// first so a drag lands instantly, then the server is told. A server
// failure puts the event back where it was and raises an error toast.
func (c *Controller) MoveEvent(ctx context.Context, id string, to time.Time) error {
	c.mu.Lock()
	idx := -1
	for i := range c.events {
		if c.events[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.mu.Unlock()
		return ErrUnknownEvent
	}
	previous := c.events[idx].PublishDate
	c.events[idx].PublishDate = to
	c.mu.Unlock()

	if err := c.opts.Events.MoveEvent(ctx, id, to); err != nil {
		c.mu.Lock()
		for i := range c.events {
			if c.events[i].ID == id {
				c.events[i].PublishDate = previous
				break
			}
		}
		c.mu.Unlock()
		c.opts.Toasts.Push(ui.ToastError, "Failed to move the event")
		return err
	}

	c.telemetry.Record(ctx, "calendar.event.moved", map[string]any{
		"event": id,
		"to":    to.Format("2006-01-02"),
	})
	return nil
}

func (c *Controller) reload(ctx context.Context) error {
	c.mu.Lock()
	anchor := c.anchor
	c.mu.Unlock()
	return c.LoadMonth(ctx, anchor)
}

// Snapshot projects the controller into the render model for the active
// view.
func (c *Controller) Snapshot() PageSnapshot {
	c.mu.Lock()
	anchor, events := c.anchor, make([]Event, len(c.events))
	copy(events, c.events)
	view, weekStart := c.view, c.weekStart
	c.mu.Unlock()

	snap := PageSnapshot{
		Anchor:    anchor,
		MonthName: anchor.Format("January 2006"),
		View:      view,
		WeekStart: weekStart,
		Bars:      MonthBars(anchor, events),
	}
	switch view {
	case ViewTable:
		snap.Table = TableRows(events)
	case ViewKanban:
		snap.Kanban = KanbanColumns(events)
	default:
		snap.Grid = MonthGrid(anchor, events, weekStart, c.opts.Now())
	}
	return snap
}
