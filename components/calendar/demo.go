package calendar

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pulsekit/go-studio/components/analytics"
)

// DemoEventRepository is an in-memory calendar used by the example app and
// the package tests.
type DemoEventRepository struct {
	// FailMoves makes MoveEvent return an error, for revert paths.
	FailMoves bool

	mu     sync.Mutex
	events map[string]Event
}

// NewDemoEventRepository seeds a repository with a handful of events around
// anchor's month.
func NewDemoEventRepository(anchor time.Time) *DemoEventRepository {
	anchor = monthStart(anchor)
	r := &DemoEventRepository{events: map[string]Event{}}

	seed := []struct {
		day      int
		title    string
		platform analytics.Platform
		status   EventStatus
		kind     ContentType
	}{
		{3, "Launch thread", analytics.PlatformX, StatusScheduled, ContentThread},
		{3, "Feature teaser", analytics.PlatformTikTok, StatusDraft, ContentShort},
		{10, "Deep-dive video", analytics.PlatformYouTube, StatusScheduled, ContentVideo},
		{17, "Changelog post", analytics.PlatformX, StatusDraft, ContentPost},
		{24, "Community recap", analytics.PlatformYouTube, StatusPublished, ContentVideo},
	}
	for i, s := range seed {
		id := fmt.Sprintf("evt-%d", i+1)
		r.events[id] = Event{
			ID:          id,
			Title:       s.title,
			PublishDate: anchor.AddDate(0, 0, s.day-1),
			Platform:    s.platform,
			Status:      s.status,
			ContentType: s.kind,
		}
	}
	return r
}

func (r *DemoEventRepository) FetchMonth(ctx context.Context, anchor time.Time) ([]Event, error) {
	anchor = monthStart(anchor)
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []Event{}
	for _, event := range r.events {
		if event.PublishDate.Year() == anchor.Year() && event.PublishDate.Month() == anchor.Month() {
			out = append(out, event)
		}
	}
	return out, nil
}

func (r *DemoEventRepository) CreateEvent(ctx context.Context, draft EventDraft) (Event, error) {
	event := Event{
		ID:          uuid.NewString(),
		Title:       draft.Title,
		PublishDate: draft.PublishDate,
		Platform:    draft.Platform,
		Status:      draft.Status,
		ContentType: draft.ContentType,
		Notes:       draft.Notes,
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[event.ID] = event
	return event, nil
}

func (r *DemoEventRepository) UpdateEvent(ctx context.Context, id string, draft EventDraft) (Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[id]
	if !ok {
		return Event{}, fmt.Errorf("demo calendar: no event %q", id)
	}
	event.Title = draft.Title
	event.PublishDate = draft.PublishDate
	event.Platform = draft.Platform
	event.Status = draft.Status
	event.ContentType = draft.ContentType
	event.Notes = draft.Notes
	r.events[id] = event
	return event, nil
}

func (r *DemoEventRepository) DeleteEvent(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[id]; !ok {
		return fmt.Errorf("demo calendar: no event %q", id)
	}
	delete(r.events, id)
	return nil
}

func (r *DemoEventRepository) MoveEvent(ctx context.Context, id string, to time.Time) error {
	if r.FailMoves {
		return fmt.Errorf("demo calendar: move rejected")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[id]
	if !ok {
		return fmt.Errorf("demo calendar: no event %q", id)
	}
	event.PublishDate = to
	r.events[id] = event
	return nil
}
