package calendar

import (
	"context"
	"time"

	"github.com/pulsekit/go-studio/components/analytics"
)

// EventStatus tracks where a planned piece of content stands.
type EventStatus string

const (
	StatusDraft     EventStatus = "draft"
	StatusScheduled EventStatus = "scheduled"
	StatusPublished EventStatus = "published"
)

// Statuses lists the kanban column order.
func Statuses() []EventStatus {
	return []EventStatus{StatusDraft, StatusScheduled, StatusPublished}
}

// ContentType classifies the planned artifact.
type ContentType string

const (
	ContentPost   ContentType = "post"
	ContentVideo  ContentType = "video"
	ContentShort  ContentType = "short"
	ContentThread ContentType = "thread"
)

// Event is one calendar entry.
type Event struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	PublishDate time.Time          `json:"publish_date"`
	Platform    analytics.Platform `json:"platform"`
	Status      EventStatus        `json:"status"`
	ContentType ContentType        `json:"content_type"`
	Notes       string             `json:"notes,omitempty"`
}

// EventDraft carries the user-editable fields for create and update.
type EventDraft struct {
	Title       string             `json:"title"`
	PublishDate time.Time          `json:"publish_date"`
	Platform    analytics.Platform `json:"platform"`
	Status      EventStatus        `json:"status"`
	ContentType ContentType        `json:"content_type"`
	Notes       string             `json:"notes,omitempty"`
}

// EventRepository is the server-side calendar API.
type EventRepository interface {
	// FetchMonth returns every event whose publish date falls inside the
	// month containing anchor.
	FetchMonth(ctx context.Context, anchor time.Time) ([]Event, error)
	CreateEvent(ctx context.Context, draft EventDraft) (Event, error)
	UpdateEvent(ctx context.Context, id string, draft EventDraft) (Event, error)
	DeleteEvent(ctx context.Context, id string) error
	// MoveEvent reschedules an event; callers apply the move locally first
	// and revert when this fails.
	MoveEvent(ctx context.Context, id string, to time.Time) error
}

// Telemetry records calendar events for observability.
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

// monthStart truncates t to the first of its month in UTC.
func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
