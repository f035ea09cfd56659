package backend

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/pulsekit/go-studio/components/calendar"
)

// FetchMonth implements calendar.EventRepository.
func (c *Client) FetchMonth(ctx context.Context, anchor time.Time) ([]calendar.Event, error) {
	params := url.Values{}
	params.Set("year", fmt.Sprintf("%d", anchor.Year()))
	params.Set("month", fmt.Sprintf("%d", int(anchor.Month())))

	var events []calendar.Event
	if err := c.get(ctx, "/content-calendar/api/events", params, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// CreateEvent implements calendar.EventRepository.
func (c *Client) CreateEvent(ctx context.Context, draft calendar.EventDraft) (calendar.Event, error) {
	var event calendar.Event
	if err := c.post(ctx, "/content-calendar/api/event", draft, &event); err != nil {
		return calendar.Event{}, err
	}
	return event, nil
}

// UpdateEvent implements calendar.EventRepository.
func (c *Client) UpdateEvent(ctx context.Context, id string, draft calendar.EventDraft) (calendar.Event, error) {
	var event calendar.Event
	path := fmt.Sprintf("/content-calendar/api/event/%s", id)
	if err := c.put(ctx, path, draft, &event); err != nil {
		return calendar.Event{}, err
	}
	return event, nil
}

// DeleteEvent implements calendar.EventRepository.
func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	return c.delete(ctx, fmt.Sprintf("/content-calendar/api/event/%s", id))
}

// MoveEvent implements calendar.EventRepository.
func (c *Client) MoveEvent(ctx context.Context, id string, to time.Time) error {
	payload := map[string]any{"publish_date": to.Format(time.RFC3339)}
	path := fmt.Sprintf("/content-calendar/api/event/%s/move", id)
	return c.post(ctx, path, payload, nil)
}
