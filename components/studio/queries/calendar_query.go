package queries

import (
	"context"
	"time"

	gocommand "github.com/goliatone/go-command"

	"github.com/pulsekit/go-studio/components/calendar"
)

type calendarController interface {
	LoadMonth(ctx context.Context, anchor time.Time) error
	Snapshot() calendar.PageSnapshot
}

// CalendarMonthInput addresses one month's projection. A zero Anchor keeps
// the currently loaded month.
type CalendarMonthInput struct {
	Anchor time.Time `json:"anchor"`
}

// CalendarMonthQuery loads and projects a calendar month.
type CalendarMonthQuery struct {
	controller calendarController
}

// NewCalendarMonthQuery builds the query.
func NewCalendarMonthQuery(controller calendarController) *CalendarMonthQuery {
	return &CalendarMonthQuery{controller: controller}
}

var _ gocommand.Querier[CalendarMonthInput, calendar.PageSnapshot] = (*CalendarMonthQuery)(nil)

// Query returns the month projection, loading it first when an anchor is
// given.
func (q *CalendarMonthQuery) Query(ctx context.Context, input CalendarMonthInput) (calendar.PageSnapshot, error) {
	if !input.Anchor.IsZero() {
		if err := q.controller.LoadMonth(ctx, input.Anchor); err != nil {
			return calendar.PageSnapshot{}, err
		}
	}
	return q.controller.Snapshot(), nil
}
