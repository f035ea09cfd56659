package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsekit/go-studio/components/analytics"
)

func day(d int) time.Time {
	return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
}

func eventOn(d int, status EventStatus) Event {
	return Event{
		ID:          "evt",
		Title:       "Event",
		PublishDate: day(d),
		Platform:    analytics.PlatformX,
		Status:      status,
		ContentType: ContentPost,
	}
}

func TestMonthGridShape(t *testing.T) {
	t.Parallel()

	// March 2026 starts on a Sunday and has 31 days.
	grid := MonthGrid(day(1), nil, WeekStartSunday, day(9))

	require.Len(t, grid, 5)
	for _, week := range grid {
		assert.Len(t, week, 7)
	}
	assert.True(t, grid[0][0].InMonth)
	assert.Equal(t, 1, grid[0][0].Day)
	// The last cells spill into April.
	assert.False(t, grid[4][6].InMonth)
	assert.True(t, grid[1][1].Today)
}

func TestMonthGridMondayStartAddsLeadCells(t *testing.T) {
	t.Parallel()

	grid := MonthGrid(day(1), []Event{eventOn(1, StatusDraft)}, WeekStartMonday, day(9))

	// With Monday first, Sunday March 1 lands at the end of the lead week.
	require.NotEmpty(t, grid)
	assert.False(t, grid[0][0].InMonth)
	last := grid[0][6]
	assert.True(t, last.InMonth)
	assert.Equal(t, 1, last.Day)
	assert.Len(t, last.Events, 1)
}

func TestTableRowsBlankRepeatedDates(t *testing.T) {
	t.Parallel()

	rows := TableRows([]Event{eventOn(10, StatusDraft), eventOn(3, StatusDraft), eventOn(3, StatusScheduled)})

	require.Len(t, rows, 3)
	assert.Equal(t, 3, rows[0].Event.PublishDate.Day())
	assert.NotEmpty(t, rows[0].When)
	assert.Empty(t, rows[1].When)
	assert.NotEmpty(t, rows[2].When)
}

func TestKanbanColumnsAlwaysPresent(t *testing.T) {
	t.Parallel()

	cols := KanbanColumns([]Event{eventOn(5, StatusPublished)})

	require.Len(t, cols, 3)
	assert.Equal(t, StatusDraft, cols[0].Status)
	assert.Empty(t, cols[0].Events)
	assert.Len(t, cols[2].Events, 1)
}

func TestMonthBarsScaleAgainstBusiestDay(t *testing.T) {
	t.Parallel()

	events := []Event{
		eventOn(3, StatusDraft), eventOn(3, StatusDraft), eventOn(3, StatusDraft), eventOn(3, StatusDraft),
		eventOn(12, StatusDraft), eventOn(12, StatusDraft),
	}
	bars := MonthBars(day(1), events)

	require.Len(t, bars, 31)
	assert.Equal(t, 100, bars[2].WidthPercent)
	assert.Equal(t, 4, bars[2].Count)
	assert.Equal(t, 50, bars[11].WidthPercent)
	assert.Equal(t, 0, bars[0].WidthPercent)
}

func TestMonthBarsIgnoreOutOfMonthEvents(t *testing.T) {
	t.Parallel()

	outside := Event{ID: "x", Title: "x", PublishDate: time.Date(2026, time.April, 2, 0, 0, 0, 0, time.UTC)}
	bars := MonthBars(day(1), []Event{outside})

	for _, bar := range bars {
		assert.Zero(t, bar.Count)
	}
}
