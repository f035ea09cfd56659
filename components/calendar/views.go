package calendar

import (
	"sort"
	"time"
)

// PageSnapshot is the declarative render model for one calendar page. Only
// the active view's projection is populated.
type PageSnapshot struct {
	Anchor    time.Time
	MonthName string
	View      ViewMode
	WeekStart WeekStart

	Grid   [][]DayCell
	Table  []TableRow
	Kanban []KanbanColumn
	Bars   []DayBar
}

// DayCell is one square of the month grid.
type DayCell struct {
	Date    time.Time
	Day     int
	InMonth bool
	Today   bool
	Events  []Event
}

// TableRow is one line of the table view.
type TableRow struct {
	Event Event
	// When groups rows visually; the first row of each date gets the
	// formatted date, the rest stay blank.
	When string
}

// KanbanColumn is one status lane.
type KanbanColumn struct {
	Status EventStatus
	Events []Event
}

// DayBar is one bar of the posting-volume strip under the calendar. Width
// is a percentage of the busiest day so the strip scales itself.
type DayBar struct {
	Day          int
	Count        int
	WidthPercent int
}

// MonthGrid lays the month out as full weeks. Leading and trailing cells
// borrow days from the neighbor months and are marked InMonth=false.
func MonthGrid(anchor time.Time, events []Event, weekStart WeekStart, today time.Time) [][]DayCell {
	anchor = monthStart(anchor)

	first := int(time.Sunday)
	if weekStart == WeekStartMonday {
		first = int(time.Monday)
	}
	lead := (int(anchor.Weekday()) - first + 7) % 7
	start := anchor.AddDate(0, 0, -lead)

	daysInMonth := anchor.AddDate(0, 1, -1).Day()
	weeks := (lead + daysInMonth + 6) / 7

	byDay := map[string][]Event{}
	for _, event := range events {
		key := event.PublishDate.Format("2006-01-02")
		byDay[key] = append(byDay[key], event)
	}

	todayKey := today.UTC().Format("2006-01-02")
	grid := make([][]DayCell, 0, weeks)
	day := start
	for w := 0; w < weeks; w++ {
		week := make([]DayCell, 0, 7)
		for i := 0; i < 7; i++ {
			key := day.Format("2006-01-02")
			week = append(week, DayCell{
				Date:    day,
				Day:     day.Day(),
				InMonth: day.Month() == anchor.Month(),
				Today:   key == todayKey,
				Events:  byDay[key],
			})
			day = day.AddDate(0, 0, 1)
		}
		grid = append(grid, week)
	}
	return grid
}

// TableRows sorts events by publish date and blanks repeated dates.
func TableRows(events []Event) []TableRow {
	sorted := make([]Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PublishDate.Before(sorted[j].PublishDate)
	})

	rows := make([]TableRow, 0, len(sorted))
	var last string
	for _, event := range sorted {
		when := event.PublishDate.Format("Mon, Jan 2")
		row := TableRow{Event: event}
		if when != last {
			row.When = when
			last = when
		}
		rows = append(rows, row)
	}
	return rows
}

// KanbanColumns buckets events into the fixed status lanes, each lane
// sorted by publish date.
func KanbanColumns(events []Event) []KanbanColumn {
	lanes := map[EventStatus][]Event{}
	for _, event := range events {
		lanes[event.Status] = append(lanes[event.Status], event)
	}

	out := make([]KanbanColumn, 0, len(Statuses()))
	for _, status := range Statuses() {
		lane := lanes[status]
		sort.SliceStable(lane, func(i, j int) bool {
			return lane[i].PublishDate.Before(lane[j].PublishDate)
		})
		out = append(out, KanbanColumn{Status: status, Events: lane})
	}
	return out
}

// MonthBars buckets the month's events by day and sizes each bar against
// the busiest day. The strip is plain markup, not a chart engine render,
// so empty days simply get zero width.
func MonthBars(anchor time.Time, events []Event) []DayBar {
	anchor = monthStart(anchor)
	daysInMonth := anchor.AddDate(0, 1, -1).Day()

	counts := make([]int, daysInMonth+1)
	max := 0
	for _, event := range events {
		if event.PublishDate.Month() != anchor.Month() || event.PublishDate.Year() != anchor.Year() {
			continue
		}
		d := event.PublishDate.Day()
		counts[d]++
		if counts[d] > max {
			max = counts[d]
		}
	}

	bars := make([]DayBar, 0, daysInMonth)
	for d := 1; d <= daysInMonth; d++ {
		bar := DayBar{Day: d, Count: counts[d]}
		if max > 0 {
			bar.WidthPercent = counts[d] * 100 / max
		}
		bars = append(bars, bar)
	}
	return bars
}
