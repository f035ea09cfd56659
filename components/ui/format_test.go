package ui

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAbbreviateCount(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.0K"},
		{1500, "1.5K"},
		{999_949, "999.9K"},
		{1_000_000, "1.0M"},
		{2_300_000, "2.3M"},
		{-1500, "-1.5K"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, AbbreviateCount(tc.in), "input %v", tc.in)
	}
}

func TestGroupInt(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "999", GroupInt(999))
	assert.Equal(t, "1,000", GroupInt(1000))
	assert.Equal(t, "12,345,678", GroupInt(12345678))
	assert.Equal(t, "-4,200", GroupInt(-4200))
}

func TestShortDate(t *testing.T) {
	t.Parallel()
	day := time.Date(2025, time.March, 7, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "Mar 7", ShortDate(day))
}

func TestEscapeHTML(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "&lt;b&gt;hi&lt;/b&gt; &amp; &quot;there&quot;", EscapeHTML(`<b>hi</b> & "there"`))
}

func TestToastCenterBacklogBounded(t *testing.T) {
	t.Parallel()
	center := NewToastCenter()
	for i := 0; i < maxToastBacklog+5; i++ {
		center.Push(ToastInfo, "msg")
	}
	assert.Equal(t, maxToastBacklog, center.Pending())
	assert.Len(t, center.Drain(), maxToastBacklog)
	assert.Zero(t, center.Pending())
}

func TestModalStateSingleActive(t *testing.T) {
	t.Parallel()
	var m ModalState
	m.Open("event-editor")
	m.Open("confirm-delete")
	assert.Equal(t, "confirm-delete", m.Active())
	m.Close("event-editor")
	assert.Equal(t, "confirm-delete", m.Active())
	m.Close("confirm-delete")
	assert.Empty(t, m.Active())
}
