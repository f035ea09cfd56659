package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pulsekit/go-studio/components/analytics"
	"github.com/pulsekit/go-studio/components/calendar"
	"github.com/pulsekit/go-studio/components/generate"
	studio "github.com/pulsekit/go-studio/components/studio"
	"github.com/pulsekit/go-studio/components/studio/commands"
	"github.com/pulsekit/go-studio/components/studio/queries"
)

type stubCommander[T any] struct {
	last  T
	calls int
	err   error
}

func (s *stubCommander[T]) Execute(ctx context.Context, msg T) error {
	s.last = msg
	s.calls++
	return s.err
}

type stubQuerier[Q, R any] struct {
	last   Q
	result R
	err    error
}

func (s *stubQuerier[Q, R]) Query(ctx context.Context, msg Q) (R, error) {
	s.last = msg
	return s.result, s.err
}

func TestHandleRefresh(t *testing.T) {
	refresh := &stubCommander[commands.RefreshPlatformsInput]{}
	api := &Handlers{Refresh: refresh}
	req := httptest.NewRequest(http.MethodPost, "/api/refresh", nil)
	rec := httptest.NewRecorder()
	api.HandleRefresh(rec, req)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", rec.Code)
	}
	if refresh.calls != 1 {
		t.Fatalf("expected refresh to execute")
	}
}

func TestHandleRefreshMapsFailure(t *testing.T) {
	refresh := &stubCommander[commands.RefreshPlatformsInput]{err: errors.New("sync failed")}
	api := &Handlers{Refresh: refresh}
	req := httptest.NewRequest(http.MethodPost, "/api/refresh", nil)
	rec := httptest.NewRecorder()
	api.HandleRefresh(rec, req)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body["error"] == "" {
		t.Fatalf("expected error message in body")
	}
}

func TestHandleMoveEvent(t *testing.T) {
	move := &stubCommander[commands.MoveEventInput]{}
	api := &Handlers{MoveEvent: move}
	to := time.Date(2026, time.March, 20, 0, 0, 0, 0, time.UTC)
	buf, _ := json.Marshal(commands.MoveEventInput{EventID: "evt-3", To: to})
	req := httptest.NewRequest(http.MethodPost, "/api/calendar/move", bytes.NewReader(buf))
	rec := httptest.NewRecorder()
	api.HandleMoveEvent(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if move.last.EventID != "evt-3" || !move.last.To.Equal(to) {
		t.Fatalf("expected payload propagation, got %+v", move.last)
	}
}

func TestHandleMoveEventRejectsBadJSON(t *testing.T) {
	move := &stubCommander[commands.MoveEventInput]{}
	api := &Handlers{MoveEvent: move}
	req := httptest.NewRequest(http.MethodPost, "/api/calendar/move", bytes.NewReader([]byte("{")))
	rec := httptest.NewRecorder()
	api.HandleMoveEvent(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if move.calls != 0 {
		t.Fatalf("expected no execution on bad payload")
	}
}

func TestHandlePreferences(t *testing.T) {
	prefs := &stubCommander[studio.PreferencesInput]{}
	api := &Handlers{Preferences: prefs}
	monday := calendar.WeekStartMonday
	buf, _ := json.Marshal(studio.PreferencesInput{WeekStart: &monday})
	req := httptest.NewRequest(http.MethodPost, "/api/preferences", bytes.NewReader(buf))
	rec := httptest.NewRecorder()
	api.HandlePreferences(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if prefs.last.WeekStart == nil || *prefs.last.WeekStart != calendar.WeekStartMonday {
		t.Fatalf("expected week start propagation")
	}
}

func TestHandleGenerateReply(t *testing.T) {
	reply := &stubCommander[commands.GenerateReplyInput]{}
	api := &Handlers{GenerateReply: reply}
	buf, _ := json.Marshal(commands.GenerateReplyInput{OpportunityID: "opp-2"})
	req := httptest.NewRequest(http.MethodPost, "/api/reply/generate", bytes.NewReader(buf))
	rec := httptest.NewRecorder()
	api.HandleGenerateReply(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if reply.last.OpportunityID != "opp-2" {
		t.Fatalf("expected opportunity propagation")
	}
}

func TestHandleGenerateScriptMapsValidationFailure(t *testing.T) {
	script := &stubCommander[generate.ScriptRequest]{err: errors.New("topic too short")}
	api := &Handlers{Script: script}
	buf, _ := json.Marshal(generate.ScriptRequest{Topic: "x"})
	req := httptest.NewRequest(http.MethodPost, "/api/generate/script", bytes.NewReader(buf))
	rec := httptest.NewRecorder()
	api.HandleGenerateScript(rec, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
}

func TestHandleAnalyticsSnapshot(t *testing.T) {
	query := &stubQuerier[queries.AnalyticsSnapshotInput, analytics.PageSnapshot]{
		result: analytics.PageSnapshot{Platform: analytics.PlatformYouTube},
	}
	api := &Handlers{Analytics: query}
	req := httptest.NewRequest(http.MethodGet, "/api/analytics/snapshot", nil)
	rec := httptest.NewRecorder()
	api.HandleAnalyticsSnapshot(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var snapshot analytics.PageSnapshot
	if err := json.Unmarshal(rec.Body.Bytes(), &snapshot); err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if snapshot.Platform != analytics.PlatformYouTube {
		t.Fatalf("expected youtube snapshot, got %q", snapshot.Platform)
	}
}

func TestHandleCalendarMonthParsesAnchor(t *testing.T) {
	query := &stubQuerier[queries.CalendarMonthInput, calendar.PageSnapshot]{
		result: calendar.PageSnapshot{MonthName: "March 2026"},
	}
	api := &Handlers{Calendar: query}
	req := httptest.NewRequest(http.MethodGet, "/api/calendar/month?anchor=2026-03", nil)
	rec := httptest.NewRecorder()
	api.HandleCalendarMonth(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	want := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	if !query.last.Anchor.Equal(want) {
		t.Fatalf("expected anchor %v, got %v", want, query.last.Anchor)
	}
}

func TestHandleCalendarMonthRejectsBadAnchor(t *testing.T) {
	query := &stubQuerier[queries.CalendarMonthInput, calendar.PageSnapshot]{}
	api := &Handlers{Calendar: query}
	req := httptest.NewRequest(http.MethodGet, "/api/calendar/month?anchor=soon", nil)
	rec := httptest.NewRecorder()
	api.HandleCalendarMonth(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
