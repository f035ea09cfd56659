package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsekit/go-studio/components/analytics"
	"github.com/pulsekit/go-studio/components/calendar"
	"github.com/pulsekit/go-studio/components/generate"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := New(Config{BaseURL: server.URL})
	require.NoError(t, err)
	return client
}

func TestFetchMetricSeriesSendsTimeframe(t *testing.T) {
	t.Parallel()

	var gotPath, gotTimeframe string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotTimeframe = r.URL.Query().Get("timeframe")
		_ = json.NewEncoder(w).Encode(analytics.MetricSeries{
			Points:            []analytics.SeriesPoint{{Date: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), Value: 42}},
			HasSufficientData: true,
			Total:             42,
		})
	}))

	series, err := client.FetchMetricSeries(context.Background(), analytics.MetricQuery{
		Platform:  analytics.PlatformX,
		Metric:    analytics.MetricImpressions,
		Timeframe: analytics.Timeframe6Months,
	})
	require.NoError(t, err)

	assert.Equal(t, "/analytics/x/impressions", gotPath)
	assert.Equal(t, "6months", gotTimeframe)
	assert.Equal(t, float64(42), series.Total)
}

func TestErrorStatusMapsToAPIError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "upstream sync is down"})
	}))

	_, err := client.FetchMetricSeries(context.Background(), analytics.MetricQuery{
		Platform:  analytics.PlatformX,
		Metric:    analytics.MetricImpressions,
		Timeframe: analytics.Timeframe30Days,
	})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "upstream sync is down", apiErr.UserMessage())
}

func TestErrorInsideOKBodyMapsToAPIError(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "platform not connected"})
	}))

	err := client.TriggerSync(context.Background(), analytics.PlatformTikTok)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusOK, apiErr.Status)
	assert.Equal(t, "platform not connected", apiErr.UserMessage())
}

func TestCookiesPersistAcrossRequests(t *testing.T) {
	t.Parallel()

	var sawSession bool
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie("session"); err == nil && cookie.Value == "abc123" {
			sawSession = true
		}
		http.SetCookie(w, &http.Cookie{Name: "session", Value: "abc123", Path: "/"})
		_ = json.NewEncoder(w).Encode([]analytics.TrafficSlice{})
	}))

	ctx := context.Background()
	_, err := client.FetchTrafficSources(ctx, analytics.PlatformYouTube, analytics.Timeframe7Days)
	require.NoError(t, err)
	require.False(t, sawSession)

	_, err = client.FetchTrafficSources(ctx, analytics.PlatformYouTube, analytics.Timeframe7Days)
	require.NoError(t, err)
	assert.True(t, sawSession)
}

func TestFetchPostsPageQueryParams(t *testing.T) {
	t.Parallel()

	var query map[string]string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = map[string]string{
			"timeframe": r.URL.Query().Get("timeframe"),
			"page":      r.URL.Query().Get("page"),
			"per_page":  r.URL.Query().Get("per_page"),
			"filter":    r.URL.Query().Get("filter"),
		}
		_ = json.NewEncoder(w).Encode(analytics.PostsPage{CurrentPage: 2, ItemsPerPage: 10})
	}))

	page, err := client.FetchPostsPage(context.Background(), analytics.PostsQuery{
		Platform:  analytics.PlatformX,
		Timeframe: analytics.Timeframe30Days,
		Page:      2,
		PerPage:   10,
		Filter:    "launch",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, page.CurrentPage)
	assert.Equal(t, map[string]string{
		"timeframe": "30days",
		"page":      "2",
		"per_page":  "10",
		"filter":    "launch",
	}, query)
}

func TestCalendarCRUDPaths(t *testing.T) {
	t.Parallel()

	var calls []string
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		switch {
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			_ = json.NewEncoder(w).Encode(calendar.Event{ID: "evt-1", Title: "Launch"})
		}
	}))

	ctx := context.Background()
	created, err := client.CreateEvent(ctx, calendar.EventDraft{Title: "Launch"})
	require.NoError(t, err)
	assert.Equal(t, "evt-1", created.ID)

	_, err = client.UpdateEvent(ctx, "evt-1", calendar.EventDraft{Title: "Launch v2"})
	require.NoError(t, err)
	require.NoError(t, client.DeleteEvent(ctx, "evt-1"))
	require.NoError(t, client.MoveEvent(ctx, "evt-1", time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)))

	assert.Equal(t, []string{
		"POST /content-calendar/api/event",
		"PUT /content-calendar/api/event/evt-1",
		"DELETE /content-calendar/api/event/evt-1",
		"POST /content-calendar/api/event/evt-1/move",
	}, calls)
}

func TestUploadReferenceIsMultipart(t *testing.T) {
	t.Parallel()

	var contentType string
	var fileContent []byte
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		file, _, err := r.FormFile("file")
		if err == nil {
			defer file.Close()
			buf := make([]byte, 32)
			n, _ := file.Read(buf)
			fileContent = buf[:n]
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "ref-9"})
	}))

	id, err := client.UploadReference(context.Background(), "notes.txt", []byte("outline"))
	require.NoError(t, err)
	assert.Equal(t, "ref-9", id)
	assert.Contains(t, contentType, "multipart/form-data")
	assert.Equal(t, []byte("outline"), fileContent)
}

func TestGenerateEndpoints(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/generate-script":
			_ = json.NewEncoder(w).Encode(generate.ScriptResult{Title: "T", Sections: []string{"a"}})
		case "/api/generate-keyword-analysis":
			var payload map[string]string
			_ = json.NewDecoder(r.Body).Decode(&payload)
			_ = json.NewEncoder(w).Encode(generate.KeywordAnalysis{Keyword: payload["keyword"]})
		default:
			http.NotFound(w, r)
		}
	}))

	ctx := context.Background()
	script, err := client.GenerateScript(ctx, generate.ScriptRequest{Topic: "editing"})
	require.NoError(t, err)
	assert.Equal(t, "T", script.Title)

	analysisResult, err := client.AnalyzeKeyword(ctx, "seo")
	require.NoError(t, err)
	assert.Equal(t, "seo", analysisResult.Keyword)
}
