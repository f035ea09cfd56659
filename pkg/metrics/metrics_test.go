package metrics

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordCountsEvents(t *testing.T) {
	t.Parallel()

	r := NewRecorder()
	ctx := context.Background()

	r.Record(ctx, "analytics.timeframe.change", map[string]any{"timeframe": "30days"})
	r.Record(ctx, "analytics.timeframe.change", map[string]any{"timeframe": "6months"})

	counter, err := r.EventCounter("analytics.timeframe.change")
	require.NoError(t, err)
	assert.Equal(t, float64(2), testutil.ToFloat64(counter))
}

func TestRecordDimensionsPlatformEvents(t *testing.T) {
	t.Parallel()

	r := NewRecorder()
	ctx := context.Background()

	r.Record(ctx, "analytics.platform.switch", map[string]any{"platform": "x", "connected": true})
	r.Record(ctx, "analytics.platform.switch", map[string]any{"platform": "youtube", "connected": true})
	r.Record(ctx, "analytics.refresh.error", map[string]any{"platform": "tiktok", "error": "boom"})

	assert.Equal(t, float64(1), testutil.ToFloat64(r.platforms.WithLabelValues("x")))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.platforms.WithLabelValues("youtube")))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.failures.WithLabelValues("tiktok")))
}

func TestHandlerServesExposition(t *testing.T) {
	t.Parallel()

	r := NewRecorder()
	r.Record(context.Background(), "calendar.event.created", map[string]any{"platform": "x"})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	r.Handler().ServeHTTP(rec, req)

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "studio_events_total")
}
