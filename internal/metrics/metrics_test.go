package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_HandlerExposesCounters(t *testing.T) {
	m := New()
	m.Gestures.WithLabelValues("dropped-moved").Inc()
	m.Gestures.WithLabelValues("dropped-moved").Inc()
	m.RequestsTotal.WithLabelValues("GET", "/health", "200").Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Gestures.WithLabelValues("dropped-moved")))

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `board_gestures_total{outcome="dropped-moved"} 2`)
	assert.Contains(t, string(body), `http_requests_total{method="GET",path="/health",status="200"} 1`)
}

func TestNew_IndependentRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New()
		New()
	})
}
