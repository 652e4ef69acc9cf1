package metricsvc

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	m := New()
	m.ObserveRequest(http.MethodGet, "/api/courses", http.StatusOK, 20*time.Millisecond)
	m.ObserveRequest(http.MethodGet, "/api/courses", http.StatusOK, 10*time.Millisecond)
	m.RecordNotifications("created", 3)
	m.RecordNotifications("failed", 1)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `lms_http_requests_total{method="GET",route="/api/courses",status="200"} 2`)
	assert.Contains(t, string(body), `lms_notifications_total{outcome="created"} 3`)
	assert.Contains(t, string(body), `lms_notifications_total{outcome="failed"} 1`)
	assert.Contains(t, string(body), "lms_http_request_duration_seconds_bucket")
}

func TestNew_Independent(t *testing.T) {
	// a second registry must not panic on duplicate registration
	assert.NotPanics(t, func() {
		_ = New()
		_ = New()
	})
}
