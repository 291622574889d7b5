package monitoring

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReports struct {
	data []byte
	err  error
}

func (s stubReports) LatestJSON() ([]byte, error) { return s.data, s.err }

func get(t *testing.T, h http.Handler, path string) (*http.Response, string) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	resp := rec.Result()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestMonitorHealthTransitions(t *testing.T) {
	m := NewMonitor()
	assert.True(t, m.IsHealthy())
	assert.Equal(t, "No runs yet", m.GetStatusSummary())

	m.RecordCriticalFailure(errors.New("fetch failed"), time.Second)
	assert.False(t, m.IsHealthy())
	assert.Contains(t, m.GetStatusSummary(), "fetch failed")

	m.RecordPartialFailure(errors.New("email failed"), time.Second)
	assert.False(t, m.IsHealthy(), "partial failures do not change health")
	assert.Equal(t, 1, m.PartialFailures())

	m.RecordSuccess("4 phrases", time.Second)
	assert.True(t, m.IsHealthy())
	assert.Contains(t, m.GetStatusSummary(), "4 phrases")
}

func TestHealthServerRoutes(t *testing.T) {
	m := NewMonitor()
	srv := NewHealthServer(m, stubReports{data: []byte(`{"runId":"abc"}`)}, "")
	h := srv.Handler()

	resp, body := get(t, h, "/health")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "OK")

	m.RecordCriticalFailure(errors.New("boom"), time.Millisecond)
	resp, body = get(t, h, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, body, "boom")

	resp, _ = get(t, h, "/status")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = get(t, h, "/data/weather.json")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.JSONEq(t, `{"runId":"abc"}`, body)
}

func TestHealthServerReportMissing(t *testing.T) {
	h := NewHealthServer(NewMonitor(), stubReports{err: errors.New("none")}, "8081").Handler()
	resp, _ := get(t, h, "/data/weather.json")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthServerWithoutReports(t *testing.T) {
	h := NewHealthServer(NewMonitor(), nil, "8081").Handler()
	resp, _ := get(t, h, "/data/weather.json")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
