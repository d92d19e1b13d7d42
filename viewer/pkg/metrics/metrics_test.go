package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveRender(20*time.Millisecond, nil)
	m.ObserveRender(time.Second, errors.New("upstream fetch failed"))
	m.FetchFailed()
	m.Malformed("bg", 3)
	m.Malformed("carbs", 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.renders.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.renders.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fetchFailures))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.malformed.WithLabelValues("bg")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.malformed))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRender(time.Second, nil)
		m.FetchFailed()
		m.Malformed("bg", 1)
	})
}

func TestHandler(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.FetchFailed()

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cgmview_upstream_fetch_failures_total 1")
}
