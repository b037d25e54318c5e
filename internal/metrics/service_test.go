package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceCountsByKind(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewService(reg)

	s.IncEventsSubmitted("shots", 3)
	s.IncEventsSubmitted("shots", 2)
	s.IncSyncRuns("shots")
	s.IncSyncFailures("faceoff")
	s.IncStoreConflicts()

	assert.Equal(t, 5.0, testutil.ToFloat64(s.EventsSubmitted.WithLabelValues("shots")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.SyncRuns.WithLabelValues("shots")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.SyncFailures.WithLabelValues("faceoff")))
	assert.Equal(t, 1.0, testutil.ToFloat64(s.StoreConflicts))
}

func TestMetricsHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := NewService(reg)
	s.IncSlackNotifSent()

	rr := httptest.NewRecorder()
	NewMetricsHandler(reg).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "rinkstats_slack_notifications_sent_total 1")
}
