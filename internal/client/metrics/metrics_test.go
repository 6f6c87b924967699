package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Records(t *testing.T) {
	c := NewCollector()

	c.ObserveRequest("fetch", OutcomeOK, 10*time.Millisecond)
	c.ObserveRequest("fetch", OutcomeOK, 20*time.Millisecond)
	c.ObserveRequest("init", OutcomeRejected, time.Millisecond)
	c.SyncFinished(OutcomeOK, 7)
	c.SyncFinished(OutcomeError, 0)
	c.AssetFetched("thumbnail", OutcomeOK)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.requests.WithLabelValues("fetch", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.requests.WithLabelValues("init", OutcomeRejected)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.syncs.WithLabelValues(OutcomeError)))
	assert.Equal(t, 7.0, testutil.ToFloat64(c.indexSize))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.assets.WithLabelValues("thumbnail", OutcomeOK)))
}

func TestCollector_FailedSyncKeepsGauge(t *testing.T) {
	c := NewCollector()
	c.SyncFinished(OutcomeOK, 3)
	c.SyncFinished(OutcomeError, 0)

	assert.Equal(t, 3.0, testutil.ToFloat64(c.indexSize))
}

func TestCollector_NilIsNoop(t *testing.T) {
	var c *Collector

	assert.NotPanics(t, func() {
		c.ObserveRequest("fetch", OutcomeOK, time.Second)
		c.SyncFinished(OutcomeOK, 1)
		c.AssetFetched("file", OutcomeError)
	})
	assert.Nil(t, c.Registry())

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector()
	c.SyncFinished(OutcomeOK, 2)

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "mediavault_index_records 2")
}
