package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"centrebooks/internal/infrastructure/storage/postgres"
)

func TestObserveHTTP(t *testing.T) {
	m := New()
	m.ObserveHTTP("GET", "/api/v1/reports/monthly", 200, 10*time.Millisecond)
	m.ObserveHTTP("GET", "/api/v1/reports/monthly", 204, 5*time.Millisecond)
	m.ObserveHTTP("GET", "/api/v1/reports/monthly", 403, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/v1/reports/monthly", "2xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/v1/reports/monthly", "4xx")))
}

func TestObserveExportAndSaves(t *testing.T) {
	m := New()
	m.ObserveExport("xlsx", nil, time.Second)
	m.ObserveExport("pdf", errors.New("boom"), time.Second)
	m.ObserveStatementSave("create", nil)
	m.ObserveLogin(errors.New("bad password"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.exportTotal.WithLabelValues("xlsx", ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.exportTotal.WithLabelValues("pdf", ResultError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.statementSaves.WithLabelValues("create", ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.loginAttempts.WithLabelValues(ResultError)))
}

type fakePool struct{ stats postgres.PoolStats }

func (f *fakePool) Stats() postgres.PoolStats { return f.stats }

func TestRegisterPool(t *testing.T) {
	m := New()
	pool := &fakePool{stats: postgres.PoolStats{TotalConns: 4, AcquiredConns: 1, IdleConns: 3, MaxConns: 10}}
	m.RegisterPool(pool)

	pool.stats.AcquiredConns = 2

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "centrebooks_db_pool_acquired_conns 2"), "gauges read the pool at scrape time")
	assert.Contains(t, body, "centrebooks_db_pool_max_conns 10")
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "2xx", statusClass(201))
	assert.Equal(t, "3xx", statusClass(302))
	assert.Equal(t, "4xx", statusClass(404))
	assert.Equal(t, "5xx", statusClass(503))
}
