package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordTransitionIgnoresZero(t *testing.T) {
	before := testutil.ToFloat64(orderTransitions.WithLabelValues("MATCHED"))
	RecordTransition("MATCHED", 0)
	RecordTransition("MATCHED", 3)
	assert.Equal(t, before+3, testutil.ToFloat64(orderTransitions.WithLabelValues("MATCHED")))
}

func TestRecordPayout(t *testing.T) {
	before := testutil.ToFloat64(payouts)
	RecordPayout(decimal.RequireFromString("12.5"))
	RecordPayout(decimal.NewFromInt(-4))
	assert.Equal(t, before+12.5, testutil.ToFloat64(payouts))
}

func TestHandlerExposesCollectors(t *testing.T) {
	RecordHTTPRequest(http.MethodGet, "/api/v1/health", http.StatusOK, 5*time.Millisecond)
	RecordJobRun("reconcile", true)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "lotto_http_requests_total")
	assert.Contains(t, rec.Body.String(), "lotto_jobs_runs_total")
}
