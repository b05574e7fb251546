package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRegistryExposesCounters(t *testing.T) {
	r := NewRegistry()
	r.RangeFallback()
	r.RangeFallback()
	r.Ingests.WithLabelValues("public-csv", "ok").Inc()

	assert.Equal(t, float64(2), testutil.ToFloat64(r.RangeFallbacks))

	rr := httptest.NewRecorder()
	r.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.True(t, strings.Contains(body, "orderdash_range_fallbacks_total 2"), body)
	assert.True(t, strings.Contains(body, `orderdash_ingests_total{method="public-csv",result="ok"} 1`), body)
}
