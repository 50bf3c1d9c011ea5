package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestFinishedRecordsRoute(t *testing.T) {
	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/fragrances/:id", "404"))

	RequestStarted()
	RequestFinished("get", "/api/fragrances/:id", http.StatusNotFound, 12*time.Millisecond)

	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/api/fragrances/:id", "404"))
	assert.Equal(t, before+1, after)
	assert.Equal(t, float64(0), testutil.ToFloat64(httpInFlight))
}

func TestHandlerExposesCatalogCounters(t *testing.T) {
	ReviewsSubmitted.Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "fragrance_catalog_catalog_reviews_submitted_total")
	assert.Contains(t, body, "fragrance_catalog_catalog_fragrances_created_total")
}
