package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveReport(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveReport("small", true, time.Millisecond)
	m.ObserveReport("small", true, time.Millisecond)
	m.ObserveReport("large", false, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.reports.WithLabelValues("small", PaybackRecoverable)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reports.WithLabelValues("large", PaybackNotRecoverable)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.reportDuration))
}

func TestObserveValidationFailuresAndSaves(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveValidationFailures([]string{"staffHourlyRate", "applicationsPerYear", "staffHourlyRate"})
	m.ObserveScenarioSaved()

	assert.Equal(t, 2.0, testutil.ToFloat64(m.validationFailures.WithLabelValues("staffHourlyRate")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.validationFailures.WithLabelValues("applicationsPerYear")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.scenariosSaved))
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	m := New(prometheus.NewRegistry())

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/scenarios/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/scenarios/"+id, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requests.WithLabelValues("404", http.MethodGet, "/api/scenarios/{id}")))
}

func TestHandlerServesRegistry(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveScenarioSaved()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "roi_scenarios_saved_total 1")
}
