package httputil

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quarrybuild/quarry/pkg/observability"
)

func TestLoggingMiddlewareStoresContextLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := observability.NewLogger(observability.InfoLevel, &buf)

	handler := Chain(
		RequestIDMiddleware,
		LoggingMiddleware(logger),
	)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		observability.FromContext(r.Context()).Info("handler speaking")
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/scopes", nil))

	out := buf.String()
	assert.Contains(t, out, "handler speaking")
	assert.Contains(t, out, "request served")
	// The context logger carries the request ID assigned upstream.
	assert.Contains(t, out, rec.Header().Get("X-Request-ID"))
}

func TestChainAppliesOutermostFirst(t *testing.T) {
	var order []string
	tag := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	handler := Chain(tag("outer"), tag("inner"))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestMetricsMiddlewareUsesRouteTemplate(t *testing.T) {
	metrics := observability.NewMetrics(prometheus.NewRegistry())

	router := mux.NewRouter()
	router.Use(MetricsMiddleware(metrics))
	router.HandleFunc("/binaries/{key}/dependents", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, key := range []string{":lib:core:debug", ":app:exe:release"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/binaries/"+key+"/dependents", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	// Both requests share one label pair keyed by the route template.
	counter := metrics.HTTPRequestsTotal.WithLabelValues("GET", "/binaries/{key}/dependents", "200")
	assert.Equal(t, 2.0, testutil.ToFloat64(counter))
}

func TestMetricsMiddlewareFallsBackToRawPath(t *testing.T) {
	metrics := observability.NewMetrics(prometheus.NewRegistry())

	handler := MetricsMiddleware(metrics)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	counter := metrics.HTTPRequestsTotal.WithLabelValues("GET", "/healthz", "200")
	assert.Equal(t, 1.0, testutil.ToFloat64(counter))
}

func TestRecoveryMiddleware(t *testing.T) {
	logger := observability.NewLogger(observability.ErrorLevel, &bytes.Buffer{})
	handler := RecoveryMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
