package observability

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLivenessAlwaysHealthy(t *testing.T) {
	checker := NewHealthChecker()
	checker.RegisterCheck("db", func(context.Context) error { return fmt.Errorf("down") })

	rec := httptest.NewRecorder()
	checker.Liveness(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	var status HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, StatusHealthy, status.Status)
}

func TestReadinessReportsFailingCheck(t *testing.T) {
	checker := NewHealthChecker()
	checker.RegisterCheck("workspace", func(context.Context) error { return nil })
	checker.RegisterCheck("history", func(context.Context) error { return fmt.Errorf("locked") })

	rec := httptest.NewRecorder()
	checker.Readiness(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var status HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, StatusUnhealthy, status.Status)
	assert.Equal(t, StatusHealthy, status.Dependencies["workspace"])
	assert.Equal(t, "locked", status.Dependencies["history"])
}

func TestReadinessHealthyWithNoChecks(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthChecker().Readiness(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
