package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taaslabs/taas-backend/engine"
	"github.com/taaslabs/taas-backend/generator"
	"github.com/taaslabs/taas-backend/logger"
	"github.com/taaslabs/taas-backend/scenario"
	"github.com/taaslabs/taas-backend/testutil"
)

func getJSON(t *testing.T, handler http.HandlerFunc, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestHealthHandler(t *testing.T) {
	rec := getJSON(t, HealthHandler, "/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
}

func TestResultsListEmpty(t *testing.T) {
	handler := NewResultsHandler(newResultsStore(t), logger.NewTestLogger())

	rec := getJSON(t, handler.List, "/api/v1/results")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp ListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Total)
}

func TestResultsListAfterSaves(t *testing.T) {
	store := newResultsStore(t)
	_, err := store.SaveScenarios(&generator.Result{
		Scenarios: []scenario.Scenario{testutil.SampleScenario()},
	})
	require.NoError(t, err)
	_, err = store.SaveValidated(&engine.ValidationResult{Validated: true})
	require.NoError(t, err)

	handler := NewResultsHandler(store, logger.NewTestLogger())

	rec := getJSON(t, handler.List, "/api/v1/results")
	require.Equal(t, http.StatusOK, rec.Code)
	var resp ListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)

	rec = getJSON(t, handler.ListValidated, "/api/v1/results-mcp")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)

	rec = getJSON(t, handler.ListReports, "/api/v1/reports")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Total)
}
