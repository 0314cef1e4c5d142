package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taaslabs/taas-backend/engine"
	"github.com/taaslabs/taas-backend/logger"
	"github.com/taaslabs/taas-backend/runhistory"
	"github.com/taaslabs/taas-backend/scenario"
	"github.com/taaslabs/taas-backend/testutil"
)

type fakeExecutor struct {
	result   engine.ExecutionResult
	executed []string
}

func (f *fakeExecutor) ExecuteScenario(ctx context.Context, sc scenario.Scenario, testName string) engine.ExecutionResult {
	f.executed = append(f.executed, sc.Name)
	return f.result
}

func newRunStore(t *testing.T) runhistory.Store {
	t.Helper()
	db := testutil.SetupTestDB(t, &runhistory.Run{})
	return runhistory.NewGormStore(db, logger.NewTestLogger())
}

func TestExecuteRecordsRunHistory(t *testing.T) {
	exec := &fakeExecutor{
		result: engine.ExecutionResult{
			Success: true,
			Report: &engine.ExecutionReport{
				Files: engine.ReportFiles{ReportDir: "reports/report-2026-01-15T10-30-00-000"},
			},
			Metrics: &scenario.ExecutionMetrics{
				TotalSteps:  4,
				PassedSteps: 4,
			},
		},
	}
	runs := newRunStore(t)
	handler := NewExecuteHandler(exec, runs, logger.NewTestLogger())

	rec := postJSON(t, handler.Execute, "/api/v1/execute", ExecuteRequest{
		Scenario:  testutil.SampleScenario(),
		TestName:  "catalogue search",
		Objective: "search for books",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ExecuteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotEmpty(t, resp.RunID)
	assert.Equal(t, []string{"Search flow"}, exec.executed)

	listed, err := runs.List(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	run := listed[0]
	assert.Equal(t, runhistory.StatusCompleted, run.Status)
	assert.Equal(t, "search for books", run.Objective)
	assert.Equal(t, 4, run.TotalSteps)
	assert.Equal(t, "reports/report-2026-01-15T10-30-00-000", run.ReportDir)
	assert.Equal(t, "https://example.com", run.TargetURL)
}

func TestExecuteFailedRunMarkedFailed(t *testing.T) {
	exec := &fakeExecutor{
		result: engine.ExecutionResult{
			Success: false,
			Metrics: &scenario.ExecutionMetrics{TotalSteps: 4, PassedSteps: 3, FailedSteps: 1},
		},
	}
	runs := newRunStore(t)
	handler := NewExecuteHandler(exec, runs, logger.NewTestLogger())

	rec := postJSON(t, handler.Execute, "/api/v1/execute", ExecuteRequest{
		Scenario: testutil.SampleScenario(),
	})

	require.Equal(t, http.StatusOK, rec.Code)
	listed, err := runs.List(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, runhistory.StatusFailed, listed[0].Status)
	assert.Equal(t, 1, listed[0].FailedSteps)
}

func TestExecuteRejectsUnnamedScenario(t *testing.T) {
	handler := NewExecuteHandler(&fakeExecutor{}, newRunStore(t), logger.NewTestLogger())

	rec := postJSON(t, handler.Execute, "/api/v1/execute", ExecuteRequest{
		Scenario: scenario.Scenario{Steps: testutil.SampleScenario().Steps},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExecuteRejectsMalformedBody(t *testing.T) {
	handler := NewExecuteHandler(&fakeExecutor{}, newRunStore(t), logger.NewTestLogger())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/execute", bytes.NewReader([]byte("nope")))
	rec := httptest.NewRecorder()
	handler.Execute(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
