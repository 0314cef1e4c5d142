package engine

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taaslabs/taas-backend/browser"
	"github.com/taaslabs/taas-backend/logger"
	"github.com/taaslabs/taas-backend/scenario"
)

func newTestExecutorPass(t *testing.T, launcher browser.Launcher) (*Executor, string) {
	t.Helper()
	reportsDir := t.TempDir()
	log := logger.NewTestLogger()
	stepExec := NewStepExecutor(log)
	stepExec.SetSettle(Settle{})
	return NewExecutor(launcher, stepExec, reportsDir, log), reportsDir
}

func runnableScenario() scenario.Scenario {
	return scenario.Scenario{
		Name:        "Login flow",
		Description: "Logs a user in",
		Steps: []scenario.Step{
			{Action: scenario.ActionGoto, URL: "https://example.com"},
			{Action: scenario.ActionFill, Selector: "#user", Value: "alice"},
			{Action: scenario.ActionClick, Selector: "#submit"},
			{Action: scenario.ActionExpect, Selector: "body", Condition: scenario.ConditionToBeVisible},
		},
	}
}

func TestExecuteScenarioHappyPath(t *testing.T) {
	session := browser.NewFakeSession()
	session.Elements["#user"] = browser.ElementVisibleState
	session.Elements["#submit"] = browser.ElementVisibleState
	session.Elements["body"] = browser.ElementVisibleState
	session.PageTitle = "Example Domain"
	launcher := &browser.FakeLauncher{Session: session}

	executor, reportsDir := newTestExecutorPass(t, launcher)
	result := executor.ExecuteScenario(context.Background(), runnableScenario(), "login test")

	require.True(t, result.Success)
	require.NotNil(t, result.Report)
	assert.Empty(t, result.Error)

	// All three artifacts captured, under the report's artifacts dir.
	require.Len(t, result.Artifacts, 3)
	for _, key := range []string{"screenshot", "screenshot_final", "trace"} {
		assert.Contains(t, result.Artifacts, key)
		assert.Contains(t, result.Artifacts[key], reportsDir)
	}
	assert.Len(t, session.Screenshots, 2)
	assert.Equal(t, result.Artifacts["trace"], session.TracePath)

	// Both report files written.
	reportDir := result.Report.Files.ReportDir
	transcript, err := os.ReadFile(filepath.Join(reportDir, "execution-result.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(transcript), "### Result\ntrue")
	assert.Contains(t, string(transcript), `page.Navigate("https://example.com")`)
	assert.Contains(t, string(transcript), `page.Fill("#user", "alice")`)

	reportJSON, err := os.ReadFile(filepath.Join(reportDir, "execution-report.json"))
	require.NoError(t, err)
	var report ExecutionReport
	require.NoError(t, json.Unmarshal(reportJSON, &report))
	assert.Equal(t, PassStatusCompleted, report.Execution.Status)
	assert.Equal(t, 4, report.Execution.TotalSteps)
	assert.Equal(t, "Example Domain", report.Execution.PageState.Title)

	assert.Equal(t, 1, session.CloseCount)
}

func TestExecuteScenarioFailedStepDoesNotAbort(t *testing.T) {
	session := browser.NewFakeSession()
	// #user is absent: the fill fails, but the rest still runs.
	session.Elements["#submit"] = browser.ElementVisibleState
	session.Elements["body"] = browser.ElementVisibleState
	launcher := &browser.FakeLauncher{Session: session}

	executor, _ := newTestExecutorPass(t, launcher)
	result := executor.ExecuteScenario(context.Background(), runnableScenario(), "login test")

	assert.False(t, result.Success, "one failed step fails the run")
	require.NotNil(t, result.Report)
	assert.Equal(t, PassStatusFailed, result.Report.Execution.Status)
	assert.Equal(t, []string{"#submit"}, session.Clicked,
		"steps after the failure still execute")
	assert.Len(t, result.Artifacts, 3, "artifacts are captured despite step failures")
	assert.Equal(t, 1, session.CloseCount)
}

func TestExecuteScenarioSuccessIffNoFailedStep(t *testing.T) {
	// Warnings alone do not fail the run: a scenario with no goto only
	// produces warning steps.
	session := browser.NewFakeSession()
	launcher := &browser.FakeLauncher{Session: session}

	executor, _ := newTestExecutorPass(t, launcher)
	result := executor.ExecuteScenario(context.Background(), scenario.Scenario{
		Name: "No navigation",
		Steps: []scenario.Step{
			{Action: scenario.ActionClick, Selector: "#a"},
			{Action: scenario.ActionFill, Selector: "#b", Value: "x"},
		},
	}, "warnings only")

	assert.True(t, result.Success, "warning outcomes never fail the run")
}

func TestExecuteScenarioLaunchFailure(t *testing.T) {
	launcher := &browser.FakeLauncher{LaunchErr: errors.New("no chrome binary")}

	executor, _ := newTestExecutorPass(t, launcher)
	result := executor.ExecuteScenario(context.Background(), runnableScenario(), "login test")

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "no chrome binary")
	assert.Contains(t, result.FormattedResult, "### Error")
	assert.Nil(t, result.Report)
	assert.Empty(t, result.Artifacts)
}

func TestExecuteScenarioScreenshotFailureIsPassLevel(t *testing.T) {
	session := browser.NewFakeSession()
	session.ScreenshotErr = errors.New("page crashed")
	launcher := &browser.FakeLauncher{Session: session}

	executor, _ := newTestExecutorPass(t, launcher)
	result := executor.ExecuteScenario(context.Background(), runnableScenario(), "login test")

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "page crashed")
	assert.Equal(t, 1, session.CloseCount, "the session is released on pass failure")
}

func TestExecuteScenarioPageStateErrorDoesNotAbort(t *testing.T) {
	session := browser.NewFakeSession()
	session.Elements["#user"] = browser.ElementVisibleState
	session.Elements["#submit"] = browser.ElementVisibleState
	session.Elements["body"] = browser.ElementVisibleState
	session.InfoErr = errors.New("target closed")
	launcher := &browser.FakeLauncher{Session: session}

	executor, _ := newTestExecutorPass(t, launcher)
	result := executor.ExecuteScenario(context.Background(), runnableScenario(), "login test")

	require.True(t, result.Success, "a page-state read failure never aborts finalization")
	require.NotNil(t, result.Report)
	assert.Equal(t, "target closed", result.Report.Execution.PageState.Error)
	assert.Len(t, result.Artifacts, 3)
}

func TestExecuteScenarioWritesTranscriptForEveryStep(t *testing.T) {
	session := browser.NewFakeSession()
	session.Elements["body"] = browser.ElementVisibleState
	launcher := &browser.FakeLauncher{Session: session}

	executor, _ := newTestExecutorPass(t, launcher)
	sc := scenario.Scenario{
		Name: "Transcript",
		Steps: []scenario.Step{
			{Action: scenario.ActionGoto, URL: "https://example.com"},
			{Action: scenario.ActionExpect, Selector: "body", Condition: scenario.ConditionToBeVisible},
		},
	}
	result := executor.ExecuteScenario(context.Background(), sc, "transcript test")

	require.NotNil(t, result.Report)
	assert.Contains(t, result.Report.Execution.ExecutedCode, `page.Navigate("https://example.com")`)
	assert.Contains(t, result.Report.Execution.ExecutedCode, `page.WaitVisible("body")`)
}
