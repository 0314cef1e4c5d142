package results

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taaslabs/taas-backend/engine"
	"github.com/taaslabs/taas-backend/generator"
	"github.com/taaslabs/taas-backend/logger"
	"github.com/taaslabs/taas-backend/scenario"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	base := t.TempDir()
	store, err := NewStore(Config{
		ScenariosDir: filepath.Join(base, "results"),
		ValidatedDir: filepath.Join(base, "mcp-results"),
		ReportsDir:   filepath.Join(base, "reports"),
	}, logger.NewTestLogger())
	require.NoError(t, err)
	return store
}

func TestSaveScenariosRoundTrip(t *testing.T) {
	store := newTestStore(t)

	result := &generator.Result{
		Scenarios: []scenario.Scenario{
			{
				Name: "Search flow",
				Steps: []scenario.Step{
					{Action: scenario.ActionGoto, URL: "https://example.com"},
				},
			},
		},
		Metadata: generator.Metadata{
			Objective: "search the catalogue",
			TargetURL: "https://example.com",
			Source:    generator.BackendGemini,
		},
	}

	path, err := store.SaveScenarios(result)
	require.NoError(t, err)
	assert.Contains(t, filepath.Base(path), "scenario-")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var loaded generator.Result
	require.NoError(t, json.Unmarshal(data, &loaded))
	assert.Equal(t, "Search flow", loaded.Scenarios[0].Name)
	assert.Equal(t, "search the catalogue", loaded.Metadata.Objective)
}

func TestSaveValidated(t *testing.T) {
	store := newTestStore(t)

	path, err := store.SaveValidated(&engine.ValidationResult{
		Validated: true,
		Scenarios: []scenario.Scenario{{Name: "Login", Steps: []scenario.Step{
			{Action: scenario.ActionGoto, URL: "https://example.com"},
		}}},
	})
	require.NoError(t, err)
	assert.Contains(t, filepath.Base(path), "mcp-validated-")

	entries, err := store.ListValidated()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Base(path), entries[0].Name)
}

func TestListScenariosNewestFirst(t *testing.T) {
	store := newTestStore(t)

	older := filepath.Join(store.cfg.ScenariosDir, "scenario-2026-01-01T00-00-00-000.json")
	newer := filepath.Join(store.cfg.ScenariosDir, "scenario-2026-02-01T00-00-00-000.json")
	require.NoError(t, os.WriteFile(older, []byte("{}"), 0644))
	require.NoError(t, os.WriteFile(newer, []byte("{}"), 0644))

	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(older, base.Add(-time.Hour), base.Add(-time.Hour)))
	require.NoError(t, os.Chtimes(newer, base, base))

	// Files that do not match the naming convention are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(store.cfg.ScenariosDir, "notes.txt"), []byte("x"), 0644))

	entries, err := store.ListScenarios()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "scenario-2026-02-01T00-00-00-000.json", entries[0].Name)
	assert.Equal(t, "scenario-2026-01-01T00-00-00-000.json", entries[1].Name)
}

func TestLoadRejectsPathEscape(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Load("../secrets.json")
	assert.ErrorIs(t, err, ErrInvalidName)

	_, err = store.Load("")
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestListReportsReadsMetadata(t *testing.T) {
	store := newTestStore(t)

	reportDir := filepath.Join(store.cfg.ReportsDir, "report-2026-01-15T10-30-00-000")
	require.NoError(t, os.MkdirAll(reportDir, 0755))

	report := engine.ExecutionReport{
		Scenario: scenario.Scenario{Name: "Checkout flow"},
		Execution: engine.ExecutionDetails{
			Status:        "completed",
			ExecutionTime: "2.40s",
			TotalSteps:    5,
		},
	}
	data, err := json.Marshal(report)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(reportDir, "execution-report.json"), data, 0644))

	// A report directory without a readable report file is still listed.
	bareDir := filepath.Join(store.cfg.ReportsDir, "report-2026-01-14T09-00-00-000")
	require.NoError(t, os.MkdirAll(bareDir, 0755))

	// Non-report directories are ignored.
	require.NoError(t, os.MkdirAll(filepath.Join(store.cfg.ReportsDir, "scratch"), 0755))

	reports, err := store.ListReports()
	require.NoError(t, err)
	require.Len(t, reports, 2)

	byName := map[string]ReportEntry{}
	for _, r := range reports {
		byName[r.Name] = r
	}
	full := byName["report-2026-01-15T10-30-00-000"]
	assert.Equal(t, "Checkout flow", full.Scenario)
	assert.Equal(t, "completed", full.Status)
	assert.Equal(t, 5, full.TotalSteps)

	bare := byName["report-2026-01-14T09-00-00-000"]
	assert.Empty(t, bare.Scenario)
	assert.NotZero(t, bare.CreatedAt)
}

func TestListReportsMalformedReportStillListed(t *testing.T) {
	store := newTestStore(t)

	reportDir := filepath.Join(store.cfg.ReportsDir, "report-2026-01-15T10-30-00-000")
	require.NoError(t, os.MkdirAll(reportDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(reportDir, "execution-report.json"), []byte("{not json"), 0644))

	reports, err := store.ListReports()
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Empty(t, reports[0].Status)
}
