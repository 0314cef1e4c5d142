// Package results persists generated and validated scenario files and
// enumerates past execution reports.
package results

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/taaslabs/taas-backend/engine"
	"github.com/taaslabs/taas-backend/generator"
	"github.com/taaslabs/taas-backend/logger"
)

const (
	scenarioFilePrefix  = "scenario-"
	validatedFilePrefix = "mcp-validated-"
	reportDirPrefix     = "report-"
)

// ErrInvalidName is returned when a result name escapes its directory.
var ErrInvalidName = errors.New("invalid result name")

// Config holds the directories the store writes into.
type Config struct {
	ScenariosDir string
	ValidatedDir string
	ReportsDir   string
}

// Store reads and writes scenario result files on disk.
type Store struct {
	cfg Config
	log logger.Logger
}

// NewStore creates the result store, creating its directories if missing.
func NewStore(cfg Config, log logger.Logger) (*Store, error) {
	for _, dir := range []string{cfg.ScenariosDir, cfg.ValidatedDir, cfg.ReportsDir} {
		if dir == "" {
			return nil, fmt.Errorf("result directories must be configured")
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create result directory %s: %w", dir, err)
		}
	}
	return &Store{cfg: cfg, log: log}, nil
}

// SaveScenarios writes a generation result as scenario-<timestamp>.json and
// returns the file path.
func (s *Store) SaveScenarios(result *generator.Result) (string, error) {
	name := scenarioFilePrefix + engine.FileTimestamp(time.Now()) + ".json"
	return s.writeJSON(s.cfg.ScenariosDir, name, result)
}

// SaveValidated writes a validation result as mcp-validated-<timestamp>.json
// and returns the file path.
func (s *Store) SaveValidated(result *engine.ValidationResult) (string, error) {
	name := validatedFilePrefix + engine.FileTimestamp(time.Now()) + ".json"
	return s.writeJSON(s.cfg.ValidatedDir, name, result)
}

func (s *Store) writeJSON(dir, name string, payload interface{}) (string, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write result file: %w", err)
	}
	return path, nil
}

// Entry describes one stored result file.
type Entry struct {
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

// ListScenarios returns generated scenario files, newest first.
func (s *Store) ListScenarios() ([]Entry, error) {
	return listFiles(s.cfg.ScenariosDir, scenarioFilePrefix)
}

// ListValidated returns validated scenario files, newest first.
func (s *Store) ListValidated() ([]Entry, error) {
	return listFiles(s.cfg.ValidatedDir, validatedFilePrefix)
}

func listFiles(dir, prefix string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read result directory: %w", err)
	}

	var entries []Entry
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasPrefix(de.Name(), prefix) || !strings.HasSuffix(de.Name(), ".json") {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			Name:       de.Name(),
			Path:       filepath.Join(dir, de.Name()),
			Size:       info.Size(),
			ModifiedAt: info.ModTime(),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].ModifiedAt.Equal(entries[j].ModifiedAt) {
			return entries[i].Name > entries[j].Name
		}
		return entries[i].ModifiedAt.After(entries[j].ModifiedAt)
	})
	return entries, nil
}

// Load reads a stored result file by name from the scenarios or validated
// directory. The name must be a bare file name.
func (s *Store) Load(name string) ([]byte, error) {
	if name == "" || name != filepath.Base(name) {
		return nil, ErrInvalidName
	}
	dir := s.cfg.ScenariosDir
	if strings.HasPrefix(name, validatedFilePrefix) {
		dir = s.cfg.ValidatedDir
	}
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return nil, fmt.Errorf("failed to read result file: %w", err)
	}
	return data, nil
}

// ReportEntry describes one execution report directory. Metadata comes from
// the report's execution-report.json when it can be read.
type ReportEntry struct {
	Name          string    `json:"name"`
	Path          string    `json:"path"`
	CreatedAt     time.Time `json:"createdAt"`
	Scenario      string    `json:"scenario,omitempty"`
	Status        string    `json:"status,omitempty"`
	ExecutionTime string    `json:"executionTime,omitempty"`
	TotalSteps    int       `json:"totalSteps,omitempty"`
}

// ListReports returns execution report directories, newest first. A report
// whose execution-report.json is missing or malformed is still listed with
// its directory metadata only.
func (s *Store) ListReports() ([]ReportEntry, error) {
	dirEntries, err := os.ReadDir(s.cfg.ReportsDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read reports directory: %w", err)
	}

	var reports []ReportEntry
	for _, de := range dirEntries {
		if !de.IsDir() || !strings.HasPrefix(de.Name(), reportDirPrefix) {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		entry := ReportEntry{
			Name:      de.Name(),
			Path:      filepath.Join(s.cfg.ReportsDir, de.Name()),
			CreatedAt: info.ModTime(),
		}
		s.fillReportMetadata(&entry)
		reports = append(reports, entry)
	}

	sort.Slice(reports, func(i, j int) bool {
		if reports[i].CreatedAt.Equal(reports[j].CreatedAt) {
			return reports[i].Name > reports[j].Name
		}
		return reports[i].CreatedAt.After(reports[j].CreatedAt)
	})
	return reports, nil
}

func (s *Store) fillReportMetadata(entry *ReportEntry) {
	data, err := os.ReadFile(filepath.Join(entry.Path, "execution-report.json"))
	if err != nil {
		return
	}
	var report engine.ExecutionReport
	if err := json.Unmarshal(data, &report); err != nil {
		if s.log != nil {
			s.log.Warn(context.Background(), "malformed execution report", map[string]interface{}{
				"report": entry.Name,
				"error":  err.Error(),
			})
		}
		return
	}
	entry.Scenario = report.Scenario.Name
	entry.Status = report.Execution.Status
	entry.ExecutionTime = report.Execution.ExecutionTime
	entry.TotalSteps = report.Execution.TotalSteps
}
