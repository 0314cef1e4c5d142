package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newExecuteCmd() *cobra.Command {
	var file string
	var testName string
	var objective string

	cmd := &cobra.Command{
		Use:   "execute",
		Short: "Execute a scenario file against a real browser",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read scenario file: %w", err)
			}

			sc, err := readScenario(data)
			if err != nil {
				return err
			}

			payload := map[string]interface{}{
				"scenario": sc,
			}
			if testName != "" {
				payload["testName"] = testName
			}
			if objective != "" {
				payload["objective"] = objective
			}

			var resp executePayload
			if err := getClient().Post("/api/v1/execute", payload, &resp); err != nil {
				return err
			}

			if flagJSON {
				printJSON(resp)
				return nil
			}

			if resp.FormattedResult != "" {
				fmt.Println(resp.FormattedResult)
			}
			if resp.Report != nil {
				fmt.Printf("\nReport: %s\n", resp.Report.Files.ReportDir)
			}
			if resp.RunID != "" {
				fmt.Printf("Run ID: %s\n", resp.RunID)
			}
			if !resp.Success {
				return fmt.Errorf("scenario failed")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Scenario JSON file (required)")
	cmd.Flags().StringVar(&testName, "test-name", "", "Name recorded for this run")
	cmd.Flags().StringVar(&objective, "objective", "", "Objective recorded for this run")
	cmd.MarkFlagRequired("file")
	return cmd
}

// readScenario accepts either a bare scenario object or a generation result
// with a scenarios list, in which case the first scenario is executed.
func readScenario(data []byte) (json.RawMessage, error) {
	var wrapper struct {
		Scenarios []json.RawMessage `json:"scenarios"`
	}
	if err := json.Unmarshal(data, &wrapper); err == nil && len(wrapper.Scenarios) > 0 {
		return wrapper.Scenarios[0], nil
	}

	var sc scenarioPayload
	if err := json.Unmarshal(data, &sc); err != nil || sc.Name == "" {
		return nil, fmt.Errorf("file does not contain a scenario or a scenarios list")
	}
	return json.RawMessage(data), nil
}
