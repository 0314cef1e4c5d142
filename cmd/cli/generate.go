package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func newGenerateCmd() *cobra.Command {
	var targetURL string
	var credentials []string

	cmd := &cobra.Command{
		Use:   "generate <objective>",
		Short: "Generate and validate test scenarios for an objective",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			creds := map[string]string{}
			for _, kv := range credentials {
				parts := strings.SplitN(kv, "=", 2)
				if len(parts) != 2 {
					return fmt.Errorf("invalid credential %q, expected key=value", kv)
				}
				creds[parts[0]] = parts[1]
			}

			payload := map[string]interface{}{
				"objective": args[0],
			}
			if targetURL != "" {
				payload["targetUrl"] = targetURL
			}
			if len(creds) > 0 {
				payload["credentials"] = creds
			}

			var resp generateResponse
			if err := getClient().Post("/api/v1/generate", payload, &resp); err != nil {
				return err
			}

			if flagJSON {
				printJSON(resp)
				return nil
			}

			fmt.Printf("Validated: %v", resp.Validation.Validated)
			if resp.Validation.Reason != "" {
				fmt.Printf(" (%s)", resp.Validation.Reason)
			}
			fmt.Println()

			m := resp.Validation.Report.Metrics
			if m.TotalSteps > 0 {
				fmt.Printf("Steps: %d total, %d passed, %d failed, %d warnings\n",
					m.TotalSteps, m.PassedSteps, m.FailedSteps, m.WarningSteps)
			}

			rows := make([][]string, 0, len(resp.Scenarios))
			for _, sc := range resp.Scenarios {
				rows = append(rows, []string{sc.Name, strconv.Itoa(len(sc.Steps)), sc.Description})
			}
			printTable([]string{"SCENARIO", "STEPS", "DESCRIPTION"}, rows)

			if resp.Execution != nil {
				status := "passed"
				if !resp.Execution.Success {
					status = "failed"
				}
				fmt.Printf("\nExecution: %s", status)
				if resp.Execution.RunID != "" {
					fmt.Printf(" (run %s)", resp.Execution.RunID)
				}
				fmt.Println()
				if r := resp.Execution.Report; r != nil && r.Files.ReportDir != "" {
					fmt.Printf("Report: %s\n", r.Files.ReportDir)
				}
			}

			fmt.Printf("\nSaved: %s\n", resp.Files.Validated)
			return nil
		},
	}

	cmd.Flags().StringVar(&targetURL, "target-url", "", "Target URL (extracted from the objective when omitted)")
	cmd.Flags().StringArrayVar(&credentials, "credential", nil, "Credential as key=value (repeatable)")
	return cmd
}
