package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect recorded execution runs",
	}
	cmd.AddCommand(newRunsListCmd())
	cmd.AddCommand(newRunsGetCmd())
	return cmd
}

func newRunsListCmd() *cobra.Command {
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := fmt.Sprintf("/api/v1/runs?limit=%d&offset=%d", limit, offset)

			var resp listResponse[runEntry]
			if err := getClient().Get(path, &resp); err != nil {
				return err
			}

			if flagJSON {
				printJSON(resp)
				return nil
			}

			rows := make([][]string, 0, len(resp.Items))
			for _, r := range resp.Items {
				steps := fmt.Sprintf("%d/%d", r.PassedSteps, r.TotalSteps)
				rows = append(rows, []string{r.ID, r.ScenarioName, r.Status, steps, r.CreatedAt})
			}
			printTable([]string{"ID", "SCENARIO", "STATUS", "PASSED", "CREATED"}, rows)
			fmt.Printf("\n%d run(s) total\n", resp.Total)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "Number of runs to skip")
	return cmd
}

func newRunsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <run-id>",
		Short: "Show a single run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var run runEntry
			if err := getClient().Get("/api/v1/runs/"+args[0], &run); err != nil {
				return err
			}

			if flagJSON {
				printJSON(run)
				return nil
			}

			fmt.Printf("Run:       %s\n", run.ID)
			fmt.Printf("Scenario:  %s\n", run.ScenarioName)
			fmt.Printf("Objective: %s\n", run.Objective)
			fmt.Printf("Status:    %s\n", run.Status)
			fmt.Printf("Steps:     %d total, %d passed, %d failed, %d warnings\n",
				run.TotalSteps, run.PassedSteps, run.FailedSteps, run.WarningSteps)
			if run.ReportDir != "" {
				fmt.Printf("Report:    %s\n", run.ReportDir)
			}
			fmt.Printf("Created:   %s\n", run.CreatedAt)
			return nil
		},
	}
}