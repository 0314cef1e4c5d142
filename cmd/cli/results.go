package main

import (
	"strconv"

	"github.com/spf13/cobra"
)

func newResultsCmd() *cobra.Command {
	var validated bool

	cmd := &cobra.Command{
		Use:   "results",
		Short: "List stored scenario result files",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/results"
			if validated {
				path = "/api/v1/results-mcp"
			}

			var resp listResponse[resultEntry]
			if err := getClient().Get(path, &resp); err != nil {
				return err
			}

			if flagJSON {
				printJSON(resp)
				return nil
			}

			rows := make([][]string, 0, len(resp.Items))
			for _, e := range resp.Items {
				rows = append(rows, []string{e.Name, strconv.FormatInt(e.Size, 10), e.ModifiedAt})
			}
			printTable([]string{"NAME", "SIZE", "MODIFIED"}, rows)
			return nil
		},
	}

	cmd.Flags().BoolVar(&validated, "validated", false, "List validated results instead of generated ones")
	return cmd
}

func newReportsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reports",
		Short: "List execution reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp listResponse[reportEntry]
			if err := getClient().Get("/api/v1/reports", &resp); err != nil {
				return err
			}

			if flagJSON {
				printJSON(resp)
				return nil
			}

			rows := make([][]string, 0, len(resp.Items))
			for _, e := range resp.Items {
				rows = append(rows, []string{e.Name, e.Scenario, e.Status, strconv.Itoa(e.TotalSteps)})
			}
			printTable([]string{"REPORT", "SCENARIO", "STATUS", "STEPS"}, rows)
			return nil
		},
	}
}
