package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

var (
	flagURL   string
	flagJSON  bool
	flagDebug bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "taasctl",
		Short: "CLI for the TaaS backend",
		Long:  "A command-line interface for generating, executing and inspecting browser test scenarios against a TaaS backend.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
	}

	rootCmd.PersistentFlags().StringVar(&flagURL, "url", "", "API server URL (env: TAAS_URL)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug output")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("taasctl %s (commit: %s, built: %s)\n", Version, Commit, BuildDate)
		},
	}

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newGenerateCmd())
	rootCmd.AddCommand(newExecuteCmd())
	rootCmd.AddCommand(newResultsCmd())
	rootCmd.AddCommand(newReportsCmd())
	rootCmd.AddCommand(newRunsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
