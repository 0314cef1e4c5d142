package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taaslabs/taas-backend/database"
)

var migrateConfigFile string

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations",
	RunE:  runMigrate,
}

func init() {
	migrateCmd.Flags().StringVarP(&migrateConfigFile, "config", "c", "", "config file path")
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig(migrateConfigFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.Connect(database.Config{
		Driver:   cfg.Database.Driver,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		Name:     cfg.Database.Name,
		Path:     cfg.Database.Path,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.Migrate(db); err != nil {
		return err
	}

	fmt.Println("migrations applied")
	return nil
}
