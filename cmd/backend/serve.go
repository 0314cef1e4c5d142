package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"

	"github.com/taaslabs/taas-backend/browser"
	"github.com/taaslabs/taas-backend/cmd/backend/handlers"
	"github.com/taaslabs/taas-backend/database"
	"github.com/taaslabs/taas-backend/engine"
	"github.com/taaslabs/taas-backend/generator"
	"github.com/taaslabs/taas-backend/logger"
	"github.com/taaslabs/taas-backend/results"
	"github.com/taaslabs/taas-backend/runhistory"
	"github.com/taaslabs/taas-backend/storage"
)

var configFile string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServer,
}

func init() {
	serveCmd.Flags().StringVarP(&configFile, "config", "c", "", "config file path")
	rootCmd.AddCommand(serveCmd)
}

func runServer(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.NewLogrusLogger(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	log.Info(ctx, "starting server", map[string]interface{}{
		"version": Version,
		"commit":  Commit,
		"date":    BuildDate,
	})

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
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	defer sqlDB.Close()

	runStore := runhistory.NewGormStore(db, log)

	resultStore, err := results.NewStore(results.Config{
		ScenariosDir: cfg.Dirs.Results,
		ValidatedDir: cfg.Dirs.McpResults,
		ReportsDir:   cfg.Dirs.Reports,
	}, log)
	if err != nil {
		return fmt.Errorf("failed to initialize result store: %w", err)
	}

	artifactStore, err := storage.New(storage.Config{
		Type:          cfg.Storage.Type,
		BaseDir:       cfg.Storage.BaseDir,
		Bucket:        cfg.Storage.S3Bucket,
		Region:        cfg.Storage.S3Region,
		PresignExpiry: cfg.Storage.S3PresignExpiry,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize artifact storage: %w", err)
	}

	gen, err := generator.New(generator.Config{
		Backend:   cfg.Generator.Backend,
		APIKey:    cfg.Generator.APIKey,
		Model:     cfg.Generator.Model,
		MaxTokens: cfg.Generator.MaxTokens,
		Region:    cfg.Generator.Region,
		BaseURL:   cfg.Generator.BaseURL,
		Timeout:   cfg.Generator.Timeout,
	}, log)
	if err != nil {
		return fmt.Errorf("failed to initialize scenario generator: %w", err)
	}
	log.Info(ctx, "scenario generator initialized", map[string]interface{}{
		"backend": cfg.Generator.Backend,
	})

	launcher := browser.NewRodLauncher(browser.Config{
		Headless: cfg.Browser.Headless,
		Stealth:  cfg.Browser.Stealth,
	}, log)

	stepExec := engine.NewStepExecutor(log)
	validator := engine.NewValidator(launcher, stepExec, engine.ValidationConfig{
		Enabled:     cfg.Validation.Enabled,
		SkipDomains: cfg.Validation.SkipDomains,
	}, log)
	executor := engine.NewExecutor(launcher, stepExec, cfg.Dirs.Reports, log)

	generateHandler := handlers.NewGenerateHandler(gen, validator, executor, resultStore, runStore, log)
	executeHandler := handlers.NewExecuteHandler(executor, runStore, log)
	resultsHandler := handlers.NewResultsHandler(resultStore, log)
	runsHandler := handlers.NewRunsHandler(runStore, log)
	artifactsHandler := handlers.NewArtifactsHandler(artifactStore, log)

	router := mux.NewRouter()
	router.HandleFunc("/health", handlers.HealthHandler).Methods("GET")

	apiRouter := router.PathPrefix("/api/v1").Subrouter()
	apiRouter.HandleFunc("/generate", generateHandler.Generate).Methods("POST")
	apiRouter.HandleFunc("/execute", executeHandler.Execute).Methods("POST")
	apiRouter.HandleFunc("/results", resultsHandler.List).Methods("GET")
	apiRouter.HandleFunc("/results-mcp", resultsHandler.ListValidated).Methods("GET")
	apiRouter.HandleFunc("/reports", resultsHandler.ListReports).Methods("GET")
	apiRouter.HandleFunc("/runs", runsHandler.List).Methods("GET")
	apiRouter.HandleFunc("/runs/{id}", runsHandler.GetByID).Methods("GET")
	apiRouter.HandleFunc("/artifacts", artifactsHandler.List).Methods("GET")
	apiRouter.HandleFunc("/artifacts/{path:.*}", artifactsHandler.Download).Methods("GET")

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info(ctx, "server listening", map[string]interface{}{
			"address": addr,
		})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(ctx, "server error", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info(ctx, "shutting down server", nil)

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info(ctx, "server stopped", nil)
	return nil
}
