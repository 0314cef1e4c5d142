package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Log        LogConfig
	Database   DatabaseConfig
	Storage    StorageConfig
	Generator  GeneratorConfig
	Browser    BrowserConfig
	Validation ValidationConfig
	Dirs       DirsConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string
	Format string
}

// DatabaseConfig holds run-history database configuration.
type DatabaseConfig struct {
	Driver   string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	Path     string
}

// StorageConfig holds artifact storage configuration.
type StorageConfig struct {
	Type            string
	BaseDir         string
	S3Bucket        string
	S3Region        string
	S3PresignExpiry time.Duration
}

// GeneratorConfig holds scenario generator configuration.
type GeneratorConfig struct {
	Backend   string
	APIKey    string
	Model     string
	MaxTokens int
	Region    string
	BaseURL   string
	Timeout   time.Duration
}

// BrowserConfig holds browser launch configuration.
type BrowserConfig struct {
	Headless bool
	Stealth  bool
}

// ValidationConfig holds validation pass configuration.
type ValidationConfig struct {
	Enabled     bool
	SkipDomains []string
}

// DirsConfig holds the output directories for results and reports.
type DirsConfig struct {
	Results    string
	McpResults string
	Reports    string
}

// LoadConfig loads configuration from file and environment variables. A
// .env file next to the binary is loaded first so API keys can live there.
func LoadConfig(configPath string) (*Config, error) {
	// Missing .env is fine; environment variables still apply.
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "300s")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.user", "root")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.name", "taas")
	v.SetDefault("database.path", "./taas.db")

	v.SetDefault("storage.type", "local")
	// Local artifact storage serves the report tree directly.
	v.SetDefault("storage.base_dir", "./reports")
	v.SetDefault("storage.s3_bucket", "")
	v.SetDefault("storage.s3_region", "us-east-1")
	v.SetDefault("storage.s3_presign_expiry", "15m")

	v.SetDefault("generator.backend", "gemini")
	v.SetDefault("generator.api_key", "")
	v.SetDefault("generator.model", "")
	v.SetDefault("generator.max_tokens", 2048)
	v.SetDefault("generator.region", "us-east-1")
	v.SetDefault("generator.base_url", "")
	v.SetDefault("generator.timeout", "60s")

	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.stealth", true)

	v.SetDefault("validation.enabled", true)
	v.SetDefault("validation.skip_domains", []string{})

	v.SetDefault("dirs.results", "./results")
	v.SetDefault("dirs.mcp_results", "./mcp-results")
	v.SetDefault("dirs.reports", "./reports")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found; using defaults
	}

	var config Config

	config.Server.Host = v.GetString("server.host")
	config.Server.Port = v.GetInt("server.port")
	config.Server.ReadTimeout = v.GetDuration("server.read_timeout")
	config.Server.WriteTimeout = v.GetDuration("server.write_timeout")

	config.Log.Level = v.GetString("log.level")
	config.Log.Format = v.GetString("log.format")

	config.Database.Driver = v.GetString("database.driver")
	config.Database.Host = v.GetString("database.host")
	config.Database.Port = v.GetInt("database.port")
	config.Database.User = v.GetString("database.user")
	config.Database.Password = v.GetString("database.password")
	config.Database.Name = v.GetString("database.name")
	config.Database.Path = v.GetString("database.path")

	config.Storage.Type = v.GetString("storage.type")
	config.Storage.BaseDir = v.GetString("storage.base_dir")
	config.Storage.S3Bucket = v.GetString("storage.s3_bucket")
	config.Storage.S3Region = v.GetString("storage.s3_region")
	config.Storage.S3PresignExpiry = v.GetDuration("storage.s3_presign_expiry")

	config.Generator.Backend = v.GetString("generator.backend")
	config.Generator.APIKey = v.GetString("generator.api_key")
	config.Generator.Model = v.GetString("generator.model")
	config.Generator.MaxTokens = v.GetInt("generator.max_tokens")
	config.Generator.Region = v.GetString("generator.region")
	config.Generator.BaseURL = v.GetString("generator.base_url")
	config.Generator.Timeout = v.GetDuration("generator.timeout")

	config.Browser.Headless = v.GetBool("browser.headless")
	config.Browser.Stealth = v.GetBool("browser.stealth")

	config.Validation.Enabled = v.GetBool("validation.enabled")
	config.Validation.SkipDomains = v.GetStringSlice("validation.skip_domains")

	config.Dirs.Results = v.GetString("dirs.results")
	config.Dirs.McpResults = v.GetString("dirs.mcp_results")
	config.Dirs.Reports = v.GetString("dirs.reports")

	// Fall back to well-known env vars when no key is configured.
	if config.Generator.APIKey == "" {
		switch strings.ToLower(config.Generator.Backend) {
		case "gemini":
			config.Generator.APIKey = v.GetString("GEMINI_API_KEY")
		case "openai":
			config.Generator.APIKey = v.GetString("OPENAI_API_KEY")
		}
	}

	return &config, nil
}
