package main

import (
	"os"

	"github.com/spf13/viper"
)

var cfg *viper.Viper

func initConfig() error {
	cfg = viper.New()
	cfg.SetConfigName(".taas")
	cfg.SetConfigType("yaml")

	home, err := os.UserHomeDir()
	if err == nil {
		cfg.AddConfigPath(home)
	}

	cfg.SetDefault("url", "http://localhost:8080")

	cfg.SetEnvPrefix("TAAS")
	cfg.AutomaticEnv()

	// Missing config file is fine; defaults and env vars apply.
	cfg.ReadInConfig()

	if flagURL != "" {
		cfg.Set("url", flagURL)
	}
	return nil
}

func getConfigURL() string {
	return cfg.GetString("url")
}
