package main

import (
	"flag"
	"fmt"
	"os"
)

// CLIConfig holds command-line configuration
type CLIConfig struct {
	ConfigPath   string
	Project      string
	Fixture      string
	LogLevel     string
	LogFormat    string
	Debug        bool
	Dump         bool
	ShowVersion  bool
	ShowHelp     bool
	ValidateOnly bool
}

func parseFlags() *CLIConfig {
	cfg := &CLIConfig{}

	// Define flags with environment variable fallback
	flag.StringVar(&cfg.ConfigPath, "config",
		getEnv("SEMSCHEMA_CONFIG", ""),
		"Path to configuration file (env: SEMSCHEMA_CONFIG)")

	flag.StringVar(&cfg.ConfigPath, "c",
		getEnv("SEMSCHEMA_CONFIG", ""),
		"Path to configuration file (env: SEMSCHEMA_CONFIG)")

	flag.StringVar(&cfg.Project, "project",
		getEnv("SEMSCHEMA_PROJECT", ""),
		"Project whose graphs to load (env: SEMSCHEMA_PROJECT)")

	flag.StringVar(&cfg.Fixture, "fixture", "",
		"Load graphs from a JSON fixture file instead of the store")

	flag.StringVar(&cfg.LogLevel, "log-level",
		getEnv("SEMSCHEMA_LOG_LEVEL", "info"),
		"Log level: debug, info, warn, error (env: SEMSCHEMA_LOG_LEVEL)")

	flag.StringVar(&cfg.LogFormat, "log-format",
		getEnv("SEMSCHEMA_LOG_FORMAT", "text"),
		"Log format: json, text (env: SEMSCHEMA_LOG_FORMAT)")

	flag.BoolVar(&cfg.Debug, "debug", false, "Enable debug logging")

	flag.BoolVar(&cfg.Dump, "dump", false,
		"Print a JSON summary of the loaded model to stdout")

	flag.BoolVar(&cfg.ShowVersion, "version", false, "Show version information")
	flag.BoolVar(&cfg.ShowVersion, "v", false, "Show version information")
	flag.BoolVar(&cfg.ShowHelp, "help", false, "Show help information")
	flag.BoolVar(&cfg.ShowHelp, "h", false, "Show help information")
	flag.BoolVar(&cfg.ValidateOnly, "validate", false, "Validate configuration and exit")

	flag.Usage = func() {
		printDetailedHelp()
	}

	flag.Parse()

	if cfg.Debug {
		cfg.LogLevel = "debug"
	}

	return cfg
}

func validateFlags(cfg *CLIConfig) error {
	// Skip validation for special flags
	if cfg.ShowVersion || cfg.ShowHelp {
		return nil
	}

	// A config file is optional, but a given path must exist
	if cfg.ConfigPath != "" {
		if _, err := os.Stat(cfg.ConfigPath); err != nil {
			return fmt.Errorf("config file not found: %s", cfg.ConfigPath)
		}
	}

	if cfg.Fixture != "" {
		if _, err := os.Stat(cfg.Fixture); err != nil {
			return fmt.Errorf("fixture file not found: %s", cfg.Fixture)
		}
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, cfg.LogLevel) {
		return fmt.Errorf("invalid log level: %s", cfg.LogLevel)
	}

	validFormats := []string{"json", "text"}
	if !contains(validFormats, cfg.LogFormat) {
		return fmt.Errorf("invalid log format: %s", cfg.LogFormat)
	}

	return nil
}

func printDetailedHelp() {
	_, _ = fmt.Fprintf(os.Stderr, `%s - Schema graph management

Usage: %s [options]

Loads a project's constraint and inference graphs from the store,
checks that they form a consistent data model, and optionally prints
a summary.

Options:
`, appName, os.Args[0])
	flag.PrintDefaults()
	_, _ = fmt.Fprintf(os.Stderr, `
Examples:
  # Check a project's schema graphs
  %s --config=/etc/semschema/config.json --project=books

  # Print a model summary as JSON
  %s --project=books --dump

  # Check a fixture file without a store
  %s --project=books --fixture=testdata/books.json

  # Run with environment variables
  export SEMSCHEMA_NATS_URL=nats://broker:4222
  export SEMSCHEMA_PROJECT=books
  %s

  # Validate configuration only
  %s --config=/etc/semschema/config.json --validate

Version: %s
Build: %s
`, os.Args[0], os.Args[0], os.Args[0], os.Args[0], os.Args[0], Version, BuildTime)
}

// Environment variable helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Utility function to check if slice contains string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
