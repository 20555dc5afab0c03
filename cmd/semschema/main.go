// Package main implements the semschema command line tool. It connects
// to the graph store over NATS, loads a project's data model from its
// constraint and inference graphs, and validates or inspects it.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/c360/semschema/config"
	"github.com/c360/semschema/datamodel"
	"github.com/c360/semschema/errors"
	"github.com/c360/semschema/iri"
	"github.com/c360/semschema/metric"
	"github.com/c360/semschema/natsclient"
	"github.com/c360/semschema/store/natsstore"
)

// Build information constants
const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "semschema"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := run(); err != nil {
		slog.Error("Command failed", "error", err, "exit_code", 1)
		os.Exit(1)
	}
}

func run() error {
	cliCfg := parseFlags()
	if err := validateFlags(cliCfg); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	if cliCfg.ShowVersion {
		fmt.Printf("%s version %s\n", appName, Version)
		return nil
	}
	if cliCfg.ShowHelp {
		printHelp()
		return nil
	}

	logger := setupLogger(cliCfg.LogLevel, cliCfg.LogFormat)
	slog.SetDefault(logger)

	// The project flag flows through the same override channel the
	// loader already honors, so it wins over the config file.
	if cliCfg.Project != "" {
		if err := os.Setenv(config.EnvPrefix+"_PROJECT", cliCfg.Project); err != nil {
			return err
		}
	}

	cfg, err := config.Load(cliCfg.ConfigPath)
	if err != nil {
		return err
	}

	if cliCfg.ValidateOnly {
		slog.Info("Configuration is valid", "project", cfg.Project)
		return nil
	}

	ctx := context.Background()

	var model *datamodel.DataModel
	if cliCfg.Fixture != "" {
		model, err = loadFixtureModel(ctx, cfg, cliCfg.Fixture, logger)
		if err != nil {
			return err
		}
	} else {
		client, registry, err := setupInfrastructure(ctx, cfg)
		if err != nil {
			return err
		}
		defer client.Close(ctx)

		if cfg.Metrics.Enabled {
			metricsServer := metric.NewServer(cfg.Metrics.Port, cfg.Metrics.Path, registry)
			if err := metricsServer.Start(); err != nil {
				return fmt.Errorf("start metrics server: %w", err)
			}
			defer func() { _ = metricsServer.Stop() }()
		}

		model, err = loadModel(ctx, cfg, client, registry, logger)
		if err != nil {
			return err
		}
	}

	switch {
	case cliCfg.Dump:
		prefixes, err := cfg.PrefixMap()
		if err != nil {
			return err
		}
		return dumpModel(model, prefixes)
	default:
		return checkModel(model)
	}
}

// setupInfrastructure creates the NATS client and metrics registry and
// waits for the connection to come up.
func setupInfrastructure(
	ctx context.Context,
	cfg *config.Config,
) (*natsclient.Client, *metric.MetricsRegistry, error) {
	registry := metric.NewMetricsRegistry()

	opts := []natsclient.ClientOption{
		natsclient.WithMaxReconnects(cfg.NATS.MaxReconnects),
		natsclient.WithClientName(appName),
		natsclient.WithMetrics(registry.CoreMetrics()),
	}
	if cfg.NATS.ReconnectWait > 0 {
		opts = append(opts, natsclient.WithReconnectWait(cfg.NATS.ReconnectWait))
	}
	if cfg.NATS.Username != "" {
		opts = append(opts, natsclient.WithCredentials(cfg.NATS.Username, cfg.NATS.Password))
	}
	if cfg.NATS.Token != "" {
		opts = append(opts, natsclient.WithToken(cfg.NATS.Token))
	}
	if cfg.NATS.TLS.Enabled {
		opts = append(opts, natsclient.WithTLS(cfg.NATS.TLS.CertFile, cfg.NATS.TLS.KeyFile, cfg.NATS.TLS.CAFile))
	}

	client, err := natsclient.NewClient(cfg.NATS.URL, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("create NATS client: %w", err)
	}

	slog.Info("Connecting to NATS", "url", cfg.NATS.URL)
	if err := client.Connect(ctx); err != nil {
		return nil, nil, fmt.Errorf("connect to NATS: %w", err)
	}

	connCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.WaitForConnection(connCtx); err != nil {
		return nil, nil, fmt.Errorf("NATS connection timeout: %w", err)
	}

	return client, registry, nil
}

// loadModel builds the store gateway and loads the project's model.
func loadModel(
	ctx context.Context,
	cfg *config.Config,
	client *natsclient.Client,
	registry *metric.MetricsRegistry,
	logger *slog.Logger,
) (*datamodel.DataModel, error) {
	retryCfg := errors.DefaultRetryConfig()
	retryCfg.MaxRetries = cfg.Store.MaxRetries
	retryCfg.InitialDelay = cfg.Store.RetryDelay

	gateway := natsstore.New(client,
		natsstore.WithTimeout(cfg.Store.RequestTimeout),
		natsstore.WithRetry(retryCfg),
		natsstore.WithLogger(logger),
		natsstore.WithMetrics(registry.CoreMetrics()),
	)

	model := datamodel.New(gateway, cfg.Project,
		datamodel.WithLogger(logger),
		datamodel.WithMetrics(registry.CoreMetrics()),
	)

	slog.Info("Loading data model", "project", cfg.Project)
	if err := model.Load(ctx); err != nil {
		return nil, fmt.Errorf("load model for project %s: %w", cfg.Project, err)
	}

	return model, nil
}

// checkModel reports whether the stored graphs form a consistent model.
func checkModel(model *datamodel.DataModel) error {
	props := model.PropertyIDs()
	classes := model.ResourceClassIDs()
	slog.Info("Model loaded and consistent",
		"project", model.Project(),
		"properties", len(props),
		"resource_classes", len(classes),
		"snapshot_marker", model.Marker())
	return nil
}

// modelDump is the JSON shape printed by --dump.
type modelDump struct {
	Project         string   `json:"project"`
	SnapshotMarker  string   `json:"snapshot_marker"`
	Properties      []string `json:"properties"`
	ResourceClasses []string `json:"resource_classes"`
}

// dumpModel prints a JSON summary of the loaded model to stdout.
// Identifiers are compressed through the configured prefixes.
func dumpModel(model *datamodel.DataModel, prefixes *iri.PrefixMap) error {
	dump := modelDump{
		Project:        model.Project(),
		SnapshotMarker: model.Marker(),
	}
	for _, id := range model.PropertyIDs() {
		dump.Properties = append(dump.Properties, prefixes.Compress(id))
	}
	for _, id := range model.ResourceClassIDs() {
		dump.ResourceClasses = append(dump.ResourceClasses, prefixes.Compress(id))
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(dump)
}

// printHelp prints help information
func printHelp() {
	printDetailedHelp()
}
