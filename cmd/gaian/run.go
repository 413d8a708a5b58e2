package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"gaian-hq/gaian/pkg/biome"
	"gaian-hq/gaian/pkg/cli"
	"gaian-hq/gaian/pkg/config"
	"gaian-hq/gaian/pkg/export"
	"gaian-hq/gaian/pkg/export/audit"
	"gaian-hq/gaian/pkg/export/audit/retention"
	"gaian-hq/gaian/pkg/export/gate"
	"gaian-hq/gaian/pkg/governance/anticheat"
	"gaian-hq/gaian/pkg/governance/engine"
	"gaian-hq/gaian/pkg/governance/ethics"
	"gaian-hq/gaian/pkg/governance/novelty"
	"gaian-hq/gaian/pkg/server"
	"gaian-hq/gaian/pkg/sink"
	"gaian-hq/gaian/pkg/telemetry/health"
	"gaian-hq/gaian/pkg/telemetry/logging"
	"gaian-hq/gaian/pkg/telemetry/metrics"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Gaian governance server",
	Long: `Start the governance server with the specified configuration.

The server evaluates telemetry actions through the governance pipeline,
gates export requests, and serves the audit and admin endpoints.

Examples:
  # Start with default config
  gaian run

  # Start with custom config
  gaian run --config /etc/gaian/gaian.yaml

  # Override listen address
  gaian run --listen 0.0.0.0:8080

  # Validate config without starting
  gaian run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	if err := config.Initialize(cfgFile); err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}
	cfg := config.GetConfig()

	// Flag overrides
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}

	logger, err := logging.Setup(logging.Config{
		Level:  cfg.Telemetry.Logging.Level,
		Format: cfg.Telemetry.Logging.Format,
	})
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	fmt.Printf("Gaian v%s\n", Version)
	fmt.Printf("Loading configuration from: %s\n", cfgFile)
	fmt.Println("✓ Configuration loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Biome rule registry, optionally hot-reloaded
	registry, err := biome.LoadRegistry(cfg.Rules.Path)
	if err != nil {
		return cli.NewConfigError("rules.path", fmt.Sprintf("failed to load biome rules: %v", err))
	}
	provider := biome.NewProvider(registry)
	fmt.Printf("✓ Biome rules loaded (%d biomes)\n", len(registry.BiomeIDs()))

	if cfg.Rules.Watch {
		watcher, err := biome.NewWatcher(biome.WatcherConfig{Path: cfg.Rules.Path}, provider, logger)
		if err != nil {
			slog.Warn("failed to start rules watcher", "error", err)
		} else {
			go func() {
				if err := watcher.Watch(ctx); err != nil {
					slog.Warn("rules watcher stopped", "error", err)
				}
			}()
		}
	}

	// Governance engine
	eng, err := engine.New(
		anticheat.New(&cfg.Governance.AntiCheat, logger),
		ethics.NewFilter(logger),
		novelty.NewScorer(&cfg.Governance.Novelty, logger),
		provider,
		logger,
	)
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	fmt.Println("✓ Governance engine initialized")

	// Buyer registry
	var buyers *export.BuyerRegistry
	if cfg.Exports.BuyersPath != "" {
		buyers, err = export.LoadBuyerRegistry(cfg.Exports.BuyersPath)
	} else {
		buyers, err = export.NewBuyerRegistry(cfg.Exports.AllowedBuyers)
	}
	if err != nil {
		return cli.NewConfigError("exports", fmt.Sprintf("failed to load buyers: %v", err))
	}

	// Audit trail: append-only in-process log with a durable archive
	archive, err := newAuditArchive(&cfg.Exports.Audit)
	if err != nil {
		return cli.NewCommandError("run", err)
	}

	auditLog := audit.NewLog(archive, &audit.Config{
		AsyncBuffer:  cfg.Exports.Audit.AsyncBuffer,
		WriteTimeout: cfg.Exports.Audit.WriteTimeout,
	}, logger)
	defer func() { _ = auditLog.Close() }()

	if cfg.Exports.Audit.PruneSchedule != "" {
		pruner := retention.NewPruner(archive, &retention.Config{
			RetentionDays: cfg.Exports.Audit.RetentionDays,
			PruneSchedule: cfg.Exports.Audit.PruneSchedule,
		})
		scheduler := retention.NewScheduler(pruner)
		if err := scheduler.Start(ctx); err != nil {
			slog.Warn("failed to start retention scheduler", "error", err)
		} else {
			defer scheduler.Stop()
		}
	}
	fmt.Printf("✓ Audit trail initialized (%s archive)\n", cfg.Exports.Audit.Backend)

	// Export gate
	dataGate, err := gate.New(&gate.Config{
		MaxBatchSize:         cfg.Exports.MaxBatchSize,
		HumanReviewThreshold: cfg.Exports.RequireHumanReviewAbove,
	}, buyers, auditLog, provider, logger)
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	fmt.Printf("✓ Export gate initialized (%d buyers)\n", len(buyers.BuyerIDs()))

	// Training data sink
	var trainingSink *sink.Sink
	var sinkStore sink.Storage
	if cfg.Sink.Enabled {
		sinkStore, err = newSinkStorage(&cfg.Sink)
		if err != nil {
			return cli.NewCommandError("run", err)
		}
		trainingSink = sink.New(sinkStore, &sink.Config{
			Enabled:      true,
			AsyncBuffer:  cfg.Sink.AsyncBuffer,
			WriteTimeout: cfg.Sink.WriteTimeout,
		}, logger)
		defer func() { _ = trainingSink.Close() }()
		fmt.Printf("✓ Training sink initialized (%s backend)\n", cfg.Sink.Backend)
	}

	// Metrics
	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	}

	srv, err := server.NewServer(&cfg.Server, server.Options{
		Engine:      eng,
		Gate:        dataGate,
		Sink:        trainingSink,
		Collector:   collector,
		MetricsPath: cfg.Telemetry.Metrics.Path,
		Version: server.VersionInfo{
			Version:   Version,
			Commit:    GitCommit,
			BuildTime: BuildDate,
		},
	})
	if err != nil {
		return cli.NewCommandError("run", err)
	}

	registerHealthChecks(srv.Checker(), provider, archive, sinkStore)

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(ctx); err != nil {
			errChan <- err
		}
	}()

	fmt.Println()
	fmt.Printf("✓ Server listening on %s\n", cfg.Server.ListenAddress)
	fmt.Printf("✓ Health endpoint: http://%s/healthz\n", cfg.Server.ListenAddress)
	if collector != nil {
		fmt.Printf("✓ Metrics endpoint: http://%s%s\n", cfg.Server.ListenAddress, cfg.Telemetry.Metrics.Path)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	sigChan := cli.WaitForShutdown()

	select {
	case err := <-errChan:
		return cli.NewCommandError("run", err)
	case sig := <-sigChan:
		fmt.Printf("\nReceived signal %s, shutting down gracefully...\n", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
			return cli.NewCommandError("run", err)
		}

		fmt.Println("✓ Server stopped")
		return nil
	}
}

// newAuditArchive builds the durable audit archive from configuration.
func newAuditArchive(cfg *config.AuditConfig) (audit.Storage, error) {
	switch cfg.Backend {
	case "sqlite":
		return audit.NewSQLiteStorage(&audit.SQLiteConfig{
			Path:        cfg.SQLitePath,
			WALMode:     true,
			BusyTimeout: cfg.WriteTimeout,
		})
	case "memory":
		return audit.NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unsupported audit backend: %s", cfg.Backend)
	}
}

// newSinkStorage builds the training sink backend from configuration.
func newSinkStorage(cfg *config.SinkConfig) (sink.Storage, error) {
	switch cfg.Backend {
	case "sqlite":
		return sink.NewSQLiteStorage(&sink.SQLiteConfig{
			Path:        cfg.SQLitePath,
			BusyTimeout: cfg.WriteTimeout,
		})
	case "memory":
		return sink.NewMemoryStorage(), nil
	default:
		return nil, fmt.Errorf("unsupported sink backend: %s", cfg.Backend)
	}
}

// registerHealthChecks wires the readiness probes for the components the
// server depends on.
func registerHealthChecks(checker *health.Checker, provider *biome.Provider, archive audit.Storage, sinkStore sink.Storage) {
	checker.RegisterCheck("rules", func(ctx context.Context) error {
		if len(provider.Registry().BiomeIDs()) == 0 {
			return fmt.Errorf("no biomes configured")
		}
		return nil
	})

	checker.RegisterCheck("audit", func(ctx context.Context) error {
		_, err := archive.Count(ctx, &audit.Query{Limit: 1})
		return err
	})

	if sinkStore != nil {
		checker.RegisterCheck("sink", func(ctx context.Context) error {
			_, err := sinkStore.Count(ctx, "")
			return err
		})
	}
}
