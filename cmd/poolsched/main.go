package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/valkolaci/poolsched/pkg/actuator"
	"github.com/valkolaci/poolsched/pkg/cloud"
	"github.com/valkolaci/poolsched/pkg/config"
	"github.com/valkolaci/poolsched/pkg/evaluator"
	"github.com/valkolaci/poolsched/pkg/events"
	"github.com/valkolaci/poolsched/pkg/log"
	"github.com/valkolaci/poolsched/pkg/metrics"
	"github.com/valkolaci/poolsched/pkg/storage"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "poolsched",
	Short: "Poolsched - Schedule-driven node pool sizing for OKE",
	Long: `Poolsched resizes OKE node pools on a schedule: recurring windows
force a pool to a given size, time-bound exceptions override or suspend
the schedule, and anything without a matching rule is left alone.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"Poolsched version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Log in JSON instead of console format")

	rootCmd.AddCommand(serveCmd)
}

func initLogging(cmd *cobra.Command) {
	level, _ := cmd.Flags().GetString("log-level")
	jsonOut, _ := cmd.Flags().GetBool("log-json")
	log.Init(log.Config{Level: log.Level(level), JSONOutput: jsonOut})
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the evaluation loop",
	Long: `Run the poolsched daemon: evaluate every node pool on an interval,
apply resizes, watch the configuration file for changes and serve
metrics and health endpoints.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("config", "", "Configuration file (default rules.yaml, or POOLSCHED_CONFIG)")
	serveCmd.Flags().String("auth", string(cloud.AuthConfigFile), "OCI auth mode (config-file or resource-principal)")
	serveCmd.Flags().String("listen", ":9090", "Address for metrics and health endpoints")
	serveCmd.Flags().String("data-dir", "./poolsched-data", "Data directory for the audit store")
	serveCmd.Flags().Duration("interval", evaluator.DefaultInterval, "Pause between evaluation cycles")
	serveCmd.Flags().Int("concurrency", evaluator.DefaultConcurrency, "Node pools evaluated in parallel")
	serveCmd.Flags().Bool("dry-run", false, "Log and audit resizes without applying them")
}

func runServe(cmd *cobra.Command, args []string) error {
	initLogging(cmd)
	metrics.SetVersion(Version)

	configFlag, _ := cmd.Flags().GetString("config")
	authMode, _ := cmd.Flags().GetString("auth")
	listenAddr, _ := cmd.Flags().GetString("listen")
	dataDir, _ := cmd.Flags().GetString("data-dir")
	interval, _ := cmd.Flags().GetDuration("interval")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	logger := log.WithComponent("main")

	cfgPath := config.ConfigPath(configFlag)
	snap, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	store := config.NewStore(snap)
	metrics.RegisterComponent("config", true, "")
	logger.Info().Str("path", cfgPath).Str("timezone", snap.Location.String()).Msg("configuration loaded")

	broker := events.NewBroker()
	broker.Start()
	eventLog := events.NewEventLogger(broker)
	eventLog.Start()

	watcher, err := config.NewWatcher(cfgPath, store, func(snap *config.Snapshot) {
		metrics.UpdateComponent("config", true, "")
		broker.Publish(&events.Event{
			ID:        uuid.New().String(),
			Type:      events.EventConfigReloaded,
			Timestamp: time.Now(),
			Message:   fmt.Sprintf("configuration reloaded from %s", cfgPath),
		})
	})
	if err != nil {
		return fmt.Errorf("failed to watch configuration: %w", err)
	}
	watcher.Start()

	provider, err := cloud.NewOCIProvider(cloud.AuthMode(authMode))
	if err != nil {
		return fmt.Errorf("failed to create cloud provider: %w", err)
	}
	metrics.RegisterComponent("provider", true, "")

	auditStore, err := storage.NewBoltStore(dataDir)
	if err != nil {
		return fmt.Errorf("failed to open audit store: %w", err)
	}
	metrics.RegisterComponent("storage", true, "")

	act := actuator.New(provider, auditStore, broker, dryRun)
	eval := evaluator.New(store, provider, act, broker, interval, concurrency)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	eval.Start(ctx)

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.HandleFunc("/healthz", metrics.HealthHandler())
	mux.HandleFunc("/readyz", metrics.ReadyHandler())
	server := &http.Server{Addr: listenAddr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()
	logger.Info().Str("addr", listenAddr).Bool("dry_run", dryRun).Msg("poolsched running")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info().Msg("shutting down")
	case err := <-errCh:
		logger.Error().Err(err).Msg("shutting down after server error")
	}

	eval.Stop()
	watcher.Stop()
	eventLog.Stop()
	broker.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http server shutdown failed")
	}

	if err := auditStore.Close(); err != nil {
		return fmt.Errorf("failed to close audit store: %w", err)
	}
	return nil
}
