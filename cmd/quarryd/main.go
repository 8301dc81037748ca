package main

import (
	"context"
	"io"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/quarrybuild/quarry/pkg/api"
	"github.com/quarrybuild/quarry/pkg/config"
	"github.com/quarrybuild/quarry/pkg/diagnostics"
	"github.com/quarrybuild/quarry/pkg/history"
	"github.com/quarrybuild/quarry/pkg/observability"
	"github.com/quarrybuild/quarry/pkg/registry"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	// Tee log output into the configured log file so the diagnostics
	// endpoint can tail it.
	logOutput := io.Writer(os.Stdout)
	var logCloser io.Closer
	if cfg.Workspace.LogFile != "" {
		tee, closer, err := observability.TeeToFile(os.Stdout, cfg.Workspace.LogFile)
		if err != nil {
			logrus.Warnf("Cannot write daemon log to %s: %v", cfg.Workspace.LogFile, err)
		} else {
			logOutput = tee
			logCloser = closer
		}
	}
	logger := observability.NewLogger(cfg.Observability.LogLevel, logOutput)
	loaderLog := logrus.New()

	metrics := observability.NewMetrics(prometheus.NewRegistry())

	loader := registry.NewLoader(cfg.Workspace.Dir, loaderLog)
	reg, err := loader.Load()
	if err != nil {
		logger.WithError(err).Error("Failed to load workspace")
		os.Exit(1)
	}
	metrics.RegistryReloadsTotal.WithLabelValues("ok").Inc()
	metrics.RegistryScopes.Set(float64(reg.ScopeCount()))
	metrics.RegistryBinaries.Set(float64(reg.BinaryCount()))

	hist, err := history.Open(cfg.Workspace.HistoryPath)
	if err != nil {
		logger.WithError(err).Error("Failed to open resolution history")
		os.Exit(1)
	}

	diag := diagnostics.DaemonDiagnostics{
		Pid:     os.Getpid(),
		LogFile: cfg.Workspace.LogFile,
	}

	server := api.NewServer(reg, logger, metrics, hist, diag)

	watcher, err := registry.NewWatcher(loader, cfg.Workspace.RescanSchedule, func(fresh *registry.Registry) {
		metrics.RegistryReloadsTotal.WithLabelValues("ok").Inc()
		metrics.RegistryScopes.Set(float64(fresh.ScopeCount()))
		metrics.RegistryBinaries.Set(float64(fresh.BinaryCount()))
		server.SetRegistry(fresh)
		logger.Info("workspace registry refreshed")
	}, loaderLog)
	if err != nil {
		logger.WithError(err).Error("Failed to start workspace watcher")
		os.Exit(1)
	}
	watcher.Start()

	health := observability.NewHealthChecker()
	health.RegisterCheck("workspace", func(ctx context.Context) error {
		_, err := os.Stat(cfg.Workspace.Dir)
		return err
	})

	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/healthz", health.Liveness)
	healthMux.HandleFunc("/readyz", health.Readiness)
	if cfg.Observability.MetricsEnabled {
		healthMux.Handle("/metrics", metrics.Handler())
	}
	go func() {
		addr := cfg.Server.Host + ":" + cfg.Server.HealthPort
		if err := http.ListenAndServe(addr, healthMux); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("health server failed")
		}
	}()

	httpServer := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      server,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	shutdown := observability.NewShutdownManager(logger, httpServer, cfg.Server.ShutdownTimeout)
	shutdown.RegisterShutdownFunc(func(ctx context.Context) error {
		watcher.Stop()
		err := hist.Close()
		if logCloser != nil {
			logCloser.Close()
		}
		return err
	})

	go func() {
		logger.WithField("addr", httpServer.Addr).Info("Starting Quarry resolution daemon")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("HTTP server failed")
			os.Exit(1)
		}
	}()

	if err := shutdown.WaitForShutdown(); err != nil {
		os.Exit(1)
	}
}
