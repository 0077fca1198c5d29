package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arkiv-network/indexer/internal/app"
	"github.com/arkiv-network/indexer/internal/config"
	"github.com/arkiv-network/indexer/internal/l3poller"
	"github.com/arkiv-network/indexer/internal/logging"
	"github.com/arkiv-network/indexer/internal/metrics"
	"github.com/arkiv-network/indexer/internal/migrator"
	"github.com/arkiv-network/indexer/internal/repository"
)

func main() {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		logging.New("arkiv-indexer", "info", "json").WithError(err).Fatal("load config")
	}
	log := logging.New("arkiv-indexer", cfg.LogLevel, cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		log.WithError(err).Fatal("invalid config")
	}

	db, err := sql.Open("postgres", cfg.PostgresDSN())
	if err != nil {
		log.WithError(err).Fatal("open database")
	}
	defer db.Close()

	if err := migrator.Apply(db, cfg.MigrationsPath); err != nil {
		log.WithError(err).Fatal("apply migrations")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector(), prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	repo := repository.New(db)
	m := metrics.NewWithRegistry(registry)
	pollers := l3poller.New(repo, log, m, cfg.L3RefreshInterval, cfg.L3BatchSize)
	a := app.New(cfg, log, repo, m, pollers)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	metricsServer := &http.Server{Addr: ":9090", Handler: mux}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Warn("metrics server stopped")
		}
	}()

	log.Info("arkiv indexer starting")
	if err := a.Run(ctx); err != nil {
		log.WithError(err).Error("run loop exited with error")
	}

	_ = metricsServer.Close()
	log.Info("arkiv indexer stopped")
}
