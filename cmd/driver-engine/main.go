package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/convertstack/driver-engine/internal/api"
	"github.com/convertstack/driver-engine/internal/config"
	"github.com/convertstack/driver-engine/internal/engine"
	"github.com/convertstack/driver-engine/internal/metrics"
	"github.com/convertstack/driver-engine/internal/services"
	"github.com/convertstack/driver-engine/internal/store"
	"github.com/convertstack/driver-engine/internal/utils"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config", slog.String("path", configPath), slog.Any("error", err))
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Logging.Level, cfg.Logging.JSON, cfg.Logging.IncludeCaller)
	logger.Info("starting driver-engine", slog.String("address", cfg.Server.Address))

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		logger.Error("failed to register metrics", slog.Any("error", err))
		os.Exit(1)
	}

	var analysisStore store.AnalysisStore = store.NoopStore{}
	if cfg.Store.Enabled {
		badgerStore, err := store.NewBadgerStore(store.BadgerConfig{
			Path:       cfg.Store.Path,
			SyncWrites: cfg.Store.SyncWrites,
			Logger:     logger,
		})
		if err != nil {
			logger.Error("failed to open result store", slog.Any("error", err))
			os.Exit(1)
		}
		defer badgerStore.Close()
		analysisStore = badgerStore
	}

	insightEngine, err := engine.NewInsightEngine(cfg.Insights.Path, logger)
	if err != nil {
		logger.Error("failed to load insight rules", slog.Any("error", err))
		os.Exit(1)
	}

	pipeline := engine.NewPipeline(logger, insightEngine, analysisStore, engine.Options{
		MinBucketSize:  cfg.Analysis.MinBucketSize,
		MinTippingRate: cfg.Analysis.MinTippingRate,
		MaxRows:        cfg.Analysis.MaxRows,
	})

	analysisService := services.NewAnalysisService(logger, pipeline, analysisStore)

	server, err := api.NewServer(cfg.Server, analysisService, logger)
	if err != nil {
		logger.Error("failed to create HTTP server", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var metricsServer *http.Server
	if cfg.Server.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{
			Addr:         cfg.Server.MetricsAddress,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 15 * time.Second,
		}
		go func() {
			logger.Info("metrics server listening", slog.String("address", cfg.Server.MetricsAddress))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server exited", slog.Any("error", err))
				stop()
			}
		}()
	}

	go func() {
		if serveErr := server.Start(); serveErr != nil {
			logger.Error("HTTP server exited", slog.Any("error", serveErr))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()
	server.Shutdown(shutdownCtx)

	if metricsServer != nil {
		metricsCtx, cancelMetrics := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(metricsCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server shutdown", slog.Any("error", err))
		}
		cancelMetrics()
	}

	// Give remaining goroutines time to finish logging
	time.Sleep(100 * time.Millisecond)
	logger.Info("driver-engine stopped")
}
