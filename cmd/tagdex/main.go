package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/indu-doc/tagdex/internal/config"
	"github.com/indu-doc/tagdex/internal/loader"
	logpkg "github.com/indu-doc/tagdex/internal/logger"
	"github.com/indu-doc/tagdex/internal/metrics"
	"github.com/indu-doc/tagdex/internal/repository/entity"
	chiTransport "github.com/indu-doc/tagdex/internal/transport/chi"
	guideuc "github.com/indu-doc/tagdex/internal/usecase/guide"
	indexuc "github.com/indu-doc/tagdex/internal/usecase/index"
	searchuc "github.com/indu-doc/tagdex/internal/usecase/search"
	"github.com/indu-doc/tagdex/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting tagdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("data_dir", cfg.Loader.DataDir),
	)

	// Register domain metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	// Composition root: one store, three use cases over it.
	store := entity.NewStore()
	indexSvc := indexuc.New(store)
	searchSvc := searchuc.New(store)
	guideSvc := guideuc.New(store)

	ctx := logpkg.ContextWithLogger(context.Background(), logger)

	if cfg.Loader.DataDir != "" {
		l := loader.New(cfg.Loader.DataDir, indexSvc)
		if err := l.LoadAll(ctx); err != nil {
			logger.Fatal("Failed to load data dir", zap.Error(err))
		}
		if cfg.Loader.Watch {
			watchCtx, cancel := context.WithCancel(ctx)
			defer cancel()
			go func() {
				if err := l.Watch(watchCtx); err != nil && watchCtx.Err() == nil {
					logger.Error("Watcher stopped", zap.Error(err))
				}
			}()
		}
	}

	server := chiTransport.NewServer(
		indexSvc, searchSvc, guideSvc, store,
		chiTransport.Limits{
			MaxBatchSize:   cfg.Limits.MaxBatchSize,
			MaxQueryLength: cfg.Limits.MaxQueryLength,
		},
		logger,
	)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      server.Router(cfg.Auth.APIKeys),
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
