package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wardrobe/backend/config"
	httpDelivery "github.com/wardrobe/backend/internal/delivery/http"
	"github.com/wardrobe/backend/internal/domain"
	"github.com/wardrobe/backend/internal/infrastructure/cache"
	"github.com/wardrobe/backend/internal/infrastructure/metrics"
	"github.com/wardrobe/backend/internal/infrastructure/storage"
	"github.com/wardrobe/backend/internal/infrastructure/vision"
	"github.com/wardrobe/backend/internal/logging"
	"github.com/wardrobe/backend/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format)
	logger.Info("starting wardrobe backend",
		"version", "1.0.0",
		"environment", cfg.Server.Environment,
		"port", cfg.Server.Port,
		"cache", cfg.Cache.Type,
		"storage", cfg.Storage.Type)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize infrastructure dependencies
	cacheRepo, closeCache, err := newCache(cfg)
	if err != nil {
		return err
	}
	defer closeCache()

	garments, closeStorage, err := newGarmentRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStorage()

	var visionClient domain.VisionClient
	if cfg.VisionEnabled() {
		client := vision.NewClient(vision.Config{
			APIKey:            cfg.Vision.APIKey,
			BaseURL:           cfg.Vision.BaseURL,
			Model:             cfg.Vision.Model,
			Timeout:           cfg.Vision.Timeout,
			RequestsPerSecond: cfg.Vision.RequestsPerSecond,
		})
		// Enable debug mode in development environment
		client.SetDebug(cfg.Server.Environment == "development")
		visionClient = client
		logger.Info("vision API configured", "base_url", cfg.Vision.BaseURL, "model", cfg.Vision.Model)
	} else {
		logger.Warn("vision API key not configured; image analysis disabled")
	}

	m := metrics.New()

	// Initialize usecase layer
	wardrobe := usecase.NewWardrobeService(cacheRepo, visionClient, garments, m, usecase.WardrobeServiceConfig{
		CacheTTL:           cfg.Cache.TTL,
		FabricBonus:        cfg.Analyzer.FabricBonus,
		EnableDebugLogging: cfg.Analyzer.EnableDebugLogging,
		ImportWorkers:      cfg.Analyzer.ImportWorkers,
	})
	logger.Info("analyzer configured",
		"fabric_bonus", cfg.Analyzer.FabricBonus,
		"debug", cfg.Analyzer.EnableDebugLogging)

	handler := httpDelivery.NewHandler(wardrobe)
	router := httpDelivery.SetupRouter(cfg, handler, m)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newCache(cfg *config.Config) (domain.CacheRepository, func(), error) {
	if cfg.Cache.Type == "redis" {
		redisCache, err := cache.NewRedisCache(cfg.Cache.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to redis: %w", err)
		}
		return redisCache, func() { _ = redisCache.Close() }, nil
	}

	memoryCache := cache.NewMemoryCache(0)
	return memoryCache, func() { _ = memoryCache.Close() }, nil
}

func newGarmentRepository(ctx context.Context, cfg *config.Config) (domain.GarmentRepository, func(), error) {
	if cfg.Storage.Type == "postgres" {
		db, err := storage.OpenPostgres(cfg.Storage.PostgresDSN, cfg.Storage.MaxOpenConns)
		if err != nil {
			return nil, nil, err
		}
		repo := storage.NewPostgresRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return repo, func() { _ = db.Close() }, nil
	}

	return storage.NewMemoryRepository(), func() {}, nil
}
