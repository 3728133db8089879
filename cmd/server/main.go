// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"activities-service/internal/audit"
	"activities-service/internal/cache"
	"activities-service/internal/common/config"
	"activities-service/internal/common/database"
	"activities-service/internal/common/logger"
	"activities-service/internal/common/observability"
	"activities-service/internal/notify"
	"activities-service/internal/registry"
	"activities-service/internal/server"
	"activities-service/pkg/catalog"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting activities service...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	// Rebuild with the configured level/format now that config is loaded.
	zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log = logger.NewZapAdapter(zapLog)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	var tracing *observability.Tracing
	if cfg.Tracing.Enabled {
		tracing, err = observability.NewTracing(cfg.App.Name, cfg.Tracing.Endpoint)
		if err != nil {
			zapLog.Fatal("tracing init failed", zap.Error(err))
		}
		defer tracing.Shutdown()
	}

	ctx := context.Background()

	// --- Activity catalog ---
	var cat *catalog.Catalog
	if cfg.Catalog.Path != "" {
		cat, err = catalog.Load(cfg.Catalog.Path)
		if err != nil {
			zapLog.Fatal("catalog load failed", zap.String("path", cfg.Catalog.Path), zap.Error(err))
		}
		zapLog.Info("Loaded activity catalog",
			zap.String("path", cfg.Catalog.Path),
			zap.Int("activities", len(cat.Activities)),
		)
	} else {
		cat = catalog.Default()
		zapLog.Info("Using built-in activity catalog", zap.Int("activities", len(cat.Activities)))
	}

	reg, err := registry.NewFromCatalog(cat)
	if err != nil {
		zapLog.Fatal("registry seed failed", zap.Error(err))
	}

	// --- Listing cache (optional) ---
	var listingCache *cache.Listing
	if cfg.Cache.Enabled {
		redisClient, redisErr := database.NewRedis(cfg.Database.Redis)
		if redisErr != nil {
			zapLog.Fatal("redis client init failed", zap.Error(redisErr))
		}
		defer redisClient.Close()

		err = retryWithBackoff(func() error {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return redisClient.Ping(pingCtx)
		}, 5, 2*time.Second, zapLog, "Redis connection")
		if err != nil {
			zapLog.Fatal("redis unavailable", zap.Error(err))
		}

		listingCache = cache.NewListing(redisClient.GetClient(),
			time.Duration(cfg.Cache.TTL)*time.Millisecond, log)
		zapLog.Info("Listing cache enabled", zap.String("redis", cfg.Database.Redis.Address))
	}

	// --- Notifications (optional) ---
	notifier := notify.NewNoOp()
	if cfg.Notifications.Email.Enabled || cfg.Notifications.SMS.Enabled {
		manager, notifyErr := notify.NewManager(ctx, cfg.Notifications, log)
		if notifyErr != nil {
			zapLog.Fatal("notification manager init failed", zap.Error(notifyErr))
		}
		notifier = manager
		zapLog.Info("Notifications enabled",
			zap.Bool("email", cfg.Notifications.Email.Enabled),
			zap.Bool("sms", cfg.Notifications.SMS.Enabled),
		)
	}

	// --- Audit trail (optional) ---
	recorder := audit.NewNoOp()
	if cfg.Audit.Enabled {
		esRecorder, auditErr := audit.NewESRecorder(cfg.Audit, log)
		if auditErr != nil {
			zapLog.Fatal("audit recorder init failed", zap.Error(auditErr))
		}

		err = retryWithBackoff(func() error {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return esRecorder.Ping(pingCtx)
		}, 5, 2*time.Second, zapLog, "Elasticsearch connection")
		if err != nil {
			zapLog.Fatal("elasticsearch unavailable", zap.Error(err))
		}

		recorder = esRecorder
		zapLog.Info("Audit trail enabled", zap.String("index", cfg.Audit.Index))
	}

	srv := server.New(server.Options{
		Config:        cfg.Server,
		Registry:      reg,
		Cache:         listingCache,
		Notifier:      notifier,
		Recorder:      recorder,
		Observability: obs,
		Tracing:       tracing,
		Logger:        log,
	})

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			zapLog.Fatal("HTTP server failed", zap.Error(err))
		}
	case sig := <-sigCh:
		zapLog.Info("Shutdown signal received, draining...", zap.String("signal", sig.String()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(),
			time.Duration(cfg.Server.ShutdownTimeout)*time.Millisecond)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			zapLog.Error("Shutdown did not complete cleanly", zap.Error(err))
		}
	}

	zapLog.Info("Activities service stopped")
}
