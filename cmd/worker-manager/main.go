// cmd/worker-manager/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.uber.org/zap"

	"mentor-pricing-workers/internal/common/camunda"
	"mentor-pricing-workers/internal/common/config"
	"mentor-pricing-workers/internal/common/database"
	"mentor-pricing-workers/internal/common/logger"
	"mentor-pricing-workers/internal/common/observability"
	"mentor-pricing-workers/internal/mentor"
	"mentor-pricing-workers/pkg/registry"

	cmm "mentor-pricing-workers/internal/workers/mentor/calculate-mentor-multiplier"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err,
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog, err := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)
	log.Info("starting worker manager", map[string]interface{}{
		"environment": cfg.App.Environment,
		"version":     cfg.App.Version,
	})

	obs, err := observability.New(cfg.App.Name, nil)
	if err != nil {
		zapLog.Fatal("observability init failed", zap.Error(err))
	}
	defer obs.Shutdown(context.Background())

	reg, err := registry.LoadRegistry(cfg.Pricing.RegistryPath)
	if err != nil {
		zapLog.Fatal("activity registry load failed", zap.Error(err))
	}
	if err := reg.Validate(); err != nil {
		zapLog.Fatal("activity registry is invalid", zap.Error(err))
	}

	ctx := context.Background()

	// --- Zeebe ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClient(ctx, camunda.ClientConfigFrom(cfg.Camunda))
		return err
	}, 10, 2*time.Second, log, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	log.Info("Zeebe client connected", map[string]interface{}{"gateway": cfg.Camunda.BrokerAddress})

	// --- PostgreSQL ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(ctx, cfg.Database.Postgres)
		return err
	}, 15, 2*time.Second, log, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	log.Info("PostgreSQL connected", nil)

	// --- Redis ---
	// The profile cache is optional: pricing falls back to Postgres when Redis
	// cannot be reached.
	rdb := database.NewRedis(cfg.Database.Redis)
	err = retryWithBackoff(func() error {
		return rdb.Ping(ctx)
	}, 5, time.Second, log, "Redis connection")
	if err != nil {
		log.Warn("redis unavailable, profile cache degraded", map[string]interface{}{"error": err})
	} else {
		log.Info("Redis connected", nil)
	}
	defer rdb.Close()

	profiles := mentor.NewProfileStore(pg.GetDB(), rdb.GetClient(), cfg.Pricing.CacheTTL(), log)

	// --- Workers ---
	var workers []worker.JobWorker

	if config.IsWorkerEnabled(cfg, cmm.TaskType) {
		activity, found := reg.Find(cmm.TaskType)
		if !found {
			log.Warn("no registry entry for task, using worker defaults", map[string]interface{}{
				"taskType":     cmm.TaskType,
				"registryPath": cfg.Pricing.RegistryPath,
			})
		}
		workerCfg := config.GetWorkerConfig(cfg, cmm.TaskType)

		handlerCfg, err := cmm.NewConfig(workerCfg, cfg.Pricing, activity)
		if err != nil {
			zapLog.Fatal("invalid calculate-mentor-multiplier config", zap.Error(err))
		}
		handler := cmm.NewHandler(handlerCfg, profiles, obs, log)
		workers = append(workers, camunda.StartWorker(zeebe.GetClient(), cmm.TaskType, workerCfg, handler, log))
	} else {
		log.Info("worker disabled", map[string]interface{}{"taskType": cmm.TaskType})
	}

	// --- Health & Metrics Server ---
	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           newRouter(readinessChecks(zeebe, pg, rdb)),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("health/metrics server listening", map[string]interface{}{"address": cfg.Server.Address})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("health/metrics server failed", map[string]interface{}{"error": err})
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, stopping workers", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Close()
		w.AwaitClose()
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("error stopping health server", map[string]interface{}{"error": err})
	}
	if err := zeebe.Close(); err != nil {
		log.Error("error closing Zeebe client", map[string]interface{}{"error": err})
	}

	log.Info("worker manager stopped", nil)
}
