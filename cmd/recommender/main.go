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

	"go.uber.org/zap"

	"business-recommender/internal/api"
	"business-recommender/internal/cache"
	"business-recommender/internal/catalog"
	"business-recommender/internal/common/camunda"
	"business-recommender/internal/common/config"
	"business-recommender/internal/common/database"
	apperrors "business-recommender/internal/common/errors"
	"business-recommender/internal/common/logger"
	"business-recommender/internal/common/observability"
	"business-recommender/internal/enrichment"
	"business-recommender/internal/history"
	"business-recommender/internal/recommender"
	"business-recommender/internal/service"

	rb "business-recommender/internal/workers/recommendation/recommend-business"
)

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
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting business recommender...",
		zap.String("environment", cfg.App.Environment),
		zap.String("defaultAlgorithm", cfg.Recommender.DefaultAlgorithm),
	)

	obs := observability.New(cfg.App.Name, log)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Catalog, enrichment and engines ---
	cat, err := loadCatalog(cfg.Recommender.CatalogPath)
	if err != nil {
		stdErr := apperrors.NewCatalogInvalidError(err)
		zapLog.Fatal("catalog load failed",
			zap.String("code", string(stdErr.Code)),
			zap.String("details", stdErr.Details),
		)
	}
	zapLog.Info("Catalog loaded",
		zap.String("version", cat.Version()),
		zap.Int("businesses", cat.Len()),
	)

	store, err := enrichment.Load(cfg.Recommender.EnrichmentDir, log)
	if err != nil {
		zapLog.Fatal("enrichment load failed", zap.Error(err))
	}

	opts := recommender.Options{
		TeamBonus:     cfg.Recommender.TeamBonus,
		FallbackScore: cfg.Recommender.FallbackScore,
		FallbackLimit: cfg.Recommender.FallbackLimit,
		Statistical:   recommender.FitSkillAffinityModel(cat),
	}
	var engines []*recommender.Engine
	for _, alg := range []recommender.Algorithm{recommender.AlgorithmRule, recommender.AlgorithmML} {
		engine, err := recommender.NewEngine(cat, alg, opts)
		if err != nil {
			zapLog.Fatal("engine init failed", zap.String("algorithm", string(alg)), zap.Error(err))
		}
		engines = append(engines, engine)
	}

	deps := service.Dependencies{
		Engines:       engines,
		Enrichment:    store,
		Observability: obs,
		Logger:        log,
	}
	checks := map[string]api.ReadinessCheck{}

	// --- Redis (optional result cache) ---
	if cfg.Cache.Enabled {
		var redis *database.RedisClient
		err = retryWithBackoff(func() error {
			var err error
			redis, err = database.NewRedis(cfg.Database.Redis)
			if err != nil {
				return err
			}
			return pingOrClose(ctx, redis)
		}, 10, 2*time.Second, zapLog, "Redis connection")

		if err != nil {
			fatalConnection(zapLog, "redis failed after retries", err)
		}
		defer redis.Close()
		zapLog.Info("Redis connected successfully")

		deps.Cache = cache.New(redis.Client, cfg.Cache, log)
		checks["redis"] = redis.Ping
	}

	// --- PostgreSQL (optional history) ---
	if cfg.History.Enabled {
		var pg *database.PostgresClient
		err = retryWithBackoff(func() error {
			var err error
			pg, err = database.NewPostgres(cfg.Database.Postgres)
			if err != nil {
				return err
			}
			return pingOrClose(ctx, pg)
		}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

		if err != nil {
			fatalConnection(zapLog, "postgres failed after retries", err)
		}
		defer pg.Close()
		zapLog.Info("PostgreSQL connected successfully")

		repo := history.NewRepository(pg, log)
		if err := repo.EnsureSchema(ctx); err != nil {
			zapLog.Fatal("history schema failed", zap.Error(err))
		}
		deps.History = repo
		checks["postgres"] = pg.Ping
	}

	svc, err := service.New(service.Config{
		DefaultAlgorithm:    recommender.Algorithm(cfg.Recommender.DefaultAlgorithm),
		TopK:                cfg.Recommender.TopK,
		QuickTopK:           cfg.Recommender.QuickTopK,
		HistoryDefaultLimit: cfg.History.DefaultLimit,
		HistoryMaxLimit:     cfg.History.MaxLimit,
	}, deps)
	if err != nil {
		zapLog.Fatal("service init failed", zap.Error(err))
	}

	// --- Zeebe worker (optional) ---
	var (
		zeebe   *camunda.Client
		workers []*camunda.CamundaWorker
	)
	if cfg.Camunda.Enabled() {
		err = retryWithBackoff(func() error {
			var err error
			zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
				GatewayAddress:         cfg.Camunda.BrokerAddress,
				UsePlaintextConnection: true,
				ConnectionTimeout:      config.GetDuration(cfg.Camunda.RequestTimeout),
			})
			return err
		}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

		if err != nil {
			zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
		}
		zapLog.Info("Zeebe client connected successfully")
		checks["zeebe"] = zeebe.HealthCheck

		if config.IsWorkerEnabled(cfg, rb.TaskType) {
			wcfg := rb.LoadConfig(cfg)
			handler, err := rb.NewHandler(wcfg, svc, log)
			if err != nil {
				zapLog.Fatal("failed to create recommend-business handler", zap.Error(err))
			}
			workers = append(workers, camunda.NewWorker(zeebe.GetClient(), rb.TaskType, wcfg.MaxJobsActive, handler, log))
		} else {
			zapLog.Info("worker disabled", zap.String("taskType", rb.TaskType))
		}
	}

	// --- HTTP API ---
	server := &http.Server{
		Addr: cfg.Server.Addr(),
		Handler: api.NewServer(svc, api.Config{
			CORSOrigins:    cfg.Server.CORSOrigins,
			RequestTimeout: config.GetDuration(cfg.Server.RequestTimeout),
			Checks:         checks,
		}, log).Router(),
		ReadTimeout:  config.GetDuration(cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(cfg.Server.WriteTimeout),
	}

	serverErr := make(chan error, 1)
	go func() {
		zapLog.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		zapLog.Info("Shutdown signal received, stopping...")
	case err := <-serverErr:
		zapLog.Error("HTTP server failed", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(cfg.Server.ShutdownTimeout))
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down HTTP server", zap.Error(err))
	}

	for _, w := range workers {
		w.Stop()
	}
	if zeebe != nil {
		if err := zeebe.Close(); err != nil {
			zapLog.Error("Error closing Zeebe client", zap.Error(err))
		}
	}

	zapLog.Info("Business recommender stopped gracefully")
}

type pingCloser interface {
	Ping(ctx context.Context) error
	Close() error
}

// pingOrClose pings c and closes it when the ping fails.
func pingOrClose(ctx context.Context, c pingCloser) error {
	err := c.Ping(ctx)
	if err == nil {
		return nil
	}
	if closeErr := c.Close(); closeErr != nil {
		return errors.Join(err, closeErr)
	}
	return err
}

func fatalConnection(log *zap.Logger, msg string, err error) {
	stdErr := apperrors.NewDatabaseConnectionFailedError(err)
	log.Fatal(msg,
		zap.String("code", string(stdErr.Code)),
		zap.String("details", stdErr.Details),
	)
}

// loadConfig reads CONFIG_FILE when set, otherwise the configs directory.
func loadConfig() (*config.Config, error) {
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		return config.LoadFromFile(path)
	}
	return config.Load()
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default()
	}
	return catalog.LoadFile(path)
}
