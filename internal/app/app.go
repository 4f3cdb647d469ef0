package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/riskibarqy/speedrun-browser/external/pushtopic"
	"github.com/riskibarqy/speedrun-browser/external/srcom"
	"github.com/riskibarqy/speedrun-browser/internal/config"
	"github.com/riskibarqy/speedrun-browser/internal/domain/speedrun"
	"github.com/riskibarqy/speedrun-browser/internal/domain/subscription"
	cacherepo "github.com/riskibarqy/speedrun-browser/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/speedrun-browser/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/speedrun-browser/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/speedrun-browser/internal/interfaces/httpapi"
	"github.com/riskibarqy/speedrun-browser/internal/platform/cache"
	"github.com/riskibarqy/speedrun-browser/internal/platform/logging"
	"github.com/riskibarqy/speedrun-browser/internal/platform/resilience"
	"github.com/riskibarqy/speedrun-browser/internal/usecase"
)

const (
	redisPayloadPrefix   = "srcom:"
	assetCacheTTL        = 24 * time.Hour
	assetCacheMaxEntries = 512
)

// NewHTTPServer builds the API server. The returned cleanup releases the
// database and redis connections and must run after the server stops.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func(), error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	var closers []func() error
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				logger.Warn("cleanup failed", "error", err)
			}
		}
	}

	payloads, closeRedis, err := newPayloadCache(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	if closeRedis != nil {
		closers = append(closers, closeRedis)
	}

	srcomClient := srcom.NewClient(srcom.ClientConfig{
		BaseURL:    cfg.SrcomBaseURL,
		Timeout:    cfg.SrcomTimeout,
		MaxRetries: cfg.SrcomMaxRetries,
		Logger:     logger.Named("srcom"),
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.SrcomCircuitEnabled,
			FailureThreshold: cfg.SrcomCircuitFailureCount,
			OpenTimeout:      cfg.SrcomCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.SrcomCircuitHalfOpenMaxReq,
		},
		Payloads: payloads,
		Asset: srcom.AssetConfig{
			Timeout:  cfg.SrcomTimeout,
			MaxBytes: cfg.AssetMaxBytes,
		},
	})

	var speedrunRepo speedrun.Repository = srcomClient
	if cfg.CacheEnabled {
		speedrunRepo = cacherepo.NewSpeedrunRepository(srcomClient, cache.NewStore(cfg.CacheTTL))
	}

	subscriptionRepo, closeDB, err := newSubscriptionRepository(ctx, cfg, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	if closeDB != nil {
		closers = append(closers, closeDB)
	}

	publisher, err := newTopicPublisher(cfg, logger)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	assetStore := cache.NewStore(assetCacheTTL, cache.WithMaxEntries(assetCacheMaxEntries))
	assetSvc := usecase.NewAssetService(srcomClient, assetStore, cfg.AssetPrefetchWorkers, logger.Named("assets"),
		usecase.WithAllowedHosts(cfg.AssetAllowedHosts...))
	leaderboardSvc := usecase.NewLeaderboardService(speedrunRepo, cfg.LeaderboardPreloadWorkers, logger.Named("leaderboards"))
	gameSvc := usecase.NewGameService(speedrunRepo)
	playerSvc := usecase.NewPlayerService(speedrunRepo, assetSvc)
	subscriptionSvc := usecase.NewSubscriptionService(subscriptionRepo, publisher, logger.Named("subscriptions"))

	handler := httpapi.NewHandler(leaderboardSvc, gameSvc, playerSvc, subscriptionSvc, assetSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return server, cleanup, nil
}

func newPayloadCache(ctx context.Context, cfg config.Config, logger *logging.Logger) (cache.PayloadCache, func() error, error) {
	if !cfg.RedisEnabled {
		return cache.NewMemoryPayloadCache(cache.NewStore(cfg.CacheTTL)), nil, nil
	}

	client := cache.NewRedisClient(cache.RedisOptions{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("ping redis %s: %w", cfg.RedisAddr, err)
	}

	logger.Info("redis payload cache enabled", "addr", cfg.RedisAddr, "db", cfg.RedisDB)
	return cache.NewRedisPayloadCache(client, redisPayloadPrefix, cfg.CacheTTL), client.Close, nil
}

func newSubscriptionRepository(ctx context.Context, cfg config.Config, logger *logging.Logger) (subscription.Repository, func() error, error) {
	if !cfg.DBEnabled {
		logger.Info("subscriptions kept in memory", "reason", "DB_ENABLED=false")
		return memory.NewSubscriptionRepository(), nil, nil
	}

	db, err := openDB(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	return postgres.NewSubscriptionRepository(db), db.Close, nil
}

func newTopicPublisher(cfg config.Config, logger *logging.Logger) (usecase.TopicPublisher, error) {
	if !cfg.PushEnabled {
		return nil, nil
	}

	publisher, err := pushtopic.NewPublisher(pushtopic.Config{
		BaseURL:        cfg.PushBaseURL,
		Token:          cfg.PushToken,
		Timeout:        cfg.PushTimeout,
		CircuitBreaker: resilience.DefaultCircuitBreakerConfig(),
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("build push publisher: %w", err)
	}
	return publisher, nil
}
