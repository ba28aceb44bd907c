package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/sirupsen/logrus"

	"suggestion-tracker/internal/cache"
	"suggestion-tracker/internal/config"
	"suggestion-tracker/internal/database"
	"suggestion-tracker/internal/database/memstore"
	"suggestion-tracker/internal/logger"
	"suggestion-tracker/internal/metrics"
)

// app is the wired set of repositories a command runs against.
type app struct {
	suggestions *database.MongoSuggestionRepository
	users       *database.MongoUserRepository
	statuses    *database.MongoStatusRepository
	registry    *prometheus.Registry

	closers []func(context.Context) error
}

func openApp(ctx context.Context, cfg *config.Config) (*app, error) {
	log := logger.WithComponent("app")

	level := cfg.LogLevel
	if cfg.Debug {
		level = "debug"
	}
	if !logger.SetLevel(level) {
		log.WithField("level", level).Warn("Unknown log level, keeping the default")
	}

	a := &app{registry: prometheus.NewRegistry()}

	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.AppEnv,
			Release:     cfg.Version,
			Debug:       cfg.Debug,
		})
		if err != nil {
			return nil, fmt.Errorf("sentry.Init: %w", err)
		}
		logger.Logger.AddHook(logger.NewSentryHook(sentry.CurrentHub(), logrus.ErrorLevel))
		a.onClose(func(context.Context) error {
			sentry.Flush(2 * time.Second)
			return nil
		})
	}

	gw, err := a.openGateway(ctx, cfg)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}
	c, err := a.openCache(ctx, cfg)
	if err != nil {
		a.Close(ctx)
		return nil, err
	}
	rec, err := metrics.NewRecorder(a.registry)
	if err != nil {
		a.Close(ctx)
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}

	a.users = database.NewMongoUserRepository(gw, cfg.UserCollection)
	a.suggestions = database.NewMongoSuggestionRepository(gw, a.users, c,
		database.WithSuggestionCollection(cfg.SuggestionCollection),
		database.WithSuggestionCacheTTL(cfg.CacheTTL),
		database.WithSuggestionMetrics(rec),
	)
	a.statuses = database.NewMongoStatusRepository(gw, cfg.StatusCollection, c, rec)

	log.WithFields(logrus.Fields{
		"store": cfg.StoreBackend,
		"cache": cfg.CacheBackend,
	}).Debug("Application wired")
	return a, nil
}

func (a *app) openGateway(ctx context.Context, cfg *config.Config) (database.Gateway, error) {
	if cfg.StoreBackend == config.StoreBackendMemory {
		return memstore.New(), nil
	}
	gw, err := database.ConnectDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.onClose(gw.Disconnect)
	return gw, nil
}

func (a *app) openCache(ctx context.Context, cfg *config.Config) (cache.Cache, error) {
	if cfg.CacheBackend == config.CacheBackendRedis {
		client, err := cache.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		a.onClose(func(context.Context) error { return client.Close() })
		return cache.NewRedisCache(client, cfg.RedisPrefix), nil
	}
	mc := cache.NewMemoryCache()
	a.onClose(func(context.Context) error {
		mc.Close()
		return nil
	})
	return mc, nil
}

func (a *app) onClose(fn func(context.Context) error) {
	a.closers = append(a.closers, fn)
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close(ctx context.Context) {
	log := logger.WithComponent("app")
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			log.WithError(err).Warn("Error during shutdown")
		}
	}
	a.closers = nil
}

func (a *app) writeMetrics(w io.Writer) error {
	families, err := a.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}
