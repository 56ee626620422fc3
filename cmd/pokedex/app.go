package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/dice"
	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/KirkDiggler/pokedex/internal/clients/pokeapi"
	"github.com/KirkDiggler/pokedex/internal/config"
	"github.com/KirkDiggler/pokedex/internal/errors"
	"github.com/KirkDiggler/pokedex/internal/orchestrators/catalog"
	"github.com/KirkDiggler/pokedex/internal/orchestrators/progress"
	"github.com/KirkDiggler/pokedex/internal/orchestrators/quiz"
	"github.com/KirkDiggler/pokedex/internal/pkg/clock"
	"github.com/KirkDiggler/pokedex/internal/pkg/idgen"
	redisclient "github.com/KirkDiggler/pokedex/internal/redis"
	catalogrepo "github.com/KirkDiggler/pokedex/internal/repositories/catalog"
	progressrepo "github.com/KirkDiggler/pokedex/internal/repositories/progress"
)

// deps overrides the collaborators newApp would otherwise build from config
type deps struct {
	Getenv     func(string) string
	Fetcher    pokeapi.Client
	Repository progressrepo.Repository
	Clock      clock.Clock
	Roller     dice.Roller
}

// app is the composition root shared by every command
type app struct {
	cfg      *config.Config
	registry *prometheus.Registry
	redis    redisclient.Client
	fetcher  pokeapi.Client
	loader   *catalog.Loader
	store    *progress.Store
	quiz     quiz.Service
	bus      events.EventBus

	mu      sync.Mutex
	notices []string
}

func newApp(ctx context.Context, cfg *config.Config, d deps) (*app, error) {
	a := &app{
		cfg:      cfg,
		registry: prometheus.NewRegistry(),
		bus:      events.NewBus(),
	}

	if cfg.Redis.Endpoint != "" {
		client, err := redisclient.NewClient(cfg.Redis.Endpoint, nil)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create redis client")
		}
		a.redis = client
	}

	a.fetcher = d.Fetcher
	if a.fetcher == nil {
		fetcher, err := pokeapi.New(&pokeapi.Config{
			BaseURL:       cfg.Catalog.BaseURL,
			HTTPTimeout:   cfg.Catalog.HTTPTimeout,
			BatchSize:     cfg.Catalog.BatchSize,
			MaxAttempts:   cfg.Catalog.MaxAttempts,
			RetryInterval: cfg.Catalog.RetryInterval,
			Registerer:    a.registry,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create catalog client")
		}
		a.fetcher = fetcher
	}

	var cache catalogrepo.Repository
	if a.redis != nil && cfg.Catalog.CacheTTL > 0 {
		repo, err := catalogrepo.NewRedisRepository(&catalogrepo.Config{
			Client: a.redis,
			TTL:    cfg.Catalog.CacheTTL,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create catalog cache")
		}
		cache = repo
	}

	loader, err := catalog.NewLoader(&catalog.Config{
		Fetcher:    a.fetcher,
		Cache:      cache,
		RosterSize: cfg.Catalog.RosterSize,
	})
	if err != nil {
		return nil, err
	}
	a.loader = loader

	repo := d.Repository
	if repo == nil {
		repo, err = a.progressRepository()
		if err != nil {
			return nil, err
		}
	}

	a.store, err = progress.New(ctx, &progress.Config{
		Repository: repo,
		Clock:      d.Clock,
		EventBus:   a.bus,
	})
	if err != nil {
		return nil, err
	}

	roller := d.Roller
	if roller == nil {
		roller = dice.DefaultRoller
	}
	a.quiz, err = quiz.NewOrchestrator(&quiz.Config{
		Recorder:    a.store,
		Roller:      roller,
		IDGenerator: idgen.NewUUID("quiz"),
		Catalog:     a.fetcher,
	})
	if err != nil {
		return nil, err
	}

	a.bus.SubscribeFunc(progress.EventBadgeGranted, 0, func(_ context.Context, e events.Event) error {
		badge, _ := e.Context().Get(progress.KeyBadge)
		a.notify("🏅 Badge earned: %v", badge)
		return nil
	})

	return a, nil
}

func (a *app) progressRepository() (progressrepo.Repository, error) {
	switch a.cfg.Storage.Backend {
	case config.BackendMemory:
		return progressrepo.NewInMemoryRepository(), nil
	case config.BackendRedis:
		if a.redis == nil {
			return nil, errors.FailedPrecondition("redis storage requires redis.endpoint")
		}
		return progressrepo.NewRedisRepository(&progressrepo.RedisConfig{
			Client: a.redis,
			Key:    a.cfg.Storage.Key,
		})
	default:
		return progressrepo.NewFileRepository(&progressrepo.FileConfig{Path: a.cfg.Storage.Path})
	}
}

func (a *app) notify(format string, args ...any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.notices = append(a.notices, fmt.Sprintf(format, args...))
}

// drainNotices returns and clears the notices queued by event handlers
func (a *app) drainNotices() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := a.notices
	a.notices = nil
	return out
}

// warnFlush reports a failed save without failing the command; the change stays in memory
func warnFlush(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if progress.IsFlushFailure(err) {
		slog.WarnContext(ctx, "Progress could not be saved", "error", err)
		return nil
	}
	return err
}

func (a *app) close() {
	a.bus.ClearAll()
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			slog.Warn("Failed to close redis client", "error", err)
		}
	}
}

// retryHint is printed under errors the user can fix by trying again
func retryHint(err error) string {
	if errors.GetCode(err).Retryable() {
		return "The Pokédex service could not be reached. Check your connection and try again."
	}
	return ""
}
