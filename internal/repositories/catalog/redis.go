package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/pokedex/internal/entities"
	"github.com/KirkDiggler/pokedex/internal/errors"
	redisclient "github.com/KirkDiggler/pokedex/internal/redis"
)

const (
	catalogKeyPrefix = "pokedex:catalog:"
	defaultTTL       = time.Hour
)

// Config configures the redis-backed roster cache
type Config struct {
	Client redisclient.Client
	// TTL defaults to one hour
	TTL time.Duration
}

// Validate validates the Config and sets defaults if not provided.
func (c *Config) Validate() error {
	if c.TTL == 0 {
		c.TTL = defaultTTL
	}

	vb := errors.NewValidationBuilder()
	if c.Client == nil {
		vb.RequiredField("client")
	}
	if c.TTL < 0 {
		vb.InvalidField("ttl", "cannot be negative")
	}
	return vb.Build()
}

type redisRepository struct {
	client redisclient.Client
	ttl    time.Duration
}

// NewRedisRepository creates a new Redis-backed roster cache
func NewRedisRepository(cfg *Config) (Repository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &redisRepository{
		client: cfg.Client,
		ttl:    cfg.TTL,
	}, nil
}

func catalogKey(limit int) string {
	return fmt.Sprintf("%s%d", catalogKeyPrefix, limit)
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.Limit <= 0 {
		return nil, errors.InvalidArgumentf("limit must be positive, got %d", input.Limit)
	}

	key := catalogKey(input.Limit)
	result, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("no cached roster for limit %d", input.Limit)
		}
		return nil, errors.Wrapf(err, "failed to get cached roster")
	}

	var creatures []*entities.Creature
	if err := json.Unmarshal(result, &creatures); err != nil {
		slog.WarnContext(ctx, "discarding unreadable roster cache entry", "key", key, "error", err)
		if delErr := r.client.Del(ctx, key).Err(); delErr != nil {
			slog.WarnContext(ctx, "failed to delete roster cache entry", "key", key, "error", delErr)
		}
		return nil, errors.NotFoundf("cached roster for limit %d is unreadable", input.Limit)
	}

	return &GetOutput{Creatures: creatures}, nil
}

func (r *redisRepository) Put(ctx context.Context, input PutInput) (*PutOutput, error) {
	if input.Limit <= 0 {
		return nil, errors.InvalidArgumentf("limit must be positive, got %d", input.Limit)
	}
	if len(input.Creatures) == 0 {
		return nil, errors.InvalidArgument("roster cannot be empty")
	}

	data, err := json.Marshal(input.Creatures)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal roster")
	}

	if err := r.client.Set(ctx, catalogKey(input.Limit), data, r.ttl).Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to cache roster")
	}

	slog.DebugContext(ctx, "cached roster", "limit", input.Limit, "count", len(input.Creatures), "ttl", r.ttl)
	return &PutOutput{}, nil
}
