package progress

import (
	"context"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/pokedex/internal/errors"
	redisclient "github.com/KirkDiggler/pokedex/internal/redis"
)

// DefaultKey matches the storage name the browser app used
const DefaultKey = "pokemon-store"

// RedisConfig configures the redis-backed repository
type RedisConfig struct {
	Client redisclient.Client
	Key    string
	// TTL of 0 keeps the blob forever
	TTL time.Duration
}

// Validate checks the configuration
func (c *RedisConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Client == nil {
		vb.RequiredField("client")
	}
	errors.ValidateRequired("key", c.Key, vb)
	if c.TTL < 0 {
		vb.InvalidField("ttl", "cannot be negative")
	}
	return vb.Build()
}

type redisStore struct {
	client redisclient.Client
	key    string
	ttl    time.Duration
}

// NewRedisRepository creates a repository that stores the blob under a single string key
func NewRedisRepository(cfg *RedisConfig) (Repository, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config cannot be nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &blobRepository{store: &redisStore{
		client: cfg.Client,
		key:    cfg.Key,
		ttl:    cfg.TTL,
	}}, nil
}

func (r *redisStore) read(ctx context.Context) ([]byte, bool, error) {
	result, err := r.client.Get(ctx, r.key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to get progress blob")
	}
	return result, true, nil
}

func (r *redisStore) write(ctx context.Context, data []byte) error {
	if err := r.client.Set(ctx, r.key, data, r.ttl).Err(); err != nil {
		return errors.Wrapf(err, "failed to set progress blob %s", r.key)
	}
	return nil
}

func (r *redisStore) describe() string {
	return "redis:" + r.key
}
