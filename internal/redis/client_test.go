package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/pokedex/internal/redis"
)

func TestNewClientRequiresEndpoint(t *testing.T) {
	client, err := redis.NewClient("", nil)
	assert.Error(t, err)
	assert.Nil(t, client)
}

func TestNewClientAcceptsAddrAndURL(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	byAddr, err := redis.NewClient(mr.Addr(), nil)
	require.NoError(t, err)
	require.NoError(t, byAddr.Set(ctx, "k", "v", 0).Err())

	byURL, err := redis.NewClient("redis://"+mr.Addr()+"/0", &redis.Options{MaxRetries: 1})
	require.NoError(t, err)
	val, err := byURL.Get(ctx, "k").Result()
	require.NoError(t, err)
	assert.Equal(t, "v", val)
}

func TestNewClientRejectsBadURL(t *testing.T) {
	_, err := redis.NewClient("redis://localhost:6379/notanumber", nil)
	assert.Error(t, err)
}
