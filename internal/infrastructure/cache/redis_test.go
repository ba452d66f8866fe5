package cache

import (
	"context"
	"testing"

	"belezure-api/config"
	"belezure-api/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), config.RedisConfig{Host: mr.Host(), Port: mr.Port()}, testutil.NewTestLogger())
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port := mr.Host(), mr.Port()
	mr.Close()

	_, err := NewRedisClient(context.Background(), config.RedisConfig{Host: host, Port: port}, testutil.NewTestLogger())
	assert.ErrorContains(t, err, "failed to connect to Redis")
}
