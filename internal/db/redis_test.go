package db

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRedisAddr(t *testing.T) {
	cfg := ParseRedisAddr("redis:6379", "secret")
	assert.False(t, cfg.ClusterMode)
	assert.Equal(t, []string{"redis:6379"}, cfg.Addresses)
	assert.Equal(t, "secret", cfg.Password)

	cfg = ParseRedisAddr(" a:7000, b:7001 ,", "")
	assert.True(t, cfg.ClusterMode)
	assert.Equal(t, []string{"a:7000", "b:7001"}, cfg.Addresses)

	assert.Empty(t, ParseRedisAddr("", "").Addresses)
}

func TestNewRedisSingleNode(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedis(ParseRedisAddr(mr.Addr(), ""))
	require.NoError(t, err)
	defer client.Close()
	_, ok := client.(*redis.Client)
	assert.True(t, ok)

	mr.Close()
	_, err = NewRedis(ParseRedisAddr(mr.Addr(), ""))
	assert.Error(t, err)

	_, err = NewRedisClient(RedisConfig{})
	assert.Error(t, err)
}
