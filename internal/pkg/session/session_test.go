package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

type sample struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestRedisSlotRoundTripWithTTL(t *testing.T) {
	mr, client := newRedis(t)
	ctx := context.Background()
	slot := NewRedisSlot(client)

	_, err := slot.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrSlotEmpty)

	require.NoError(t, slot.Save(ctx, "k", []byte("v"), time.Minute))
	got, err := slot.Load(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", string(got))
	assert.Equal(t, time.Minute, mr.TTL("k"))

	mr.FastForward(2 * time.Minute)
	_, err = slot.Load(ctx, "k")
	assert.ErrorIs(t, err, ErrSlotEmpty)
}

func TestVersionedDropsOtherSchemaVersions(t *testing.T) {
	ctx := context.Background()
	slot := NewMemorySlot()
	v2 := NewVersioned(slot, "v2", time.Hour)
	v3 := NewVersioned(slot, "v3", time.Hour)

	require.NoError(t, v2.Put(ctx, "case", sample{Name: "old", Count: 1}))

	var out sample
	found, err := v3.Get(ctx, "case", &out)
	require.NoError(t, err)
	assert.False(t, found)

	found, err = v2.Get(ctx, "case", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, sample{Name: "old", Count: 1}, out)
}

func TestVersionedIgnoresGarbage(t *testing.T) {
	ctx := context.Background()
	slot := NewMemorySlot()
	require.NoError(t, slot.Save(ctx, "case", []byte("{not json"), 0))

	var out sample
	found, err := NewVersioned(slot, "v3", 0).Get(ctx, "case", &out)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestKeysAreVersionQualified(t *testing.T) {
	assert.Equal(t, "signup:flow_state:v3:abc", StateKey("v3", "abc"))
	assert.NotEqual(t, StateKey("v2", "abc"), StateKey("v3", "abc"))
	assert.NotEqual(t, StateKey("v3", "abc"), FlowSessionKey("v3", "abc"))
}

func TestRateLimiterIdentifyAttempts(t *testing.T) {
	mr, client := newRedis(t)
	ctx := context.Background()
	rl := NewRateLimiter(client, 2, time.Minute)

	ok, remaining, err := rl.CheckIdentifyAttempt(ctx, "198501011234")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(1), remaining)

	ok, _, _ = rl.CheckIdentifyAttempt(ctx, "198501011234")
	assert.True(t, ok)
	ok, remaining, _ = rl.CheckIdentifyAttempt(ctx, "198501011234")
	assert.False(t, ok)
	assert.Zero(t, remaining)

	for _, k := range mr.Keys() {
		assert.NotContains(t, k, "198501011234")
	}

	require.NoError(t, rl.ResetIdentifyAttempts(ctx, "198501011234"))
	ok, _, _ = rl.CheckIdentifyAttempt(ctx, "198501011234")
	assert.True(t, ok)
}

func TestRateLimiterWindowExpires(t *testing.T) {
	mr, client := newRedis(t)
	ctx := context.Background()
	rl := NewRateLimiter(client, 1, time.Minute)
	key := identifyKey("198501011234")

	_, _, err := rl.CheckIdentifyAttempt(ctx, "198501011234")
	require.NoError(t, err)
	assert.Equal(t, time.Minute, mr.TTL(key))

	ok, _, err := rl.CheckIdentifyAttempt(ctx, "198501011234")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, time.Minute, mr.TTL(key), "later attempts keep the window")

	mr.FastForward(2 * time.Minute)
	ok, _, err = rl.CheckIdentifyAttempt(ctx, "198501011234")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRateLimiterRepairsCounterWithoutExpiry(t *testing.T) {
	mr, client := newRedis(t)
	ctx := context.Background()
	rl := NewRateLimiter(client, 5, time.Minute)
	key := identifyKey("198501011234")
	require.NoError(t, mr.Set(key, "3"))
	require.Zero(t, mr.TTL(key))

	ok, remaining, err := rl.CheckIdentifyAttempt(ctx, "198501011234")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(1), remaining)
	assert.Equal(t, time.Minute, mr.TTL(key))
}

func TestRateLimiterReportsRedisErrors(t *testing.T) {
	mr, client := newRedis(t)
	rl := NewRateLimiter(client, 5, time.Minute)
	mr.Close()

	_, _, err := rl.CheckIdentifyAttempt(context.Background(), "198501011234")
	assert.Error(t, err)
}
