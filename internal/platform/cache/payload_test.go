package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRedis struct {
	values  map[string]string
	ttls    map[string]time.Duration
	failGet error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{values: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(_ context.Context, key string) *redis.StringCmd {
	if f.failGet != nil {
		return redis.NewStringResult("", f.failGet)
	}
	value, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(value, nil)
}

func (f *fakeRedis) Set(_ context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	switch v := value.(type) {
	case []byte:
		f.values[key] = string(v)
	case string:
		f.values[key] = v
	}
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func TestRedisPayloadCache(t *testing.T) {
	t.Parallel()

	client := newFakeRedis()
	c := NewRedisPayloadCache(client, "srcom:", time.Minute)
	ctx := context.Background()

	_, ok, err := c.GetPayload(ctx, "leaderboards/abc")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.SetPayload(ctx, "leaderboards/abc", []byte(`{"data":[]}`)))
	assert.Equal(t, time.Minute, client.ttls["srcom:leaderboards/abc"])

	payload, ok, err := c.GetPayload(ctx, "leaderboards/abc")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `{"data":[]}`, string(payload))

	client.failGet = errors.New("connection refused")
	_, _, err = c.GetPayload(ctx, "leaderboards/abc")
	require.Error(t, err)
}

func TestMemoryPayloadCache_CopiesPayload(t *testing.T) {
	t.Parallel()

	c := NewMemoryPayloadCache(NewStore(time.Minute))
	ctx := context.Background()
	body := []byte("abc")

	require.NoError(t, c.SetPayload(ctx, "k", body))
	body[0] = 'x'

	got, ok, err := c.GetPayload(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "abc", string(got))
}
