package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// PayloadCache keeps raw upstream response bodies keyed by request.
type PayloadCache interface {
	GetPayload(ctx context.Context, key string) ([]byte, bool, error)
	SetPayload(ctx context.Context, key string, payload []byte) error
}

// MemoryPayloadCache keeps payloads in a Store.
type MemoryPayloadCache struct {
	store *Store
}

func NewMemoryPayloadCache(store *Store) *MemoryPayloadCache {
	if store == nil {
		store = NewStore(0)
	}
	return &MemoryPayloadCache{store: store}
}

func (c *MemoryPayloadCache) GetPayload(ctx context.Context, key string) ([]byte, bool, error) {
	value, ok := c.store.Get(ctx, key)
	if !ok {
		return nil, false, nil
	}
	payload, ok := value.([]byte)
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), payload...), true, nil
}

func (c *MemoryPayloadCache) SetPayload(ctx context.Context, key string, payload []byte) error {
	c.store.Set(ctx, key, append([]byte(nil), payload...))
	return nil
}

// RedisCommands is the subset of the go-redis client used for payloads.
type RedisCommands interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// RedisPayloadCache shares payloads between service instances.
type RedisPayloadCache struct {
	client RedisCommands
	prefix string
	ttl    time.Duration
}

func NewRedisPayloadCache(client RedisCommands, prefix string, ttl time.Duration) *RedisPayloadCache {
	return &RedisPayloadCache{
		client: client,
		prefix: prefix,
		ttl:    ttl,
	}
}

func (c *RedisPayloadCache) GetPayload(ctx context.Context, key string) ([]byte, bool, error) {
	payload, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return payload, true, nil
}

func (c *RedisPayloadCache) SetPayload(ctx context.Context, key string, payload []byte) error {
	if err := c.client.Set(ctx, c.prefix+key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// RedisOptions configures NewRedisClient.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

func NewRedisClient(opts RedisOptions) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		MaxRetries:   3,
		PoolSize:     50,
		MinIdleConns: 5,
		PoolTimeout:  30 * time.Second,
	})
}
