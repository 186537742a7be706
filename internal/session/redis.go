package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRedisUnavailable wraps transport failures talking to Redis.
var ErrRedisUnavailable = errors.New("redis unavailable")

// RedisStore keeps client storage in Redis under
// <prefix>:<scope>:<clientID>:<key>, each key with its scope's TTL.
type RedisStore struct {
	redis  redis.UniversalClient
	prefix string
	ttl    map[Scope]time.Duration
}

func NewRedisStore(redisClient redis.UniversalClient, prefix string, durableTTL, tabTTL time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "movemate:storage"
	}
	return &RedisStore{
		redis:  redisClient,
		prefix: prefix,
		ttl: map[Scope]time.Duration{
			ScopeDurable: durableTTL,
			ScopeTab:     tabTTL,
		},
	}
}

func (s *RedisStore) Durable(clientID string) Storage {
	return redisStorage{s: s, scope: ScopeDurable, clientID: clientID}
}

func (s *RedisStore) Tab(clientID string) Storage {
	return redisStorage{s: s, scope: ScopeTab, clientID: clientID}
}

// Ping checks connectivity; used at startup.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

type redisStorage struct {
	s        *RedisStore
	scope    Scope
	clientID string
}

func (r redisStorage) key(k string) string {
	return r.s.prefix + ":" + string(r.scope) + ":" + r.clientID + ":" + k
}

func (r redisStorage) Get(ctx context.Context, key string) (string, error) {
	v, err := r.s.redis.Get(ctx, r.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return v, nil
}

func (r redisStorage) Set(ctx context.Context, key, value string) error {
	if err := r.s.redis.Set(ctx, r.key(key), value, r.s.ttl[r.scope]).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

func (r redisStorage) Clear(ctx context.Context, key string) error {
	if err := r.s.redis.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}
