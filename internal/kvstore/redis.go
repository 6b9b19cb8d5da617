package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "campuscalm:session:"

// RedisStore implements Store on Redis. Every key of a session lives in
// one hash, so the whole session expires together once its TTL elapses
// without writes.
type RedisStore struct {
	rdb       *redis.Client
	sessionID string
	ttl       time.Duration
}

// NewRedisStore connects to addr and scopes the store to sessionID.
// ttlSeconds <= 0 disables expiry.
func NewRedisStore(ctx context.Context, addr, sessionID string, ttlSeconds int) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("connecting to redis at %s: %w", addr, err)
	}
	return NewRedisStoreWithClient(rdb, sessionID, time.Duration(ttlSeconds)*time.Second), nil
}

// NewRedisStoreWithClient wraps an existing client.
func NewRedisStoreWithClient(rdb *redis.Client, sessionID string, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, sessionID: sessionID, ttl: ttl}
}

// sessionKey returns the hash key holding the session's values.
func (s *RedisStore) sessionKey() string {
	return redisKeyPrefix + s.sessionID
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.rdb.HGet(ctx, s.sessionKey(), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("getting %q: %w", key, err)
	}
	return v, nil
}

func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, s.sessionKey(), key, value)
	if s.ttl > 0 {
		pipe.Expire(ctx, s.sessionKey(), s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("setting %q: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.rdb.HDel(ctx, s.sessionKey(), key).Err(); err != nil {
		return fmt.Errorf("deleting %q: %w", key, err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.sessionKey()).Err(); err != nil {
		return fmt.Errorf("clearing session %s: %w", s.sessionID, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
