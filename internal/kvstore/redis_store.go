package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

// RedisStore keeps the value under key and its revision under key+":rev".
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a RedisStore on an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func revisionKey(key string) string {
	return key + ":rev"
}

// Get returns the value stored under key.
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	value, _, err := s.GetVersioned(ctx, key)
	return value, err
}

// GetVersioned returns the value and revision stored under key.
func (s *RedisStore) GetVersioned(ctx context.Context, key string) (string, int64, error) {
	var (
		valueCmd *redis.StringCmd
		revCmd   *redis.StringCmd
	)
	_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		valueCmd = pipe.Get(ctx, key)
		revCmd = pipe.Get(ctx, revisionKey(key))
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", 0, fmt.Errorf("redis store: get %q: %w", key, err)
	}

	value, err := valueCmd.Result()
	if errors.Is(err, redis.Nil) {
		return "", 0, fmt.Errorf("%w: %q", ErrNotFound, key)
	}
	if err != nil {
		return "", 0, fmt.Errorf("redis store: get %q: %w", key, err)
	}

	rev, err := revCmd.Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", 0, fmt.Errorf("redis store: revision %q: %w", key, err)
	}
	return value, rev, nil
}

// Set writes value unconditionally and bumps the revision.
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, value, 0)
		pipe.Incr(ctx, revisionKey(key))
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis store: set %q: %w", key, err)
	}
	return nil
}

// CompareAndSwap writes value if the stored revision equals expected. The
// revision key is watched so a concurrent writer aborts the transaction.
func (s *RedisStore) CompareAndSwap(ctx context.Context, key, value string, expected int64) (int64, error) {
	revKey := revisionKey(key)

	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, revKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != expected {
			return ErrConflict
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, value, 0)
			pipe.Set(ctx, revKey, expected+1, 0)
			return nil
		})
		return err
	}

	err := s.client.Watch(ctx, txf, revKey)
	switch {
	case err == nil:
		return expected + 1, nil
	case errors.Is(err, ErrConflict), errors.Is(err, redis.TxFailedErr):
		return 0, ErrConflict
	default:
		return 0, fmt.Errorf("redis store: compare-and-swap %q: %w", key, err)
	}
}
