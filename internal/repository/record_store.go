package repository

import (
	"context"

	"askvantage/internal/domain"

	"github.com/redis/go-redis/v9"
)

// RedisRecordStore implements the domain.RecordStore interface using a Redis
// client. Redis gives the required semantics for free: plain SET is
// last-write-wins, reads observe the latest committed write, and redis.Nil on
// GET is the "never written" existence signal.
type RedisRecordStore struct {
	client *redis.Client
}

// NewRedisRecordStore creates a new instance of RedisRecordStore.
// It expects a connected *redis.Client.
func NewRedisRecordStore(client *redis.Client) domain.RecordStore {
	return &RedisRecordStore{client: client}
}

// Get retrieves the value stored at key.
// It translates redis.Nil to found=false.
func (r *RedisRecordStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", false, nil
		}
		return "", false, err
	}
	return val, true, nil
}

// Set writes the value at key with no expiration.
func (r *RedisRecordStore) Set(ctx context.Context, key string, value string) error {
	return r.client.Set(ctx, key, value, 0).Err()
}

// Delete removes the value at key.
func (r *RedisRecordStore) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// BulkGet retrieves all given keys with a single MGET. Keys with no value are
// omitted from the result.
func (r *RedisRecordStore) BulkGet(ctx context.Context, keys []string) (map[string]string, error) {
	if len(keys) == 0 {
		return map[string]string{}, nil
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	result := make(map[string]string, len(keys))
	for i, v := range values {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok {
			result[keys[i]] = s
		}
	}
	return result, nil
}

// BulkDelete removes all given keys with a single DEL.
func (r *RedisRecordStore) BulkDelete(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}
