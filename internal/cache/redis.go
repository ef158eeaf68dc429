package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/encoding/json"

	"github.com/llehouerou/reel/internal/tmdb"
)

const redisKeyPrefix = "reel:page:"

// RedisBackend stores pages in Redis with native key expiry.
type RedisBackend struct {
	client *redis.Client
}

// NewRedis connects to the server at url (redis://host:port/db) and checks
// it answers.
func NewRedis(ctx context.Context, url string) (*RedisBackend, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return &RedisBackend{client: client}, nil
}

// NewRedisWithClient wraps an existing client.
func NewRedisWithClient(client *redis.Client) *RedisBackend {
	return &RedisBackend{client: client}
}

func (r *RedisBackend) Get(ctx context.Context, key string) (tmdb.ResultPage, bool, error) {
	data, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return tmdb.ResultPage{}, false, nil
		}
		return tmdb.ResultPage{}, false, err
	}
	var page tmdb.ResultPage
	if err := json.Unmarshal(data, &page); err != nil {
		return tmdb.ResultPage{}, false, err
	}
	return page, true, nil
}

func (r *RedisBackend) Set(ctx context.Context, key string, page tmdb.ResultPage, ttl time.Duration) error {
	data, err := json.Marshal(page)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, redisKeyPrefix+key, data, ttl).Err()
}

func (r *RedisBackend) Close() error {
	return r.client.Close()
}
