package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	redisapp "meme_gallery/internal/storage/redis"

	"github.com/redis/go-redis/v9"
)

type RedisRateLimitRepo struct {
	Client *redisapp.Client
}

func NewRedisRateLimitRepo(client *redisapp.Client) *RedisRateLimitRepo {
	return &RedisRateLimitRepo{Client: client}
}

func (r *RedisRateLimitRepo) LastUpload(ctx context.Context, clientIP string) (time.Time, bool, error) {
	const op = "repository.RedisRateLimitRepo.LastUpload"

	raw, err := r.Client.Get(ctx, rateLimitKey(clientIP)).Result()
	if err == redis.Nil {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%s: %w", op, err)
	}

	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("%s: %w", op, err)
	}

	return time.UnixMilli(millis), true, nil
}

func (r *RedisRateLimitRepo) MarkUpload(ctx context.Context, clientIP string, at time.Time, ttl time.Duration) error {
	const op = "repository.RedisRateLimitRepo.MarkUpload"

	value := strconv.FormatInt(at.UnixMilli(), 10)
	if err := r.Client.Set(ctx, rateLimitKey(clientIP), value, ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func rateLimitKey(clientIP string) string {
	return "upload_ratelimit_" + clientIP
}
