package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"meme_gallery/internal/domain/models"
	redisapp "meme_gallery/internal/storage/redis"

	"github.com/redis/go-redis/v9"
)

// memesKey — фиксированный ключ, под которым лежит весь список записей
// одним JSON-массивом.
const memesKey = "memes"

type RedisMemeRepo struct {
	Client *redisapp.Client
}

func NewRedisMemeRepo(client *redisapp.Client) *RedisMemeRepo {
	return &RedisMemeRepo{Client: client}
}

func (r *RedisMemeRepo) LoadMemes(ctx context.Context) ([]models.Meme, error) {
	const op = "repository.RedisMemeRepo.LoadMemes"

	raw, err := r.Client.Get(ctx, memesKey).Result()
	if err == redis.Nil {
		return []models.Meme{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var memes []models.Meme
	if err := json.Unmarshal([]byte(raw), &memes); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return memes, nil
}

func (r *RedisMemeRepo) SaveMemes(ctx context.Context, memes []models.Meme) error {
	const op = "repository.RedisMemeRepo.SaveMemes"

	if memes == nil {
		memes = []models.Meme{}
	}

	raw, err := json.Marshal(memes)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := r.Client.Set(ctx, memesKey, raw, 0).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
