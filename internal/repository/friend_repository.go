package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"meme_gallery/internal/domain/models"
	redisapp "meme_gallery/internal/storage/redis"

	"github.com/redis/go-redis/v9"
)

const friendLinksKey = "friend_links"

type RedisFriendRepo struct {
	Client *redisapp.Client
}

func NewRedisFriendRepo(client *redisapp.Client) *RedisFriendRepo {
	return &RedisFriendRepo{Client: client}
}

func (r *RedisFriendRepo) LoadLinks(ctx context.Context) ([]models.FriendLink, error) {
	const op = "repository.RedisFriendRepo.LoadLinks"

	raw, err := r.Client.Get(ctx, friendLinksKey).Result()
	if err == redis.Nil {
		return []models.FriendLink{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var links []models.FriendLink
	if err := json.Unmarshal([]byte(raw), &links); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return links, nil
}

func (r *RedisFriendRepo) SaveLinks(ctx context.Context, links []models.FriendLink) error {
	const op = "repository.RedisFriendRepo.SaveLinks"

	if links == nil {
		links = []models.FriendLink{}
	}

	raw, err := json.Marshal(links)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := r.Client.Set(ctx, friendLinksKey, raw, 0).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}
