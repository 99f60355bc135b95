package repository

import (
	redisapp "meme_gallery/internal/storage/redis"
)

type Repository struct {
	client *redisapp.Client

	Memes     MemeRepository
	Friends   FriendRepository
	RateLimit RateLimitRepository
}

func NewRepository(client *redisapp.Client) *Repository {
	return &Repository{
		client:    client,
		Memes:     NewRedisMemeRepo(client),
		Friends:   NewRedisFriendRepo(client),
		RateLimit: NewRedisRateLimitRepo(client),
	}
}

func (r *Repository) Close() {
	r.client.Close()
}
