package repository

import (
	"context"
	"time"

	"meme_gallery/internal/domain/models"
)

// MemeRepository — контракт blob-хранилища: весь список читается и пишется
// целиком, частичных обновлений нет (last-write-wins).
type MemeRepository interface {
	LoadMemes(ctx context.Context) ([]models.Meme, error)
	SaveMemes(ctx context.Context, memes []models.Meme) error
}

type FriendRepository interface {
	LoadLinks(ctx context.Context) ([]models.FriendLink, error)
	SaveLinks(ctx context.Context, links []models.FriendLink) error
}

// RateLimitRepository хранит отметку последней загрузки по сетевому
// происхождению клиента.
type RateLimitRepository interface {
	LastUpload(ctx context.Context, clientIP string) (time.Time, bool, error)
	MarkUpload(ctx context.Context, clientIP string, at time.Time, ttl time.Duration) error
}
