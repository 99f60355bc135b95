package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"meme_gallery/internal/domain/models"
	"meme_gallery/internal/lib/logger/sl"
	"meme_gallery/internal/repository"
)

var (
	ErrFriendNotFound  = errors.New("friend link not found")
	ErrInvalidFriended = errors.New("friend link requires name and valid url")
)

type FriendService struct {
	log  *slog.Logger
	repo repository.FriendRepository
}

func NewFriendService(log *slog.Logger, repo repository.FriendRepository) *FriendService {
	return &FriendService{
		log:  log,
		repo: repo,
	}
}

func (s *FriendService) List(ctx context.Context) ([]models.FriendLink, error) {
	const op = "service.FriendService.List"

	links, err := s.repo.LoadLinks(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return links, nil
}

// Add добавляет ссылку в начало списка.
func (s *FriendService) Add(ctx context.Context, name, rawURL, icon string) (models.FriendLink, error) {
	const op = "service.FriendService.Add"
	log := s.log.With(slog.String("op", op))

	name = strings.TrimSpace(name)
	rawURL = strings.TrimSpace(rawURL)
	icon = strings.TrimSpace(icon)

	if name == "" || !isHTTPURL(rawURL) {
		return models.FriendLink{}, ErrInvalidFriended
	}

	links, err := s.repo.LoadLinks(ctx)
	if err != nil {
		log.Error("failed to load links", sl.Err(err))
		return models.FriendLink{}, fmt.Errorf("%s: %w", op, err)
	}

	link := models.FriendLink{
		ID:      models.NewID(),
		Name:    name,
		URL:     rawURL,
		Icon:    icon,
		AddedAt: models.Now(),
	}

	links = append([]models.FriendLink{link}, links...)

	if err := s.repo.SaveLinks(ctx, links); err != nil {
		log.Error("failed to save links", sl.Err(err))
		return models.FriendLink{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("friend link added", slog.String("name", name))
	return link, nil
}

// Update частично обновляет ссылку: пустые поля и невалидный URL оставляют
// прежние значения.
func (s *FriendService) Update(ctx context.Context, id float64, name, rawURL, icon string) (models.FriendLink, error) {
	const op = "service.FriendService.Update"
	log := s.log.With(slog.String("op", op), slog.String("id", models.FormatID(id)))

	links, err := s.repo.LoadLinks(ctx)
	if err != nil {
		log.Error("failed to load links", sl.Err(err))
		return models.FriendLink{}, fmt.Errorf("%s: %w", op, err)
	}

	idx := -1
	for i, l := range links {
		if l.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return models.FriendLink{}, ErrFriendNotFound
	}

	if trimmed := strings.TrimSpace(name); trimmed != "" {
		links[idx].Name = trimmed
	}
	if trimmed := strings.TrimSpace(rawURL); isHTTPURL(trimmed) {
		links[idx].URL = trimmed
	}
	if trimmed := strings.TrimSpace(icon); trimmed != "" {
		links[idx].Icon = trimmed
	}

	if err := s.repo.SaveLinks(ctx, links); err != nil {
		log.Error("failed to save links", sl.Err(err))
		return models.FriendLink{}, fmt.Errorf("%s: %w", op, err)
	}

	return links[idx], nil
}

// Delete убирает ссылку из списка; отсутствующий идентификатор не считается
// ошибкой.
func (s *FriendService) Delete(ctx context.Context, id float64) error {
	const op = "service.FriendService.Delete"
	log := s.log.With(slog.String("op", op), slog.String("id", models.FormatID(id)))

	links, err := s.repo.LoadLinks(ctx)
	if err != nil {
		log.Error("failed to load links", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	next := make([]models.FriendLink, 0, len(links))
	for _, l := range links {
		if l.ID != id {
			next = append(next, l)
		}
	}

	if err := s.repo.SaveLinks(ctx, next); err != nil {
		log.Error("failed to save links", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func isHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
