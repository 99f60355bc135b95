package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"meme_gallery/internal/domain/models"
	"meme_gallery/internal/lib/logger/sl"
	"meme_gallery/internal/metrics"
	"meme_gallery/internal/repository"
)

var (
	ErrDuplicateURL = errors.New("meme with this url already exists")
	ErrMemeNotFound = errors.New("meme not found")
)

type MemeService struct {
	log  *slog.Logger
	repo repository.MemeRepository
}

func NewMemeService(log *slog.Logger, repo repository.MemeRepository) *MemeService {
	return &MemeService{
		log:  log,
		repo: repo,
	}
}

// List возвращает все записи галереи в сохранённом порядке (новые первыми).
func (s *MemeService) List(ctx context.Context) ([]models.Meme, error) {
	const op = "service.MemeService.List"

	memes, err := s.repo.LoadMemes(ctx)
	if err != nil {
		s.log.Error("failed to load memes", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return memes, nil
}

// Add добавляет запись в начало списка. Точное совпадение URL с существующей
// записью считается дубликатом. Пустой source трактуется как обычная ссылка.
func (s *MemeService) Add(ctx context.Context, rawURL, name string, source models.Source) (models.Meme, error) {
	const op = "service.MemeService.Add"
	log := s.log.With(slog.String("op", op), slog.String("url", rawURL))

	memes, err := s.repo.LoadMemes(ctx)
	if err != nil {
		log.Error("failed to load memes", sl.Err(err))
		return models.Meme{}, fmt.Errorf("%s: %w", op, err)
	}

	for _, m := range memes {
		if m.URL == rawURL {
			log.Warn("duplicate url rejected")
			return models.Meme{}, ErrDuplicateURL
		}
	}

	if name == "" {
		name = models.DefaultName(rawURL, len(memes))
	}
	if source == "" {
		source = models.SourceLink
	}

	meme := models.Meme{
		ID:      models.NewID(),
		URL:     rawURL,
		Name:    name,
		Source:  source,
		AddedAt: models.Now(),
	}

	memes = append([]models.Meme{meme}, memes...)

	if err := s.repo.SaveMemes(ctx, memes); err != nil {
		log.Error("failed to save memes", sl.Err(err))
		return models.Meme{}, fmt.Errorf("%s: %w", op, err)
	}

	metrics.GalleryEntries.Set(float64(len(memes)))

	log.Info("meme added", slog.String("name", meme.Name))
	return meme, nil
}

// Delete удаляет запись по идентификатору и возвращает удалённую.
func (s *MemeService) Delete(ctx context.Context, id float64) (models.Meme, error) {
	const op = "service.MemeService.Delete"
	log := s.log.With(slog.String("op", op), slog.String("id", models.FormatID(id)))

	memes, err := s.repo.LoadMemes(ctx)
	if err != nil {
		log.Error("failed to load memes", sl.Err(err))
		return models.Meme{}, fmt.Errorf("%s: %w", op, err)
	}

	idx := -1
	for i, m := range memes {
		if m.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return models.Meme{}, ErrMemeNotFound
	}

	deleted := memes[idx]
	memes = append(memes[:idx], memes[idx+1:]...)

	if err := s.repo.SaveMemes(ctx, memes); err != nil {
		log.Error("failed to save memes", sl.Err(err))
		return models.Meme{}, fmt.Errorf("%s: %w", op, err)
	}

	metrics.GalleryEntries.Set(float64(len(memes)))

	log.Info("meme deleted", slog.String("name", deleted.Name))
	return deleted, nil
}

// Get возвращает запись по идентификатору.
func (s *MemeService) Get(ctx context.Context, id float64) (models.Meme, error) {
	const op = "service.MemeService.Get"

	memes, err := s.repo.LoadMemes(ctx)
	if err != nil {
		return models.Meme{}, fmt.Errorf("%s: %w", op, err)
	}

	for _, m := range memes {
		if m.ID == id {
			return m, nil
		}
	}

	return models.Meme{}, ErrMemeNotFound
}

// Search фильтрует записи по подстроке в имени или URL без учёта регистра.
// Пустой запрос возвращает весь список.
func (s *MemeService) Search(ctx context.Context, query string) ([]models.Meme, error) {
	const op = "service.MemeService.Search"

	memes, err := s.repo.LoadMemes(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return memes, nil
	}

	lower := strings.ToLower(query)
	filtered := make([]models.Meme, 0, len(memes))
	for _, m := range memes {
		if strings.Contains(strings.ToLower(m.Name), lower) ||
			strings.Contains(strings.ToLower(m.URL), lower) {
			filtered = append(filtered, m)
		}
	}

	return filtered, nil
}

// Clear полностью очищает галерею.
func (s *MemeService) Clear(ctx context.Context) error {
	const op = "service.MemeService.Clear"

	if err := s.repo.SaveMemes(ctx, []models.Meme{}); err != nil {
		s.log.Error("failed to clear memes", slog.String("op", op), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	metrics.GalleryEntries.Set(0)

	s.log.Info("gallery cleared", slog.String("op", op))
	return nil
}

// Import замещает весь список переданным и возвращает число записей.
func (s *MemeService) Import(ctx context.Context, memes []models.Meme) (int, error) {
	const op = "service.MemeService.Import"

	if memes == nil {
		memes = []models.Meme{}
	}

	if err := s.repo.SaveMemes(ctx, memes); err != nil {
		s.log.Error("failed to import memes", slog.String("op", op), sl.Err(err))
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	metrics.GalleryEntries.Set(float64(len(memes)))

	s.log.Info("memes imported", slog.String("op", op), slog.Int("count", len(memes)))
	return len(memes), nil
}

// Export собирает документ выгрузки: записи нормализуются, служебные поля
// GitHub отбрасываются.
func (s *MemeService) Export(ctx context.Context) (models.ExportDocument, error) {
	const op = "service.MemeService.Export"

	memes, err := s.repo.LoadMemes(ctx)
	if err != nil {
		return models.ExportDocument{}, fmt.Errorf("%s: %w", op, err)
	}

	exported := make([]models.Meme, 0, len(memes))
	for _, m := range memes {
		exported = append(exported, m.Exported())
	}

	return models.ExportDocument{
		Version:    "1.0",
		ExportedAt: models.Now(),
		Memes:      exported,
	}, nil
}

// UpdateTags целиком заменяет набор тегов записи; непустое имя также
// обновляется.
func (s *MemeService) UpdateTags(ctx context.Context, id float64, tags []string, name string) (models.Meme, error) {
	const op = "service.MemeService.UpdateTags"
	log := s.log.With(slog.String("op", op), slog.String("id", models.FormatID(id)))

	memes, err := s.repo.LoadMemes(ctx)
	if err != nil {
		log.Error("failed to load memes", sl.Err(err))
		return models.Meme{}, fmt.Errorf("%s: %w", op, err)
	}

	idx := -1
	for i, m := range memes {
		if m.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return models.Meme{}, ErrMemeNotFound
	}

	memes[idx].Tags = models.NormalizeTags(tags)

	if trimmed := strings.TrimSpace(name); trimmed != "" {
		memes[idx].Name = trimmed
	}

	if err := s.repo.SaveMemes(ctx, memes); err != nil {
		log.Error("failed to save memes", sl.Err(err))
		return models.Meme{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("tags updated", slog.Int("tags", len(memes[idx].Tags)))
	return memes[idx], nil
}
