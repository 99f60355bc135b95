package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"meme_gallery/internal/domain/models"
	"meme_gallery/internal/lib/logger/sl"
	"meme_gallery/internal/metrics"
	"meme_gallery/internal/repository"
	"meme_gallery/internal/storage/github"

	"github.com/google/uuid"
)

var (
	ErrUnsupportedExt = errors.New("unsupported file extension")
	ErrFileTooLarge   = errors.New("file too large")
	ErrMissingFile    = errors.New("file data is required")
)

// CooldownError возвращается, когда клиент загружает файлы чаще разрешённого
// интервала.
type CooldownError struct {
	Wait time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("upload too frequent, retry in %d seconds", int(math.Ceil(e.Wait.Seconds())))
}

// rateLimitTTL ограничивает время жизни отметки о последней загрузке.
const rateLimitTTL = time.Hour

var allowedExts = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"gif":  {},
	"webp": {},
}

type UploadService struct {
	log       *slog.Logger
	memes     repository.MemeRepository
	rateLimit repository.RateLimitRepository
	github    *github.Client
	cooldown  time.Duration
	maxSize   int64
}

func NewUploadService(
	log *slog.Logger,
	memes repository.MemeRepository,
	rateLimit repository.RateLimitRepository,
	gh *github.Client,
	cooldown time.Duration,
	maxSize int64,
) *UploadService {
	return &UploadService{
		log:       log,
		memes:     memes,
		rateLimit: rateLimit,
		github:    gh,
		cooldown:  cooldown,
		maxSize:   maxSize,
	}
}

// UploadInput — данные одной загрузки. File содержит содержимое файла в
// base64 без префикса data-URI.
type UploadInput struct {
	File     string
	Filename string
	Name     string
	Source   models.Source
	ClientIP string
}

// Upload коммитит файл в GitHub-репозиторий и добавляет запись в начало
// галереи.
func (s *UploadService) Upload(ctx context.Context, in UploadInput) (models.Meme, error) {
	const op = "service.UploadService.Upload"
	log := s.log.With(slog.String("op", op), slog.String("filename", in.Filename))

	if in.File == "" || in.Filename == "" {
		return models.Meme{}, ErrMissingFile
	}

	if !s.github.Configured() {
		return models.Meme{}, github.ErrNotConfigured
	}

	// Размер оценивается по длине base64 без точного декодирования.
	if s.maxSize > 0 && int64(len(in.File))*3/4 > s.maxSize {
		return models.Meme{}, ErrFileTooLarge
	}

	ext := strings.ToLower(strings.TrimPrefix(extOf(in.Filename), "."))
	if _, ok := allowedExts[ext]; !ok {
		return models.Meme{}, ErrUnsupportedExt
	}

	now := time.Now()
	if last, ok, err := s.rateLimit.LastUpload(ctx, in.ClientIP); err != nil {
		log.Error("rate limit check failed", sl.Err(err))
		return models.Meme{}, fmt.Errorf("%s: %w", op, err)
	} else if ok {
		if since := now.Sub(last); since < s.cooldown {
			return models.Meme{}, &CooldownError{Wait: s.cooldown - since}
		}
	}

	path := fmt.Sprintf("images/meme-%d-%s.%s", now.UnixMilli(), shortID(), ext)

	commitName := in.Name
	if commitName == "" {
		commitName = in.Filename
	}

	result, err := s.github.PutFile(ctx, path, "Add meme: "+commitName, in.File)
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("error").Inc()
		log.Error("github upload failed", sl.Err(err))
		return models.Meme{}, fmt.Errorf("%s: %w", op, err)
	}
	metrics.UploadsTotal.WithLabelValues("ok").Inc()

	name := in.Name
	if name == "" {
		name = models.StripExtension(in.Filename)
	}
	source := in.Source
	if source == "" {
		source = models.SourceUpload
	}

	meme := models.Meme{
		ID:         models.NewID(),
		URL:        result.DownloadURL,
		Name:       name,
		Source:     source,
		AddedAt:    models.Now(),
		GitHubPath: result.Path,
		GitHubSHA:  result.SHA,
	}

	memes, err := s.memes.LoadMemes(ctx)
	if err != nil {
		log.Error("failed to load memes", sl.Err(err))
		return models.Meme{}, fmt.Errorf("%s: %w", op, err)
	}

	memes = append([]models.Meme{meme}, memes...)
	if err := s.memes.SaveMemes(ctx, memes); err != nil {
		log.Error("failed to save memes", sl.Err(err))
		return models.Meme{}, fmt.Errorf("%s: %w", op, err)
	}

	metrics.GalleryEntries.Set(float64(len(memes)))

	if err := s.rateLimit.MarkUpload(ctx, in.ClientIP, now, rateLimitTTL); err != nil {
		// Потеря отметки не отменяет уже выполненную загрузку.
		log.Warn("failed to mark upload time", sl.Err(err))
	}

	log.Info("meme uploaded", slog.String("path", result.Path))
	return meme, nil
}

// ScanResult — итог сканирования репозитория.
type ScanResult struct {
	Total    int           `json:"total"`
	New      int           `json:"new"`
	Existing int           `json:"existing"`
	Images   []models.Meme `json:"images"`
}

// ScanRepo обходит дерево GitHub-репозитория, находит файлы изображений и
// добавляет отсутствующие в галерее записи. Совпадение определяется по URL.
func (s *UploadService) ScanRepo(ctx context.Context) (ScanResult, error) {
	const op = "service.UploadService.ScanRepo"
	log := s.log.With(slog.String("op", op))

	if !s.github.Configured() {
		return ScanResult{}, github.ErrNotConfigured
	}

	entries, err := s.github.Tree(ctx)
	if err != nil {
		log.Error("failed to read repo tree", sl.Err(err))
		return ScanResult{}, fmt.Errorf("%s: %w", op, err)
	}

	type found struct {
		url  string
		name string
		path string
		sha  string
	}

	var images []found
	for _, entry := range entries {
		if entry.Type != "blob" {
			continue
		}
		lower := strings.ToLower(entry.Path)
		ext := strings.TrimPrefix(extOf(lower), ".")
		if _, ok := allowedExts[ext]; !ok {
			continue
		}

		segments := strings.Split(entry.Path, "/")
		filename := segments[len(segments)-1]

		images = append(images, found{
			url:  s.github.RawURL(entry.Path),
			name: models.StripExtension(filename),
			path: entry.Path,
			sha:  entry.SHA,
		})
	}

	existing, err := s.memes.LoadMemes(ctx)
	if err != nil {
		log.Error("failed to load memes", sl.Err(err))
		return ScanResult{}, fmt.Errorf("%s: %w", op, err)
	}

	known := make(map[string]struct{}, len(existing))
	for _, m := range existing {
		known[m.URL] = struct{}{}
	}

	newMemes := make([]models.Meme, 0)
	for _, img := range images {
		if _, ok := known[img.url]; ok {
			continue
		}
		newMemes = append(newMemes, models.Meme{
			ID:         models.NewID(),
			URL:        img.url,
			Name:       img.name,
			Source:     models.SourceUpload,
			AddedAt:    models.Now(),
			GitHubPath: img.path,
			GitHubSHA:  img.sha,
		})
	}

	if len(newMemes) > 0 {
		updated := append(append([]models.Meme{}, newMemes...), existing...)
		if err := s.memes.SaveMemes(ctx, updated); err != nil {
			log.Error("failed to save memes", sl.Err(err))
			return ScanResult{}, fmt.Errorf("%s: %w", op, err)
		}
		metrics.GalleryEntries.Set(float64(len(updated)))
	}

	log.Info("repo scanned",
		slog.Int("total", len(images)),
		slog.Int("new", len(newMemes)),
	)

	return ScanResult{
		Total:    len(images),
		New:      len(newMemes),
		Existing: len(images) - len(newMemes),
		Images:   newMemes,
	}, nil
}

func extOf(filename string) string {
	if idx := strings.LastIndex(filename, "."); idx >= 0 {
		return filename[idx:]
	}
	return ""
}

func shortID() string {
	return uuid.NewString()[:8]
}
