package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"meme_gallery/internal/domain/models"
	"meme_gallery/internal/lib/logger/sl"
	adminservice "meme_gallery/internal/services/admin_service"
	memeservice "meme_gallery/internal/services/meme_service"
	uploadservice "meme_gallery/internal/services/upload_service"
	"meme_gallery/internal/storage/github"
	"meme_gallery/internal/transport/http/dto/request"
	"meme_gallery/internal/transport/http/dto/response"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	_ "meme_gallery/docs"
)

type MemeService interface {
	List(ctx context.Context) ([]models.Meme, error)
	Add(ctx context.Context, rawURL, name string, source models.Source) (models.Meme, error)
	Delete(ctx context.Context, id float64) (models.Meme, error)
	Get(ctx context.Context, id float64) (models.Meme, error)
	Search(ctx context.Context, query string) ([]models.Meme, error)
	Clear(ctx context.Context) error
	Import(ctx context.Context, memes []models.Meme) (int, error)
	Export(ctx context.Context) (models.ExportDocument, error)
	UpdateTags(ctx context.Context, id float64, tags []string, name string) (models.Meme, error)
}

type FriendService interface {
	List(ctx context.Context) ([]models.FriendLink, error)
	Add(ctx context.Context, name, rawURL, icon string) (models.FriendLink, error)
	Update(ctx context.Context, id float64, name, rawURL, icon string) (models.FriendLink, error)
	Delete(ctx context.Context, id float64) error
}

type UploadService interface {
	Upload(ctx context.Context, in uploadservice.UploadInput) (models.Meme, error)
	ScanRepo(ctx context.Context) (uploadservice.ScanResult, error)
}

type AdminService interface {
	VerifyKey(key string) (adminservice.VerifyResult, error)
}

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type Routers struct {
	log           *slog.Logger
	MemeService   MemeService
	FriendService FriendService
	UploadService UploadService
	AdminService  AdminService
	Health        HealthChecker
}

func NewRouter(
	log *slog.Logger,
	memeService MemeService,
	friendService FriendService,
	uploadService UploadService,
	adminService AdminService,
	health HealthChecker,
) *Routers {
	return &Routers{
		log:           log,
		MemeService:   memeService,
		FriendService: friendService,
		UploadService: uploadService,
		AdminService:  adminService,
		Health:        health,
	}
}

// ListMemes godoc
// @Summary Список всех записей галереи
// @Description Возвращает записи в сохранённом порядке, новые первыми.
// @Tags memes
// @Produce json
// @Success 200 {object} response.Response{data=[]models.Meme}
// @Failure 500 {object} response.ErrorResponse
// @Router /api/memes [get]
func (r *Routers) ListMemes(c echo.Context) error {
	const op = "http.routers.ListMemes"

	memes, err := r.MemeService.List(c.Request().Context())
	if err != nil {
		r.log.Error("failed to list memes", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(memes))
}

// AddMeme godoc
// @Summary Добавление записи по ссылке
// @Description Добавляет запись в начало списка. Повтор URL отклоняется.
// @Tags memes
// @Accept json
// @Produce json
// @Param request body request.AddMemeRequest true "Ссылка и необязательное имя"
// @Success 200 {object} response.Response{data=models.Meme}
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/memes [post]
func (r *Routers) AddMeme(c echo.Context) error {
	const op = "http.routers.AddMeme"

	log := r.log.With(slog.String("op", op))

	var req request.AddMemeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		log.Warn("invalid add request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrMissingURL)
	}

	meme, err := r.MemeService.Add(c.Request().Context(), req.URL, req.Name, models.Source(req.Source))
	if err != nil {
		if errors.Is(err, memeservice.ErrDuplicateURL) {
			return c.JSON(http.StatusBadRequest, response.ErrDuplicateMeme)
		}

		log.Error("failed to add meme", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(meme))
}

// DeleteMeme godoc
// @Summary Удаление записи
// @Tags memes
// @Produce json
// @Param id path string true "Идентификатор записи"
// @Success 200 {object} response.Response{data=models.Meme}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/memes/{id} [delete]
func (r *Routers) DeleteMeme(c echo.Context) error {
	const op = "http.routers.DeleteMeme"

	log := r.log.With(slog.String("op", op))

	id, err := models.ParseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, response.Error("invalid meme id"))
	}

	deleted, err := r.MemeService.Delete(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, memeservice.ErrMemeNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrMemeNotFound)
		}

		log.Error("failed to delete meme", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(deleted))
}

// SearchMemes godoc
// @Summary Поиск по имени и URL
// @Description Регистронезависимый поиск подстроки. Пустой запрос возвращает все записи.
// @Tags memes
// @Produce json
// @Param q query string false "Строка поиска"
// @Success 200 {object} response.Response{data=[]models.Meme}
// @Failure 500 {object} response.ErrorResponse
// @Router /api/memes/search [get]
func (r *Routers) SearchMemes(c echo.Context) error {
	const op = "http.routers.SearchMemes"

	memes, err := r.MemeService.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		r.log.Error("failed to search memes", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(memes))
}

// ClearMemes godoc
// @Summary Полная очистка галереи
// @Tags memes
// @Produce json
// @Success 200 {object} response.Response
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/memes/clear [delete]
func (r *Routers) ClearMemes(c echo.Context) error {
	const op = "http.routers.ClearMemes"

	if err := r.MemeService.Clear(c.Request().Context()); err != nil {
		r.log.Error("failed to clear memes", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.Response{Success: true})
}

// ImportMemes godoc
// @Summary Импорт списка записей
// @Description Замещает весь сохранённый список переданным.
// @Tags memes
// @Accept json
// @Produce json
// @Param request body request.ImportRequest true "Список записей"
// @Success 200 {object} response.ImportResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/memes/import [post]
func (r *Routers) ImportMemes(c echo.Context) error {
	const op = "http.routers.ImportMemes"

	log := r.log.With(slog.String("op", op))

	var req request.ImportRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if req.Memes == nil {
		return c.JSON(http.StatusBadRequest, response.Error("invalid data format"))
	}

	count, err := r.MemeService.Import(c.Request().Context(), req.Memes)
	if err != nil {
		log.Error("failed to import memes", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.ImportResponse{Success: true, Count: count})
}

// ExportMemes godoc
// @Summary Выгрузка всей галереи
// @Description Загруженные в GitHub файлы нормализуются в обычные ссылки.
// @Tags memes
// @Produce json
// @Success 200 {object} models.ExportDocument
// @Failure 500 {object} response.ErrorResponse
// @Router /api/memes/export [get]
func (r *Routers) ExportMemes(c echo.Context) error {
	const op = "http.routers.ExportMemes"

	doc, err := r.MemeService.Export(c.Request().Context())
	if err != nil {
		r.log.Error("failed to export memes", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="meme-gallery-export.json"`)
	return c.JSON(http.StatusOK, doc)
}

// UpdateTags godoc
// @Summary Обновление тегов записи
// @Description Набор тегов заменяется целиком; непустое имя также обновляется.
// @Tags memes
// @Accept json
// @Produce json
// @Param request body request.UpdateTagsRequest true "Идентификатор, теги и необязательное имя"
// @Success 200 {object} response.Response{data=models.Meme}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/memes/tags [post]
func (r *Routers) UpdateTags(c echo.Context) error {
	const op = "http.routers.UpdateTags"

	log := r.log.With(slog.String("op", op))

	var req request.UpdateTagsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if req.MemeID == 0 || req.Tags == nil {
		return c.JSON(http.StatusBadRequest, response.Error("memeId and tags are required"))
	}

	meme, err := r.MemeService.UpdateTags(c.Request().Context(), req.MemeID, req.Tags, req.Name)
	if err != nil {
		if errors.Is(err, memeservice.ErrMemeNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrMemeNotFound)
		}

		log.Error("failed to update tags", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(meme))
}

// VerifyKey godoc
// @Summary Проверка ключа администратора
// @Description Невалидный ключ не является ошибкой: ответ имеет ту же форму.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body request.VerifyKeyRequest true "Ключ"
// @Success 200 {object} response.VerifyKeyResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/verify-key [post]
func (r *Routers) VerifyKey(c echo.Context) error {
	const op = "http.routers.VerifyKey"

	log := r.log.With(slog.String("op", op))

	var req request.VerifyKeyRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.Error("key is required"))
	}

	result, err := r.AdminService.VerifyKey(req.Key)
	if err != nil {
		log.Error("failed to verify key", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	if result.Valid {
		if sess, err := session.Get("session", c); err == nil {
			sess.Values["isAdmin"] = true
			_ = sess.Save(c.Request(), c.Response())
		}
	}

	return c.JSON(http.StatusOK, response.VerifyKeyResponse{
		Success: true,
		Valid:   result.Valid,
		Warning: result.Warning,
		Token:   result.Token,
	})
}

// Upload godoc
// @Summary Загрузка файла в GitHub-репозиторий
// @Description Коммитит base64-файл через contents API и добавляет запись в галерею.
// @Tags upload
// @Accept json
// @Produce json
// @Param request body request.UploadRequest true "Файл в base64"
// @Success 200 {object} response.Response{data=models.Meme}
// @Failure 400 {object} response.ErrorResponse
// @Failure 429 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/upload [post]
func (r *Routers) Upload(c echo.Context) error {
	const op = "http.routers.Upload"

	log := r.log.With(slog.String("op", op))

	var req request.UploadRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.Error("file data is required"))
	}

	meme, err := r.UploadService.Upload(c.Request().Context(), uploadservice.UploadInput{
		File:     req.File,
		Filename: req.Filename,
		Name:     req.Name,
		Source:   models.Source(req.Source),
		ClientIP: c.RealIP(),
	})
	if err != nil {
		return r.uploadError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(meme))
}

// ScanRepo godoc
// @Summary Сканирование GitHub-репозитория
// @Description Находит файлы изображений в дереве ветки и добавляет отсутствующие записи.
// @Tags upload
// @Produce json
// @Success 200 {object} response.Response{data=services.ScanResult}
// @Failure 429 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/scan-repo [post]
func (r *Routers) ScanRepo(c echo.Context) error {
	const op = "http.routers.ScanRepo"

	log := r.log.With(slog.String("op", op))

	result, err := r.UploadService.ScanRepo(c.Request().Context())
	if err != nil {
		return r.uploadError(c, log, err)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(result))
}

// uploadError переводит ошибки загрузки в HTTP-статусы. Троттлинг GitHub
// транслируется как 429, чтобы клиент показал ту же подсказку, что и для
// собственного лимита.
func (r *Routers) uploadError(c echo.Context, log *slog.Logger, err error) error {
	var cooldown *uploadservice.CooldownError
	if errors.As(err, &cooldown) {
		return c.JSON(http.StatusTooManyRequests, response.Error(cooldown.Error()))
	}

	if errors.Is(err, github.ErrRateLimited) {
		return c.JSON(http.StatusTooManyRequests, response.Error("github api rate limited, retry later"))
	}

	switch {
	case errors.Is(err, uploadservice.ErrMissingFile),
		errors.Is(err, uploadservice.ErrUnsupportedExt),
		errors.Is(err, uploadservice.ErrFileTooLarge):
		return c.JSON(http.StatusBadRequest, response.Error(err.Error()))
	case errors.Is(err, github.ErrNotConfigured):
		return c.JSON(http.StatusInternalServerError, response.Error("github storage is not configured, set GITHUB_TOKEN and GITHUB_REPO"))
	}

	var upstream *github.UpstreamError
	if errors.As(err, &upstream) {
		log.Error("github upstream error", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.Error("github upload failed: "+upstream.Message))
	}

	log.Error("upload failed", sl.Err(err))
	return c.JSON(http.StatusInternalServerError, response.ErrInternal)
}

// ListFriends godoc
// @Summary Список друзей
// @Tags friends
// @Produce json
// @Success 200 {object} response.Response{data=[]models.FriendLink}
// @Failure 500 {object} response.ErrorResponse
// @Router /api/friends [get]
func (r *Routers) ListFriends(c echo.Context) error {
	const op = "http.routers.ListFriends"

	links, err := r.FriendService.List(c.Request().Context())
	if err != nil {
		r.log.Error("failed to list friends", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(links))
}

// FriendAction godoc
// @Summary Изменение списка друзей
// @Description Одна точка входа для add/update/delete.
// @Tags friends
// @Accept json
// @Produce json
// @Param request body request.FriendActionRequest true "Действие и данные ссылки"
// @Success 200 {object} response.FriendItemResponse
// @Failure 400 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/friends [post]
func (r *Routers) FriendAction(c echo.Context) error {
	const op = "http.routers.FriendAction"

	log := r.log.With(slog.String("op", op))

	var req request.FriendActionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		return c.JSON(http.StatusBadRequest, response.Error("unknown action"))
	}

	ctx := c.Request().Context()

	switch req.Action {
	case "add":
		link, err := r.FriendService.Add(ctx, req.Name, req.URL, req.Icon)
		if err != nil {
			if errors.Is(err, memeservice.ErrInvalidFriended) {
				return c.JSON(http.StatusBadRequest, response.Error("name and valid url are required"))
			}
			log.Error("failed to add friend", sl.Err(err))
			return c.JSON(http.StatusInternalServerError, response.ErrInternal)
		}
		return c.JSON(http.StatusOK, response.FriendItemResponse{Success: true, Item: link})

	case "update":
		link, err := r.FriendService.Update(ctx, req.ID, req.Name, req.URL, req.Icon)
		if err != nil {
			if errors.Is(err, memeservice.ErrFriendNotFound) {
				return c.JSON(http.StatusBadRequest, response.Error("friend link not found"))
			}
			log.Error("failed to update friend", sl.Err(err))
			return c.JSON(http.StatusInternalServerError, response.ErrInternal)
		}
		return c.JSON(http.StatusOK, response.FriendItemResponse{Success: true, Item: link})

	case "delete":
		if err := r.FriendService.Delete(ctx, req.ID); err != nil {
			log.Error("failed to delete friend", sl.Err(err))
			return c.JSON(http.StatusInternalServerError, response.ErrInternal)
		}
		return c.JSON(http.StatusOK, response.FriendDeleteResponse{Success: true, ID: req.ID})
	}

	return c.JSON(http.StatusBadRequest, response.Error("unknown action"))
}

// HealthCheck godoc
// @Summary Проверка живости сервиса и хранилища
// @Tags health
// @Produce json
// @Success 200 {object} response.Response
// @Failure 503 {object} response.ErrorResponse
// @Router /health [get]
func (r *Routers) HealthCheck(c echo.Context) error {
	const op = "http.routers.HealthCheck"

	if err := r.Health.HealthCheck(c.Request().Context()); err != nil {
		r.log.Error("storage is unreachable", slog.String("op", op), sl.Err(err))
		return c.JSON(http.StatusServiceUnavailable, response.Error("storage is unreachable"))
	}

	return c.JSON(http.StatusOK, response.Response{Success: true})
}
