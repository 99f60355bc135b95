package http

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"

	"meme_gallery/internal/domain/models"
	"meme_gallery/internal/lib/logger/sl"
	memeservice "meme_gallery/internal/services/meme_service"

	"github.com/labstack/echo/v4"
)

// sharePage — страница с OG/Twitter-метаданными для предпросмотра ссылок в
// мессенджерах. Экранирование выполняет html/template.
var sharePage = template.Must(template.New("share").Parse(`<!DOCTYPE html>
<html lang="zh-CN">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>{{.Title}}</title>
  <meta name="description" content="{{.Description}}">
  <meta property="og:title" content="{{.Title}}">
  <meta property="og:description" content="{{.Description}}">
  <meta property="og:image" content="{{.ImageURL}}">
  <meta property="og:type" content="article">
  <meta property="og:url" content="{{.PageURL}}">
  <meta name="twitter:card" content="summary_large_image">
  <meta name="twitter:title" content="{{.Title}}">
  <meta name="twitter:description" content="{{.Description}}">
  <meta name="twitter:image" content="{{.ImageURL}}">
</head>
<body>
  <div class="container">
    <h1>{{.Title}}</h1>
    <img src="{{.ImageURL}}" alt="{{.Title}}">
    <p>如果未自动预览，请复制图片或直接访问上方图片。</p>
    <div class="footer">Meme Gallery 分享页</div>
  </div>
</body>
</html>`))

type sharePageData struct {
	Title       string
	Description string
	ImageURL    string
	PageURL     string
}

// SharePage godoc
// @Summary Страница предпросмотра записи
// @Description Отдаёт HTML с OG-метаданными для указанного идентификатора.
// @Tags share
// @Produce html
// @Param id path string true "Идентификатор записи"
// @Success 200 {string} string "HTML-страница"
// @Failure 404 {string} string "Not found"
// @Router /share/{id} [get]
func (r *Routers) SharePage(c echo.Context) error {
	const op = "http.routers.SharePage"

	log := r.log.With(slog.String("op", op))

	idParam := c.Param("id")
	if idParam == "" {
		return c.String(http.StatusBadRequest, "Missing id")
	}

	id, err := models.ParseID(idParam)
	if err != nil {
		return c.String(http.StatusNotFound, "Not found")
	}

	meme, err := r.MemeService.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, memeservice.ErrMemeNotFound) {
			return c.String(http.StatusNotFound, "Not found")
		}

		log.Error("failed to load meme", sl.Err(err))
		return c.String(http.StatusInternalServerError, "Server error")
	}

	title := meme.Name
	if title == "" {
		title = "Meme"
	}

	scheme := c.Scheme()
	data := sharePageData{
		Title:       title,
		Description: "来自 Meme Gallery 的表情包",
		ImageURL:    sanitizeImageURL(meme.URL),
		PageURL:     scheme + "://" + c.Request().Host + "/share/" + url.PathEscape(idParam),
	}

	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().Header().Set("Cache-Control", "public, max-age=60")
	c.Response().WriteHeader(http.StatusOK)

	return sharePage.Execute(c.Response(), data)
}

// sanitizeImageURL пропускает только http(s)-ссылки; остальное заменяется
// пустой строкой, чтобы не попасть в атрибуты страницы.
func sanitizeImageURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return ""
	}
	return u.String()
}
