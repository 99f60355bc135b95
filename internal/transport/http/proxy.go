package http

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"meme_gallery/internal/lib/logger/sl"

	"github.com/labstack/echo/v4"
)

// proxyRule описывает разрешённый источник и Referer, который ожидает его
// защита от хотлинка.
type proxyRule struct {
	suffixes []string
	referer  string
}

var proxyRules = []proxyRule{
	{suffixes: []string{"hdslb.com"}, referer: "https://www.bilibili.com/"},
	{suffixes: []string{"zhimg.com"}, referer: "https://www.zhihu.com/"},
	{suffixes: []string{"pximg.net"}, referer: "https://www.pixiv.net/"},
	{suffixes: []string{"sinaimg.cn"}, referer: "https://weibo.com/"},
	{suffixes: []string{"byteimg.com"}, referer: "https://juejin.cn/"},
	{suffixes: []string{"douyinpic.com"}, referer: "https://www.douyin.com/"},
	{suffixes: []string{"miyoushe.com"}, referer: "https://www.miyoushe.com/"},
}

var allowedFits = map[string]struct{}{
	"scale-down": {},
	"contain":    {},
	"cover":      {},
	"crop":       {},
	"pad":        {},
}

var proxyHTTPClient = &http.Client{Timeout: 30 * time.Second}

func matchProxyRule(hostname string) *proxyRule {
	hostname = strings.ToLower(hostname)
	for i := range proxyRules {
		for _, suffix := range proxyRules[i].suffixes {
			if hostname == suffix || strings.HasSuffix(hostname, "."+suffix) {
				return &proxyRules[i]
			}
		}
	}
	return nil
}

// Proxy godoc
// @Summary Прокси изображений с защитой от хотлинка
// @Description Проксирует только домены из белого списка, подставляя ожидаемый Referer.
// @Tags proxy
// @Produce octet-stream
// @Param url query string true "Адрес изображения"
// @Param w query int false "Ширина"
// @Param h query int false "Высота"
// @Param q query int false "Качество"
// @Param fmt query string false "Формат"
// @Param fit query string false "Режим вписывания"
// @Success 200 {string} string "Содержимое изображения"
// @Failure 400 {string} string "Некорректный запрос"
// @Failure 403 {string} string "Домен не разрешён"
// @Router /api/proxy [get]
func (r *Routers) Proxy(c echo.Context) error {
	const op = "http.routers.Proxy"

	log := r.log.With(slog.String("op", op))

	target := c.QueryParam("url")
	if target == "" {
		return c.String(http.StatusBadRequest, "Missing url")
	}

	parsed, err := url.Parse(target)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return c.String(http.StatusBadRequest, "Invalid protocol")
	}

	rule := matchProxyRule(parsed.Hostname())
	if rule == nil {
		return c.String(http.StatusForbidden, "Host not allowed")
	}

	// Параметры масштабирования валидируются, но само преобразование
	// выполняет внешний resize-сервис, если он стоит перед этим узлом.
	if err := validateResizeParams(c); err != nil {
		return c.String(http.StatusBadRequest, err.Error())
	}

	req, err := http.NewRequestWithContext(c.Request().Context(), http.MethodGet, parsed.String(), nil)
	if err != nil {
		return c.String(http.StatusBadRequest, "Invalid url")
	}

	req.Header.Set("Referer", rule.referer)
	req.Header.Set("Accept", "image/avif,image/webp,image/apng,image/*,*/*;q=0.8")
	if ua := c.Request().UserAgent(); ua != "" {
		req.Header.Set("User-Agent", ua)
	} else {
		req.Header.Set("User-Agent", "Mozilla/5.0")
	}

	resp, err := proxyHTTPClient.Do(req)
	if err != nil {
		log.Error("upstream request failed", sl.Err(err))
		return c.String(http.StatusBadGateway, "Upstream error")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.String(resp.StatusCode, "Upstream error")
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	header := c.Response().Header()
	header.Set(echo.HeaderContentType, contentType)
	header.Set("Cache-Control", "public, max-age=86400, stale-while-revalidate=604800, stale-if-error=604800")
	header.Set(echo.HeaderAccessControlAllowOrigin, "*")
	header.Set("Vary", "Accept")

	c.Response().WriteHeader(http.StatusOK)
	_, err = io.Copy(c.Response(), resp.Body)
	return err
}

func validateResizeParams(c echo.Context) error {
	for _, name := range []string{"w", "h", "q"} {
		raw := c.QueryParam(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return errors.New("Invalid " + name)
		}
	}

	if fit := c.QueryParam("fit"); fit != "" {
		if _, ok := allowedFits[fit]; !ok {
			return errors.New("Invalid fit")
		}
	}

	return nil
}
