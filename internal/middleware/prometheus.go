package middleware

import (
	"meme_gallery/internal/metrics"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// PrometheusMetrics считает запросы и их длительность по методу и шаблону
// маршрута. Сам скрейп /metrics не учитывается.
func PrometheusMetrics(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Path() == "/metrics" {
			return next(c)
		}

		start := time.Now()
		err := next(c)
		duration := time.Since(start).Seconds()

		metrics.HTTPRequestsTotal.WithLabelValues(
			c.Request().Method,
			c.Path(),
			strconv.Itoa(c.Response().Status),
		).Inc()

		metrics.HTTPRequestDuration.WithLabelValues(
			c.Request().Method,
			c.Path(),
		).Observe(duration)

		return err
	}
}
