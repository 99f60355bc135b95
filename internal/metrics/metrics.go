package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meme_gallery_http_requests_total",
			Help: "Количество HTTP-запросов по методу, маршруту и статусу.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "meme_gallery_http_request_duration_seconds",
			Help:    "Длительность обработки HTTP-запросов.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	GalleryEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "meme_gallery_entries",
			Help: "Текущее количество записей в галерее.",
		},
	)

	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "meme_gallery_uploads_total",
			Help: "Количество загрузок файлов по результату.",
		},
		[]string{"result"},
	)
)
