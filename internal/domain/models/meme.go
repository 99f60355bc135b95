package models

import (
	"math/rand"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type Source string

const (
	SourceLink   Source = "link"
	SourceUpload Source = "upload"
)

// Meme представляет одну запись галереи. Записи хранятся одним JSON-массивом
// под фиксированным ключом, поэтому структура должна оставаться совместимой
// с уже сохранёнными данными.
type Meme struct {
	ID      float64  `json:"id"`
	URL     string   `json:"url"`
	Name    string   `json:"name"`
	Source  Source   `json:"source"`
	Tags    []string `json:"tags,omitempty"`
	AddedAt string   `json:"addedAt"`

	// Заполняются только для файлов, закоммиченных в GitHub-репозиторий.
	GitHubPath string `json:"github_path,omitempty"`
	GitHubSHA  string `json:"github_sha,omitempty"`
}

// NewID возвращает идентификатор: текущее время в миллисекундах плюс
// дробный джиттер. Уникальность вероятностная, схема сохранена ради
// совместимости с существующими записями и share-ссылками.
func NewID() float64 {
	return float64(time.Now().UnixMilli()) + rand.Float64()
}

// FormatID сериализует идентификатор так же, как он попадает в путь запроса.
func FormatID(id float64) string {
	return strconv.FormatFloat(id, 'f', -1, 64)
}

func ParseID(raw string) (float64, error) {
	return strconv.ParseFloat(raw, 64)
}

// DefaultName выводит имя из последнего сегмента пути URL, либо из
// порядкового номера, если сегмент пустой или URL не разбирается.
func DefaultName(rawURL string, count int) string {
	fallback := "meme-" + strconv.Itoa(count+1)

	u, err := url.Parse(rawURL)
	if err != nil {
		return fallback
	}

	segments := strings.Split(u.Path, "/")
	filename := segments[len(segments)-1]
	if filename == "" {
		return fallback
	}

	return filename
}

// NormalizeTags отбрасывает пустые значения и обрезает пробелы; порядок
// сохраняется.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// StripExtension убирает расширение файла из имени.
func StripExtension(filename string) string {
	if idx := strings.LastIndex(filename, "."); idx > 0 {
		return filename[:idx]
	}
	return filename
}

// ExportDocument — формат выгрузки всей галереи.
type ExportDocument struct {
	Version    string `json:"version"`
	ExportedAt string `json:"exportedAt"`
	Memes      []Meme `json:"memes"`
}

// Exported нормализует запись для выгрузки: загруженные в GitHub файлы
// превращаются в обычные ссылки, служебные поля не экспортируются.
func (m Meme) Exported() Meme {
	out := Meme{
		ID:      m.ID,
		URL:     m.URL,
		Name:    m.Name,
		Source:  m.Source,
		Tags:    m.Tags,
		AddedAt: m.AddedAt,
	}
	if out.Source == "" {
		out.Source = SourceLink
	}
	if m.Source == SourceUpload {
		out.Source = SourceLink
	}
	return out
}

func Now() string {
	return time.Now().UTC().Format(time.RFC3339)
}
