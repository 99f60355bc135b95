// Package gallery содержит вью-модель галереи: явное состояние приложения и
// чистые функции фильтрации, пагинации и диспетчеризации действий. Рендеринг
// и сетевые вызовы вынесены за границу пакета и описываются командами.
package gallery

import (
	"time"

	"meme_gallery/internal/domain/models"
	"meme_gallery/internal/gallery/copyformat"
)

type Category string

const (
	CategoryAll    Category = "all"
	CategoryLink   Category = "link"
	CategoryUpload Category = "upload"
)

const (
	// PageSize ограничивает число записей, видимых до первого "показать ещё".
	PageSize = 24

	// SearchDebounce — задержка между вводом и запросом поиска.
	SearchDebounce = 300 * time.Millisecond
)

// State — полное состояние страницы галереи. Значение передаётся по ссылке
// в чистые функции; единственный владелец — цикл событий.
type State struct {
	Memes    []models.Meme // полный список из хранилища
	Filtered []models.Meme // сужение серверным поиском
	Query    string
	Category Category

	// VisibleCount — курсор накопительной пагинации.
	VisibleCount int

	Format  copyformat.Format
	IsAdmin bool
	Loading bool
}

func NewState() State {
	return State{
		Category:     CategoryAll,
		VisibleCount: PageSize,
		Format:       copyformat.FormatRaw,
	}
}

// WorkingSet — результат серверного поиска, либо полный список при пустом
// запросе.
func (s State) WorkingSet() []models.Meme {
	if s.Query != "" {
		return s.Filtered
	}
	return s.Memes
}

// Display применяет категорию поверх рабочего набора. Для категории "all"
// записи стабильно переупорядочиваются: сначала все link, затем все upload,
// с сохранением относительного порядка внутри групп.
func (s State) Display() []models.Meme {
	working := s.WorkingSet()

	if s.Category == CategoryAll {
		return partitionBySource(working)
	}

	var out []models.Meme
	for _, m := range working {
		if string(m.Source) == string(s.Category) {
			out = append(out, m)
		}
	}
	return out
}

// Visible обрезает отображаемый набор по курсору пагинации.
func (s State) Visible() []models.Meme {
	display := s.Display()
	if s.VisibleCount >= len(display) {
		return display
	}
	return display[:s.VisibleCount]
}

// HasMore сообщает, нужно ли рендерить кнопку "показать ещё".
func (s State) HasMore() bool {
	return s.VisibleCount < len(s.Display())
}

// AllTags — объединение тегов всех записей, пересчитывается на каждый
// рендер; порядок — порядок первого появления.
func (s State) AllTags() []string {
	var out []string
	seen := make(map[string]struct{})
	for _, m := range s.Memes {
		for _, tag := range m.Tags {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
	}
	return out
}

// Counts возвращает количество записей по категориям для шапки галереи.
func (s State) Counts() (all, link, upload int) {
	all = len(s.Memes)
	for _, m := range s.Memes {
		switch m.Source {
		case models.SourceUpload:
			upload++
		default:
			link++
		}
	}
	return all, link, upload
}

// partitionBySource — стабильное разбиение: link-записи впереди upload-записей,
// без сортировки по каким-либо полям.
func partitionBySource(memes []models.Meme) []models.Meme {
	out := make([]models.Meme, 0, len(memes))
	for _, m := range memes {
		if m.Source != models.SourceUpload {
			out = append(out, m)
		}
	}
	for _, m := range memes {
		if m.Source == models.SourceUpload {
			out = append(out, m)
		}
	}
	return out
}
