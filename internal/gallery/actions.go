package gallery

import (
	"time"

	"meme_gallery/internal/domain/models"
	"meme_gallery/internal/gallery/copyformat"
)

// Action — событие от пользователя или завершившейся операции.
type Action interface{ isAction() }

type (
	// ListLoaded — пришёл свежий полный список из хранилища.
	ListLoaded struct{ Memes []models.Meme }

	// QueryChanged — изменился текст в поле поиска.
	QueryChanged struct{ Query string }

	// SearchCompleted — пришёл результат серверного поиска.
	SearchCompleted struct {
		Query string
		Memes []models.Meme
	}

	// CategorySelected — переключена вкладка категории.
	CategorySelected struct{ Category Category }

	// LoadMoreClicked — нажата кнопка "показать ещё".
	LoadMoreClicked struct{}

	// FormatSelected — выбран формат копирования.
	FormatSelected struct{ Format copyformat.Format }

	// AdminVerified — подтверждён (или сброшен) режим администратора.
	AdminVerified struct{ OK bool }

	// LoadingChanged — флаг единственной выполняющейся мутации.
	LoadingChanged struct{ On bool }
)

func (ListLoaded) isAction()       {}
func (QueryChanged) isAction()     {}
func (SearchCompleted) isAction()  {}
func (CategorySelected) isAction() {}
func (LoadMoreClicked) isAction()  {}
func (FormatSelected) isAction()   {}
func (AdminVerified) isAction()    {}
func (LoadingChanged) isAction()   {}

// Command — побочный эффект, который исполнитель цикла событий должен
// выполнить после применения действия.
type Command interface{ isCommand() }

type (
	// SearchCommand — запросить серверный поиск после паузы (дебаунс).
	SearchCommand struct {
		Query string
		After time.Duration
	}

	// PersistFormatCommand — сохранить предпочтение формата в локальное
	// key-value хранилище.
	PersistFormatCommand struct{ Format copyformat.Format }

	// PersistAdminCommand — сохранить флаг администратора в сессионное
	// key-value хранилище.
	PersistAdminCommand struct{ OK bool }
)

func (SearchCommand) isCommand()        {}
func (PersistFormatCommand) isCommand() {}
func (PersistAdminCommand) isCommand()  {}

// Update — чистая функция (состояние, действие) → (новое состояние, команды).
// Смена запроса или категории сбрасывает курсор пагинации на одну страницу.
func Update(s State, a Action) (State, []Command) {
	switch act := a.(type) {
	case ListLoaded:
		s.Memes = act.Memes
		if s.Query == "" {
			s.Filtered = nil
		}
		return s, nil

	case QueryChanged:
		s.Query = act.Query
		s.VisibleCount = PageSize
		if act.Query == "" {
			s.Filtered = nil
			return s, nil
		}
		return s, []Command{SearchCommand{Query: act.Query, After: SearchDebounce}}

	case SearchCompleted:
		// Поздний ответ на уже изменённый запрос игнорируется.
		if act.Query != s.Query {
			return s, nil
		}
		s.Filtered = act.Memes
		s.VisibleCount = PageSize
		return s, nil

	case CategorySelected:
		s.Category = act.Category
		s.VisibleCount = PageSize
		return s, nil

	case LoadMoreClicked:
		if s.HasMore() {
			s.VisibleCount += PageSize
		}
		return s, nil

	case FormatSelected:
		s.Format = act.Format
		return s, []Command{PersistFormatCommand{Format: act.Format}}

	case AdminVerified:
		s.IsAdmin = act.OK
		return s, []Command{PersistAdminCommand{OK: act.OK}}

	case LoadingChanged:
		s.Loading = act.On
		return s, nil
	}

	return s, nil
}
