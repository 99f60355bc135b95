// Package loader реализует ленивую и отказоустойчивую загрузку изображений:
// источник назначается при приближении к вьюпорту, при ошибках загрузки
// элемент проходит по заранее построенному списку зеркал, после исчерпания
// которого подставляется сгенерированная заглушка.
package loader

import (
	"net/url"
	"sync"
)

// PreloadMargin — расширение зоны наблюдения вьюпорта в пикселях: изображения
// начинают грузиться чуть раньше, чем станут видимы.
const PreloadMargin = 50

// PlaceholderAlt — alt-текст терминальной заглушки.
const PlaceholderAlt = "failed to load"

// Target — рендер-цель одного изображения. Реализуется обёрткой над DOM.
type Target interface {
	SetSource(url string)
	SetPlaceholder(dataURI, alt string)
}

// Observer — сигнал пересечения вьюпорта. Реализация обязана учитывать
// PreloadMargin.
type Observer interface {
	Observe(id string)
	Unobserve(id string)
}

type SlotState int

const (
	StateQueued SlotState = iota
	StateLoading
	StateLoaded
	StateFallingBack
	StateFailed
)

type slot struct {
	target     Target
	candidates []string
	cursor     int
	state      SlotState
}

// Loader держит по слоту на каждый привязанный элемент. Повторная привязка
// того же идентификатора — no-op: обработчики элемента подключаются ровно
// один раз, сколько бы раз он ни перерендеривался.
type Loader struct {
	mu       sync.Mutex
	observer Observer
	slots    map[string]*slot
}

func New(observer Observer) *Loader {
	return &Loader{
		observer: observer,
		slots:    make(map[string]*slot),
	}
}

// Bind регистрирует элемент и ставит его в очередь наблюдения. candidates —
// упорядоченный список источников от mirror.Candidates; пустой список
// сразу переводит слот в терминальное состояние.
func (l *Loader) Bind(id string, target Target, candidates []string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.slots[id]; ok {
		return
	}

	s := &slot{target: target, candidates: candidates}
	l.slots[id] = s

	if len(candidates) == 0 {
		l.fail(s)
		return
	}

	l.observer.Observe(id)
}

// OnVisible вызывается наблюдателем, когда элемент вошёл в расширенную зону
// вьюпорта: назначается первый источник, наблюдение снимается.
func (l *Loader) OnVisible(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.slots[id]
	if !ok || s.state != StateQueued {
		return
	}

	s.state = StateLoading
	s.target.SetSource(s.candidates[0])
	l.observer.Unobserve(id)
}

// OnLoad фиксирует успешную загрузку текущего источника.
func (l *Loader) OnLoad(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.slots[id]
	if !ok || s.state == StateFailed {
		return
	}
	s.state = StateLoaded
}

// OnError продвигает курсор фолбэка. В терминальном состоянии событие
// игнорируется: назначение заглушки не должно заново запускать путь ошибки.
func (l *Loader) OnError(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.slots[id]
	if !ok || s.state == StateFailed {
		return
	}

	s.cursor++
	if s.cursor < len(s.candidates) {
		s.state = StateFallingBack
		s.target.SetSource(s.candidates[s.cursor])
		return
	}

	l.fail(s)
}

// State возвращает состояние слота; второй результат — существует ли слот.
func (l *Loader) State(id string) (SlotState, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	s, ok := l.slots[id]
	if !ok {
		return 0, false
	}
	return s.state, true
}

func (l *Loader) fail(s *slot) {
	s.state = StateFailed
	s.target.SetPlaceholder(PlaceholderDataURI(), PlaceholderAlt)
}

const placeholderSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="200" height="200" viewBox="0 0 200 200"><rect width="200" height="200" fill="#e2e8f0"/><text x="100" y="104" font-size="14" text-anchor="middle" fill="#64748b">image unavailable</text></svg>`

// PlaceholderDataURI — инлайновая SVG-заглушка, не требующая сети.
func PlaceholderDataURI() string {
	return "data:image/svg+xml," + url.PathEscape(placeholderSVG)
}
