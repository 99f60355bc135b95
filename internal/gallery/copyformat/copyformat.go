// Package copyformat собирает текст для буфера обмена по выбранному
// пользователем формату.
package copyformat

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"meme_gallery/internal/domain/models"
	"meme_gallery/internal/lib/mirror"
)

type Format string

const (
	FormatRaw       Format = "raw"
	FormatMarkdown  Format = "markdown"
	FormatHTML      Format = "html"
	FormatShareCard Format = "share-card"
)

var (
	ErrUnknownFormat = errors.New("unknown copy format")
	ErrNoID          = errors.New("meme has no id for a share card")
)

func ParseFormat(raw string) (Format, error) {
	switch Format(raw) {
	case FormatRaw, FormatMarkdown, FormatHTML, FormatShareCard:
		return Format(raw), nil
	}
	return "", ErrUnknownFormat
}

// Имена могли попасть в хранилище из ранее закодированной разметки, поэтому
// перед формат-специфичным экранированием сущности разворачиваются обратно.
// Replacer делает один проход: результат замены повторно не декодируется.
var entityUnescaper = strings.NewReplacer(
	"&apos;", "'",
	"&#39;", "'",
	"&quot;", `"`,
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
)

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"[", `\[`,
	"]", `\]`,
	"!", `\!`,
)

// Compose возвращает текст для копирования. origin нужен только для
// share-card и должен быть origin текущей страницы.
func Compose(m models.Meme, format Format, origin string) (string, error) {
	primary := primaryURL(m)
	name := entityUnescaper.Replace(m.Name)

	switch format {
	case FormatRaw:
		return primary, nil

	case FormatMarkdown:
		return fmt.Sprintf("![%s](%s)", markdownEscaper.Replace(name), primary), nil

	case FormatHTML:
		escaped := strings.ReplaceAll(name, `"`, "&quot;")
		return fmt.Sprintf(`<img src="%s" alt="%s">`, primary, escaped), nil

	case FormatShareCard:
		if m.ID == 0 {
			return "", ErrNoID
		}
		return fmt.Sprintf("%s/share/%s", strings.TrimSuffix(origin, "/"), url.PathEscape(models.FormatID(m.ID))), nil
	}

	return "", ErrUnknownFormat
}

// primaryURL — первый кандидат из списка зеркал: копируется самое быстрое
// зеркало, не обязательно исходная ссылка.
func primaryURL(m models.Meme) string {
	return mirror.Candidates(m.URL)[0]
}
