// Package imageurl распознаёт ссылку на изображение во вставленном тексте:
// HTML-тег <img>, Markdown-синтаксис ![alt](url) или голый URL.
package imageurl

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var markdownImageRe = regexp.MustCompile(`!\[.*?\]\(([^)]+)\)`)

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".svg", ".ico"}

// Extract пытается извлечь URL изображения в фиксированном порядке:
// атрибут src тега <img>, Markdown-картинка, голая ссылка. Возвращает
// ok=false, если ничего не распознано или схема не http/https.
func Extract(input string) (string, bool) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", false
	}

	if src, ok := extractImgSrc(trimmed); ok {
		return checkScheme(src)
	}

	if m := markdownImageRe.FindStringSubmatch(trimmed); m != nil {
		return checkScheme(strings.TrimSpace(m[1]))
	}

	return checkScheme(trimmed)
}

// IsImageURL — вспомогательная, намеренно мягкая проверка: расширение
// изображения ищется подстрокой в любом месте URL; без него принимается
// любой синтаксически корректный http(s)-URL.
func IsImageURL(rawURL string) bool {
	if rawURL == "" {
		return false
	}

	lower := strings.ToLower(rawURL)
	for _, ext := range imageExtensions {
		if strings.Contains(lower, ext) {
			return true
		}
	}

	_, ok := checkScheme(rawURL)
	return ok
}

func extractImgSrc(input string) (string, bool) {
	if !strings.Contains(strings.ToLower(input), "<img") {
		return "", false
	}

	z := html.NewTokenizer(strings.NewReader(input))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return "", false
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		tok := z.Token()
		if tok.Data != "img" {
			continue
		}
		for _, attr := range tok.Attr {
			if attr.Key == "src" && attr.Val != "" {
				return attr.Val, true
			}
		}
	}
}

func checkScheme(candidate string) (string, bool) {
	u, err := url.Parse(candidate)
	if err != nil {
		return "", false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", false
	}
	if u.Host == "" {
		return "", false
	}
	return candidate, true
}
