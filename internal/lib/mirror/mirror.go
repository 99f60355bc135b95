// Package mirror распознаёт ссылки на файлы в GitHub-репозиториях и строит
// упорядоченный список зеркал. Список потребляется позиционно как цепочка
// фолбэков, поэтому порядок провайдеров фиксирован: jsDelivr (быстрее всего
// в целевом регионе), два альтернативных raw-зеркала, канонический raw и в
// самом конце исходная ссылка.
package mirror

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	hostRaw      = "raw.githubusercontent.com"
	hostJSDelivr = "cdn.jsdelivr.net"
	hostGitHub   = "github.com"
)

// Альтернативные raw-зеркала, в порядке предпочтения.
var rawMirrorHosts = []string{
	"raw.gitmirror.com",
	"raw.kkgithub.com",
}

// FileInfo — нормализованный адрес файла в репозитории. Используется только
// транзиентно для построения зеркальных ссылок, никуда не сохраняется.
type FileInfo struct {
	Owner string
	Repo  string
	Ref   string
	Path  string
}

// Parse распознаёт три формы адресации одного и того же файла:
// raw.githubusercontent.com (и известные raw-зеркала), jsDelivr gh-пути и
// веб-ссылки github.com/.../blob/... . Любая ошибка разбора — просто "не
// распознано".
func Parse(rawURL string) (FileInfo, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return FileInfo{}, false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return FileInfo{}, false
	}

	host := strings.ToLower(u.Hostname())
	segments := splitPath(u.Path)

	switch {
	case host == hostRaw || isRawMirror(host):
		// {owner}/{repo}/{ref}/{path...}
		if len(segments) < 4 {
			return FileInfo{}, false
		}
		return FileInfo{
			Owner: segments[0],
			Repo:  segments[1],
			Ref:   segments[2],
			Path:  strings.Join(segments[3:], "/"),
		}, true

	case host == hostJSDelivr:
		// gh/{owner}/{repo}@{ref}/{path...}
		if len(segments) < 3 || segments[0] != "gh" {
			return FileInfo{}, false
		}
		repoRef := strings.SplitN(segments[2], "@", 2)
		if len(repoRef) != 2 || repoRef[0] == "" || repoRef[1] == "" {
			return FileInfo{}, false
		}
		if len(segments) < 4 {
			return FileInfo{}, false
		}
		return FileInfo{
			Owner: segments[1],
			Repo:  repoRef[0],
			Ref:   repoRef[1],
			Path:  strings.Join(segments[3:], "/"),
		}, true

	case host == hostGitHub:
		// {owner}/{repo}/blob/{ref}/{path...}
		if len(segments) < 5 || segments[2] != "blob" {
			return FileInfo{}, false
		}
		return FileInfo{
			Owner: segments[0],
			Repo:  segments[1],
			Ref:   segments[3],
			Path:  strings.Join(segments[4:], "/"),
		}, true
	}

	return FileInfo{}, false
}

// JSDelivrURL — предпочтительное CDN-зеркало.
func (f FileInfo) JSDelivrURL() string {
	return fmt.Sprintf("https://%s/gh/%s/%s@%s/%s", hostJSDelivr, f.Owner, f.Repo, f.Ref, f.Path)
}

// RawURL — каноническая raw-ссылка.
func (f FileInfo) RawURL() string {
	return fmt.Sprintf("https://%s/%s/%s/%s/%s", hostRaw, f.Owner, f.Repo, f.Ref, f.Path)
}

// MirrorURLs — альтернативные raw-зеркала в порядке предпочтения.
func (f FileInfo) MirrorURLs() []string {
	urls := make([]string, 0, len(rawMirrorHosts))
	for _, host := range rawMirrorHosts {
		urls = append(urls, fmt.Sprintf("https://%s/%s/%s/%s/%s", host, f.Owner, f.Repo, f.Ref, f.Path))
	}
	return urls
}

// Candidates строит полный упорядоченный список источников для ссылки.
// Исходный URL присутствует всегда и всегда последним, если остальные
// кандидаты от него отличаются; для не-GitHub ссылок список состоит из
// одного исходного URL.
func Candidates(rawURL string) []string {
	var out []string
	seen := make(map[string]struct{})

	add := func(u string) {
		if _, ok := seen[u]; ok {
			return
		}
		seen[u] = struct{}{}
		out = append(out, u)
	}

	if info, ok := Parse(rawURL); ok {
		add(info.JSDelivrURL())
		for _, m := range info.MirrorURLs() {
			add(m)
		}
		add(info.RawURL())
	}

	add(rawURL)

	return out
}

func isRawMirror(host string) bool {
	for _, m := range rawMirrorHosts {
		if host == m {
			return true
		}
	}
	return false
}

func splitPath(p string) []string {
	var segments []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}
