// Package github — минимальный клиент GitHub REST API: коммит файла через
// contents API и рекурсивное чтение дерева репозитория. Ровно то подмножество,
// которое нужно для зеркалирования загрузок.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const DefaultBaseURL = "https://api.github.com"

const userAgent = "meme-gallery"

var (
	// ErrNotConfigured — не заданы токен или репозиторий.
	ErrNotConfigured = errors.New("github storage is not configured")

	// ErrRateLimited — upstream сигнализирует о троттлинге.
	ErrRateLimited = errors.New("github api rate limited")
)

// UpstreamError сохраняет сообщение GitHub, чтобы показать его пользователю.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("github api: %s (status %d)", e.Message, e.StatusCode)
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	repo       string // owner/name
	branch     string
}

func NewClient(token, repo, branch string) *Client {
	if branch == "" {
		branch = "main"
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    DefaultBaseURL,
		token:      token,
		repo:       repo,
		branch:     branch,
	}
}

// WithBaseURL переключает клиент на другой адрес API. Используется тестами.
func (c *Client) WithBaseURL(base string) *Client {
	c.baseURL = base
	return c
}

func (c *Client) Configured() bool {
	return c.token != "" && c.repo != ""
}

func (c *Client) Branch() string {
	return c.branch
}

// RawURL — каноническая raw-ссылка на файл репозитория.
func (c *Client) RawURL(path string) string {
	return fmt.Sprintf("https://raw.githubusercontent.com/%s/%s/%s", c.repo, c.branch, path)
}

// PutFileResult — существенная часть ответа contents API.
type PutFileResult struct {
	Path        string
	SHA         string
	DownloadURL string
}

// PutFile коммитит base64-содержимое как новый файл.
func (c *Client) PutFile(ctx context.Context, path, message, base64Content string) (*PutFileResult, error) {
	const op = "storage.github.PutFile"

	if !c.Configured() {
		return nil, fmt.Errorf("%s: %w", op, ErrNotConfigured)
	}

	body, err := json.Marshal(map[string]string{
		"message": message,
		"content": base64Content,
		"branch":  c.branch,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	endpoint := fmt.Sprintf("%s/repos/%s/contents/%s", c.baseURL, c.repo, escapePath(path))
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s: %w", op, c.upstreamError(resp))
	}

	var payload struct {
		Content struct {
			Path        string `json:"path"`
			SHA         string `json:"sha"`
			DownloadURL string `json:"download_url"`
		} `json:"content"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &PutFileResult{
		Path:        payload.Content.Path,
		SHA:         payload.Content.SHA,
		DownloadURL: payload.Content.DownloadURL,
	}, nil
}

// TreeEntry — один элемент дерева репозитория.
type TreeEntry struct {
	Path string `json:"path"`
	Type string `json:"type"`
	SHA  string `json:"sha"`
}

// Tree возвращает рекурсивное дерево ветки.
func (c *Client) Tree(ctx context.Context) ([]TreeEntry, error) {
	const op = "storage.github.Tree"

	if !c.Configured() {
		return nil, fmt.Errorf("%s: %w", op, ErrNotConfigured)
	}

	endpoint := fmt.Sprintf("%s/repos/%s/git/trees/%s?recursive=1", c.baseURL, c.repo, url.PathEscape(c.branch))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: %w", op, c.upstreamError(resp))
	}

	var payload struct {
		Tree []TreeEntry `json:"tree"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return payload.Tree, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "token "+c.token)
	req.Header.Set("User-Agent", userAgent)
}

func (c *Client) upstreamError(resp *http.Response) error {
	var payload struct {
		Message string `json:"message"`
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	_ = json.Unmarshal(raw, &payload)
	if payload.Message == "" {
		payload.Message = "unknown error"
	}

	if resp.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%w: %s", ErrRateLimited, payload.Message)
	}

	return &UpstreamError{StatusCode: resp.StatusCode, Message: payload.Message}
}

// escapePath экранирует сегменты пути, сохраняя разделители.
func escapePath(p string) string {
	return (&url.URL{Path: p}).EscapedPath()
}
