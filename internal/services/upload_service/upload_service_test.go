package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"meme_gallery/internal/domain/models"
	"meme_gallery/internal/metrics"
	"meme_gallery/internal/storage/github"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memRepos — in-memory замена Redis для тестов сервиса.
type memMemeRepo struct {
	mu    sync.Mutex
	memes []models.Meme
}

func (r *memMemeRepo) LoadMemes(ctx context.Context) ([]models.Meme, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Meme, len(r.memes))
	copy(out, r.memes)
	return out, nil
}

func (r *memMemeRepo) SaveMemes(ctx context.Context, memes []models.Meme) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.memes = memes
	return nil
}

type memRateLimitRepo struct {
	mu   sync.Mutex
	last map[string]time.Time
}

func newMemRateLimitRepo() *memRateLimitRepo {
	return &memRateLimitRepo{last: make(map[string]time.Time)}
}

func (r *memRateLimitRepo) LastUpload(ctx context.Context, ip string) (time.Time, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	at, ok := r.last[ip]
	return at, ok, nil
}

func (r *memRateLimitRepo) MarkUpload(ctx context.Context, ip string, at time.Time, ttl time.Duration) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.last[ip] = at
	return nil
}

func fakeGitHub(t *testing.T, handler http.HandlerFunc) *github.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return github.NewClient("test-token", "owner/repo", "main").WithBaseURL(srv.URL)
}

func validInput() UploadInput {
	return UploadInput{
		File:     base64.StdEncoding.EncodeToString([]byte("fake image bytes")),
		Filename: "cat.png",
		ClientIP: "1.2.3.4",
	}
}

func TestUploadService_Upload(t *testing.T) {
	ctx := context.Background()

	gh := fakeGitHub(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.True(t, strings.HasPrefix(r.URL.Path, "/repos/owner/repo/contents/images/meme-"))

		var body struct {
			Message string `json:"message"`
			Content string `json:"content"`
			Branch  string `json:"branch"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Add meme: cat.png", body.Message)
		assert.Equal(t, "main", body.Branch)

		json.NewEncoder(w).Encode(map[string]any{
			"content": map[string]any{
				"path":         strings.TrimPrefix(r.URL.Path, "/repos/owner/repo/contents/"),
				"sha":          "abc123",
				"download_url": "https://raw.githubusercontent.com/owner/repo/main/images/x.png",
			},
		})
	})

	repo := &memMemeRepo{memes: []models.Meme{{ID: 1, URL: "https://example.com/old.png", Name: "old"}}}
	service := NewUploadService(slog.Default(), repo, newMemRateLimitRepo(), gh, 3*time.Second, 0)

	meme, err := service.Upload(ctx, validInput())
	require.NoError(t, err)

	assert.Equal(t, "cat", meme.Name)
	assert.Equal(t, models.SourceUpload, meme.Source)
	assert.Equal(t, "abc123", meme.GitHubSHA)
	assert.True(t, strings.HasPrefix(meme.GitHubPath, "images/meme-"))
	assert.Equal(t, "https://raw.githubusercontent.com/owner/repo/main/images/x.png", meme.URL)

	saved, err := repo.LoadMemes(ctx)
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Equal(t, meme.URL, saved[0].URL)
	assert.Equal(t, "old", saved[1].Name)

	// Датчик размера галереи обновляется и на пути загрузки.
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.GalleryEntries))
}

func TestUploadService_Upload_Cooldown(t *testing.T) {
	ctx := context.Background()

	gh := fakeGitHub(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"content": map[string]any{"path": "images/x.png", "sha": "s", "download_url": "https://raw.githubusercontent.com/owner/repo/main/images/x.png"},
		})
	})

	rl := newMemRateLimitRepo()
	service := NewUploadService(slog.Default(), &memMemeRepo{}, rl, gh, 3*time.Second, 0)

	_, err := service.Upload(ctx, validInput())
	require.NoError(t, err)

	in := validInput()
	in.Filename = "dog.png"
	_, err = service.Upload(ctx, in)

	var cooldown *CooldownError
	require.ErrorAs(t, err, &cooldown)
	assert.Greater(t, cooldown.Wait, time.Duration(0))
	assert.LessOrEqual(t, cooldown.Wait, 3*time.Second)
}

func TestUploadService_Upload_Validation(t *testing.T) {
	ctx := context.Background()

	gh := fakeGitHub(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("github must not be called")
	})

	service := NewUploadService(slog.Default(), &memMemeRepo{}, newMemRateLimitRepo(), gh, 3*time.Second, 1024)

	t.Run("missing file", func(t *testing.T) {
		in := validInput()
		in.File = ""
		_, err := service.Upload(ctx, in)
		assert.ErrorIs(t, err, ErrMissingFile)
	})

	t.Run("bad extension", func(t *testing.T) {
		in := validInput()
		in.Filename = "virus.exe"
		_, err := service.Upload(ctx, in)
		assert.ErrorIs(t, err, ErrUnsupportedExt)
	})

	t.Run("too large", func(t *testing.T) {
		in := validInput()
		in.File = strings.Repeat("A", 4096)
		_, err := service.Upload(ctx, in)
		assert.ErrorIs(t, err, ErrFileTooLarge)
	})
}

func TestUploadService_Upload_NotConfigured(t *testing.T) {
	service := NewUploadService(slog.Default(), &memMemeRepo{}, newMemRateLimitRepo(),
		github.NewClient("", "", "main"), 3*time.Second, 0)

	_, err := service.Upload(context.Background(), validInput())
	assert.ErrorIs(t, err, github.ErrNotConfigured)
}

func TestUploadService_Upload_GitHubRateLimited(t *testing.T) {
	gh := fakeGitHub(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"message": "API rate limit exceeded"})
	})

	service := NewUploadService(slog.Default(), &memMemeRepo{}, newMemRateLimitRepo(), gh, 3*time.Second, 0)

	_, err := service.Upload(context.Background(), validInput())
	assert.ErrorIs(t, err, github.ErrRateLimited)
}

func TestUploadService_ScanRepo(t *testing.T) {
	ctx := context.Background()

	gh := fakeGitHub(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/repos/owner/repo/git/trees/main", r.URL.Path)
		require.Equal(t, "1", r.URL.Query().Get("recursive"))

		json.NewEncoder(w).Encode(map[string]any{
			"tree": []map[string]string{
				{"path": "images/new.png", "type": "blob", "sha": "n1"},
				{"path": "images/known.jpg", "type": "blob", "sha": "k1"},
				{"path": "README.md", "type": "blob", "sha": "r1"},
				{"path": "images", "type": "tree", "sha": "t1"},
			},
		})
	})

	repo := &memMemeRepo{memes: []models.Meme{{
		ID:  1,
		URL: "https://raw.githubusercontent.com/owner/repo/main/images/known.jpg",
	}}}
	service := NewUploadService(slog.Default(), repo, newMemRateLimitRepo(), gh, 3*time.Second, 0)

	result, err := service.ScanRepo(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Total)
	assert.Equal(t, 1, result.New)
	assert.Equal(t, 1, result.Existing)
	require.Len(t, result.Images, 1)
	assert.Equal(t, "new", result.Images[0].Name)
	assert.Equal(t, "images/new.png", result.Images[0].GitHubPath)
	assert.Equal(t, models.SourceUpload, result.Images[0].Source)

	saved, err := repo.LoadMemes(ctx)
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Equal(t, "https://raw.githubusercontent.com/owner/repo/main/images/new.png", saved[0].URL)
}

func TestUploadService_ScanRepo_NoNewImages(t *testing.T) {
	ctx := context.Background()

	gh := fakeGitHub(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"tree": []map[string]string{
				{"path": "images/known.jpg", "type": "blob", "sha": "k1"},
			},
		})
	})

	repo := &memMemeRepo{memes: []models.Meme{{
		ID:  1,
		URL: "https://raw.githubusercontent.com/owner/repo/main/images/known.jpg",
	}}}
	service := NewUploadService(slog.Default(), repo, newMemRateLimitRepo(), gh, 3*time.Second, 0)

	result, err := service.ScanRepo(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
	assert.Equal(t, 0, result.New)
	assert.Equal(t, 1, result.Existing)
	assert.Empty(t, result.Images)
}
