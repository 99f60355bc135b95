package repository

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"meme_gallery/internal/domain/models"
	redisapp "meme_gallery/internal/storage/redis"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockRepo(t *testing.T) (*Repository, redismock.ClientMock) {
	t.Helper()

	db, mock := redismock.NewClientMock()

	return NewRepository(&redisapp.Client{Client: db}), mock
}

func TestMemeRepo_LoadMemes_Empty(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectGet("memes").RedisNil()

	memes, err := repo.Memes.LoadMemes(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, memes)
	assert.Empty(t, memes)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemeRepo_LoadMemes(t *testing.T) {
	repo, mock := newMockRepo(t)

	payload := `[{"id":1755000000000.25,"url":"https://example.com/cat.png","name":"cat","source":"link","addedAt":"2025-08-12T12:00:00Z"}]`
	mock.ExpectGet("memes").SetVal(payload)

	memes, err := repo.Memes.LoadMemes(context.Background())
	require.NoError(t, err)
	require.Len(t, memes, 1)
	assert.Equal(t, 1755000000000.25, memes[0].ID)
	assert.Equal(t, "https://example.com/cat.png", memes[0].URL)
	assert.Equal(t, models.SourceLink, memes[0].Source)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemeRepo_LoadMemes_BadJSON(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectGet("memes").SetVal("{not json")

	_, err := repo.Memes.LoadMemes(context.Background())
	assert.Error(t, err)
}

func TestMemeRepo_SaveMemes(t *testing.T) {
	repo, mock := newMockRepo(t)

	memes := []models.Meme{{
		ID:      1,
		URL:     "https://example.com/a.png",
		Name:    "a",
		Source:  models.SourceLink,
		AddedAt: "2025-08-12T12:00:00Z",
	}}

	raw, err := json.Marshal(memes)
	require.NoError(t, err)

	mock.ExpectSet("memes", raw, 0).SetVal("OK")

	require.NoError(t, repo.Memes.SaveMemes(context.Background(), memes))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMemeRepo_SaveMemes_NilBecomesEmptyArray(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectSet("memes", []byte("[]"), 0).SetVal("OK")

	require.NoError(t, repo.Memes.SaveMemes(context.Background(), nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFriendRepo_RoundTrip(t *testing.T) {
	repo, mock := newMockRepo(t)

	links := []models.FriendLink{{
		ID:      2,
		Name:    "blog",
		URL:     "https://friend.example.com",
		AddedAt: "2025-08-12T12:00:00Z",
	}}

	raw, err := json.Marshal(links)
	require.NoError(t, err)

	mock.ExpectSet("friend_links", raw, 0).SetVal("OK")
	mock.ExpectGet("friend_links").SetVal(string(raw))

	require.NoError(t, repo.Friends.SaveLinks(context.Background(), links))

	got, err := repo.Friends.LoadLinks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, links, got)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRateLimitRepo_LastUpload_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectGet("upload_ratelimit_1.2.3.4").RedisNil()

	_, ok, err := repo.RateLimit.LastUpload(context.Background(), "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRateLimitRepo_MarkThenLast(t *testing.T) {
	repo, mock := newMockRepo(t)

	at := time.UnixMilli(1755000000000)

	mock.ExpectSet("upload_ratelimit_1.2.3.4", "1755000000000", time.Hour).SetVal("OK")
	mock.ExpectGet("upload_ratelimit_1.2.3.4").SetVal("1755000000000")

	require.NoError(t, repo.RateLimit.MarkUpload(context.Background(), "1.2.3.4", at, time.Hour))

	got, ok, err := repo.RateLimit.LastUpload(context.Background(), "1.2.3.4")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, got.Equal(at))

	assert.NoError(t, mock.ExpectationsWereMet())
}
