package copyformat_test

import (
	"context"
	"errors"
	"testing"

	"meme_gallery/internal/domain/models"
	"meme_gallery/internal/gallery/copyformat"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompose_Raw_PrefersMirror(t *testing.T) {
	m := models.Meme{
		ID:   1,
		URL:  "https://raw.githubusercontent.com/alice/memes/main/cat.png",
		Name: "cat",
	}

	got, err := copyformat.Compose(m, copyformat.FormatRaw, "https://gal.example")

	require.NoError(t, err)
	assert.Equal(t, "https://cdn.jsdelivr.net/gh/alice/memes@main/cat.png", got)
}

func TestCompose_Raw_NonGitHubKeepsOriginal(t *testing.T) {
	m := models.Meme{ID: 1, URL: "https://example.com/cat.png", Name: "cat"}

	got, err := copyformat.Compose(m, copyformat.FormatRaw, "")

	require.NoError(t, err)
	assert.Equal(t, "https://example.com/cat.png", got)
}

func TestCompose_Markdown_EscapesSpecials(t *testing.T) {
	m := models.Meme{ID: 1, URL: "https://example.com/a.png", Name: `a[b]c\d!e`}

	got, err := copyformat.Compose(m, copyformat.FormatMarkdown, "")

	require.NoError(t, err)
	assert.Equal(t, `![a\[b\]c\\d\!e](https://example.com/a.png)`, got)
}

func TestCompose_Markdown_UnescapesEntitiesFirst(t *testing.T) {
	m := models.Meme{ID: 1, URL: "https://example.com/a.png", Name: "Tom &amp; Jerry"}

	got, err := copyformat.Compose(m, copyformat.FormatMarkdown, "")

	require.NoError(t, err)
	assert.Equal(t, "![Tom & Jerry](https://example.com/a.png)", got)
}

func TestCompose_Markdown_NoDoubleDecode(t *testing.T) {
	// &amp;lt; decodes to the literal text "&lt;", never to "<"
	m := models.Meme{ID: 1, URL: "https://example.com/a.png", Name: "&amp;lt;"}

	got, err := copyformat.Compose(m, copyformat.FormatMarkdown, "")

	require.NoError(t, err)
	assert.Equal(t, "![&lt;](https://example.com/a.png)", got)
}

func TestCompose_HTML_EscapesQuotes(t *testing.T) {
	m := models.Meme{ID: 1, URL: "https://example.com/a.png", Name: `say "hi"`}

	got, err := copyformat.Compose(m, copyformat.FormatHTML, "")

	require.NoError(t, err)
	assert.Equal(t, `<img src="https://example.com/a.png" alt="say &quot;hi&quot;">`, got)
}

func TestCompose_ShareCard(t *testing.T) {
	m := models.Meme{ID: 1755000000000.25, URL: "https://example.com/a.png", Name: "a"}

	got, err := copyformat.Compose(m, copyformat.FormatShareCard, "https://gal.example/")

	require.NoError(t, err)
	assert.Equal(t, "https://gal.example/share/1755000000000.25", got)
}

func TestCompose_ShareCard_NoID(t *testing.T) {
	m := models.Meme{URL: "https://example.com/a.png", Name: "a"}

	_, err := copyformat.Compose(m, copyformat.FormatShareCard, "https://gal.example")

	assert.ErrorIs(t, err, copyformat.ErrNoID)
}

func TestParseFormat(t *testing.T) {
	for _, raw := range []string{"raw", "markdown", "html", "share-card"} {
		f, err := copyformat.ParseFormat(raw)
		require.NoError(t, err)
		assert.Equal(t, copyformat.Format(raw), f)
	}

	_, err := copyformat.ParseFormat("yaml")
	assert.ErrorIs(t, err, copyformat.ErrUnknownFormat)
}

type fakeWriter struct {
	err   error
	calls int
	last  string
}

func (w *fakeWriter) Write(_ context.Context, text string) error {
	w.calls++
	w.last = text
	return w.err
}

func TestCopier_PrimarySucceeds(t *testing.T) {
	primary := &fakeWriter{}
	fallback := &fakeWriter{}

	res := copyformat.NewCopier(primary, fallback).Copy(context.Background(), "text")

	assert.True(t, res.OK)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 0, fallback.calls)
}

func TestCopier_FallsBackOnFailure(t *testing.T) {
	primary := &fakeWriter{err: errors.New("clipboard api unavailable")}
	fallback := &fakeWriter{}

	res := copyformat.NewCopier(primary, fallback).Copy(context.Background(), "text")

	assert.True(t, res.OK)
	assert.Equal(t, "text", fallback.last)
}

func TestCopier_BothFail(t *testing.T) {
	primary := &fakeWriter{err: errors.New("denied")}
	fallback := &fakeWriter{err: errors.New("denied too")}

	res := copyformat.NewCopier(primary, fallback).Copy(context.Background(), "text")

	assert.False(t, res.OK)
	assert.NotEmpty(t, res.Message)
}
