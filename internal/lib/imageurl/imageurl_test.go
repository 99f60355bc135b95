package imageurl_test

import (
	"testing"

	"meme_gallery/internal/lib/imageurl"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{
			name:  "html img tag",
			input: `<img src="https://example.com/cat.png" alt="cat">`,
			want:  "https://example.com/cat.png",
			ok:    true,
		},
		{
			name:  "html img tag single quotes",
			input: `<img class='pic' src='https://example.com/a.gif'/>`,
			want:  "https://example.com/a.gif",
			ok:    true,
		},
		{
			name:  "img tag inside surrounding markup",
			input: `<p>look <img src="https://example.com/x.webp"></p>`,
			want:  "https://example.com/x.webp",
			ok:    true,
		},
		{
			name:  "markdown image",
			input: `![a cat](https://example.com/cat.jpg)`,
			want:  "https://example.com/cat.jpg",
			ok:    true,
		},
		{
			name:  "markdown image empty alt",
			input: `![](http://example.com/b.png)`,
			want:  "http://example.com/b.png",
			ok:    true,
		},
		{
			name:  "bare url",
			input: "  https://example.com/c.jpeg  ",
			want:  "https://example.com/c.jpeg",
			ok:    true,
		},
		{
			name:  "img tag wins over markdown",
			input: `![md](https://md.example/m.png) <img src="https://img.example/i.png">`,
			want:  "https://img.example/i.png",
			ok:    true,
		},
		{
			name:  "ftp scheme rejected",
			input: "ftp://example.com/cat.png",
			ok:    false,
		},
		{
			name:  "javascript scheme in img rejected",
			input: `<img src="javascript:alert(1)">`,
			ok:    false,
		},
		{
			name:  "plain text rejected",
			input: "just some words",
			ok:    false,
		},
		{
			name:  "empty input rejected",
			input: "   ",
			ok:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := imageurl.Extract(tt.input)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestIsImageURL(t *testing.T) {
	assert.True(t, imageurl.IsImageURL("https://example.com/cat.png"))
	assert.True(t, imageurl.IsImageURL("https://example.com/CAT.PNG?x=1"))
	// extension anywhere in the URL counts
	assert.True(t, imageurl.IsImageURL("https://example.com/.png/whatever"))
	// no extension, but a valid http url still passes
	assert.True(t, imageurl.IsImageURL("https://example.com/image"))
	assert.False(t, imageurl.IsImageURL(""))
	assert.False(t, imageurl.IsImageURL("not a url"))
	assert.False(t, imageurl.IsImageURL("ftp://example.com/file"))
}
