package ledger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentHash_StableAndDistinct(t *testing.T) {
	h1 := ContentHash("quote", "a.jpg", "b.mp3")
	h2 := ContentHash("quote", "a.jpg", "b.mp3")
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)

	assert.NotEqual(t, h1, ContentHash("other", "a.jpg", "b.mp3"))
	assert.NotEqual(t, h1, ContentHash("quote", "c.jpg", "b.mp3"))
	assert.NotEqual(t, h1, ContentHash("quote", "a.jpg", "d.mp3"))
}

func TestSeen_MissingFileMeansNothingUploaded(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "uploads.log"))
	seen, err := l.Seen(ContentHash("q", "i", "m"))
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestAppendThenSeen(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "uploads.log"))
	hash := ContentHash("q", "i", "m")

	require.NoError(t, l.Append("dQw4w9WgXcQ", hash))

	seen, err := l.Seen(hash)
	require.NoError(t, err)
	assert.True(t, seen)

	seen, err = l.Seen(ContentHash("q2", "i", "m"))
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestAppend_IsAppendOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uploads.log")
	l := New(path)

	require.NoError(t, l.Append("id1", ContentHash("a", "i", "m")))
	require.NoError(t, l.Append("id2", ContentHash("b", "i", "m")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := string(data)
	assert.Contains(t, lines, "id1\t")
	assert.Contains(t, lines, "id2\t")
	assert.Equal(t, 2, len(splitLines(lines)))
}

func splitLines(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}
