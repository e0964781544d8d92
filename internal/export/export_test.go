package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gubarz/studymd/internal/parser"
)

const guide = "I\nTwo Pointer Patterns\n7\npatterns\n1.\nTwo Sum II\n[E]\n2.\nTwo Sum II\n[E]\n3.\nContainer With Most Water\n[M]\n"

func TestRenderShape(t *testing.T) {
	out, err := Render(parser.Parse(guide))
	require.NoError(t, err)

	text := string(out)
	assert.True(t, strings.HasPrefix(text, "export const neetcodeData = [\n"))
	assert.True(t, strings.HasSuffix(text, "];\n"))
	assert.Contains(t, text, `"category": "Two Pointer Patterns"`)
	assert.Contains(t, text, `"article": null`)
	assert.Equal(t, 1, strings.Count(text, `"title": "Two Sum II"`))

	// Keys keep the documented order
	id := strings.Index(text, `"id"`)
	title := strings.Index(text, `"title"`)
	difficulty := strings.Index(text, `"difficulty"`)
	status := strings.Index(text, `"status"`)
	links := strings.Index(text, `"links"`)
	assert.True(t, id < title && title < difficulty && difficulty < status && status < links)
}

func TestRenderEmpty(t *testing.T) {
	out, err := Render(nil)
	require.NoError(t, err)
	assert.Equal(t, "export const neetcodeData = [];\n", string(out))
}

func TestRenderDoesNotEscapeAmpersand(t *testing.T) {
	out, err := Render(parser.Parse("I\nBit Manipulation\n1.\nBuy & Sell\n[E]\n"))
	require.NoError(t, err)
	assert.Contains(t, string(out), `"Buy & Sell"`)
}

func TestRenderIsIdempotent(t *testing.T) {
	a, err := Render(parser.Parse(guide))
	require.NoError(t, err)
	b, err := Render(parser.Parse(guide))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestWriteFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "src", "data", "neetcodeData.js")
	categories := parser.Parse(guide)

	require.NoError(t, WriteFile(path, categories))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, categories, got)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file should not be left behind")
}

func TestWriteFileOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.js")
	require.NoError(t, os.WriteFile(path, []byte("stale content that is much longer than the new one"), 0o644))

	require.NoError(t, WriteFile(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "export const neetcodeData = [];\n", string(data))
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte("export const neetcodeData = {;"))
	assert.Error(t, err)
}
