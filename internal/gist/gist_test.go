package gist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInjectPreviewJS(t *testing.T) {
	dir := t.TempDir()
	page := "<html><body><p>hi</p></body>\n</html>"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte(page), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("untouched"), 0644))

	require.NoError(t, InjectPreviewJS(dir))

	updated, err := os.ReadFile(filepath.Join(dir, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(updated), "gistpreview.github.io")
	assert.True(t, strings.Contains(string(updated), "<script>"), "script is spliced in before the body close")
	assert.Equal(t, 1, strings.Count(string(updated), "</body>"))

	other, err := os.ReadFile(filepath.Join(dir, "notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, "untouched", string(other))
}

func TestInjectPreviewJSSkipsPagesWithoutBody(t *testing.T) {
	dir := t.TempDir()
	fragment := "<div>partial</div>"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "frag.html"), []byte(fragment), 0644))

	require.NoError(t, InjectPreviewJS(dir))

	content, err := os.ReadFile(filepath.Join(dir, "frag.html"))
	require.NoError(t, err)
	assert.Equal(t, fragment, string(content))
}

func TestCreateNoHTMLFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	_, _, err := Create(dir, false)
	assert.ErrorContains(t, err, "no HTML files")
}

func TestPreviewURL(t *testing.T) {
	assert.Equal(t,
		"https://gisthost.github.io/?abc123/index.html",
		PreviewURL("abc123"))
}
