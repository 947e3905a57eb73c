package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveOutput(t *testing.T) {
	assert.Equal(t, filepath.Join(os.TempDir(), "claude-session-abc"),
		resolveOutput("", false, "abc"))

	assert.Equal(t, "/some/dir", resolveOutput("/some/dir", false, "abc"))

	assert.Equal(t, filepath.Join(".", "abc"), resolveOutput("", true, "abc"))
	assert.Equal(t, filepath.Join("/parent", "abc"), resolveOutput("/parent", true, "abc"))
}

func TestSessionStem(t *testing.T) {
	assert.Equal(t, "abc", sessionStem("/path/to/abc.jsonl"))
	assert.Equal(t, "abc", sessionStem("abc.json"))
	assert.Equal(t, "abc", sessionStem("abc"))
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	assert.Equal(t, filepath.Join(home, "x"), expandPath("~/x"))
}
