package model

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageContentUnmarshalString(t *testing.T) {
	var mc MessageContent
	err := sonic.Unmarshal([]byte(`"hello world"`), &mc)

	require.NoError(t, err)
	assert.True(t, mc.IsString)
	assert.Equal(t, "hello world", mc.Text)
	assert.False(t, mc.IsBlocks())
}

func TestMessageContentUnmarshalBlocks(t *testing.T) {
	data := `[{"type":"text","text":"hi"},{"type":"tool_use","id":"tu1","name":"Bash","input":{"command":"ls"}}]`

	var mc MessageContent
	err := sonic.Unmarshal([]byte(data), &mc)

	require.NoError(t, err)
	assert.False(t, mc.IsString)
	require.True(t, mc.IsBlocks())
	require.Len(t, mc.Blocks, 2)
	assert.Equal(t, "text", mc.Blocks[0].Type)
	assert.Equal(t, "hi", mc.Blocks[0].Text)
	assert.Equal(t, "tool_use", mc.Blocks[1].Type)
	assert.Equal(t, "Bash", mc.Blocks[1].Name)
	assert.Equal(t, "ls", mc.Blocks[1].Input.Str("command"))
}

func TestMessageContentUnmarshalUnknownShape(t *testing.T) {
	var mc MessageContent
	err := sonic.Unmarshal([]byte(`{"weird":true}`), &mc)

	require.NoError(t, err, "unknown shapes must not fail the entry")
	assert.False(t, mc.IsString)
	assert.False(t, mc.IsBlocks())
	assert.JSONEq(t, `{"weird":true}`, string(mc.Raw()))
}

func TestContentItemUnmarshalNonObject(t *testing.T) {
	var blocks []ContentItem
	err := sonic.Unmarshal([]byte(`["just a string", 42]`), &blocks)

	require.NoError(t, err)
	require.Len(t, blocks, 2)
	assert.Empty(t, blocks[0].Type)
	assert.Equal(t, `"just a string"`, string(blocks[0].Raw()))
	assert.Equal(t, `42`, string(blocks[1].Raw()))
}

func TestResultContentUnmarshalVariants(t *testing.T) {
	var rc ResultContent
	require.NoError(t, sonic.Unmarshal([]byte(`"done"`), &rc))
	assert.True(t, rc.IsString)
	assert.Equal(t, "done", rc.Text)

	var rc2 ResultContent
	require.NoError(t, sonic.Unmarshal([]byte(`[{"type":"text","text":"out"}]`), &rc2))
	require.True(t, rc2.IsBlocks())
	assert.Equal(t, "out", rc2.Blocks[0].Text)

	var rc3 ResultContent
	require.NoError(t, sonic.Unmarshal([]byte(`{"nested":1}`), &rc3))
	assert.False(t, rc3.IsString)
	assert.False(t, rc3.IsBlocks())
	assert.NotEmpty(t, rc3.Raw())
}

func TestToolInputAccessors(t *testing.T) {
	input := ToolInput{
		"file_path":   "/tmp/a.go",
		"replace_all": true,
		"count":       float64(3),
		"todos": []any{
			map[string]any{"content": "first", "status": "completed"},
			map[string]any{"content": "second", "status": "pending"},
			"malformed",
		},
	}

	assert.Equal(t, "/tmp/a.go", input.Str("file_path"))
	assert.Equal(t, "", input.Str("missing"))
	assert.Equal(t, "", input.Str("count"), "non-string values read as empty")
	assert.True(t, input.Bool("replace_all"))
	assert.False(t, input.Bool("missing"))

	todos := input.Todos()
	require.Len(t, todos, 2)
	assert.Equal(t, TodoItem{Content: "first", Status: "completed"}, todos[0])
	assert.Equal(t, TodoItem{Content: "second", Status: "pending"}, todos[1])

	without := input.Without("todos")
	assert.NotContains(t, without, "todos")
	assert.Contains(t, without, "file_path")
	assert.Contains(t, input, "todos", "original input is untouched")
}

func TestMessageContentRoundTrip(t *testing.T) {
	var entry LogEntry
	raw := `{"type":"user","timestamp":"2024-03-01T10:00:00.123Z","message":{"role":"user","content":"fix the bug"}}`
	require.NoError(t, sonic.Unmarshal([]byte(raw), &entry))

	assert.Equal(t, EntryUser, entry.Type)
	require.NotNil(t, entry.Message)
	assert.Equal(t, "fix the bug", entry.Message.Content.Text)

	out, err := sonic.Marshal(entry.Message.Content)
	require.NoError(t, err)
	assert.Equal(t, `"fix the bug"`, string(out))
}
