package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claude-transcripts/internal/core/model"
)

func contentFromJSON(t *testing.T, raw string) model.MessageContent {
	t.Helper()
	var mc model.MessageContent
	require.NoError(t, sonic.Unmarshal([]byte(raw), &mc))
	return mc
}

func TestExtractTextString(t *testing.T) {
	assert.Equal(t, "hello", ExtractText(contentFromJSON(t, `"  hello  "`)))
	assert.Equal(t, "", ExtractText(contentFromJSON(t, `"   "`)))
}

func TestExtractTextBlocks(t *testing.T) {
	mc := contentFromJSON(t, `[
		{"type":"text","text":" first "},
		{"type":"tool_use","name":"Bash","input":{}},
		{"type":"text","text":"second"},
		{"type":"text","text":"   "}
	]`)

	assert.Equal(t, "first second", ExtractText(mc))
}

func TestExtractTextNonTextBlocksOnly(t *testing.T) {
	mc := contentFromJSON(t, `[{"type":"tool_result","tool_use_id":"t1","content":"out"}]`)
	assert.Equal(t, "", ExtractText(mc))
}

func TestExtractTextUnknownShape(t *testing.T) {
	assert.Equal(t, "", ExtractText(contentFromJSON(t, `{"weird":1}`)))
}

func TestParseJSONLFiltersEntries(t *testing.T) {
	jsonl := `{"type":"user","timestamp":"2024-03-01T10:00:00Z","message":{"role":"user","content":"hi"}}
not valid json

{"type":"summary","summary":"A session"}
{"type":"assistant","timestamp":"2024-03-01T10:00:05Z","message":{"role":"assistant","content":[{"type":"text","text":"hello"}]}}
{"type":"user","timestamp":"2024-03-01T10:00:10Z"}`

	data := ParseJSONL([]byte(jsonl))

	require.Len(t, data.LogEntries, 3, "user and assistant entries survive, summary and bad lines do not")
	assert.Equal(t, model.EntryUser, data.LogEntries[0].Type)
	assert.Equal(t, model.EntryAssistant, data.LogEntries[1].Type)
	require.NotNil(t, data.LogEntries[2].Message, "missing message normalizes to an empty one")
}

func TestParseJSONLEmpty(t *testing.T) {
	data := ParseJSONL(nil)
	assert.Empty(t, data.LogEntries)
}

func TestParseSessionBytesJSONDocument(t *testing.T) {
	doc := `{"logEntries":[{"type":"user","timestamp":"2024-03-01T10:00:00Z","message":{"role":"user","content":"prompt"}}]}`

	data, err := ParseSessionBytes([]byte(doc), false)

	require.NoError(t, err)
	require.Len(t, data.LogEntries, 1)
	assert.Equal(t, "prompt", data.LogEntries[0].Message.Content.Text)
}

func TestParseSessionBytesMalformedJSONDocument(t *testing.T) {
	_, err := ParseSessionBytes([]byte(`{"logEntries": [`), false)
	assert.Error(t, err, "a malformed JSON document is a hard error")
}

func TestParseSessionBytesMalformedJSONLNeverErrors(t *testing.T) {
	data, err := ParseSessionBytes([]byte("garbage\nmore garbage"), true)
	require.NoError(t, err)
	assert.Empty(t, data.LogEntries)
}

func TestParseSessionFilePicksFormatBySuffix(t *testing.T) {
	tempDir := t.TempDir()

	jsonlFile := filepath.Join(tempDir, "session.jsonl")
	require.NoError(t, os.WriteFile(jsonlFile, []byte(
		`{"type":"user","timestamp":"2024-03-01T10:00:00Z","message":{"role":"user","content":"one"}}`+"\n"), 0644))

	jsonFile := filepath.Join(tempDir, "session.json")
	require.NoError(t, os.WriteFile(jsonFile, []byte(
		`{"logEntries":[{"type":"user","timestamp":"2024-03-01T10:00:00Z","message":{"role":"user","content":"two"}}]}`), 0644))

	fromJSONL, err := ParseSessionFile(jsonlFile)
	require.NoError(t, err)
	require.Len(t, fromJSONL.LogEntries, 1)
	assert.Equal(t, "one", fromJSONL.LogEntries[0].Message.Content.Text)

	fromJSON, err := ParseSessionFile(jsonFile)
	require.NoError(t, err)
	require.Len(t, fromJSON.LogEntries, 1)
	assert.Equal(t, "two", fromJSON.LogEntries[0].Message.Content.Text)
}

func TestParseSessionFileMissing(t *testing.T) {
	_, err := ParseSessionFile(filepath.Join(t.TempDir(), "nope.jsonl"))
	assert.Error(t, err)
}
