package generate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSession(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "session.jsonl")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644))
	return path
}

func readOutput(t *testing.T, dir, name string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return string(content)
}

func userLine(ts, text string) string {
	return fmt.Sprintf(`{"type":"user","timestamp":"%s","message":{"role":"user","content":"%s"}}`, ts, text)
}

func assistantLine(ts, text string) string {
	return fmt.Sprintf(`{"type":"assistant","timestamp":"%s","message":{"role":"assistant","content":[{"type":"text","text":"%s"}]}}`, ts, text)
}

func TestHTMLSinglePrompt(t *testing.T) {
	session := writeSession(t,
		userLine("2024-03-01T10:00:00Z", "fix the tests"),
		assistantLine("2024-03-01T10:00:05Z", "on it"),
	)
	outDir := filepath.Join(t.TempDir(), "out")

	require.NoError(t, HTML(session, outDir, ""))

	page := readOutput(t, outDir, "page-001.html")
	assert.Contains(t, page, "fix the tests")
	assert.Contains(t, page, "on it")
	assert.Contains(t, page, "page 1/1")

	index := readOutput(t, outDir, "index.html")
	assert.Contains(t, index, "1 prompts")
	assert.Contains(t, index, "2 messages")
	assert.Contains(t, index, "0 tool calls")
	assert.Contains(t, index, "0 commits")
	assert.Contains(t, index, "1 pages")
	assert.Contains(t, index, "page-001.html#msg-2024-03-01T10-00-00Z")
}

func TestHTMLPagination(t *testing.T) {
	var lines []string
	for i := 0; i < 6; i++ {
		lines = append(lines, userLine(fmt.Sprintf("2024-03-01T10:%02d:00Z", i), fmt.Sprintf("prompt number %d", i)))
	}
	session := writeSession(t, lines...)
	outDir := filepath.Join(t.TempDir(), "out")

	require.NoError(t, HTML(session, outDir, ""))

	page1 := readOutput(t, outDir, "page-001.html")
	page2 := readOutput(t, outDir, "page-002.html")
	assert.Contains(t, page1, "prompt number 0")
	assert.Contains(t, page1, "prompt number 4")
	assert.NotContains(t, page1, "prompt number 5")
	assert.Contains(t, page2, "prompt number 5")

	_, err := os.Stat(filepath.Join(outDir, "page-003.html"))
	assert.True(t, os.IsNotExist(err))
}

func TestHTMLEmptySessionStillEmitsOnePage(t *testing.T) {
	session := filepath.Join(t.TempDir(), "empty.jsonl")
	require.NoError(t, os.WriteFile(session, []byte(""), 0644))
	outDir := filepath.Join(t.TempDir(), "out")

	require.NoError(t, HTML(session, outDir, ""))

	assert.FileExists(t, filepath.Join(outDir, "page-001.html"))
	index := readOutput(t, outDir, "index.html")
	assert.Contains(t, index, "0 prompts")
}

func TestHTMLCommitsInTimeline(t *testing.T) {
	toolResult := `{"type":"user","timestamp":"2024-03-01T10:00:20Z","message":{"role":"user","content":[{"type":"tool_result","tool_use_id":"t1","content":"[main abc1234] Add widget\n 1 file changed"}]}}`
	session := writeSession(t,
		userLine("2024-03-01T10:00:00Z", "commit the widget"),
		assistantLine("2024-03-01T10:00:05Z", "committing"),
		toolResult,
	)
	outDir := filepath.Join(t.TempDir(), "out")

	require.NoError(t, HTML(session, outDir, "owner/repo"))

	index := readOutput(t, outDir, "index.html")
	assert.Contains(t, index, "1 commits")
	assert.Contains(t, index, "https://github.com/owner/repo/commit/abc1234")
	assert.Contains(t, index, "Add widget")
	assert.Less(t,
		strings.Index(index, "commit the widget"),
		strings.Index(index, "Add widget"),
		"prompt precedes its commit in the timeline")
}

func TestHTMLRepoAutoDetection(t *testing.T) {
	pushResult := `{"type":"user","timestamp":"2024-03-01T10:00:20Z","message":{"role":"user","content":[{"type":"tool_result","tool_use_id":"t1","content":"[main abc1234] Push it\nremote: https://github.com/detected/slug/pull/new/main"}]}}`
	session := writeSession(t,
		userLine("2024-03-01T10:00:00Z", "push the branch"),
		pushResult,
	)
	outDir := filepath.Join(t.TempDir(), "out")

	require.NoError(t, HTML(session, outDir, ""))

	index := readOutput(t, outDir, "index.html")
	assert.Contains(t, index, "https://github.com/detected/slug/commit/abc1234")
}

func TestHTMLContinuationFoldsIntoPrecedingPrompt(t *testing.T) {
	toolUse := `{"type":"assistant","timestamp":"2024-03-01T11:00:05Z","message":{"role":"assistant","content":[{"type":"tool_use","id":"t1","name":"Bash","input":{"command":"ls"}}]}}`
	continuation := `{"type":"user","timestamp":"2024-03-01T11:00:00Z","isCompactSummary":true,"message":{"role":"user","content":"Earlier context summary"}}`
	session := writeSession(t,
		userLine("2024-03-01T10:00:00Z", "the real prompt"),
		assistantLine("2024-03-01T10:00:05Z", "working"),
		continuation,
		toolUse,
	)
	outDir := filepath.Join(t.TempDir(), "out")

	require.NoError(t, HTML(session, outDir, ""))

	index := readOutput(t, outDir, "index.html")
	assert.Contains(t, index, "1 prompts", "continuation conversations do not add timeline prompts")
	assert.Contains(t, index, "1 bash", "continuation tool use folds into the preceding prompt's stats")

	page := readOutput(t, outDir, "page-001.html")
	assert.Contains(t, page, `<details class="continuation">`)
	assert.Contains(t, page, "Earlier context summary")
}

func TestHTMLStopHookPromptsExcludedFromTimeline(t *testing.T) {
	session := writeSession(t,
		userLine("2024-03-01T10:00:00Z", "real prompt"),
		userLine("2024-03-01T10:01:00Z", "Stop hook feedback: lint failed"),
	)
	outDir := filepath.Join(t.TempDir(), "out")

	require.NoError(t, HTML(session, outDir, ""))

	index := readOutput(t, outDir, "index.html")
	assert.Contains(t, index, "1 prompts")
	assert.NotContains(t, index, "Stop hook feedback")

	page := readOutput(t, outDir, "page-001.html")
	assert.Contains(t, page, "Stop hook feedback: lint failed", "hook prompts still render on pages")
}

func TestSortTimelineOffsetsAndMalformed(t *testing.T) {
	items := []timelineItem{
		{timestamp: "2024-03-01T12:00:00+02:00", html: "noon-plus-two"},
		{timestamp: "not-a-timestamp", html: "malformed"},
		{timestamp: "2024-03-01T09:00:00Z", html: "morning"},
		{timestamp: "2024-03-01T10:00:00Z", html: "same-instant-z"},
	}

	sortTimeline(items)

	// Malformed timestamps group first, parsed ones order by instant.
	assert.Equal(t, "malformed", items[0].html)
	assert.Equal(t, "morning", items[1].html)

	// 12:00+02:00 and 10:00Z are the same instant; the tie breaks on
	// the raw string, so the ordering never depends on input order.
	assert.Equal(t, "same-instant-z", items[2].html)
	assert.Equal(t, "noon-plus-two", items[3].html)

	reversed := []timelineItem{items[3], items[2], items[1], items[0]}
	sortTimeline(reversed)
	assert.Equal(t, items, reversed)
}

func TestBatch(t *testing.T) {
	sourceDir := t.TempDir()
	projectDir := filepath.Join(sourceDir, "-home-alice-code-widget")
	require.NoError(t, os.MkdirAll(projectDir, 0755))

	sessionContent := userLine("2024-03-01T10:00:00Z", "build the widget") + "\n" +
		assistantLine("2024-03-01T10:00:05Z", "building") + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, "s1.jsonl"), []byte(sessionContent), 0644))

	// Agent transcripts are excluded by default.
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, "agent-x.jsonl"), []byte(sessionContent), 0644))

	outDir := filepath.Join(t.TempDir(), "archive")

	var progressCalls int
	stats, err := Batch(sourceDir, outDir, BatchOptions{
		Progress: func(projectName, sessionName string, current, total int) {
			progressCalls++
			assert.Equal(t, "widget", projectName)
			assert.Equal(t, "s1", sessionName)
			assert.Equal(t, 1, total)
		},
	})

	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalProjects)
	assert.Equal(t, 1, stats.TotalSessions)
	assert.Empty(t, stats.FailedSessions)
	assert.Equal(t, 1, progressCalls)

	assert.FileExists(t, filepath.Join(outDir, "widget", "s1", "index.html"))
	assert.FileExists(t, filepath.Join(outDir, "widget", "s1", "page-001.html"))

	projectIndex := readOutput(t, outDir, filepath.Join("widget", "index.html"))
	assert.Contains(t, projectIndex, "build the widget")
	assert.Contains(t, projectIndex, "s1/index.html")
	assert.Contains(t, projectIndex, " KB<")

	masterIndex := readOutput(t, outDir, "index.html")
	assert.Contains(t, masterIndex, "widget/index.html")
	assert.Contains(t, masterIndex, "1 projects")
}

func TestBatchIncludeAgents(t *testing.T) {
	sourceDir := t.TempDir()
	projectDir := filepath.Join(sourceDir, "proj")
	require.NoError(t, os.MkdirAll(projectDir, 0755))
	content := userLine("2024-03-01T10:00:00Z", "agent work") + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(projectDir, "agent-1.jsonl"), []byte(content), 0644))

	outDir := filepath.Join(t.TempDir(), "archive")
	stats, err := Batch(sourceDir, outDir, BatchOptions{IncludeAgents: true})

	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalSessions)
	assert.FileExists(t, filepath.Join(outDir, "proj", "agent-1", "index.html"))
}
