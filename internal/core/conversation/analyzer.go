package conversation

import (
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"claude-transcripts/internal/core/github"
	"claude-transcripts/internal/core/model"
)

// LongTextThreshold is the minimum character count for an assistant
// text passage to surface separately in the timeline.
const LongTextThreshold = 300

// Display abbreviations for the built-in tools; anything else shows as
// its lowercased name.
var toolAbbreviations = map[string]string{
	"Bash":      "bash",
	"Read":      "read",
	"Write":     "write",
	"Edit":      "edit",
	"Glob":      "glob",
	"Grep":      "grep",
	"Task":      "task",
	"TodoWrite": "todo",
	"WebFetch":  "fetch",
	"WebSearch": "search",
}

// Analyze scans a conversation's messages and extracts tool invocation
// counts, embedded commit references and long text passages. Messages
// without block content are skipped without error.
func Analyze(messages []model.MessageTuple) model.ConversationStats {
	toolCounts := make(map[string]int)
	var longTexts []string
	var commits []model.Commit

	for _, tuple := range messages {
		if tuple.Message == nil || !tuple.Message.Content.IsBlocks() {
			continue
		}

		for _, block := range tuple.Message.Content.Blocks {
			switch block.Type {
			case model.BlockToolUse:
				name := block.Name
				if name == "" {
					name = "Unknown"
				}
				toolCounts[name]++

			case model.BlockToolResult:
				if block.Content == nil || !block.Content.IsString {
					continue
				}
				for _, m := range github.FindCommits(block.Content.Text) {
					commits = append(commits, model.Commit{
						Hash:      m.Hash,
						Message:   m.Message,
						Timestamp: tuple.Timestamp,
					})
				}

			case model.BlockText:
				if utf8.RuneCountInString(block.Text) >= LongTextThreshold {
					longTexts = append(longTexts, block.Text)
				}
			}
		}
	}

	return model.ConversationStats{
		ToolCounts: toolCounts,
		LongTexts:  longTexts,
		Commits:    commits,
	}
}

// FormatToolStats renders tool counts as a single summary line, sorted
// by descending count (name ascending on ties), middle-dot separated.
// Empty input yields "".
func FormatToolStats(toolCounts map[string]int) string {
	if len(toolCounts) == 0 {
		return ""
	}

	type entry struct {
		name  string
		count int
	}
	entries := make([]entry, 0, len(toolCounts))
	for name, count := range toolCounts {
		entries = append(entries, entry{name, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].name < entries[j].name
	})

	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		short, ok := toolAbbreviations[e.name]
		if !ok {
			short = strings.ToLower(e.name)
		}
		parts = append(parts, strconv.Itoa(e.count)+" "+short)
	}

	return strings.Join(parts, " · ")
}

// IsToolResultMessage reports whether a message's content is a
// non-empty block list made up solely of tool_result blocks.
func IsToolResultMessage(msg *model.Message) bool {
	if msg == nil || !msg.Content.IsBlocks() || len(msg.Content.Blocks) == 0 {
		return false
	}
	for _, block := range msg.Content.Blocks {
		if block.Type != model.BlockToolResult {
			return false
		}
	}
	return true
}
