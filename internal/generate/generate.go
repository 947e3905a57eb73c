// Package generate turns parsed session transcripts into paginated
// static HTML archives.
package generate

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"claude-transcripts/internal/core/conversation"
	"claude-transcripts/internal/core/github"
	"claude-transcripts/internal/core/model"
	"claude-transcripts/internal/data/parser"
	"claude-transcripts/internal/render"
	"claude-transcripts/internal/util"
)

// PromptsPerPage is the number of conversations placed on each page.
const PromptsPerPage = 5

// HTML converts one session file into a paginated HTML archive under
// outputDir. An empty githubRepo triggers auto-detection from the
// transcript; pass a non-empty "owner/repo" to override.
func HTML(sessionPath, outputDir, githubRepo string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	data, err := parser.ParseSessionFile(sessionPath)
	if err != nil {
		return err
	}

	if githubRepo == "" {
		githubRepo = github.DetectRepo(data.LogEntries)
		if githubRepo != "" {
			util.LogDebugf("detected GitHub repo %s from transcript", githubRepo)
		}
	}

	ctx := render.Context{GithubRepo: githubRepo}
	conversations := conversation.Segment(data)
	totalPages := (len(conversations) + PromptsPerPage - 1) / PromptsPerPage
	if totalPages < 1 {
		totalPages = 1
	}

	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		start := (pageNum - 1) * PromptsPerPage
		end := start + PromptsPerPage
		if end > len(conversations) {
			end = len(conversations)
		}

		var messagesHTML string
		for _, conv := range conversations[start:end] {
			first := true
			for _, tuple := range conv.Messages {
				msgHTML := render.Message(tuple.Kind, tuple.Message, tuple.Timestamp, ctx)
				if msgHTML != "" {
					if first && conv.IsContinuation {
						msgHTML = render.Continuation(msgHTML)
					}
					messagesHTML += msgHTML
				}
				first = false
			}
		}

		paginationHTML := render.Pagination(pageNum, totalPages)
		pageContent := render.PageTemplate(pageNum, totalPages, paginationHTML, messagesHTML)
		pagePath := filepath.Join(outputDir, render.PageFileName(pageNum))
		if err := os.WriteFile(pagePath, []byte(pageContent), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", pagePath, err)
		}
	}

	indexContent := buildIndex(conversations, totalPages, githubRepo)
	indexPath := filepath.Join(outputDir, "index.html")
	if err := os.WriteFile(indexPath, []byte(indexContent), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", indexPath, err)
	}

	util.LogInfof("generated %d page(s) in %s", totalPages, outputDir)
	return nil
}

type timelineItem struct {
	timestamp string
	html      string
}

func buildIndex(conversations []model.Conversation, totalPages int, githubRepo string) string {
	totalMessages := 0
	totalToolCalls := 0
	var allCommits []model.Commit

	for _, conv := range conversations {
		totalMessages += len(conv.Messages)
		stats := conversation.Analyze(conv.Messages)
		for _, count := range stats.ToolCounts {
			totalToolCalls += count
		}
		allCommits = append(allCommits, stats.Commits...)
	}

	var items []timelineItem

	promptNum := 0
	for i, conv := range conversations {
		if conv.IsContinuation {
			continue
		}
		if strings.HasPrefix(conv.PromptText, "Stop hook feedback:") {
			continue
		}

		promptNum++
		pageNum := i/PromptsPerPage + 1
		link := render.PageFileName(pageNum) + "#" + render.MsgID(conv.Timestamp)

		// Continuation runs fold into the prompt that started them.
		merged := conv.Messages
		for j := i + 1; j < len(conversations); j++ {
			if !conversations[j].IsContinuation {
				break
			}
			merged = append(merged, conversations[j].Messages...)
		}

		stats := conversation.Analyze(merged)
		toolStatsStr := conversation.FormatToolStats(stats.ToolCounts)

		var longTextsHTML string
		for _, lt := range stats.LongTexts {
			longTextsHTML += render.IndexLongText(render.Markdown(lt))
		}

		statsHTML := render.IndexStats(toolStatsStr, longTextsHTML)
		itemHTML := render.IndexItem(promptNum, link, conv.Timestamp, render.Markdown(conv.PromptText), statsHTML)
		items = append(items, timelineItem{timestamp: conv.Timestamp, html: itemHTML})
	}

	for _, commit := range allCommits {
		itemHTML := render.IndexCommit(commit.Hash, commit.Message, commit.Timestamp, githubRepo)
		items = append(items, timelineItem{timestamp: commit.Timestamp, html: itemHTML})
	}

	sortTimeline(items)

	var indexItemsHTML string
	for _, item := range items {
		indexItemsHTML += item.html
	}

	return render.IndexTemplate(
		render.IndexPagination(totalPages),
		promptNum, totalMessages, totalToolCalls, len(allCommits), totalPages,
		indexItemsHTML,
	)
}

// sortTimeline orders items chronologically. Each item sorts on the
// key (parsed, instant, raw string): unparseable timestamps group
// first in string order, parsed ones compare as instants so that
// differing UTC offsets interleave correctly, and equal instants tie
// break on the raw string. The sort is stable: prompts and the commits
// they produced keep their relative order on fully equal keys.
func sortTimeline(items []timelineItem) {
	type keyed struct {
		item    timelineItem
		instant time.Time
		parsed  bool
	}
	keys := make([]keyed, len(items))
	for i, item := range items {
		keys[i].item = item
		t, err := time.Parse(time.RFC3339Nano, item.timestamp)
		if err == nil {
			keys[i].instant = t
			keys[i].parsed = true
		}
	}
	sort.SliceStable(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.parsed != b.parsed {
			return !a.parsed
		}
		if a.parsed && !a.instant.Equal(b.instant) {
			return a.instant.Before(b.instant)
		}
		return a.item.timestamp < b.item.timestamp
	})
	for i := range keys {
		items[i] = keys[i].item
	}
}
