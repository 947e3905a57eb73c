// Package github extracts git commit markers and GitHub repository
// context from tool output embedded in session transcripts.
package github

import (
	"regexp"

	"claude-transcripts/internal/core/model"
)

// CommitPattern matches the line git prints after a successful commit:
// "[branch hash] message". Capture groups are the hash (7+ hex chars)
// and the first line of the message.
var CommitPattern = regexp.MustCompile(`\[[\w\-/]+ ([a-f0-9]{7,})\] (.+?)(?:\n|$)`)

// repoPattern matches the "create a pull request" URL git push prints,
// which is the most reliable in-transcript signal of the repo slug.
var repoPattern = regexp.MustCompile(`github\.com/([a-zA-Z0-9_-]+/[a-zA-Z0-9_-]+)/pull/new/`)

// CommitMatch is one commit marker found in a tool result string.
type CommitMatch struct {
	Hash    string
	Message string
	// Start and End delimit the full match within the scanned string,
	// including the trailing newline when present.
	Start int
	End   int
}

// FindCommits returns every commit marker in content, in order.
// Scanning twice yields identical results; k non-overlapping matches
// yield exactly k entries.
func FindCommits(content string) []CommitMatch {
	idx := CommitPattern.FindAllStringSubmatchIndex(content, -1)
	matches := make([]CommitMatch, 0, len(idx))
	for _, m := range idx {
		matches = append(matches, CommitMatch{
			Hash:    content[m[2]:m[3]],
			Message: content[m[4]:m[5]],
			Start:   m[0],
			End:     m[1],
		})
	}
	return matches
}

// CommitURL builds the commit link for a known repo slug.
func CommitURL(repo, hash string) string {
	return "https://github.com/" + repo + "/commit/" + hash
}

// DetectRepo scans tool results for a git push "create pull request"
// URL and returns the owner/name slug, or "" when none is found.
func DetectRepo(entries []model.LogEntry) string {
	for _, entry := range entries {
		if entry.Message == nil || !entry.Message.Content.IsBlocks() {
			continue
		}
		for _, block := range entry.Message.Content.Blocks {
			if block.Type != model.BlockToolResult || block.Content == nil {
				continue
			}
			if !block.Content.IsString {
				continue
			}
			if m := repoPattern.FindStringSubmatch(block.Content.Text); m != nil {
				return m[1]
			}
		}
	}
	return ""
}
