// Package scanner discovers session transcript files on disk and
// derives display metadata (summaries, project names) for pickers and
// batch generation.
package scanner

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bytedance/sonic"

	"claude-transcripts/internal/core/model"
	"claude-transcripts/internal/data/parser"
	"claude-transcripts/internal/util"
)

const summaryMaxLength = 200

// Session is one discovered transcript file.
type Session struct {
	Path    string
	Summary string
	ModTime int64
	Size    int64
}

// Project groups the sessions found under one project directory.
type Project struct {
	Name     string
	Path     string
	Sessions []Session
}

// SessionSummary extracts a short human-readable summary from a
// session file. Never fails; unreadable or empty sessions report
// "(no summary)".
func SessionSummary(path string) string {
	if strings.HasSuffix(path, ".jsonl") {
		return jsonlSummary(path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "(no summary)"
	}
	var data model.SessionData
	if err := sonic.Unmarshal(content, &data); err != nil {
		return "(no summary)"
	}
	for _, entry := range data.LogEntries {
		if entry.Type != model.EntryUser || entry.Message == nil {
			continue
		}
		if text := parser.ExtractText(entry.Message.Content); text != "" {
			return clampSummary(text)
		}
	}
	return "(no summary)"
}

func jsonlSummary(path string) string {
	content, err := os.ReadFile(path)
	if err != nil {
		return "(no summary)"
	}

	// First pass: a summary record wins outright.
	scan := bufio.NewScanner(strings.NewReader(string(content)))
	scan.Buffer(make([]byte, 64*1024), 10*1024*1024)
	for scan.Scan() {
		line := strings.TrimSpace(scan.Text())
		if line == "" {
			continue
		}
		var entry model.LogEntry
		if err := sonic.UnmarshalString(line, &entry); err != nil {
			continue
		}
		if entry.Type == model.EntrySummary && entry.Summary != "" {
			return clampSummary(entry.Summary)
		}
	}

	// Second pass: first non-meta user message with real text.
	scan = bufio.NewScanner(strings.NewReader(string(content)))
	scan.Buffer(make([]byte, 64*1024), 10*1024*1024)
	for scan.Scan() {
		line := strings.TrimSpace(scan.Text())
		if line == "" {
			continue
		}
		var entry model.LogEntry
		if err := sonic.UnmarshalString(line, &entry); err != nil {
			continue
		}
		if entry.Type != model.EntryUser || entry.IsMeta || entry.Message == nil {
			continue
		}
		text := parser.ExtractText(entry.Message.Content)
		if text != "" && !strings.HasPrefix(text, "<") {
			return clampSummary(text)
		}
	}

	return "(no summary)"
}

func clampSummary(text string) string {
	return util.Truncate(text, summaryMaxLength)
}

// ProjectDisplayName converts a path-encoded project folder name
// (e.g. "-home-alice-code-myproject") into a readable project name.
func ProjectDisplayName(folderName string) string {
	prefixes := []string{"-home-", "-mnt-c-Users-", "-mnt-c-users-", "-Users-"}

	name := folderName
	lower := strings.ToLower(name)
	for _, prefix := range prefixes {
		if strings.HasPrefix(lower, strings.ToLower(prefix)) {
			name = name[len(prefix):]
			break
		}
	}

	skipDirs := map[string]bool{
		"projects": true, "code": true, "repos": true,
		"src": true, "dev": true, "work": true, "documents": true,
	}

	parts := strings.Split(name, "-")
	var meaningful []string
	foundProject := false

	for i, part := range parts {
		if part == "" {
			continue
		}
		// A leading username segment is dropped when a known container
		// directory follows it.
		if i == 0 && !foundProject {
			hasSkipLater := false
			for _, rest := range parts[i+1:] {
				if skipDirs[strings.ToLower(rest)] {
					hasSkipLater = true
					break
				}
			}
			if hasSkipLater {
				continue
			}
		}
		if skipDirs[strings.ToLower(part)] {
			foundProject = true
			continue
		}
		meaningful = append(meaningful, part)
		foundProject = true
	}

	if len(meaningful) > 0 {
		return strings.Join(meaningful, "-")
	}
	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i] != "" {
			return parts[i]
		}
	}
	return folderName
}

// RecentSessions walks folder for .jsonl transcripts and returns the
// most recently modified ones, newest first, capped at limit. Agent
// side-transcripts and sessions with no usable summary are skipped.
func RecentSessions(folder string, limit int) []Session {
	if _, err := os.Stat(folder); err != nil {
		return nil
	}

	var results []Session
	collectSessions(folder, &results, false)

	sort.Slice(results, func(i, j int) bool {
		return results[i].ModTime > results[j].ModTime
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

// Projects walks folder and groups its sessions by project directory.
// Projects are ordered by their most recent session, sessions within a
// project newest first.
func Projects(folder string, includeAgents bool) []Project {
	if _, err := os.Stat(folder); err != nil {
		return nil
	}

	var sessions []Session
	collectSessions(folder, &sessions, includeAgents)

	byDir := map[string]*Project{}
	var order []string
	for _, s := range sessions {
		dir := filepath.Dir(s.Path)
		key := filepath.Base(dir)
		p, ok := byDir[key]
		if !ok {
			p = &Project{Name: ProjectDisplayName(key), Path: dir}
			byDir[key] = p
			order = append(order, key)
		}
		p.Sessions = append(p.Sessions, s)
	}

	projects := make([]Project, 0, len(order))
	for _, key := range order {
		p := byDir[key]
		sort.Slice(p.Sessions, func(i, j int) bool {
			return p.Sessions[i].ModTime > p.Sessions[j].ModTime
		})
		projects = append(projects, *p)
	}
	sort.SliceStable(projects, func(i, j int) bool {
		var a, b int64
		if len(projects[i].Sessions) > 0 {
			a = projects[i].Sessions[0].ModTime
		}
		if len(projects[j].Sessions) > 0 {
			b = projects[j].Sessions[0].ModTime
		}
		return a > b
	})
	return projects
}

func collectSessions(dir string, results *[]Session, includeAgents bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		util.LogDebugf("skipping unreadable directory %s: %v", dir, err)
		return
	}

	for _, entry := range entries {
		fullPath := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			collectSessions(fullPath, results, includeAgents)
			continue
		}
		if !strings.HasSuffix(entry.Name(), ".jsonl") {
			continue
		}
		if !includeAgents && strings.HasPrefix(entry.Name(), "agent-") {
			continue
		}

		summary := SessionSummary(fullPath)
		if strings.EqualFold(summary, "warmup") || summary == "(no summary)" {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		*results = append(*results, Session{
			Path:    fullPath,
			Summary: summary,
			ModTime: info.ModTime().Unix(),
			Size:    info.Size(),
		})
	}
}
