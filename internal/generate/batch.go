package generate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"claude-transcripts/internal/data/scanner"
	"claude-transcripts/internal/render"
	"claude-transcripts/internal/util"
)

// ProgressFunc reports batch progress after each session.
type ProgressFunc func(projectName, sessionName string, current, total int)

// BatchOptions controls a batch generation run.
type BatchOptions struct {
	IncludeAgents bool
	Progress      ProgressFunc
}

// FailedSession records one session that could not be converted.
type FailedSession struct {
	Project string
	Session string
	Err     error
}

// BatchStats summarizes a completed batch run.
type BatchStats struct {
	TotalProjects  int
	TotalSessions  int
	FailedSessions []FailedSession
	OutputDir      string
}

// Batch converts every session under sourceFolder into a combined
// archive: outputDir/<project>/<session>/ per transcript, plus a
// per-project index and a master index. A session that fails to
// convert is recorded and skipped, it never aborts the run.
func Batch(sourceFolder, outputDir string, opts BatchOptions) (BatchStats, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return BatchStats{}, fmt.Errorf("failed to create output directory: %w", err)
	}

	projects := scanner.Projects(sourceFolder, opts.IncludeAgents)

	total := 0
	for _, p := range projects {
		total += len(p.Sessions)
	}

	stats := BatchStats{OutputDir: outputDir}
	processed := 0

	for _, project := range projects {
		projectDir := filepath.Join(outputDir, project.Name)
		if err := os.MkdirAll(projectDir, 0o755); err != nil {
			return stats, fmt.Errorf("failed to create project directory: %w", err)
		}

		for _, session := range project.Sessions {
			sessionName := sessionBaseName(session.Path)
			sessionDir := filepath.Join(projectDir, sessionName)

			if err := HTML(session.Path, sessionDir, ""); err != nil {
				util.LogWarnf("failed to convert %s: %v", session.Path, err)
				stats.FailedSessions = append(stats.FailedSessions, FailedSession{
					Project: project.Name,
					Session: sessionName,
					Err:     err,
				})
			} else {
				stats.TotalSessions++
			}

			processed++
			if opts.Progress != nil {
				opts.Progress(project.Name, sessionName, processed, total)
			}
		}

		if err := writeProjectIndex(project, projectDir); err != nil {
			return stats, err
		}
	}

	if err := writeMasterIndex(projects, outputDir); err != nil {
		return stats, err
	}

	stats.TotalProjects = len(projects)
	return stats, nil
}

func sessionBaseName(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".jsonl")
}

func writeProjectIndex(project scanner.Project, projectDir string) error {
	sessions := make([]render.ProjectIndexSession, 0, len(project.Sessions))
	for _, s := range project.Sessions {
		sessions = append(sessions, render.ProjectIndexSession{
			Name:    sessionBaseName(s.Path),
			Summary: s.Summary,
			Date:    util.FormatModTime(time.Unix(s.ModTime, 0)),
			Size:    util.FormatSizeKB(s.Size),
		})
	}

	content := render.ProjectIndexTemplate(project.Name, sessions)
	indexPath := filepath.Join(projectDir, "index.html")
	if err := os.WriteFile(indexPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", indexPath, err)
	}
	return nil
}

func writeMasterIndex(projects []scanner.Project, outputDir string) error {
	totalSessions := 0
	rows := make([]render.MasterIndexProject, 0, len(projects))
	for _, p := range projects {
		totalSessions += len(p.Sessions)
		recentDate := "N/A"
		if len(p.Sessions) > 0 {
			recentDate = util.FormatDate(time.Unix(p.Sessions[0].ModTime, 0))
		}
		rows = append(rows, render.MasterIndexProject{
			Name:         p.Name,
			SessionCount: len(p.Sessions),
			RecentDate:   recentDate,
		})
	}

	content := render.MasterIndexTemplate(rows, totalSessions)
	indexPath := filepath.Join(outputDir, "index.html")
	if err := os.WriteFile(indexPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", indexPath, err)
	}
	return nil
}
