package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"claude-transcripts/internal/data/scanner"
	"claude-transcripts/internal/generate"
	"claude-transcripts/internal/util"
)

var (
	allSource        string
	allOutput        string
	allIncludeAgents bool
	allDryRun        bool
	allOpen          bool
	allQuiet         bool

	allCmd = &cobra.Command{
		Use:   "all",
		Short: "Convert all local Claude Code sessions to a browsable HTML archive",
		RunE:  runAll,
	}
)

func init() {
	allCmd.Flags().StringVarP(&allSource, "source", "s", "",
		"Source directory (default: ~/.claude/projects)")
	allCmd.Flags().StringVarP(&allOutput, "output", "o", "./claude-archive",
		"Output directory")
	allCmd.Flags().BoolVar(&allIncludeAgents, "include-agents", false,
		"Include agent-* session files")
	allCmd.Flags().BoolVar(&allDryRun, "dry-run", false,
		"Show what would be converted")
	allCmd.Flags().BoolVar(&allOpen, "open", false,
		"Open in browser")
	allCmd.Flags().BoolVarP(&allQuiet, "quiet", "q", false,
		"Suppress non-error output")
	rootCmd.AddCommand(allCmd)
}

func runAll(cmd *cobra.Command, args []string) error {
	source := allSource
	if source == "" {
		source = projectsFolder()
	} else {
		source = expandPath(source)
	}
	if _, err := os.Stat(source); err != nil {
		return fmt.Errorf("source directory not found: %s", source)
	}

	if !allQuiet {
		fmt.Printf("Scanning %s...\n", source)
	}

	projects := scanner.Projects(source, allIncludeAgents)
	if len(projects) == 0 {
		if !allQuiet {
			fmt.Println("No sessions found.")
		}
		return nil
	}

	totalSessions := 0
	for _, p := range projects {
		totalSessions += len(p.Sessions)
	}
	if !allQuiet {
		fmt.Printf("Found %d projects with %d sessions\n", len(projects), totalSessions)
	}

	if allDryRun {
		if !allQuiet {
			printDryRun(projects)
		}
		return nil
	}

	if !allQuiet {
		fmt.Printf("\nGenerating archive in %s...\n", allOutput)
	}

	opts := generate.BatchOptions{IncludeAgents: allIncludeAgents}
	if !allQuiet {
		opts.Progress = func(projectName, sessionName string, current, total int) {
			if current%10 == 0 {
				fmt.Printf("  Processed %d/%d sessions...\n", current, total)
			}
		}
	}

	stats, err := generate.Batch(source, allOutput, opts)
	if err != nil {
		return err
	}

	if len(stats.FailedSessions) > 0 {
		fmt.Printf("\nWarning: %d session(s) failed:\n", len(stats.FailedSessions))
		for _, failure := range stats.FailedSessions {
			fmt.Printf("  %s/%s: %v\n", failure.Project, failure.Session, failure.Err)
		}
	}

	if !allQuiet {
		fmt.Printf("\nGenerated archive with %d projects, %d sessions\n",
			stats.TotalProjects, stats.TotalSessions)
		fmt.Printf("Output: %s\n", allOutput)
	}

	if allOpen {
		openBrowser(filepath.Join(allOutput, "index.html"))
	}
	return nil
}

func printDryRun(projects []scanner.Project) {
	fmt.Println("\nDry run - would convert:")
	for _, project := range projects {
		fmt.Printf("\n  %s (%d sessions)\n", project.Name, len(project.Sessions))
		shown := project.Sessions
		if len(shown) > 3 {
			shown = shown[:3]
		}
		for _, session := range shown {
			date := util.FormatDate(time.Unix(session.ModTime, 0))
			fmt.Printf("    - %s (%s)\n", sessionStem(session.Path), date)
		}
		if len(project.Sessions) > 3 {
			fmt.Printf("    ... and %d more\n", len(project.Sessions)-3)
		}
	}
}
