package commands

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"claude-transcripts/internal/generate"
	"claude-transcripts/internal/gist"
	"claude-transcripts/internal/util"
)

var (
	debug bool

	rootCmd = &cobra.Command{
		Use:   "claude-transcripts",
		Short: "Convert Claude Code session transcripts to browsable HTML pages",
		Long: `claude-transcripts converts Claude Code session files (JSON or JSONL)
into paginated, mobile-friendly HTML archives.

Examples:
  claude-transcripts                          # Pick a recent local session interactively
  claude-transcripts json session.jsonl       # Convert a specific session file
  claude-transcripts all -o ./archive         # Convert every local session
  claude-transcripts watch session.jsonl      # Regenerate on change`,
		RunE:          runLocal,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

const (
	defaultLogFile     = "~/.claude-transcripts/logs/app.log"
	defaultProjectsDir = "~/.claude/projects"
)

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug mode")
	addLocalFlags(rootCmd.Flags())

	cobra.OnInitialize(func() {
		logLevel := "info"
		if debug {
			logLevel = "debug"
		}
		util.InitLogger(logLevel, expandPath(defaultLogFile), debug)
	})
}

func Execute() error {
	return rootCmd.Execute()
}

// Helper functions

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}

func projectsFolder() string {
	return expandPath(defaultProjectsDir)
}

// resolveOutput applies the output directory rules shared by the
// conversion commands: -a nests a stem-named directory under -o (or
// the current directory), a bare -o is used as-is, and neither falls
// back to a per-session temp directory.
func resolveOutput(outputFlag string, outputAuto bool, stem string) string {
	if outputAuto {
		parent := outputFlag
		if parent == "" {
			parent = "."
		}
		return filepath.Join(parent, stem)
	}
	if outputFlag == "" {
		return filepath.Join(os.TempDir(), "claude-session-"+stem)
	}
	return outputFlag
}

// convertSession runs the shared convert-then-publish flow: generate
// the archive, optionally copy the source file alongside it, upload to
// a gist, and open the result in a browser.
func convertSession(sessionFile, output, repo string, includeSource, doGist, doOpen bool) error {
	if err := generate.HTML(sessionFile, output, repo); err != nil {
		return err
	}
	fmt.Printf("Output: %s\n", output)

	if includeSource {
		dest := filepath.Join(output, filepath.Base(sessionFile))
		if err := copyFile(sessionFile, dest); err != nil {
			return fmt.Errorf("failed to copy session file: %w", err)
		}
		if info, err := os.Stat(dest); err == nil {
			fmt.Printf("Source: %s (%.1f KB)\n", dest, float64(info.Size())/1024)
		}
	}

	if doGist {
		if err := gist.InjectPreviewJS(output); err != nil {
			return err
		}
		fmt.Println("Creating GitHub gist...")
		gistID, gistURL, err := gist.Create(output, false)
		if err != nil {
			return err
		}
		fmt.Printf("Gist: %s\n", gistURL)
		fmt.Printf("Preview: %s\n", gist.PreviewURL(gistID))
	}

	if doOpen {
		openBrowser(filepath.Join(output, "index.html"))
	}
	return nil
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o644)
}

func openBrowser(path string) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	if err := cmd.Start(); err != nil {
		util.LogWarnf("failed to open browser: %v", err)
	}
}

func sessionStem(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, ".jsonl")
	return strings.TrimSuffix(base, ".json")
}
