package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"claude-transcripts/internal/data/scanner"
	"claude-transcripts/internal/tui"
)

var (
	localOutput     string
	localOutputAuto bool
	localRepo       string
	localGist       bool
	localJSON       bool
	localOpen       bool
	localLimit      int

	localCmd = &cobra.Command{
		Use:   "local",
		Short: "Select and convert a local Claude Code session to HTML",
		RunE:  runLocal,
	}
)

func addLocalFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&localOutput, "output", "o", "",
		"Output directory")
	fs.BoolVarP(&localOutputAuto, "output-auto", "a", false,
		"Auto-name output subdirectory based on session filename")
	fs.StringVar(&localRepo, "repo", "",
		"GitHub repo (owner/name) for commit links")
	fs.BoolVar(&localGist, "gist", false,
		"Upload to GitHub Gist")
	fs.BoolVar(&localJSON, "json", false,
		"Include the original session file in output")
	fs.BoolVar(&localOpen, "open", false,
		"Open in browser")
	fs.IntVar(&localLimit, "limit", 10,
		"Max sessions to show")
}

func init() {
	addLocalFlags(localCmd.Flags())
	rootCmd.AddCommand(localCmd)
}

func runLocal(cmd *cobra.Command, args []string) error {
	folder := projectsFolder()
	if _, err := os.Stat(folder); err != nil {
		fmt.Printf("Projects folder not found: %s\n", folder)
		fmt.Println("No local Claude Code sessions available.")
		return nil
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("interactive selection needs a terminal; use the json command for scripted conversion")
	}

	fmt.Println("Loading local sessions...")
	sessions := scanner.RecentSessions(folder, localLimit)
	if len(sessions) == 0 {
		fmt.Println("No local sessions found.")
		return nil
	}

	sessionFile, err := tui.PickSession(sessions)
	if err != nil {
		if err == tui.ErrCancelled {
			return nil
		}
		return err
	}

	stem := sessionStem(sessionFile)
	autoOpen := localOutput == "" && !localGist && !localOutputAuto
	output := resolveOutput(localOutput, localOutputAuto, stem)

	return convertSession(sessionFile, output, localRepo, localJSON, localGist, localOpen || autoOpen)
}
