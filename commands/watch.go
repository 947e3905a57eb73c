package commands

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"claude-transcripts/internal/data/watcher"
	"claude-transcripts/internal/generate"
	"claude-transcripts/internal/util"
)

var (
	watchOutput   string
	watchRepo     string
	watchOpen     bool
	watchInterval time.Duration

	watchCmd = &cobra.Command{
		Use:   "watch <file>",
		Short: "Regenerate the HTML archive whenever a session file changes",
		Args:  cobra.ExactArgs(1),
		RunE:  runWatch,
	}
)

func init() {
	watchCmd.Flags().StringVarP(&watchOutput, "output", "o", "",
		"Output directory")
	watchCmd.Flags().StringVar(&watchRepo, "repo", "",
		"GitHub repo (owner/name) for commit links")
	watchCmd.Flags().BoolVar(&watchOpen, "open", false,
		"Open in browser after the first generation")
	watchCmd.Flags().DurationVar(&watchInterval, "debounce", 500*time.Millisecond,
		"Minimum delay between regenerations")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	sessionFile := args[0]
	if _, err := os.Stat(sessionFile); err != nil {
		return fmt.Errorf("file not found: %s", sessionFile)
	}

	output := resolveOutput(watchOutput, false, sessionStem(sessionFile))

	if err := generate.HTML(sessionFile, output, watchRepo); err != nil {
		return err
	}
	fmt.Printf("Output: %s\n", output)
	if watchOpen {
		openBrowser(filepath.Join(output, "index.html"))
	}

	sw, err := watcher.New(sessionFile, watchInterval)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", sessionFile, err)
	}
	defer sw.Close()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	fmt.Printf("Watching %s (Ctrl-C to stop)\n", sessionFile)
	for {
		select {
		case <-sw.Events():
			if err := generate.HTML(sessionFile, output, watchRepo); err != nil {
				util.LogErrorf("regeneration failed: %v", err)
				fmt.Printf("Regeneration failed: %v\n", err)
				continue
			}
			fmt.Printf("Regenerated at %s\n", time.Now().Format("15:04:05"))

		case <-sigCh:
			fmt.Println("\nStopped.")
			return nil
		}
	}
}
