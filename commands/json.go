package commands

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var (
	jsonOutput     string
	jsonOutputAuto bool
	jsonRepo       string
	jsonGist       bool
	jsonIncludeSrc bool
	jsonOpen       bool

	jsonCmd = &cobra.Command{
		Use:   "json <file>",
		Short: "Convert a Claude Code session JSON/JSONL file or URL to HTML",
		Args:  cobra.ExactArgs(1),
		RunE:  runJSON,
	}
)

func init() {
	jsonCmd.Flags().StringVarP(&jsonOutput, "output", "o", "",
		"Output directory")
	jsonCmd.Flags().BoolVarP(&jsonOutputAuto, "output-auto", "a", false,
		"Auto-name output subdirectory")
	jsonCmd.Flags().StringVar(&jsonRepo, "repo", "",
		"GitHub repo (owner/name) for commit links")
	jsonCmd.Flags().BoolVar(&jsonGist, "gist", false,
		"Upload to GitHub Gist")
	jsonCmd.Flags().BoolVar(&jsonIncludeSrc, "json", false,
		"Include original session file in output")
	jsonCmd.Flags().BoolVar(&jsonOpen, "open", false,
		"Open in browser")
	rootCmd.AddCommand(jsonCmd)
}

func runJSON(cmd *cobra.Command, args []string) error {
	file := args[0]

	var sessionFile string
	if strings.HasPrefix(file, "http://") || strings.HasPrefix(file, "https://") {
		fmt.Printf("Fetching %s...\n", file)
		fetched, err := fetchSessionURL(file)
		if err != nil {
			return err
		}
		sessionFile = fetched
	} else {
		if _, err := os.Stat(file); err != nil {
			return fmt.Errorf("file not found: %s", file)
		}
		sessionFile = file
	}

	stem := sessionStem(sessionFile)
	autoOpen := jsonOutput == "" && !jsonGist && !jsonOutputAuto
	output := resolveOutput(jsonOutput, jsonOutputAuto, stem)

	return convertSession(sessionFile, output, jsonRepo, jsonIncludeSrc, jsonGist, jsonOpen || autoOpen)
}

// fetchSessionURL downloads a remote session file into the temp
// directory and returns its local path. The extension is inferred
// from the URL path, defaulting to .jsonl.
func fetchSessionURL(url string) (string, error) {
	client := &http.Client{Timeout: 60 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to fetch URL: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	urlPath := strings.SplitN(url, "?", 2)[0]
	suffix := ".jsonl"
	if strings.HasSuffix(urlPath, ".json") {
		suffix = ".json"
	}
	name := sessionStem(filepath.Base(urlPath))
	if name == "" || name == "." || name == "/" {
		name = "session"
	}

	tempFile := filepath.Join(os.TempDir(), "claude-url-"+name+suffix)
	if err := os.WriteFile(tempFile, body, 0o644); err != nil {
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	return tempFile, nil
}
