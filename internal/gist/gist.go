// Package gist uploads generated archives to GitHub Gist via the gh
// CLI and prepares them for gistpreview.github.io hosting.
package gist

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"claude-transcripts/internal/render"
	"claude-transcripts/internal/util"
)

// InjectPreviewJS rewrites every .html file in outputDir to carry the
// gist-preview link-rewriting script. Files without a closing body tag
// are left untouched.
func InjectPreviewJS(outputDir string) error {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return fmt.Errorf("failed to read output directory: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".html") {
			continue
		}
		path := filepath.Join(outputDir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		if !bytes.Contains(content, []byte("</body>")) {
			continue
		}
		replacement := "<script>" + render.GistPreviewJS + "</script>\n</body>"
		updated := bytes.Replace(content, []byte("</body>"), []byte(replacement), 1)
		if err := os.WriteFile(path, updated, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return nil
}

// Create uploads the .html files in outputDir as a new gist and
// returns the gist id and URL. Gists are secret unless public is set.
func Create(outputDir string, public bool) (id, url string, err error) {
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return "", "", errors.New("no HTML files found to upload to gist")
	}

	var htmlFiles []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
			htmlFiles = append(htmlFiles, filepath.Join(outputDir, entry.Name()))
		}
	}
	if len(htmlFiles) == 0 {
		return "", "", errors.New("no HTML files found to upload to gist")
	}
	sort.Strings(htmlFiles)

	args := append([]string{"gist", "create"}, htmlFiles...)
	if public {
		args = append(args, "--public")
	}

	cmd := exec.Command("gh", args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", "", errors.New("gh CLI not found. Install it from https://cli.github.com/ and run 'gh auth login'")
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", "", fmt.Errorf("failed to create gist: %s", msg)
	}

	url = strings.TrimSpace(stdout.String())
	trimmed := strings.TrimRight(url, "/")
	id = trimmed[strings.LastIndex(trimmed, "/")+1:]
	util.LogInfof("created gist %s", id)
	return id, url, nil
}

// PreviewURL returns the gistpreview link for an uploaded archive.
func PreviewURL(gistID string) string {
	return fmt.Sprintf("https://gisthost.github.io/?%s/index.html", gistID)
}
