package parser

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/bytedance/sonic"

	"claude-transcripts/internal/core/model"
	"claude-transcripts/internal/util"
)

// ExtractText pulls plain text out of message content. String content
// is returned trimmed; a block list yields the space-joined trimmed
// text bodies; any other shape yields "".
func ExtractText(content model.MessageContent) string {
	if content.IsString {
		return strings.TrimSpace(content.Text)
	}
	if content.IsBlocks() {
		var texts []string
		for _, block := range content.Blocks {
			if block.Type == model.BlockText && block.Text != "" {
				texts = append(texts, block.Text)
			}
		}
		return strings.TrimSpace(strings.Join(texts, " "))
	}
	return ""
}

// ParseJSONL normalizes newline-delimited session data. Lines that fail
// to parse are dropped; only user/assistant records survive. Never
// returns an error: per-line noise is not the caller's problem.
func ParseJSONL(content []byte) model.SessionData {
	var entries []model.LogEntry

	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	lineCount := 0
	for scanner.Scan() {
		lineCount++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var entry model.LogEntry
		if err := sonic.Unmarshal(line, &entry); err != nil {
			util.LogDebug(fmt.Sprintf("Skip invalid JSON line %d - %v", lineCount, err))
			continue
		}
		if entry.Type != model.EntryUser && entry.Type != model.EntryAssistant {
			continue
		}
		if entry.Message == nil {
			entry.Message = &model.Message{}
		}
		entries = append(entries, entry)
	}

	return model.SessionData{LogEntries: entries}
}

// ParseSessionBytes parses raw session bytes. JSONL input degrades
// line by line; a single-document JSON payload that fails to parse at
// the top level is a hard error.
func ParseSessionBytes(content []byte, jsonl bool) (model.SessionData, error) {
	if jsonl {
		return ParseJSONL(content), nil
	}

	var data model.SessionData
	if err := sonic.Unmarshal(content, &data); err != nil {
		return model.SessionData{}, fmt.Errorf("parse session document: %w", err)
	}
	return data, nil
}

// ParseSessionFile reads and parses a session file, picking the format
// from the file extension.
func ParseSessionFile(path string) (model.SessionData, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return model.SessionData{}, fmt.Errorf("read session file: %w", err)
	}
	return ParseSessionBytes(content, strings.HasSuffix(path, ".jsonl"))
}
