package util

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ConsoleOutput writes log entries to stderr
type ConsoleOutput struct {
	mu sync.Mutex
}

// NewConsoleOutput creates a console output
func NewConsoleOutput() *ConsoleOutput {
	return &ConsoleOutput{}
}

func (c *ConsoleOutput) Write(entry Entry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintf(os.Stderr, "%s [%s] %s\n",
		entry.Timestamp.Format("2006-01-02 15:04:05"), entry.Level, entry.Message)
	return err
}

func (c *ConsoleOutput) Close() error { return nil }

// FileOutput appends log entries to a file
type FileOutput struct {
	file *os.File
	mu   sync.Mutex
}

// NewFileOutput creates a file output, creating parent directories as
// needed
func NewFileOutput(path string) (*FileOutput, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &FileOutput{file: file}, nil
}

func (f *FileOutput) Write(entry Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, err := fmt.Fprintf(f.file, "%s [%s] %s\n",
		entry.Timestamp.Format("2006-01-02 15:04:05"), entry.Level, entry.Message)
	return err
}

func (f *FileOutput) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.file.Close()
}
