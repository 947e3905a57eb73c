package util

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// LogLevel represents the logging level
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Entry represents a single log entry
type Entry struct {
	Timestamp time.Time
	Level     string
	Message   string
}

// Output represents a log output destination
type Output interface {
	Write(entry Entry) error
	Close() error
}

// Logger provides leveled logging to one or more outputs
type Logger struct {
	level   LogLevel
	outputs []Output
	mu      sync.Mutex
}

// NewLogger creates a logger writing to the given outputs
func NewLogger(levelStr string, outputs ...Output) *Logger {
	return &Logger{
		level:   parseLogLevel(levelStr),
		outputs: outputs,
	}
}

func parseLogLevel(levelStr string) LogLevel {
	switch strings.ToLower(levelStr) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

func levelToString(level LogLevel) string {
	switch level {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l *Logger) log(level LogLevel, msg string) {
	if level < l.level {
		return
	}
	entry := Entry{
		Timestamp: time.Now(),
		Level:     levelToString(level),
		Message:   msg,
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, output := range l.outputs {
		// A broken output must not take down the pipeline.
		_ = output.Write(entry)
	}
}

func (l *Logger) Debug(msg string) { l.log(LevelDebug, msg) }
func (l *Logger) Info(msg string)  { l.log(LevelInfo, msg) }
func (l *Logger) Warn(msg string)  { l.log(LevelWarn, msg) }
func (l *Logger) Error(msg string) { l.log(LevelError, msg) }

func (l *Logger) Debugf(format string, args ...interface{}) {
	l.log(LevelDebug, fmt.Sprintf(format, args...))
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.log(LevelInfo, fmt.Sprintf(format, args...))
}

func (l *Logger) Warnf(format string, args ...interface{}) {
	l.log(LevelWarn, fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.log(LevelError, fmt.Sprintf(format, args...))
}

// Close closes all outputs
func (l *Logger) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, output := range l.outputs {
		_ = output.Close()
	}
}

var (
	globalLogger *Logger
	loggerOnce   sync.Once
)

// InitLogger initializes the global logger instance. A non-empty
// logFile adds a file output; debugToConsole mirrors entries to stderr.
func InitLogger(logLevel, logFile string, debugToConsole bool) {
	loggerOnce.Do(func() {
		var outputs []Output
		if debugToConsole {
			outputs = append(outputs, NewConsoleOutput())
		}
		if logFile != "" {
			if fileOutput, err := NewFileOutput(logFile); err == nil {
				outputs = append(outputs, fileOutput)
			}
		}
		globalLogger = NewLogger(logLevel, outputs...)
	})
}

// LogDebug convenience functions for logging
func LogDebug(msg string) {
	if globalLogger != nil {
		globalLogger.Debug(msg)
	}
}

func LogDebugf(format string, args ...interface{}) {
	if globalLogger != nil {
		globalLogger.Debugf(format, args...)
	}
}

func LogInfo(msg string) {
	if globalLogger != nil {
		globalLogger.Info(msg)
	}
}

func LogInfof(format string, args ...interface{}) {
	if globalLogger != nil {
		globalLogger.Infof(format, args...)
	}
}

func LogWarn(msg string) {
	if globalLogger != nil {
		globalLogger.Warn(msg)
	}
}

func LogWarnf(format string, args ...interface{}) {
	if globalLogger != nil {
		globalLogger.Warnf(format, args...)
	}
}

func LogError(msg string) {
	if globalLogger != nil {
		globalLogger.Error(msg)
	}
}

func LogErrorf(format string, args ...interface{}) {
	if globalLogger != nil {
		globalLogger.Errorf(format, args...)
	}
}
