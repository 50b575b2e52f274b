// Package logger provides structured logging for the PDF workbench
// application. Log entries go to a file (with size-based rotation) and
// optionally to the console.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Level represents the severity level of a log message
type Level int

const (
	// LevelDebug is for detailed debugging information
	LevelDebug Level = iota
	// LevelInfo is for general informational messages
	LevelInfo
	// LevelWarn is for warning messages
	LevelWarn
	// LevelError is for error messages
	LevelError
)

// String returns the string representation of the log level
func (l Level) String() string {
	switch l {
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

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value interface{}
}

// String creates a string field
func String(key string, value string) Field {
	return Field{Key: key, Value: value}
}

// Int creates an integer field
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Int64 creates an int64 field
func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

// Bool creates a boolean field
func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Err creates an error field
func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Any creates a field with any value
func Any(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Logger defines the logging interface
type Logger interface {
	// Debug logs a debug message with optional fields
	Debug(msg string, fields ...Field)
	// Info logs an informational message with optional fields
	Info(msg string, fields ...Field)
	// Warn logs a warning message with optional fields
	Warn(msg string, fields ...Field)
	// Error logs an error message with error and optional fields
	Error(msg string, err error, fields ...Field)
	// SetLevel sets the minimum log level
	SetLevel(level Level)
	// Close closes the logger and releases resources
	Close() error
}

// Config holds the configuration for the logger
type Config struct {
	// LogFilePath is the path to the log file
	LogFilePath string
	// MaxFileSize is the maximum size of a log file in bytes before rotation
	MaxFileSize int64
	// MaxBackups is the maximum number of backup log files to keep
	MaxBackups int
	// Level is the minimum log level to output
	Level Level
	// EnableConsole enables output to console in addition to file
	EnableConsole bool
}

// DefaultConfig returns a default logger configuration
func DefaultConfig() *Config {
	return &Config{
		LogFilePath:   "pdf-workbench.log",
		MaxFileSize:   5 * 1024 * 1024, // 5 MB
		MaxBackups:    3,
		Level:         LevelInfo,
		EnableConsole: false,
	}
}

// FileLogger is the default implementation of the Logger interface
type FileLogger struct {
	config     *Config
	file       *os.File
	mu         sync.Mutex
	level      Level
	fileSize   int64
	writers    []io.Writer
	timeFormat string
}

// NewFileLogger creates a new FileLogger with the given configuration
func NewFileLogger(config *Config) (*FileLogger, error) {
	if config == nil {
		config = DefaultConfig()
	}

	l := &FileLogger{
		config:     config,
		level:      config.Level,
		timeFormat: "2006-01-02 15:04:05.000",
	}

	logDir := filepath.Dir(config.LogFilePath)
	if logDir != "" && logDir != "." {
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}

	if err := l.openLogFile(); err != nil {
		return nil, err
	}
	l.setupWriters()

	return l, nil
}

// openLogFile opens or creates the log file
func (l *FileLogger) openLogFile() error {
	file, err := os.OpenFile(l.config.LogFilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	info, err := file.Stat()
	if err != nil {
		file.Close()
		return fmt.Errorf("failed to stat log file: %w", err)
	}

	l.file = file
	l.fileSize = info.Size()
	return nil
}

// setupWriters configures the output writers
func (l *FileLogger) setupWriters() {
	l.writers = []io.Writer{l.file}
	if l.config.EnableConsole {
		l.writers = append(l.writers, os.Stdout)
	}
}

// Debug logs a debug message
func (l *FileLogger) Debug(msg string, fields ...Field) {
	l.log(LevelDebug, msg, nil, fields...)
}

// Info logs an informational message
func (l *FileLogger) Info(msg string, fields ...Field) {
	l.log(LevelInfo, msg, nil, fields...)
}

// Warn logs a warning message
func (l *FileLogger) Warn(msg string, fields ...Field) {
	l.log(LevelWarn, msg, nil, fields...)
}

// Error logs an error message
func (l *FileLogger) Error(msg string, err error, fields ...Field) {
	l.log(LevelError, msg, err, fields...)
}

// SetLevel sets the minimum log level
func (l *FileLogger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Close closes the logger and releases resources
func (l *FileLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// log writes a log entry
func (l *FileLogger) log(level Level, msg string, err error, fields ...Field) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	entry := l.formatEntry(level, msg, err, fields...)

	if l.fileSize+int64(len(entry)) > l.config.MaxFileSize {
		l.rotate()
	}

	for _, w := range l.writers {
		w.Write([]byte(entry))
	}
	l.fileSize += int64(len(entry))
}

// formatEntry formats a log entry
func (l *FileLogger) formatEntry(level Level, msg string, err error, fields ...Field) string {
	var sb strings.Builder

	sb.WriteString(time.Now().Format(l.timeFormat))
	sb.WriteString(" [")
	sb.WriteString(level.String())
	sb.WriteString("] ")
	sb.WriteString(msg)

	if err != nil {
		sb.WriteString(" error=\"")
		sb.WriteString(err.Error())
		sb.WriteString("\"")
	}

	for _, f := range fields {
		sb.WriteString(" ")
		sb.WriteString(f.Key)
		sb.WriteString("=")
		sb.WriteString(fmt.Sprintf("%v", f.Value))
	}

	sb.WriteString("\n")
	return sb.String()
}

// rotate performs log file rotation
func (l *FileLogger) rotate() error {
	if l.file != nil {
		l.file.Close()
	}

	// Shift existing backups up by one
	for i := l.config.MaxBackups - 1; i >= 1; i-- {
		oldPath := fmt.Sprintf("%s.%d", l.config.LogFilePath, i)
		newPath := fmt.Sprintf("%s.%d", l.config.LogFilePath, i+1)
		os.Rename(oldPath, newPath)
	}

	if _, err := os.Stat(l.config.LogFilePath); err == nil {
		os.Rename(l.config.LogFilePath, l.config.LogFilePath+".1")
	}

	os.Remove(fmt.Sprintf("%s.%d", l.config.LogFilePath, l.config.MaxBackups+1))

	if err := l.openLogFile(); err != nil {
		return err
	}
	l.setupWriters()
	return nil
}

// Global logger instance
var (
	globalLogger Logger
	globalMu     sync.RWMutex
)

// Init initializes the global logger with the given configuration
func Init(config *Config) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	l, err := NewFileLogger(config)
	if err != nil {
		return err
	}

	if globalLogger != nil {
		globalLogger.Close()
	}
	globalLogger = l
	return nil
}

// GetLogger returns the global logger instance
func GetLogger() Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()

	if globalLogger == nil {
		// No-op logger until Init is called
		return &noopLogger{}
	}
	return globalLogger
}

// Close closes the global logger
func Close() error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if globalLogger != nil {
		err := globalLogger.Close()
		globalLogger = nil
		return err
	}
	return nil
}

// Convenience functions for the global logger

// Debug logs a debug message using the global logger
func Debug(msg string, fields ...Field) {
	GetLogger().Debug(msg, fields...)
}

// Info logs an informational message using the global logger
func Info(msg string, fields ...Field) {
	GetLogger().Info(msg, fields...)
}

// Warn logs a warning message using the global logger
func Warn(msg string, fields ...Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message using the global logger
func Error(msg string, err error, fields ...Field) {
	GetLogger().Error(msg, err, fields...)
}

// noopLogger discards all log messages
type noopLogger struct{}

func (n *noopLogger) Debug(msg string, fields ...Field)            {}
func (n *noopLogger) Info(msg string, fields ...Field)             {}
func (n *noopLogger) Warn(msg string, fields ...Field)             {}
func (n *noopLogger) Error(msg string, err error, fields ...Field) {}
func (n *noopLogger) SetLevel(level Level)                         {}
func (n *noopLogger) Close() error                                 { return nil }
