package logger

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewFileLogger(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	l, err := NewFileLogger(&Config{
		LogFilePath:   logPath,
		MaxFileSize:   1024 * 1024,
		MaxBackups:    3,
		Level:         LevelDebug,
		EnableConsole: false,
	})
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}
	defer l.Close()

	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		t.Error("log file was not created")
	}
}

func TestLogLevelsAndFields(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	l, err := NewFileLogger(&Config{
		LogFilePath: logPath,
		MaxFileSize: 1024 * 1024,
		MaxBackups:  3,
		Level:       LevelDebug,
	})
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	l.Debug("debug message", String("key", "value"))
	l.Info("info message", Int("count", 42))
	l.Warn("warn message", Bool("flag", true), Int64("size", 1234567))
	l.Error("error message", errors.New("test error"), Err(errors.New("field error")))
	l.Close()

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	logContent := string(content)

	for _, want := range []string{
		"[DEBUG]", "[INFO]", "[WARN]", "[ERROR]",
		"debug message", "info message", "warn message", "error message",
		"key=value", "count=42", "flag=true", "size=1234567",
		`error="test error"`, "error=field error",
	} {
		if !strings.Contains(logContent, want) {
			t.Errorf("expected log to contain %q", want)
		}
	}
}

func TestLogLevelFiltering(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	l, err := NewFileLogger(&Config{
		LogFilePath: logPath,
		MaxFileSize: 1024 * 1024,
		MaxBackups:  3,
		Level:       LevelWarn,
	})
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	l.Debug("filtered debug")
	l.Info("filtered info")
	l.Warn("kept warn")
	l.Close()

	content, _ := os.ReadFile(logPath)
	logContent := string(content)

	if strings.Contains(logContent, "filtered debug") || strings.Contains(logContent, "filtered info") {
		t.Error("messages below the level were logged")
	}
	if !strings.Contains(logContent, "kept warn") {
		t.Error("warn message missing")
	}
}

func TestLogRotation(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	l, err := NewFileLogger(&Config{
		LogFilePath: logPath,
		MaxFileSize: 256, // force rotation quickly
		MaxBackups:  2,
		Level:       LevelDebug,
	})
	if err != nil {
		t.Fatalf("failed to create logger: %v", err)
	}

	for i := 0; i < 50; i++ {
		l.Info(fmt.Sprintf("rotation filler message number %d with some padding", i))
	}
	l.Close()

	if _, err := os.Stat(logPath + ".1"); os.IsNotExist(err) {
		t.Error("expected a rotated backup file")
	}
}

func TestGlobalLogger(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "global.log")

	t.Run("noop before Init", func(t *testing.T) {
		// Must not panic.
		Close()
		Debug("dropped")
		Info("dropped")
	})

	t.Run("logs after Init", func(t *testing.T) {
		if err := Init(&Config{
			LogFilePath: logPath,
			MaxFileSize: 1024 * 1024,
			MaxBackups:  3,
			Level:       LevelInfo,
		}); err != nil {
			t.Fatalf("Init failed: %v", err)
		}

		Info("global message", String("source", "test"))
		Close()

		content, err := os.ReadFile(logPath)
		if err != nil {
			t.Fatalf("failed to read log file: %v", err)
		}
		if !strings.Contains(string(content), "global message") {
			t.Error("global message not found in log")
		}
	})
}
