package config

import (
	"os"
	"path/filepath"
	"testing"

	"pdf-workbench/internal/types"
)

func TestNewManager(t *testing.T) {
	t.Run("with custom path", func(t *testing.T) {
		customPath := "/tmp/test-config.json"
		m, err := NewManager(customPath)
		if err != nil {
			t.Fatalf("NewManager failed: %v", err)
		}
		if m.GetConfigPath() != customPath {
			t.Errorf("expected config path %s, got %s", customPath, m.GetConfigPath())
		}
	})

	t.Run("with empty path uses default", func(t *testing.T) {
		m, err := NewManager("")
		if err != nil {
			t.Fatalf("NewManager failed: %v", err)
		}
		if m.GetConfigPath() == "" {
			t.Error("expected non-empty config path")
		}
	})
}

func TestManagerLoadSave(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.json")

	t.Run("Load with non-existent file uses defaults", func(t *testing.T) {
		m, err := NewManager(configPath)
		if err != nil {
			t.Fatalf("NewManager failed: %v", err)
		}

		if err := m.Load(); err != nil {
			t.Fatalf("Load failed: %v", err)
		}

		cfg := m.GetConfig()
		if cfg.CompressionPreset != types.DefaultPreset {
			t.Errorf("expected default preset %s, got %s", types.DefaultPreset, cfg.CompressionPreset)
		}
		if cfg.GhostscriptBinary != DefaultGhostscriptBinary {
			t.Errorf("expected default binary %s, got %s", DefaultGhostscriptBinary, cfg.GhostscriptBinary)
		}
		if cfg.ToolTimeoutSeconds != DefaultToolTimeoutSeconds {
			t.Errorf("expected default timeout %d, got %d", DefaultToolTimeoutSeconds, cfg.ToolTimeoutSeconds)
		}
	})

	t.Run("Save creates config file", func(t *testing.T) {
		m, err := NewManager(configPath)
		if err != nil {
			t.Fatalf("NewManager failed: %v", err)
		}

		m.SetConfig(&types.Config{
			CompressionPreset:  types.PresetPrinter,
			GhostscriptBinary:  "/usr/local/bin/gs",
			ToolTimeoutSeconds: 60,
			PreviewDPI:         150,
			PreviewWorkers:     2,
			WorkDirectory:      "/tmp/work",
		})

		if err := m.Save(); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			t.Error("config file was not created")
		}
	})

	t.Run("Load reads saved config", func(t *testing.T) {
		m, err := NewManager(configPath)
		if err != nil {
			t.Fatalf("NewManager failed: %v", err)
		}

		if err := m.Load(); err != nil {
			t.Fatalf("Load failed: %v", err)
		}

		cfg := m.GetConfig()
		if cfg.CompressionPreset != types.PresetPrinter {
			t.Errorf("expected preset printer, got %s", cfg.CompressionPreset)
		}
		if cfg.GhostscriptBinary != "/usr/local/bin/gs" {
			t.Errorf("expected binary /usr/local/bin/gs, got %s", cfg.GhostscriptBinary)
		}
		if cfg.ToolTimeoutSeconds != 60 {
			t.Errorf("expected timeout 60, got %d", cfg.ToolTimeoutSeconds)
		}
		if cfg.PreviewDPI != 150 {
			t.Errorf("expected DPI 150, got %d", cfg.PreviewDPI)
		}
		if cfg.WorkDirectory != "/tmp/work" {
			t.Errorf("expected work directory /tmp/work, got %s", cfg.WorkDirectory)
		}
	})

	t.Run("Load with invalid JSON uses defaults", func(t *testing.T) {
		invalidPath := filepath.Join(tmpDir, "invalid-config.json")
		if err := os.WriteFile(invalidPath, []byte("not json"), 0644); err != nil {
			t.Fatalf("failed to write invalid config: %v", err)
		}

		m, err := NewManager(invalidPath)
		if err != nil {
			t.Fatalf("NewManager failed: %v", err)
		}
		if err := m.Load(); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if m.GetConfig().CompressionPreset != types.DefaultPreset {
			t.Error("invalid config should fall back to defaults")
		}
	})

	t.Run("Load backfills invalid fields", func(t *testing.T) {
		partialPath := filepath.Join(tmpDir, "partial-config.json")
		content := `{"compression_preset": "maximum", "tool_timeout_seconds": -5, "preview_workers": 0}`
		if err := os.WriteFile(partialPath, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write partial config: %v", err)
		}

		m, err := NewManager(partialPath)
		if err != nil {
			t.Fatalf("NewManager failed: %v", err)
		}
		if err := m.Load(); err != nil {
			t.Fatalf("Load failed: %v", err)
		}

		cfg := m.GetConfig()
		if cfg.CompressionPreset != types.DefaultPreset {
			t.Errorf("unknown preset should fall back to default, got %s", cfg.CompressionPreset)
		}
		if cfg.ToolTimeoutSeconds != DefaultToolTimeoutSeconds {
			t.Errorf("negative timeout should fall back to default, got %d", cfg.ToolTimeoutSeconds)
		}
		if cfg.PreviewWorkers != DefaultPreviewWorkers {
			t.Errorf("zero workers should fall back to default, got %d", cfg.PreviewWorkers)
		}
	})
}

func TestCompressionPreset(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "preset-config.json")

	m, err := NewManager(configPath)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	t.Run("default preset", func(t *testing.T) {
		if got := m.GetCompressionPreset(); got != types.DefaultPreset {
			t.Errorf("expected %s, got %s", types.DefaultPreset, got)
		}
	})

	t.Run("set valid preset persists", func(t *testing.T) {
		if err := m.SetCompressionPreset(types.PresetScreen); err != nil {
			t.Fatalf("SetCompressionPreset failed: %v", err)
		}
		if got := m.GetCompressionPreset(); got != types.PresetScreen {
			t.Errorf("expected screen, got %s", got)
		}

		fresh, _ := NewManager(configPath)
		if err := fresh.Load(); err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if got := fresh.GetCompressionPreset(); got != types.PresetScreen {
			t.Errorf("preset not persisted, got %s", got)
		}
	})

	t.Run("set invalid preset", func(t *testing.T) {
		err := m.SetCompressionPreset("maximum")
		if types.CodeOf(err) != types.ErrInvalidInput {
			t.Errorf("expected INVALID_INPUT, got %v", err)
		}
	})
}

func TestLastOutputDir(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "dir-config.json")

	m, err := NewManager(configPath)
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	if got := m.GetLastOutputDir(); got != "" {
		t.Errorf("expected empty last output dir, got %s", got)
	}

	if err := m.SetLastOutputDir("/tmp/out"); err != nil {
		t.Fatalf("SetLastOutputDir failed: %v", err)
	}

	fresh, _ := NewManager(configPath)
	if err := fresh.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := fresh.GetLastOutputDir(); got != "/tmp/out" {
		t.Errorf("last output dir not persisted, got %s", got)
	}
}
