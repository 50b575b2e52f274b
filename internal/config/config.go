// Package config provides configuration management for the PDF workbench
// application.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"pdf-workbench/internal/logger"
	"pdf-workbench/internal/types"
)

const (
	// DefaultConfigFileName is the default configuration file name
	DefaultConfigFileName = "pdf-workbench-config.json"
	// DefaultGhostscriptBinary is the Ghostscript executable looked up on PATH
	DefaultGhostscriptBinary = "gs"
	// DefaultToolTimeoutSeconds bounds external tool invocations
	DefaultToolTimeoutSeconds = 120
	// DefaultPreviewDPI is the rasterization resolution for page previews
	DefaultPreviewDPI = 96
	// DefaultPreviewWorkers is the size of the preview worker pool
	DefaultPreviewWorkers = 4
)

// Manager manages the application configuration file.
type Manager struct {
	configPath string
	config     *types.Config
}

// NewManager creates a new Manager with the specified config path.
// If configPath is empty, it uses the default path in the user's home directory.
func NewManager(configPath string) (*Manager, error) {
	if configPath == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			logger.Error("failed to get user home directory", err)
			return nil, types.NewAppError(types.ErrConfig, "failed to get user home directory", err)
		}
		configPath = filepath.Join(homeDir, ".config", "pdf-workbench", DefaultConfigFileName)
	}

	logger.Info("config manager initialized", logger.String("configPath", configPath))
	return &Manager{
		configPath: configPath,
		config:     defaultConfig(),
	}, nil
}

// defaultConfig returns a Config with default values
func defaultConfig() *types.Config {
	return &types.Config{
		CompressionPreset:  types.DefaultPreset,
		GhostscriptBinary:  DefaultGhostscriptBinary,
		ToolTimeoutSeconds: DefaultToolTimeoutSeconds,
		PreviewDPI:         DefaultPreviewDPI,
		PreviewWorkers:     DefaultPreviewWorkers,
	}
}

// Load loads configuration from the config file.
// A missing or malformed file falls back to defaults rather than failing.
func (m *Manager) Load() error {
	logger.Debug("loading configuration", logger.String("path", m.configPath))

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Info("config file not found, using defaults", logger.String("path", m.configPath))
			m.config = defaultConfig()
		} else {
			logger.Error("failed to read config file", err, logger.String("path", m.configPath))
			return types.NewAppError(types.ErrConfig, "failed to read config file", err)
		}
	} else {
		config := &types.Config{}
		if err := json.Unmarshal(data, config); err != nil {
			logger.Warn("invalid config file format, using defaults",
				logger.String("path", m.configPath), logger.Err(err))
			m.config = defaultConfig()
		} else {
			m.config = config
			logger.Info("configuration loaded",
				logger.String("path", m.configPath),
				logger.String("preset", config.CompressionPreset))
		}
	}

	// Apply defaults for empty fields
	if !types.ValidPreset(m.config.CompressionPreset) {
		m.config.CompressionPreset = types.DefaultPreset
	}
	if m.config.GhostscriptBinary == "" {
		m.config.GhostscriptBinary = DefaultGhostscriptBinary
	}
	if m.config.ToolTimeoutSeconds <= 0 {
		m.config.ToolTimeoutSeconds = DefaultToolTimeoutSeconds
	}
	if m.config.PreviewDPI <= 0 {
		m.config.PreviewDPI = DefaultPreviewDPI
	}
	if m.config.PreviewWorkers <= 0 {
		m.config.PreviewWorkers = DefaultPreviewWorkers
	}

	return nil
}

// Save saves the current configuration to the config file.
func (m *Manager) Save() error {
	logger.Debug("saving configuration", logger.String("path", m.configPath))

	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		logger.Error("failed to create config directory", err, logger.String("dir", dir))
		return types.NewAppError(types.ErrConfig, "failed to create config directory", err)
	}

	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		logger.Error("failed to marshal config", err)
		return types.NewAppError(types.ErrConfig, "failed to marshal config", err)
	}

	if err := os.WriteFile(m.configPath, data, 0600); err != nil {
		logger.Error("failed to write config file", err, logger.String("path", m.configPath))
		return types.NewAppError(types.ErrConfig, "failed to write config file", err)
	}

	logger.Info("configuration saved", logger.String("path", m.configPath))
	return nil
}

// GetConfig returns the current configuration.
func (m *Manager) GetConfig() *types.Config {
	return m.config
}

// SetConfig replaces the current configuration.
func (m *Manager) SetConfig(config *types.Config) {
	m.config = config
}

// GetConfigPath returns the configuration file path.
func (m *Manager) GetConfigPath() string {
	return m.configPath
}

// GetCompressionPreset returns the configured default compression preset.
func (m *Manager) GetCompressionPreset() string {
	if m.config == nil || !types.ValidPreset(m.config.CompressionPreset) {
		return types.DefaultPreset
	}
	return m.config.CompressionPreset
}

// SetCompressionPreset sets the default compression preset and saves.
func (m *Manager) SetCompressionPreset(preset string) error {
	if !types.ValidPreset(preset) {
		return types.NewAppErrorWithDetails(types.ErrInvalidInput, "unknown compression preset", preset, nil)
	}
	if m.config == nil {
		m.config = defaultConfig()
	}
	m.config.CompressionPreset = preset
	return m.Save()
}

// GetGhostscriptBinary returns the Ghostscript executable name or path.
func (m *Manager) GetGhostscriptBinary() string {
	if m.config == nil || m.config.GhostscriptBinary == "" {
		return DefaultGhostscriptBinary
	}
	return m.config.GhostscriptBinary
}

// GetToolTimeoutSeconds returns the external tool timeout in seconds.
func (m *Manager) GetToolTimeoutSeconds() int {
	if m.config == nil || m.config.ToolTimeoutSeconds <= 0 {
		return DefaultToolTimeoutSeconds
	}
	return m.config.ToolTimeoutSeconds
}

// GetPreviewDPI returns the preview rasterization resolution.
func (m *Manager) GetPreviewDPI() int {
	if m.config == nil || m.config.PreviewDPI <= 0 {
		return DefaultPreviewDPI
	}
	return m.config.PreviewDPI
}

// GetPreviewWorkers returns the preview worker pool size.
func (m *Manager) GetPreviewWorkers() int {
	if m.config == nil || m.config.PreviewWorkers <= 0 {
		return DefaultPreviewWorkers
	}
	return m.config.PreviewWorkers
}

// GetWorkDirectory returns the configured work directory, if any.
func (m *Manager) GetWorkDirectory() string {
	if m.config == nil {
		return ""
	}
	return m.config.WorkDirectory
}

// GetLastOutputDir returns the directory the last output was saved to.
func (m *Manager) GetLastOutputDir() string {
	if m.config == nil {
		return ""
	}
	return m.config.LastOutputDir
}

// SetLastOutputDir remembers the directory an output was saved to and saves.
func (m *Manager) SetLastOutputDir(dir string) error {
	if m.config == nil {
		m.config = defaultConfig()
	}
	m.config.LastOutputDir = dir
	return m.Save()
}
