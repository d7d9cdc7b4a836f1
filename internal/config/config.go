package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DirName is the per-user directory holding config, session and logs
const DirName = ".ptask"

// Config holds user preferences
type Config struct {
	ConfirmDelete bool   `yaml:"confirm_delete" json:"confirm_delete"` // Require confirmation for delete
	DataFile      string `yaml:"data_file" json:"data_file"`           // Session database path
	ExportDir     string `yaml:"export_dir" json:"export_dir"`         // Where export writes backups
	DefaultColor  string `yaml:"default_color" json:"default_color"`   // Color for new projects

	// Simulated round-trip of every store call
	LatencyMinMS int `yaml:"latency_min_ms" json:"latency_min_ms"`
	LatencyMaxMS int `yaml:"latency_max_ms" json:"latency_max_ms"`

	AutosaveDelayMS int `yaml:"autosave_delay_ms" json:"autosave_delay_ms"`

	// Logging configuration
	LogLevel   string `yaml:"log_level" json:"log_level"`     // Log level: DEBUG, INFO, WARN, ERROR
	LogFile    string `yaml:"log_file" json:"log_file"`       // Path to log file
	LogConsole bool   `yaml:"log_console" json:"log_console"` // Enable console logging
}

// Dir returns ~/.ptask, or an empty string when the home directory is unknown
func Dir() string {
	home, _ := os.UserHomeDir()
	if home == "" {
		return ""
	}
	return filepath.Join(home, DirName)
}

// Path returns the default config file location
func Path() (string, error) {
	dir := Dir()
	if dir == "" {
		return "", fmt.Errorf("failed to resolve home directory")
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// DefaultConfig returns default settings
func DefaultConfig() *Config {
	dir := Dir()
	dataFile, logPath := "", ""
	if dir != "" {
		dataFile = filepath.Join(dir, "session.db")
		logPath = filepath.Join(dir, "logs", "ptask.log")
	}

	return &Config{
		ConfirmDelete:   true,
		DataFile:        dataFile,
		ExportDir:       ".",
		DefaultColor:    "#4ECDC4",
		LatencyMinMS:    200,
		LatencyMaxMS:    500,
		AutosaveDelayMS: 500,
		LogLevel:        getEnv("PTASK_LOG_LEVEL", "INFO"),
		LogFile:         getEnv("PTASK_LOG_FILE", logPath),
		LogConsole:      getEnv("PTASK_LOG_CONSOLE", "false") == "true",
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Load loads config from ~/.ptask/config.yaml
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads config from path, returning defaults if the file is missing
func LoadFrom(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Save saves config to ~/.ptask/config.yaml
func (c *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes config to path, creating its directory
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Latency returns the configured store delay bounds. A max below min is
// raised to min.
func (c *Config) Latency() (time.Duration, time.Duration) {
	lo := time.Duration(max(c.LatencyMinMS, 0)) * time.Millisecond
	hi := time.Duration(max(c.LatencyMaxMS, 0)) * time.Millisecond
	return lo, max(lo, hi)
}

// AutosaveDelay returns the debounce delay for background saves
func (c *Config) AutosaveDelay() time.Duration {
	if c.AutosaveDelayMS <= 0 {
		return 0
	}
	return time.Duration(c.AutosaveDelayMS) * time.Millisecond
}
