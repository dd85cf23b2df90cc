// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for docchat.
//
// Configuration is stored as TOML with sensible defaults, environment
// variable overrides, and validation.
//
// Configuration file location:
//   - ~/.docchat/config.toml
//   - Built-in defaults when no file exists
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete docchat configuration.
type Config struct {
	// General settings
	Version string `toml:"version"`

	// Backend connection configuration
	Backend BackendConfig `toml:"backend"`

	// Chat behavior configuration
	Chat ChatConfig `toml:"chat"`

	// Upload pipeline configuration
	Upload UploadConfig `toml:"upload"`

	// UI configuration
	UI UIConfig `toml:"ui"`
}

// BackendConfig contains connection settings for the retrieval backend.
type BackendConfig struct {
	// URL is the base URL of the backend process.
	// Uses explicit IPv4 address instead of localhost to avoid IPv6
	// resolution issues on Windows.
	URL string `toml:"url"`
	// TimeoutSecs is the request timeout for chat requests. Retrieval plus
	// generation can be slow, so this defaults high.
	TimeoutSecs int `toml:"timeout_secs"`
	// Autostart launches the backend process when it is not reachable.
	Autostart bool `toml:"autostart"`
	// AutostartCommand is the executable to launch for autostart.
	// Empty means the default "docchat-backend" lookup.
	AutostartCommand string `toml:"autostart_command"`
	// HealthIntervalSecs is the period of the background health check.
	HealthIntervalSecs int `toml:"health_interval_secs"`
}

// ChatConfig contains chat behavior settings.
type ChatConfig struct {
	// TopK is the number of document chunks retrieved per question.
	TopK int `toml:"top_k"`
}

// UploadConfig contains upload pipeline settings.
type UploadConfig struct {
	// MaxFileSizeMB caps the size of a single uploaded file (0 = no cap).
	MaxFileSizeMB int64 `toml:"max_file_size_mb"`
	// WatchDir, when set, is watched for new documents to auto-upload.
	WatchDir string `toml:"watch_dir"`
}

// UIConfig contains UI settings.
type UIConfig struct {
	// Theme is the UI theme: "dark", "light", "auto"
	Theme string `toml:"theme"`
	// ShowCitations toggles the citation block under assistant replies.
	ShowCitations bool `toml:"show_citations"`
	// CompactMode uses a more compact UI layout
	CompactMode bool `toml:"compact_mode"`
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Version: "1.0.0",

		Backend: BackendConfig{
			URL:                "http://127.0.0.1:8765",
			TimeoutSecs:        120,
			Autostart:          false,
			AutostartCommand:   "",
			HealthIntervalSecs: 60,
		},

		Chat: ChatConfig{
			TopK: 5,
		},

		Upload: UploadConfig{
			MaxFileSizeMB: 50,
			WatchDir:      "",
		},

		UI: UIConfig{
			Theme:         "dark",
			ShowCitations: true,
			CompactMode:   false,
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the docchat configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".docchat"), nil
}

// ConfigPath returns the path to the TOML config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// ensureSecurePermissions checks and fixes permissions on config files.
// Config files should be 0600 (owner read/write only).
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	mode := info.Mode().Perm()
	if mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}

	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file, falling back to defaults.
// Environment overrides are applied after the file is read.
func Load() (*Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err == nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := LoadTOML(cfg, path); err != nil {
				return nil, fmt.Errorf("failed to load config: %w", err)
			}
		}
	}

	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// LoadTOML loads configuration from a TOML file.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		// Permissions might not be fixable on all systems.
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadFromPath loads configuration from a specific file path with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	if err := LoadTOML(cfg, path); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	cfg.ApplyEnvOverrides()
	cfg.fillDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// fillDefaults fills in any missing values with defaults.
func (c *Config) fillDefaults() {
	defaults := Default()

	if c.Version == "" {
		c.Version = defaults.Version
	}

	if c.Backend.URL == "" {
		c.Backend.URL = defaults.Backend.URL
	}
	if c.Backend.TimeoutSecs == 0 {
		c.Backend.TimeoutSecs = defaults.Backend.TimeoutSecs
	}
	if c.Backend.HealthIntervalSecs == 0 {
		c.Backend.HealthIntervalSecs = defaults.Backend.HealthIntervalSecs
	}

	if c.Chat.TopK == 0 {
		c.Chat.TopK = defaults.Chat.TopK
	}

	if c.Upload.MaxFileSizeMB == 0 {
		c.Upload.MaxFileSizeMB = defaults.Upload.MaxFileSizeMB
	}

	if c.UI.Theme == "" {
		c.UI.Theme = defaults.UI.Theme
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file.
// Creates config files with 0600 permissions (owner read/write only).
func SaveTOML(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer file.Close()

	// Ensure permissions are correct even if file already existed
	if err := os.Chmod(path, 0600); err != nil {
		return fmt.Errorf("failed to set config file permissions: %w", err)
	}

	fmt.Fprintln(file, "# docchat configuration file")
	fmt.Fprintln(file, "# Generated by docchat - edit with care")
	fmt.Fprintln(file, "")

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	if c.Backend.URL != "" {
		if u, err := url.Parse(c.Backend.URL); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, ValidationError{
				Field:   "backend.url",
				Message: fmt.Sprintf("invalid URL '%s'", c.Backend.URL),
			})
		}
	}

	if c.Backend.TimeoutSecs < 0 {
		errs = append(errs, ValidationError{
			Field:   "backend.timeout_secs",
			Message: "must be non-negative",
		})
	}

	if c.Backend.HealthIntervalSecs < 0 {
		errs = append(errs, ValidationError{
			Field:   "backend.health_interval_secs",
			Message: "must be non-negative",
		})
	}

	if c.Chat.TopK < 1 || c.Chat.TopK > 50 {
		errs = append(errs, ValidationError{
			Field:   "chat.top_k",
			Message: fmt.Sprintf("must be 1-50, got %d", c.Chat.TopK),
		})
	}

	if c.Upload.MaxFileSizeMB < 0 {
		errs = append(errs, ValidationError{
			Field:   "upload.max_file_size_mb",
			Message: "must be non-negative",
		})
	}

	if c.Upload.WatchDir != "" {
		if info, err := os.Stat(c.Upload.WatchDir); err == nil && !info.IsDir() {
			errs = append(errs, ValidationError{
				Field:   "upload.watch_dir",
				Message: fmt.Sprintf("'%s' is not a directory", c.Upload.WatchDir),
			})
		}
	}

	validThemes := map[string]bool{"dark": true, "light": true, "auto": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - DOCCHAT_BACKEND_URL: overrides backend.url
//   - DOCCHAT_TOP_K: overrides chat.top_k
//   - DOCCHAT_WATCH_DIR: overrides upload.watch_dir
//   - DOCCHAT_AUTOSTART: set to "1" or "true" to enable backend autostart
//   - DOCCHAT_THEME: overrides ui.theme
func (c *Config) ApplyEnvOverrides() {
	if u := os.Getenv("DOCCHAT_BACKEND_URL"); u != "" {
		c.Backend.URL = u
	}

	if topK := os.Getenv("DOCCHAT_TOP_K"); topK != "" {
		if n, err := strconv.Atoi(topK); err == nil && n > 0 {
			c.Chat.TopK = n
		}
	}

	if dir := os.Getenv("DOCCHAT_WATCH_DIR"); dir != "" {
		c.Upload.WatchDir = dir
	}

	if autostart := os.Getenv("DOCCHAT_AUTOSTART"); autostart != "" {
		c.Backend.Autostart = autostart == "1" || strings.ToLower(autostart) == "true"
	}

	if theme := os.Getenv("DOCCHAT_THEME"); theme != "" {
		c.UI.Theme = theme
	}
}

// =============================================================================
// SINGLETON PATTERN (THREAD-SAFE)
// =============================================================================

var (
	globalConfig     *Config
	globalConfigOnce sync.Once
	globalConfigMu   sync.RWMutex
)

// Global returns the global configuration instance.
// Loads configuration on first access. Thread-safe.
func Global() *Config {
	globalConfigOnce.Do(func() {
		cfg, err := Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
			cfg = Default()
		}
		globalConfig = cfg
	})

	globalConfigMu.RLock()
	defer globalConfigMu.RUnlock()
	return globalConfig
}

// ReloadGlobal reloads the global configuration from disk. Thread-safe.
func ReloadGlobal() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
	return nil
}

// SetGlobal sets the global configuration instance. Thread-safe.
func SetGlobal(cfg *Config) {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = cfg
}

// ResetGlobalForTesting resets the global config state for testing.
func ResetGlobalForTesting() {
	globalConfigMu.Lock()
	defer globalConfigMu.Unlock()
	globalConfig = nil
	globalConfigOnce = sync.Once{}
}
