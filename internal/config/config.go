package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"checkarr/internal/services"
)

//go:embed sample_config.toml
var sampleConfig string

// Instance describes one library-management endpoint (Sonarr or Radarr).
type Instance struct {
	Enabled           bool   `toml:"enabled"`
	URL               string `toml:"url"`
	APIKey            string `toml:"api_key"`
	BasicAuthUsername string `toml:"basic_auth_username"`
	BasicAuthPassword string `toml:"basic_auth_password"`
	TimeoutSeconds    int    `toml:"timeout_seconds"`
}

// Policy contains the language requirements files are judged against.
type Policy struct {
	RequireAudio     bool     `toml:"require_audio"`
	RequireSubtitles bool     `toml:"require_subtitles"`
	LanguageCodes    []string `toml:"language_codes"`
	// HighlightMissing is a presentation-only label shown next to files
	// that fail the subtitle requirement.
	HighlightMissing string `toml:"highlight_missing"`
}

// Settings contains run-mode switches.
type Settings struct {
	DryRun      bool `toml:"dry_run"`
	Interactive bool `toml:"interactive"`
}

// Probe contains stream-inspection tool settings.
type Probe struct {
	FFprobePath    string `toml:"ffprobe_path"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	// FailureTTLHours controls how long a cached probe failure suppresses
	// re-probing a file whose size has not changed.
	FailureTTLHours int `toml:"failure_ttl_hours"`
}

// Paths contains cache and log directory configuration.
type Paths struct {
	CacheDir string `toml:"cache_dir"`
	LogDir   string `toml:"log_dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for checkarr.
type Config struct {
	Sonarr   Instance `toml:"sonarr"`
	Radarr   Instance `toml:"radarr"`
	Policy   Policy   `toml:"policy"`
	Settings Settings `toml:"settings"`
	Probe    Probe    `toml:"probe"`
	Paths    Paths    `toml:"paths"`
	Logging  Logging  `toml:"logging"`
}

// Default returns the built-in configuration defaults.
func Default() Config {
	return Config{
		Sonarr: Instance{Enabled: true, URL: "http://localhost:8989", TimeoutSeconds: 300},
		Radarr: Instance{Enabled: true, URL: "http://localhost:7878", TimeoutSeconds: 300},
		Policy: Policy{
			RequireAudio:     true,
			RequireSubtitles: true,
			LanguageCodes:    []string{"eng", "en", "english"},
		},
		Settings: Settings{Interactive: true},
		Probe:    Probe{TimeoutSeconds: 30, FailureTTLHours: 24},
		Paths:    Paths{CacheDir: "~/.cache/checkarr"},
		Logging:  Logging{Format: "console", Level: "info"},
	}
}

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/checkarr/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The boolean result
// reports whether the file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, services.Wrap(services.ErrConfiguration, "config", "validate", "invalid configuration", err)
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("checkarr.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the cache (and optional log) directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.CacheDir}
	if strings.TrimSpace(c.Paths.LogDir) != "" {
		dirs = append(dirs, c.Paths.LogDir)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// Cache file locations, all inside CacheDir.

func (c *Config) GoodCachePath() string { return filepath.Join(c.Paths.CacheDir, "good_files.json") }

func (c *Config) SkippedCachePath() string {
	return filepath.Join(c.Paths.CacheDir, "skipped_files.json")
}

func (c *Config) ProbeCachePath() string { return filepath.Join(c.Paths.CacheDir, "probe_cache.json") }

func (c *Config) HistoryPath() string { return filepath.Join(c.Paths.CacheDir, "history.db") }

func (c *Config) LockPath() string { return filepath.Join(c.Paths.CacheDir, "checkarr.lock") }

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	trimmed := strings.TrimSpace(pathValue)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			return home, nil
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	abs, err := filepath.Abs(trimmed)
	if err != nil {
		return "", fmt.Errorf("resolve path %q: %w", trimmed, err)
	}
	return abs, nil
}

// ExpandPath exposes tilde/relative path expansion for CLI flag handling.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
