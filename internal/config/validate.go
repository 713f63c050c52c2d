package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks the configuration for values the run cannot proceed without.
func (c *Config) Validate() error {
	if !c.Sonarr.Enabled && !c.Radarr.Enabled {
		return errors.New("config: both sonarr and radarr are disabled; enable at least one instance")
	}
	if err := validateInstance("sonarr", c.Sonarr); err != nil {
		return err
	}
	if err := validateInstance("radarr", c.Radarr); err != nil {
		return err
	}
	if (c.Policy.RequireAudio || c.Policy.RequireSubtitles) && len(c.Policy.LanguageCodes) == 0 {
		return errors.New("config: policy requires language streams but language_codes is empty")
	}
	switch strings.ToLower(strings.TrimSpace(c.Logging.Format)) {
	case "", "console", "json":
	default:
		return fmt.Errorf("config: unsupported logging format %q", c.Logging.Format)
	}
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		return errors.New("config: cache_dir must be set")
	}
	return nil
}

func validateInstance(name string, inst Instance) error {
	if !inst.Enabled {
		return nil
	}
	if strings.TrimSpace(inst.URL) == "" {
		return fmt.Errorf("config: %s is enabled but url is empty", name)
	}
	if strings.TrimSpace(inst.APIKey) == "" {
		return fmt.Errorf("config: %s is enabled but api_key is empty", name)
	}
	if inst.BasicAuthPassword != "" && inst.BasicAuthUsername == "" {
		return fmt.Errorf("config: %s basic auth password set without username", name)
	}
	return nil
}
