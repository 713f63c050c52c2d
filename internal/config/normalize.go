package config

import "strings"

// normalize trims and expands user-provided values in place.
func (c *Config) normalize() error {
	c.Sonarr.URL = strings.TrimRight(strings.TrimSpace(c.Sonarr.URL), "/")
	c.Radarr.URL = strings.TrimRight(strings.TrimSpace(c.Radarr.URL), "/")
	c.Sonarr.APIKey = strings.TrimSpace(c.Sonarr.APIKey)
	c.Radarr.APIKey = strings.TrimSpace(c.Radarr.APIKey)

	codes := make([]string, 0, len(c.Policy.LanguageCodes))
	for _, code := range c.Policy.LanguageCodes {
		code = strings.ToLower(strings.TrimSpace(code))
		if code != "" {
			codes = append(codes, code)
		}
	}
	c.Policy.LanguageCodes = codes

	if c.Sonarr.TimeoutSeconds <= 0 {
		c.Sonarr.TimeoutSeconds = 300
	}
	if c.Radarr.TimeoutSeconds <= 0 {
		c.Radarr.TimeoutSeconds = 300
	}
	if c.Probe.TimeoutSeconds <= 0 {
		c.Probe.TimeoutSeconds = 30
	}
	if c.Probe.FailureTTLHours <= 0 {
		c.Probe.FailureTTLHours = 24
	}

	cacheDir, err := expandPath(c.Paths.CacheDir)
	if err != nil {
		return err
	}
	c.Paths.CacheDir = cacheDir

	logDir, err := expandPath(c.Paths.LogDir)
	if err != nil {
		return err
	}
	c.Paths.LogDir = logDir

	ffprobe, err := expandPath(c.Probe.FFprobePath)
	if err != nil {
		return err
	}
	// Bare command names stay as-is so PATH lookup still applies.
	if strings.TrimSpace(c.Probe.FFprobePath) != "" && !strings.ContainsAny(c.Probe.FFprobePath, "/\\~") {
		ffprobe = strings.TrimSpace(c.Probe.FFprobePath)
	}
	c.Probe.FFprobePath = ffprobe

	return nil
}
