package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// writeCLIConfig writes a minimal valid config rooted in a temp dir and
// returns its path. sonarrURL may be an httptest server URL; radarr stays
// disabled so tests only stand up one fake instance.
func writeCLIConfig(t *testing.T, sonarrURL, ffprobePath string) string {
	t.Helper()
	base := t.TempDir()
	body := fmt.Sprintf(`
[sonarr]
enabled = true
url = %q
api_key = "test-key"

[radarr]
enabled = false

[policy]
require_audio = true
require_subtitles = false
language_codes = ["eng", "en"]

[settings]
interactive = false

[probe]
ffprobe_path = %q

[paths]
cache_dir = %q

[logging]
format = "console"
level = "error"
`, sonarrURL, ffprobePath, filepath.Join(base, "cache"))

	path := filepath.Join(base, "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// writeFakeFFprobe drops an executable stub so binary discovery succeeds.
func writeFakeFFprobe(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ffprobe")
	script := "#!/bin/sh\necho '{\"streams\":[],\"format\":{}}'\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write fake ffprobe: %v", err)
	}
	return path
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
