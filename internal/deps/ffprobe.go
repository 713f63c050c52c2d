package deps

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// FindFFprobe resolves the ffprobe binary the run will execute.
//
// A configured path wins when it resolves. Otherwise PATH is consulted, and
// on Windows a set of common install locations (manual extracts, Chocolatey,
// Scoop, WinGet) is scanned as a fallback. The run must not start when this
// returns an error: every file would probe empty and be flagged for
// re-acquisition.
func FindFFprobe(configured string) (string, error) {
	configured = strings.TrimSpace(configured)
	if configured != "" {
		if resolved, err := exec.LookPath(configured); err == nil {
			return resolved, nil
		}
		return "", fmt.Errorf("configured ffprobe %q not found", configured)
	}

	if resolved, err := exec.LookPath("ffprobe"); err == nil {
		return resolved, nil
	}

	if runtime.GOOS == "windows" {
		for _, candidate := range windowsCandidates() {
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, nil
			}
		}
	}

	return "", fmt.Errorf("ffprobe not found in PATH%s", windowsHint())
}

func windowsHint() string {
	if runtime.GOOS == "windows" {
		return " or common install locations"
	}
	return ""
}

// windowsCandidates lists likely ffprobe.exe locations on Windows hosts.
func windowsCandidates() []string {
	candidates := make([]string, 0, 16)

	for _, base := range []string{
		`C:\ffmpeg\bin`,
		`C:\Program Files\ffmpeg\bin`,
		`C:\Program Files (x86)\ffmpeg\bin`,
		`C:\tools\ffmpeg\bin`,
	} {
		candidates = append(candidates, filepath.Join(base, "ffprobe.exe"))
	}

	choco := os.Getenv("ChocolateyInstall")
	if choco == "" {
		choco = `C:\ProgramData\chocolatey`
	}
	candidates = append(candidates, filepath.Join(choco, "bin", "ffprobe.exe"))

	if profile := os.Getenv("USERPROFILE"); profile != "" {
		candidates = append(candidates, filepath.Join(profile, "scoop", "shims", "ffprobe.exe"))
	}
	if localAppData := os.Getenv("LOCALAPPDATA"); localAppData != "" {
		candidates = append(candidates, filepath.Join(localAppData, "Microsoft", "WinGet", "Links", "ffprobe.exe"))
	}

	// Versioned extracts like C:\ffmpeg-7.1-essentials\bin\ffprobe.exe.
	for _, root := range []string{`C:\`, os.Getenv("USERPROFILE")} {
		if root == "" {
			continue
		}
		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() && strings.HasPrefix(strings.ToLower(entry.Name()), "ffmpeg") {
				candidates = append(candidates, filepath.Join(root, entry.Name(), "bin", "ffprobe.exe"))
			}
		}
	}

	return candidates
}
