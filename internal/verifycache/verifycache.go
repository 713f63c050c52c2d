// Package verifycache persists the two per-path decision sets: files
// confirmed to satisfy policy ("good") and files the operator chose to keep
// permanently ("skipped").
package verifycache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"checkarr/internal/logging"
	"checkarr/internal/services"
)

// On-disk documents keep the key names the original cache files used, so an
// existing z_files.cache/z_user.cache can be renamed into place.
type goodDoc struct {
	GoodFiles []string `json:"good_files"`
}

type skippedDoc struct {
	SkippedFiles []string `json:"skipped_files"`
}

// Cache is the verification result cache. Membership checks are O(1); marks
// are idempotent; Flush rewrites both files completely.
type Cache struct {
	goodPath    string
	skippedPath string
	logger      *slog.Logger

	mu      sync.RWMutex
	good    map[string]struct{}
	skipped map[string]struct{}
}

// New loads both sets. Unreadable files start the corresponding set empty
// with a warning; they never fail the run.
func New(goodPath, skippedPath string, logger *slog.Logger) *Cache {
	logger = logging.NewComponentLogger(logger, "verifycache")
	c := &Cache{
		goodPath:    goodPath,
		skippedPath: skippedPath,
		logger:      logger,
		good:        make(map[string]struct{}),
		skipped:     make(map[string]struct{}),
	}

	var good goodDoc
	if err := readDoc(goodPath, &good); err != nil {
		logger.Warn("failed to load good-files cache; starting empty",
			logging.String("path", goodPath), logging.Error(err))
	}
	for _, path := range good.GoodFiles {
		if path = strings.TrimSpace(path); path != "" {
			c.good[path] = struct{}{}
		}
	}

	var skipped skippedDoc
	if err := readDoc(skippedPath, &skipped); err != nil {
		logger.Warn("failed to load skipped-files cache; starting empty",
			logging.String("path", skippedPath), logging.Error(err))
	}
	for _, path := range skipped.SkippedFiles {
		if path = strings.TrimSpace(path); path != "" {
			c.skipped[path] = struct{}{}
		}
	}

	return c
}

// IsGood reports whether path was previously verified to satisfy policy.
func (c *Cache) IsGood(path string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.good[path]
	return ok
}

// IsSkipped reports whether the operator chose to keep path permanently.
func (c *Cache) IsSkipped(path string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.skipped[path]
	return ok
}

// MarkGood adds path to the good set. Re-adding is a no-op; the return
// value reports whether the set changed.
func (c *Cache) MarkGood(path string) bool {
	return c.mark(c.good, path)
}

// MarkSkipped adds path to the skipped set. Re-adding is a no-op.
func (c *Cache) MarkSkipped(path string) bool {
	return c.mark(c.skipped, path)
}

func (c *Cache) mark(set map[string]struct{}, path string) bool {
	path = strings.TrimSpace(path)
	if path == "" {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := set[path]; exists {
		return false
	}
	set[path] = struct{}{}
	return true
}

// Counts returns the sizes of the good and skipped sets.
func (c *Cache) Counts() (good, skipped int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.good), len(c.skipped)
}

// GoodPaths returns the good set sorted, for display.
func (c *Cache) GoodPaths() []string { return c.sorted(c.good) }

// SkippedPaths returns the skipped set sorted, for display.
func (c *Cache) SkippedPaths() []string { return c.sorted(c.skipped) }

func (c *Cache) sorted(set map[string]struct{}) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := make([]string, 0, len(set))
	for path := range set {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// ClearGood empties the good set and flushes.
func (c *Cache) ClearGood() error {
	c.mu.Lock()
	c.good = make(map[string]struct{})
	c.mu.Unlock()
	return c.Flush()
}

// ClearSkipped empties the skipped set and flushes.
func (c *Cache) ClearSkipped() error {
	c.mu.Lock()
	c.skipped = make(map[string]struct{})
	c.mu.Unlock()
	return c.Flush()
}

// Flush rewrites both persisted sets in full. Called after every mutation
// that must survive a crash before the next file is processed; the write
// volume is the price of per-file crash safety.
func (c *Cache) Flush() error {
	c.mu.RLock()
	good := goodDoc{GoodFiles: sortedKeys(c.good)}
	skipped := skippedDoc{SkippedFiles: sortedKeys(c.skipped)}
	c.mu.RUnlock()

	if err := writeDoc(c.goodPath, good); err != nil {
		return services.Wrap(services.ErrCacheIO, "verifycache", "flush good", c.goodPath, err)
	}
	if err := writeDoc(c.skippedPath, skipped); err != nil {
		return services.Wrap(services.ErrCacheIO, "verifycache", "flush skipped", c.skippedPath, err)
	}
	return nil
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func readDoc(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read cache file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse cache file: %w", err)
	}
	return nil
}

func writeDoc(path string, doc any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure cache directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}
	return nil
}
