package probe

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
	"time"

	"checkarr/internal/logging"
	"checkarr/internal/media/ffprobe"
	"checkarr/internal/services"
)

// schemaVersion invalidates entries persisted before a summary field was
// added; stale-schema entries are re-probed on next lookup.
const schemaVersion = 2

// Entry is one cached probe result together with the file size at probe time.
type Entry struct {
	SchemaVersion int                   `json:"schema_version"`
	Path          string                `json:"path"`
	SizeBytes     int64                 `json:"size_bytes"`
	Summary       ffprobe.StreamSummary `json:"summary"`
	ProbedAt      time.Time             `json:"probed_at"`
	// Failed marks entries recorded after a probe failure. They suppress
	// re-probing only until the failure TTL elapses, so a transiently
	// unreadable file recovers without needing a size change.
	Failed bool `json:"failed,omitempty"`
}

// Cache provides thread-safe access to the persisted probe results.
type Cache struct {
	path       string
	failureTTL time.Duration
	logger     *slog.Logger
	now        func() time.Time

	mu      sync.RWMutex
	entries map[string]Entry
}

// NewCache loads the probe cache at path. An unreadable or missing file
// starts the cache empty; that is a warning, never an error.
func NewCache(path string, failureTTL time.Duration, logger *slog.Logger) *Cache {
	logger = logging.NewComponentLogger(logger, "probecache")
	if failureTTL <= 0 {
		failureTTL = 24 * time.Hour
	}
	c := &Cache{
		path:       path,
		failureTTL: failureTTL,
		logger:     logger,
		now:        time.Now,
		entries:    make(map[string]Entry),
	}
	if err := c.load(); err != nil {
		logger.Warn("failed to load probe cache; starting empty",
			logging.String("path", path),
			logging.Error(err))
	}
	return c
}

// Lookup returns the cached summary for path when it is still valid: same
// size, current schema, and (for failure entries) inside the failure TTL.
func (c *Cache) Lookup(path string, sizeBytes int64) (Entry, bool) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Entry{}, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, found := c.entries[path]
	if !found {
		return Entry{}, false
	}
	if entry.SchemaVersion != schemaVersion || entry.SizeBytes != sizeBytes {
		return Entry{}, false
	}
	if entry.Failed && c.now().Sub(entry.ProbedAt) > c.failureTTL {
		return Entry{}, false
	}
	return entry, true
}

// Store records a probe result (success or failure) and persists the cache.
func (c *Cache) Store(path string, sizeBytes int64, summary ffprobe.StreamSummary, failed bool) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("probe cache: empty path")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[path] = Entry{
		SchemaVersion: schemaVersion,
		Path:          path,
		SizeBytes:     sizeBytes,
		Summary:       summary,
		ProbedAt:      c.now(),
		Failed:        failed,
	}
	if err := c.save(); err != nil {
		return services.Wrap(services.ErrCacheIO, "probecache", "store", path, err)
	}
	return nil
}

// Count returns the number of cached entries.
func (c *Cache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Clear removes all entries and persists the empty cache.
func (c *Cache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]Entry)
	if err := c.save(); err != nil {
		return services.Wrap(services.ErrCacheIO, "probecache", "clear", "", err)
	}
	return nil
}

func (c *Cache) load() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read cache file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse cache file: %w", err)
	}
	c.entries = make(map[string]Entry, len(entries))
	for _, entry := range entries {
		if strings.TrimSpace(entry.Path) != "" {
			c.entries[entry.Path] = entry
		}
	}
	c.logger.Debug("loaded probe cache",
		logging.Int("entry_count", len(c.entries)),
		logging.String("path", c.path))
	return nil
}

// save performs a full rewrite of the cache file. Callers hold c.mu.
func (c *Cache) save() error {
	entries := make([]Entry, 0, len(c.entries))
	for _, entry := range c.entries {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}
	if dir := filepath.Dir(c.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("ensure cache directory: %w", err)
		}
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}
	return nil
}
