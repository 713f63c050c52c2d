package verifycache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"checkarr/internal/logging"
)

func newTestCache(t *testing.T) (*Cache, string, string) {
	t.Helper()
	dir := t.TempDir()
	goodPath := filepath.Join(dir, "good_files.json")
	skippedPath := filepath.Join(dir, "skipped_files.json")
	return New(goodPath, skippedPath, logging.NewNop()), goodPath, skippedPath
}

func TestMarkAndMembership(t *testing.T) {
	cache, _, _ := newTestCache(t)

	if cache.IsGood("/m/a.mkv") || cache.IsSkipped("/m/a.mkv") {
		t.Fatal("fresh cache should be empty")
	}
	if !cache.MarkGood("/m/a.mkv") {
		t.Fatal("first mark should change the set")
	}
	if !cache.IsGood("/m/a.mkv") {
		t.Fatal("expected membership after mark")
	}
	cache.MarkSkipped("/m/b.mkv")
	if !cache.IsSkipped("/m/b.mkv") {
		t.Fatal("expected skipped membership")
	}
	if cache.IsGood("/m/b.mkv") {
		t.Fatal("sets are independent")
	}
}

func TestMarkIdempotentAcrossFlush(t *testing.T) {
	cache, goodPath, _ := newTestCache(t)

	cache.MarkGood("/m/a.mkv")
	if cache.MarkGood("/m/a.mkv") {
		t.Fatal("re-adding should be a no-op")
	}
	if err := cache.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	data, err := os.ReadFile(goodPath)
	if err != nil {
		t.Fatalf("read persisted set: %v", err)
	}
	var doc struct {
		GoodFiles []string `json:"good_files"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("parse persisted set: %v", err)
	}
	if len(doc.GoodFiles) != 1 || doc.GoodFiles[0] != "/m/a.mkv" {
		t.Fatalf("expected exactly one occurrence, got %v", doc.GoodFiles)
	}
}

func TestFlushAndReload(t *testing.T) {
	cache, goodPath, skippedPath := newTestCache(t)
	cache.MarkGood("/m/a.mkv")
	cache.MarkSkipped("/m/b.mkv")
	if err := cache.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}

	reloaded := New(goodPath, skippedPath, logging.NewNop())
	if !reloaded.IsGood("/m/a.mkv") || !reloaded.IsSkipped("/m/b.mkv") {
		t.Fatal("expected membership to survive reload")
	}
	good, skipped := reloaded.Counts()
	if good != 1 || skipped != 1 {
		t.Fatalf("unexpected counts %d/%d", good, skipped)
	}
}

func TestUnreadableCacheStartsEmpty(t *testing.T) {
	dir := t.TempDir()
	goodPath := filepath.Join(dir, "good_files.json")
	if err := os.WriteFile(goodPath, []byte("{broken"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	cache := New(goodPath, filepath.Join(dir, "skipped_files.json"), logging.NewNop())
	good, skipped := cache.Counts()
	if good != 0 || skipped != 0 {
		t.Fatalf("expected empty sets, got %d/%d", good, skipped)
	}
}

func TestClear(t *testing.T) {
	cache, goodPath, skippedPath := newTestCache(t)
	cache.MarkGood("/m/a.mkv")
	cache.MarkSkipped("/m/b.mkv")
	if err := cache.Flush(); err != nil {
		t.Fatalf("flush: %v", err)
	}
	if err := cache.ClearGood(); err != nil {
		t.Fatalf("clear good: %v", err)
	}

	reloaded := New(goodPath, skippedPath, logging.NewNop())
	if reloaded.IsGood("/m/a.mkv") {
		t.Fatal("good set should be empty after clear")
	}
	if !reloaded.IsSkipped("/m/b.mkv") {
		t.Fatal("skipped set must be untouched by ClearGood")
	}
}
