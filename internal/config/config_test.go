package config

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoadMissingFileWritesDefault(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")
	cfg := Load(path, discardLogger())

	want := Default()
	if len(cfg.RSSFeeds) != len(want.RSSFeeds) {
		t.Fatalf("expected %d default feeds, got %d", len(want.RSSFeeds), len(cfg.RSSFeeds))
	}
	if cfg.AIFilters.SimilarityThreshold != 0.5 {
		t.Fatalf("expected default threshold 0.5, got %v", cfg.AIFilters.SimilarityThreshold)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("default config was not persisted: %v", err)
	}
	var onDisk Config
	if err := json.Unmarshal(raw, &onDisk); err != nil {
		t.Fatalf("persisted default config is not valid JSON: %v", err)
	}
	if len(onDisk.RSSFeeds) != len(want.RSSFeeds) {
		t.Fatalf("persisted config has %d feeds, want %d", len(onDisk.RSSFeeds), len(want.RSSFeeds))
	}
	if len(onDisk.AIFilters.Topics) != len(want.AIFilters.Topics) {
		t.Fatalf("persisted config has %d topics, want %d", len(onDisk.AIFilters.Topics), len(want.AIFilters.Topics))
	}
}

func TestLoadMalformedFileFallsBack(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")
	malformed := []byte("{ this is not json")
	if err := os.WriteFile(path, malformed, 0o644); err != nil {
		t.Fatalf("write malformed config: %v", err)
	}

	cfg := Load(path, discardLogger())
	if len(cfg.RSSFeeds) != 0 {
		t.Fatalf("expected no feeds on parse error, got %v", cfg.RSSFeeds)
	}
	if len(cfg.AIFilters.Topics) != 0 {
		t.Fatalf("expected no topics on parse error, got %v", cfg.AIFilters.Topics)
	}
	if cfg.AIFilters.SimilarityThreshold != 0.5 {
		t.Fatalf("expected fallback threshold 0.5, got %v", cfg.AIFilters.SimilarityThreshold)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config back: %v", err)
	}
	if string(raw) != string(malformed) {
		t.Fatalf("malformed config file was rewritten: %q", raw)
	}
}

func TestLoadValidFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
  "rss_feeds": ["https://example.com/feed"],
  "ai_filters": {"topics": ["Go"], "similarity_threshold": 0.7}
}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg := Load(path, discardLogger())
	if len(cfg.RSSFeeds) != 1 || cfg.RSSFeeds[0] != "https://example.com/feed" {
		t.Fatalf("unexpected feeds: %v", cfg.RSSFeeds)
	}
	if len(cfg.AIFilters.Topics) != 1 || cfg.AIFilters.Topics[0] != "Go" {
		t.Fatalf("unexpected topics: %v", cfg.AIFilters.Topics)
	}
	if cfg.AIFilters.SimilarityThreshold != 0.7 {
		t.Fatalf("unexpected threshold: %v", cfg.AIFilters.SimilarityThreshold)
	}
}
