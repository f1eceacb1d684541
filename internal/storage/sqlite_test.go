package storage

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "news.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := Open(context.Background(), path, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store, path
}

func TestInsertIfAbsentDeduplicates(t *testing.T) {
	t.Parallel()

	store, _ := openTestStore(t)
	ctx := context.Background()

	item := Item{Title: "AI Advances", Link: "https://example.com/ai", Date: "2026-08-01 10:00:00", Description: "New models emerge"}

	inserted, err := store.InsertIfAbsent(ctx, item)
	if err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if !inserted {
		t.Fatal("expected first insert to occur")
	}

	inserted, err = store.InsertIfAbsent(ctx, item)
	if err != nil {
		t.Fatalf("second insert: %v", err)
	}
	if inserted {
		t.Fatal("expected duplicate (title, link) to be skipped")
	}

	// Same title under a different link is a distinct record.
	other := item
	other.Link = "https://example.com/ai-2"
	inserted, err = store.InsertIfAbsent(ctx, other)
	if err != nil {
		t.Fatalf("third insert: %v", err)
	}
	if !inserted {
		t.Fatal("expected insert for distinct link")
	}

	items, err := store.NewerThan(ctx, "")
	if err != nil {
		t.Fatalf("query all: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 stored items, got %d", len(items))
	}
}

func TestNewerThanStrictCutoffAndOrder(t *testing.T) {
	t.Parallel()

	store, _ := openTestStore(t)
	ctx := context.Background()

	dates := []string{"2026-08-01 10:00:00", "2026-08-02 10:00:00", "2026-08-03 10:00:00"}
	for i, d := range dates {
		if _, err := store.InsertIfAbsent(ctx, Item{Title: "t", Link: d, Date: d, Description: ""}); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}

	items, err := store.NewerThan(ctx, "2026-08-02 10:00:00")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("cutoff must be strict, got %d items", len(items))
	}
	if items[0].Date != "2026-08-03 10:00:00" {
		t.Fatalf("unexpected item: %+v", items[0])
	}

	items, err = store.NewerThan(ctx, "2026-08-01 00:00:00")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	for i := 1; i < len(items); i++ {
		if items[i-1].Date < items[i].Date {
			t.Fatalf("items not ordered newest first: %s before %s", items[i-1].Date, items[i].Date)
		}
	}
}

func TestDeleteOlderThanStrict(t *testing.T) {
	t.Parallel()

	store, _ := openTestStore(t)
	ctx := context.Background()

	dates := []string{"2026-06-01 00:00:00", "2026-07-01 00:00:00", "2026-08-01 00:00:00"}
	for i, d := range dates {
		if _, err := store.InsertIfAbsent(ctx, Item{Title: "t", Link: d, Date: d}); err != nil {
			t.Fatalf("insert %d: %v", i, err)
		}
	}

	deleted, err := store.DeleteOlderThan(ctx, "2026-07-01 00:00:00")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 deletion (strict cutoff), got %d", deleted)
	}

	items, err := store.NewerThan(ctx, "")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 remaining items, got %d", len(items))
	}
	for _, item := range items {
		if item.Date < "2026-07-01 00:00:00" {
			t.Fatalf("item older than cutoff survived: %+v", item)
		}
	}
}

func TestPersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "news.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := Open(ctx, path, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if _, err := store.InsertIfAbsent(ctx, Item{Title: "durable", Link: "l", Date: "2026-08-01 10:00:00"}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(ctx, path, logger)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer reopened.Close()

	exists, err := reopened.Exists(ctx, "durable", "l")
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if !exists {
		t.Fatal("item lost across reopen")
	}
}
