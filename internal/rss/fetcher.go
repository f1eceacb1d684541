package rss

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
)

const (
	fetchTimeout = 30 * time.Second
	probeTimeout = 10 * time.Second
)

// Item represents a normalized RSS entry. All fields may be empty except
// Published, which defaults to the fetch time when the feed omits it.
type Item struct {
	Title       string
	Link        string
	Description string
	Published   string
}

// Fetcher pulls and parses RSS/Atom feeds.
type Fetcher struct {
	parser *gofeed.Parser
	probe  *http.Client
	logger *slog.Logger
}

// NewFetcher creates a fetcher shared across all configured feeds.
func NewFetcher(logger *slog.Logger) *Fetcher {
	return &Fetcher{
		parser: gofeed.NewParser(),
		probe:  &http.Client{Timeout: probeTimeout},
		logger: logger,
	}
}

// Fetch pulls one feed and returns its normalized items. Network and parse
// failures are reported as an error with zero items; the caller decides how
// to isolate them.
func (f *Fetcher) Fetch(ctx context.Context, feedURL string) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", feedURL, err)
	}

	items := make([]Item, 0, len(feed.Items))
	for _, entry := range feed.Items {
		published := entry.Published
		if published == "" {
			published = time.Now().Format(time.RFC1123Z)
		}
		items = append(items, Item{
			Title:       entry.Title,
			Link:        entry.Link,
			Description: entry.Description,
			Published:   published,
		})
	}
	return items, nil
}

// Probe performs a lightweight reachability check: a plain GET with a short
// timeout, counting only HTTP 200 as reachable.
func (f *Fetcher) Probe(ctx context.Context, feedURL string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return false
	}
	resp, err := f.probe.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
