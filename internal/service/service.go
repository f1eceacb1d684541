package service

import (
	"context"
	"log/slog"
	"time"

	"ainewsagg/internal/classify"
	"ainewsagg/internal/config"
	"ainewsagg/internal/export"
	"ainewsagg/internal/rss"
	"ainewsagg/internal/storage"
)

const (
	exportWindow    = 14 * 24 * time.Hour
	retentionWindow = 60 * 24 * time.Hour
	lowDiskGB       = 1
)

// Service drives the full poll cycle: config reload, feed reconciliation,
// fetch, classification, persistence, snapshot export, and retention.
type Service struct {
	fetcher  *rss.Fetcher
	filter   *classify.Filter
	store    *storage.Store
	snapshot *export.Snapshot
	logger   *slog.Logger
	rt       config.Runtime

	now func() time.Time
}

// New creates a Service instance.
func New(fetcher *rss.Fetcher, filter *classify.Filter, store *storage.Store, snapshot *export.Snapshot, logger *slog.Logger, rt config.Runtime) *Service {
	return &Service{
		fetcher:  fetcher,
		filter:   filter,
		store:    store,
		snapshot: snapshot,
		logger:   logger,
		rt:       rt,
		now:      time.Now,
	}
}

// Run executes cycles until the context is cancelled. Feed status lives here
// and is threaded through reconciliation each cycle; the inter-cycle sleep is
// an interruptible wait, so cancellation never blocks on the timer.
func (s *Service) Run(ctx context.Context) error {
	status := make(map[string]bool)

	for {
		status = s.cycle(ctx, status)

		s.logger.Info("next check scheduled", "interval", s.rt.PollInterval)
		timer := time.NewTimer(s.rt.PollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("stopping service, context cancelled")
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// cycle performs one full pass over the configured feeds and returns the
// updated feed status map. Export and retention faults are logged and skip
// the rest of the cycle rather than crashing the process.
func (s *Service) cycle(ctx context.Context, status map[string]bool) map[string]bool {
	cfg := config.Load(s.rt.ConfigPath, s.logger)

	status, added, removed := reconcile(status, cfg.RSSFeeds)
	if len(added) > 0 {
		s.logger.Info("new feeds added", "feeds", added)
	}
	if len(removed) > 0 {
		s.logger.Info("feeds removed", "feeds", removed)
	}

	s.logger.Info("starting new news check")

	for _, feedURL := range cfg.RSSFeeds {
		if !s.fetcher.Probe(ctx, feedURL) {
			if status[feedURL] {
				s.logger.Warn("unable to connect, skipping this source", "feed", feedURL)
				status[feedURL] = false
			}
			continue
		}
		if !status[feedURL] {
			s.logger.Info("source is back online", "feed", feedURL)
			status[feedURL] = true
		}
		if err := s.processFeed(ctx, feedURL, cfg.AIFilters); err != nil {
			s.logger.Error("error processing feed", "feed", feedURL, "error", err)
		}
	}

	if err := s.exportSnapshot(ctx); err != nil {
		s.logger.Error("snapshot export failed", "error", err)
	}
	if err := s.applyRetention(ctx); err != nil {
		s.logger.Error("retention failed", "error", err)
	}

	free, err := freeDiskGB("/")
	if err != nil {
		s.logger.Error("disk space check failed", "error", err)
	} else if free < lowDiskGB {
		s.logger.Warn("disk space running low", "free_gb", free)
	}
	s.logger.Info("check completed", "free_gb", free)

	return status
}

// processFeed fetches one feed and runs every item through classification
// and persistence. The first error aborts the remaining items of this feed
// only; other feeds are unaffected.
func (s *Service) processFeed(ctx context.Context, feedURL string, filters config.AIFilterConfig) error {
	items, err := s.fetcher.Fetch(ctx, feedURL)
	if err != nil {
		return err
	}

	for _, item := range items {
		accepted, _, err := s.filter.Accept(ctx, item.Title, item.Description, filters.Topics, filters.SimilarityThreshold)
		if err != nil {
			return err
		}
		if !accepted {
			continue
		}

		stored := storage.Item{
			Title:       item.Title,
			Link:        item.Link,
			Date:        s.now().Format(storage.TimeLayout),
			Description: storedDescription(item.Description),
		}
		inserted, err := s.store.InsertIfAbsent(ctx, stored)
		if err != nil {
			return err
		}
		if inserted {
			s.logger.Info("new news filtered with AI", "title", stored.Title)
		}
	}
	return nil
}

func (s *Service) exportSnapshot(ctx context.Context) error {
	cutoff := s.now().Add(-exportWindow).Format(storage.TimeLayout)
	items, err := s.store.NewerThan(ctx, cutoff)
	if err != nil {
		return err
	}
	if err := s.snapshot.Write(items); err != nil {
		return err
	}
	s.logger.Info("XML file generated successfully", "path", s.snapshot.Path(), "items", len(items))
	return nil
}

func (s *Service) applyRetention(ctx context.Context) error {
	cutoff := s.now().Add(-retentionWindow).Format(storage.TimeLayout)
	deleted, err := s.store.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return err
	}
	s.logger.Info("retention policy applied", "deleted", deleted)
	return nil
}
