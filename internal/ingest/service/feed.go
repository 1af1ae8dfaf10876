package service

import (
	"context"
	"errors"
	"time"

	"colette/internal/core/coreerr"
	"colette/internal/core/model"
	"colette/internal/ingest/postprocess"
	"colette/internal/scheduler"
)

// IngestFeed upserts processed's feed metadata keyed on sourceURL and bulk
// upserts its entries keyed on (feed_id, link), then applies the adaptive
// refresh-cadence policy based on how many entries were newly inserted.
// Returns the count of newly inserted entries.
func (s *Service) IngestFeed(ctx context.Context, sourceURL string, processed *postprocess.ProcessedFeed) (int, error) {
	var inserted int

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		feed, err := s.feeds.FindBySourceURL(ctx, sourceURL)
		if err != nil && !coreerr.IsNotFound(err) {
			return err
		}
		if feed == nil {
			feed = &model.Feed{
				SourceURL:          sourceURL,
				RefreshIntervalMin: model.DefaultRefreshIntervalMin,
				Status:             model.FeedStatusPending,
			}
		}
		feed.Link = processed.Link
		feed.Title = processed.Title

		entries := make([]*model.FeedEntry, 0, len(processed.Entries))
		for _, e := range processed.Entries {
			entries = append(entries, &model.FeedEntry{
				FeedID:       feed.ID,
				Link:         e.Link,
				Title:        e.Title,
				PublishedAt:  e.PublishedAt,
				Description:  e.Description,
				Author:       e.Author,
				ThumbnailURL: e.ThumbnailURL,
			})
		}

		if err := s.feeds.Save(ctx, feed); err != nil {
			return err
		}
		for _, e := range entries {
			e.FeedID = feed.ID
		}

		insertedIDs, err := s.upsertEntriesWithRetry(ctx, entries)
		if err != nil {
			return err
		}
		inserted = len(insertedIDs)

		scheduler.ApplyScrapeOutcome(feed, inserted, false, time.Now().UTC())
		return s.feeds.Save(ctx, feed)
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// upsertEntriesWithRetry retries once on a composite-unique-index conflict,
// the race window between a concurrent scrape of the same feed checking for
// existence and inserting.
func (s *Service) upsertEntriesWithRetry(ctx context.Context, entries []*model.FeedEntry) ([]string, error) {
	ids, err := s.entries.UpsertBatch(ctx, entries)
	if err != nil && errors.Is(err, coreerr.ErrConflict) {
		ids, err = s.entries.UpsertBatch(ctx, entries)
	}
	return ids, err
}

// MarkFeedRefreshing transitions a feed to Refreshing when a scrape job for
// it is picked up, so a concurrent scrape in progress is observable on the
// feed row rather than only inferable from job state.
func (s *Service) MarkFeedRefreshing(ctx context.Context, feedID string) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		feed, err := s.feeds.FindByID(ctx, feedID)
		if err != nil {
			return err
		}
		feed.Status = model.FeedStatusRefreshing
		return s.feeds.Save(ctx, feed)
	})
}

// MarkFeedFailed records a permanent scrape failure: the feed's status
// becomes Failed and its refresh_interval_min is left untouched so that a
// later manual retry does not inherit a backed-off cadence.
func (s *Service) MarkFeedFailed(ctx context.Context, feedID string) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		feed, err := s.feeds.FindByID(ctx, feedID)
		if err != nil {
			return err
		}
		scheduler.ApplyScrapeOutcome(feed, 0, true, time.Now().UTC())
		return s.feeds.Save(ctx, feed)
	})
}
