package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"colette/internal/core/coreerr"
	"colette/internal/ingest/scrape"
	"colette/internal/job"
	"colette/internal/observability/metrics"
)

// ScrapeFeedHandler adapts the scrape pipeline and this service into a
// job.Handler for job.TypeScrapeFeed jobs: mark the feed Refreshing, scrape,
// then ingest the result. A permanent scrape failure marks the feed Failed
// so the scheduler stops resweeping it.
func ScrapeFeedHandler(pipeline *scrape.Pipeline, svc *Service) job.Handler {
	return func(ctx context.Context, j *job.Job) error {
		var payload job.ScrapeFeedPayload
		if err := j.Decode(&payload); err != nil {
			return fmt.Errorf("scrape_feed: decode payload: %w", err)
		}

		if payload.FeedID != "" {
			if markErr := svc.MarkFeedRefreshing(ctx, payload.FeedID); markErr != nil {
				return fmt.Errorf("scrape_feed: mark refreshing: %w", markErr)
			}
		}

		start := time.Now()
		processed, err := pipeline.ScrapeFeed(ctx, payload.SourceURL)
		metrics.RecordScrapeDuration("feed", time.Since(start))
		if err != nil {
			var permanent coreerr.ScrapePermanentError
			if errors.As(err, &permanent) {
				metrics.RecordScrapeError("feed", "permanent")
				if payload.FeedID != "" {
					if markErr := svc.MarkFeedFailed(ctx, payload.FeedID); markErr != nil {
						return fmt.Errorf("scrape_feed: mark failed: %w", markErr)
					}
				}
			} else {
				metrics.RecordScrapeError("feed", "transient")
			}
			return err
		}

		inserted, err := svc.IngestFeed(ctx, payload.SourceURL, processed)
		if err != nil {
			return fmt.Errorf("scrape_feed: ingest: %w", err)
		}
		metrics.RecordEntriesFetched(payload.FeedID, inserted)
		return nil
	}
}

// ScrapeBookmarkHandler adapts the scrape pipeline and this service into a
// job.Handler for job.TypeScrapeBookmark jobs.
func ScrapeBookmarkHandler(pipeline *scrape.Pipeline, svc *Service) job.Handler {
	return func(ctx context.Context, j *job.Job) error {
		var payload job.ScrapeBookmarkPayload
		if err := j.Decode(&payload); err != nil {
			return fmt.Errorf("scrape_bookmark: decode payload: %w", err)
		}

		start := time.Now()
		processed, err := pipeline.ScrapeBookmark(ctx, payload.Link)
		metrics.RecordScrapeDuration("bookmark", time.Since(start))
		if err != nil {
			var permanent coreerr.ScrapePermanentError
			if errors.As(err, &permanent) {
				metrics.RecordScrapeError("bookmark", "permanent")
			} else {
				metrics.RecordScrapeError("bookmark", "transient")
			}
			return err
		}

		if err := svc.IngestBookmark(ctx, payload.BookmarkID, processed); err != nil {
			return fmt.Errorf("scrape_bookmark: ingest: %w", err)
		}
		return nil
	}
}
