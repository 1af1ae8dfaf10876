package service

import (
	"context"
	"log/slog"

	"colette/internal/codec/opml"
	"colette/internal/core/coreerr"
	"colette/internal/core/model"
	"colette/internal/job"
)

// ImportOPML decodes an OPML subscription list, upserting a feed stub
// (status Pending) and a subscription binding for userID per unique
// source_url, linking the outline's tag path to the subscription, and
// enqueueing one scrape_feed job per newly created feed. Jobs are written
// to the job repository inside the same transaction as the feed/
// subscription/tag rows (the outbox) and only pushed onto the live queue
// once that transaction commits, so a crash between commit and push leaves
// a durable Pending job a sweep can still pick up instead of losing it.
func (s *Service) ImportOPML(ctx context.Context, data []byte, userID string) error {
	feeds, err := opml.Decode(data)
	if err != nil {
		return err
	}

	var toPush []string
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		seen := make(map[string]bool, len(feeds))
		for _, f := range feeds {
			if seen[f.SourceURL] {
				continue
			}
			seen[f.SourceURL] = true

			jobID, err := s.importOneFeed(ctx, userID, f)
			if err != nil {
				return err
			}
			if jobID != "" {
				toPush = append(toPush, jobID)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.pushAll(ctx, toPush)
	return nil
}

// importOneFeed upserts a single OPML outline's feed/subscription/tags and
// returns the scrape job ID to push if the feed was newly created, or ""
// if it already existed.
func (s *Service) importOneFeed(ctx context.Context, userID string, f opml.Feed) (string, error) {
	feed, err := s.feeds.FindBySourceURL(ctx, f.SourceURL)
	if err != nil && !coreerr.IsNotFound(err) {
		return "", err
	}
	isNew := feed == nil
	if feed == nil {
		feed = &model.Feed{
			SourceURL:          f.SourceURL,
			Link:               f.Link,
			Title:              f.Title,
			Status:             model.FeedStatusPending,
			RefreshIntervalMin: model.DefaultRefreshIntervalMin,
		}
	}
	if err := s.feeds.Save(ctx, feed); err != nil {
		return "", err
	}

	sub, err := s.subs.FindBySourceAndUser(ctx, userID, feed.ID)
	if err != nil && !coreerr.IsNotFound(err) {
		return "", err
	}
	if sub == nil {
		sub = &model.Subscription{UserID: userID, FeedID: feed.ID, Title: f.Title}
	}
	if err := s.subs.Save(ctx, sub); err != nil {
		return "", err
	}

	tagIDs, err := s.upsertTags(ctx, userID, f.Tags)
	if err != nil {
		return "", err
	}
	if err := s.tags.LinkToSubscription(ctx, sub.ID, tagIDs); err != nil {
		return "", err
	}

	if !isNew {
		return "", nil
	}

	j, err := job.NewJob(job.TypeScrapeFeed, job.ScrapeFeedPayload{FeedID: feed.ID, SourceURL: feed.SourceURL})
	if err != nil {
		return "", err
	}
	if err := s.jobs.Insert(ctx, j); err != nil {
		return "", err
	}
	return j.ID, nil
}

// pushAll pushes each job ID onto the live queue, logging (not failing the
// caller) on a push error since the job row already persisted and a
// separate recovery sweep can requeue it.
func (s *Service) pushAll(ctx context.Context, ids []string) {
	for _, id := range ids {
		if err := s.producer.Push(ctx, id); err != nil {
			slog.Error("service: push imported job failed", slog.String("job_id", id), slog.Any("error", err))
		}
	}
}
