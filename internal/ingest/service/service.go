// Package service implements the ingestion operations that turn a scraped
// or imported document into durable rows and follow-up jobs: IngestFeed,
// ImportOPML, and ImportBookmarks (spec.md §4.11).
//
// Grounded on the teacher's usecase layer (a Service struct closing over
// its repository dependencies, one method per operation) and on
// original_source's PostgresScraperRepository.save_feed, which wraps feed
// creation and entry linking in a single transaction; here that becomes a
// Transactor the service drives rather than a transaction owned by a single
// combined repository, since this module keeps Feed/FeedEntry/Bookmark/Tag
// as separate repository contracts (C12).
package service

import (
	"context"

	"colette/internal/job"
	"colette/internal/repository"
)

// Transactor runs fn within a single storage-level transaction, rolling
// back if fn returns an error.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service ties the feed/bookmark/tag repository contracts to the job queue
// so that scraping and importing land as one committed unit of work.
type Service struct {
	feeds     repository.FeedRepository
	subs      repository.SubscriptionRepository
	entries   repository.FeedEntryRepository
	bookmarks repository.BookmarkRepository
	tags      repository.TagRepository
	jobs      repository.JobRepository
	producer  job.Producer
	tx        Transactor
}

// New constructs a Service from its repository and queue dependencies.
func New(
	feeds repository.FeedRepository,
	subs repository.SubscriptionRepository,
	entries repository.FeedEntryRepository,
	bookmarks repository.BookmarkRepository,
	tags repository.TagRepository,
	jobs repository.JobRepository,
	producer job.Producer,
	tx Transactor,
) *Service {
	return &Service{
		feeds:     feeds,
		subs:      subs,
		entries:   entries,
		bookmarks: bookmarks,
		tags:      tags,
		jobs:      jobs,
		producer:  producer,
		tx:        tx,
	}
}
