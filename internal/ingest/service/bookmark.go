package service

import (
	"bytes"
	"context"

	"colette/internal/codec/netscape"
	"colette/internal/core/coreerr"
	"colette/internal/core/model"
	"colette/internal/ingest/postprocess"
	"colette/internal/job"
)

// ImportBookmarks decodes a Netscape bookmark file, upserting a bookmark
// stub per unique link for userID, linking its folder-path tags, and
// enqueueing one scrape_bookmark job per newly created bookmark. Same
// outbox shape as ImportOPML.
func (s *Service) ImportBookmarks(ctx context.Context, data []byte, userID string) error {
	bookmarks, err := netscape.Decode(bytes.NewReader(data))
	if err != nil {
		return err
	}

	var toPush []string
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		seen := make(map[string]bool, len(bookmarks))
		for _, b := range bookmarks {
			if seen[b.Link] {
				continue
			}
			seen[b.Link] = true

			jobID, err := s.importOneBookmark(ctx, userID, b)
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

func (s *Service) importOneBookmark(ctx context.Context, userID string, b netscape.Bookmark) (string, error) {
	bm, err := s.bookmarks.FindByLink(ctx, userID, b.Link)
	if err != nil && !coreerr.IsNotFound(err) {
		return "", err
	}
	isNew := bm == nil
	if bm == nil {
		bm = &model.Bookmark{UserID: userID, Link: b.Link, Title: b.Title}
	} else if b.Title != "" {
		bm.Title = b.Title
	}
	if err := s.bookmarks.Save(ctx, bm); err != nil {
		return "", err
	}

	tagIDs, err := s.upsertTags(ctx, userID, b.Tags)
	if err != nil {
		return "", err
	}
	if err := s.tags.LinkToBookmark(ctx, bm.ID, tagIDs); err != nil {
		return "", err
	}

	if !isNew {
		return "", nil
	}

	j, err := job.NewJob(job.TypeScrapeBookmark, job.ScrapeBookmarkPayload{BookmarkID: bm.ID, Link: bm.Link})
	if err != nil {
		return "", err
	}
	if err := s.jobs.Insert(ctx, j); err != nil {
		return "", err
	}
	return j.ID, nil
}

// IngestBookmark applies a scrape's extracted metadata onto the bookmark
// row identified by bookmarkID, filling in whatever the page provided
// without overwriting a user-edited title with an empty one.
func (s *Service) IngestBookmark(ctx context.Context, bookmarkID string, processed *postprocess.ProcessedBookmark) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		bm, err := s.bookmarks.FindByID(ctx, bookmarkID)
		if err != nil {
			return err
		}
		if processed.Title != "" {
			bm.Title = processed.Title
		}
		if processed.ThumbnailURL != "" {
			bm.ThumbnailURL = processed.ThumbnailURL
		}
		if processed.Author != "" {
			bm.Author = processed.Author
		}
		if processed.PublishedAt != nil {
			bm.PublishedAt = processed.PublishedAt
		}
		return s.bookmarks.Save(ctx, bm)
	})
}
