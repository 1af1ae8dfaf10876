package service

import (
	"context"

	"colette/internal/core/model"
	"colette/internal/repository"
)

// upsertTags resolves each title to an existing (user_id, title) tag or
// creates one, returning the resolved IDs in the same order as titles.
func (s *Service) upsertTags(ctx context.Context, userID string, titles []string) ([]string, error) {
	ids := make([]string, 0, len(titles))
	for _, title := range titles {
		existing, err := s.tags.Find(ctx, repository.TagFindParams{UserID: &userID, Title: &title})
		if err != nil {
			return nil, err
		}
		if len(existing) > 0 {
			ids = append(ids, existing[0].ID)
			continue
		}

		t := &model.Tag{UserID: userID, Title: title}
		if err := s.tags.Save(ctx, t); err != nil {
			return nil, err
		}
		ids = append(ids, t.ID)
	}
	return ids, nil
}
