package content

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/shepherd-cms/corepress/internal/domain"
	"github.com/shepherd-cms/corepress/internal/hooks"
	apperrors "github.com/shepherd-cms/corepress/internal/pkg/errors"
)

// Publish transitions a content item draft -> published, setting
// publishedAt/publishedBy. Idempotent: publishing an already-published
// item is a no-op that returns the current row without emitting a
// duplicate event.
func (s *Service) Publish(ctx context.Context, bp *domain.Blueprint, idOrSlug, actor string) (*domain.ContentItem, error) {
	var item *domain.ContentItem
	alreadyPublished := false

	err := s.withTx(ctx, func(tx pgx.Tx) error {
		var err error
		item, _, err = loadRawRow(ctx, tx, bp.ID, idOrSlug)
		if err != nil {
			return err
		}
		if item.Status == domain.StatusPublished {
			alreadyPublished = true
			return nil
		}

		if _, filterErrs := s.hooks.Filter(ctx, "content:beforePublish", map[string]any{"id": item.ID}, hooks.Stop); len(filterErrs) > 0 {
			return apperrors.ErrValidationFailedf(filterErrs[0].Error())
		}

		now := time.Now().UTC()
		item.Status = domain.StatusPublished
		item.PublishedAt = &now
		item.PublishedBy = actor
		item.UpdatedAt = now

		_, err = tx.Exec(ctx, `
			UPDATE contents SET status = $1, published_at = $2, published_by = $3, updated_at = $4 WHERE id = $5
		`, item.Status, item.PublishedAt, item.PublishedBy, item.UpdatedAt, item.ID)
		if err != nil {
			return apperrors.ErrStorageFailuref(err, "publish content")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !alreadyPublished {
		s.hooks.Emit(ctx, "content:afterPublish", map[string]any{"id": item.ID, "actor": actor}, hooks.Continue)
	}
	return item, nil
}

// Unpublish transitions a content item back to draft, clearing
// publishedAt/publishedBy.
func (s *Service) Unpublish(ctx context.Context, bp *domain.Blueprint, idOrSlug, actor string) (*domain.ContentItem, error) {
	var item *domain.ContentItem
	alreadyDraft := false

	err := s.withTx(ctx, func(tx pgx.Tx) error {
		var err error
		item, _, err = loadRawRow(ctx, tx, bp.ID, idOrSlug)
		if err != nil {
			return err
		}
		if item.Status != domain.StatusPublished {
			alreadyDraft = true
			return nil
		}

		if _, filterErrs := s.hooks.Filter(ctx, "content:beforeUnpublish", map[string]any{"id": item.ID}, hooks.Stop); len(filterErrs) > 0 {
			return apperrors.ErrValidationFailedf(filterErrs[0].Error())
		}

		item.Status = domain.StatusDraft
		item.PublishedAt = nil
		item.PublishedBy = ""
		item.UpdatedAt = time.Now().UTC()

		_, err = tx.Exec(ctx, `
			UPDATE contents SET status = $1, published_at = NULL, published_by = '', updated_at = $2 WHERE id = $3
		`, item.Status, item.UpdatedAt, item.ID)
		if err != nil {
			return apperrors.ErrStorageFailuref(err, "unpublish content")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !alreadyDraft {
		s.hooks.Emit(ctx, "content:afterUnpublish", map[string]any{"id": item.ID, "actor": actor}, hooks.Continue)
	}
	return item, nil
}
