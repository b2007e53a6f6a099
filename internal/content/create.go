package content

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/shepherd-cms/corepress/internal/domain"
	"github.com/shepherd-cms/corepress/internal/hooks"
	apperrors "github.com/shepherd-cms/corepress/internal/pkg/errors"
)

const uniqueViolationCode = "23505"

// Create validates input against bp via the Blueprint Engine, derives a
// slug when none is supplied, persists the row inside a transaction, and
// emits the content:afterCreate action hook after commit. Action-hook
// failures are never allowed to roll back a successful create.
func (s *Service) Create(ctx context.Context, bp *domain.Blueprint, input map[string]any, actor string) (*domain.ContentItem, error) {
	if err := validateAndMerge(bp, input, s.registry); err != nil {
		return nil, err
	}

	requestedSlug, _ := input["slug"].(string)
	resolvedSlug := requestedSlug
	if resolvedSlug == "" {
		resolvedSlug = deriveSlug(bp, input)
	}

	filtered, filterErrs := s.hooks.Filter(ctx, "content:beforeCreate", input, hooks.Stop)
	if len(filterErrs) > 0 {
		return nil, apperrors.ErrValidationFailedf(filterErrs[0].Error())
	}

	status := bp.Settings.DefaultStatus
	if status == "" {
		status = domain.StatusDraft
	}

	serialized, err := s.serializeData(bp, filtered)
	if err != nil {
		return nil, err
	}

	item := &domain.ContentItem{
		BlueprintID: bp.ID,
		Slug:        resolvedSlug,
		Data:        filtered,
		Status:      status,
		CreatedBy:   actor,
	}

	err = s.withTx(ctx, func(tx pgx.Tx) error {
		item.ID = generateID("content")
		now := time.Now().UTC()
		item.CreatedAt = now
		item.UpdatedAt = now

		dataRaw, err := marshalJSON(serialized)
		if err != nil {
			return apperrors.ErrStorageFailuref(err, "marshal content data")
		}

		_, err = tx.Exec(ctx, `
			INSERT INTO contents (id, blueprint_id, slug, data, status, created_by, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, item.ID, item.BlueprintID, item.Slug, dataRaw, item.Status, item.CreatedBy, item.CreatedAt, item.UpdatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
				return apperrors.ErrSlugConflictf(item.Slug)
			}
			return apperrors.ErrStorageFailuref(err, "insert content")
		}

		if bp.Settings.Versioning {
			if err := s.writeVersion(ctx, tx, item, 1, []domain.FieldChange{{Field: "*", Old: nil, New: "initial create"}}, actor); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hooks.Emit(ctx, "content:afterCreate", map[string]any{
		"id":          item.ID,
		"blueprintId": item.BlueprintID,
		"slug":        item.Slug,
		"actor":       actor,
	}, hooks.Continue)

	return item, nil
}
