package content

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/shepherd-cms/corepress/internal/domain"
	apperrors "github.com/shepherd-cms/corepress/internal/pkg/errors"
)

// BlueprintStore persists Blueprint records. It lives alongside the
// Content Storage Service since blueprints share its connection pool and
// transactional conventions, and every content operation needs one
// loaded before it can validate or serialize anything.
type BlueprintStore struct {
	s *Service
}

// Blueprints returns the blueprint store backed by the same pool as s.
func (s *Service) Blueprints() *BlueprintStore {
	return &BlueprintStore{s: s}
}

// Create persists a new blueprint, generating its id.
func (b *BlueprintStore) Create(ctx context.Context, bp *domain.Blueprint) (*domain.Blueprint, error) {
	id, err := newUUIDv7()
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStorageFailure, "generate blueprint id", 500)
	}
	bp.ID = id

	fieldsRaw, err := json.Marshal(bp.Fields)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStorageFailure, "marshal blueprint fields", 500)
	}
	settingsRaw, err := json.Marshal(bp.Settings)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeStorageFailure, "marshal blueprint settings", 500)
	}

	_, err = b.s.pool.Exec(ctx, `
		INSERT INTO blueprints (id, name, slug, fields, settings, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, now(), now())
	`, bp.ID, bp.Name, bp.Slug, fieldsRaw, settingsRaw)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, apperrors.ErrSlugConflictf(bp.Slug)
		}
		return nil, apperrors.ErrStorageFailuref(err, "insert blueprint")
	}
	return bp, nil
}

// Get loads a blueprint by id or slug.
func (b *BlueprintStore) Get(ctx context.Context, idOrSlug string) (*domain.Blueprint, error) {
	row := b.s.pool.QueryRow(ctx, `
		SELECT id, name, slug, fields, settings
		FROM blueprints
		WHERE id = $1 OR slug = $1
	`, idOrSlug)

	bp := &domain.Blueprint{}
	var fieldsRaw, settingsRaw []byte
	if err := row.Scan(&bp.ID, &bp.Name, &bp.Slug, &fieldsRaw, &settingsRaw); err != nil {
		return nil, apperrors.ErrContentNotFoundf(idOrSlug)
	}
	if err := json.Unmarshal(fieldsRaw, &bp.Fields); err != nil {
		return nil, apperrors.ErrStorageFailuref(err, "unmarshal blueprint fields")
	}
	if len(settingsRaw) > 0 {
		if err := json.Unmarshal(settingsRaw, &bp.Settings); err != nil {
			return nil, apperrors.ErrStorageFailuref(err, "unmarshal blueprint settings")
		}
	}
	return bp, nil
}

// List returns every blueprint, ordered by slug.
func (b *BlueprintStore) List(ctx context.Context) ([]*domain.Blueprint, error) {
	rows, err := b.s.pool.Query(ctx, `
		SELECT id, name, slug, fields, settings FROM blueprints ORDER BY slug
	`)
	if err != nil {
		return nil, apperrors.ErrStorageFailuref(err, "query blueprints")
	}
	defer rows.Close()

	var out []*domain.Blueprint
	for rows.Next() {
		bp := &domain.Blueprint{}
		var fieldsRaw, settingsRaw []byte
		if err := rows.Scan(&bp.ID, &bp.Name, &bp.Slug, &fieldsRaw, &settingsRaw); err != nil {
			return nil, apperrors.ErrStorageFailuref(err, "scan blueprint")
		}
		if err := json.Unmarshal(fieldsRaw, &bp.Fields); err != nil {
			return nil, apperrors.ErrStorageFailuref(err, "unmarshal blueprint fields")
		}
		if len(settingsRaw) > 0 {
			if err := json.Unmarshal(settingsRaw, &bp.Settings); err != nil {
				return nil, apperrors.ErrStorageFailuref(err, "unmarshal blueprint settings")
			}
		}
		out = append(out, bp)
	}
	return out, nil
}

// Update replaces a blueprint's fields/settings in place.
func (b *BlueprintStore) Update(ctx context.Context, bp *domain.Blueprint) error {
	fieldsRaw, err := json.Marshal(bp.Fields)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeStorageFailure, "marshal blueprint fields", 500)
	}
	settingsRaw, err := json.Marshal(bp.Settings)
	if err != nil {
		return apperrors.Wrap(err, apperrors.CodeStorageFailure, "marshal blueprint settings", 500)
	}

	tag, err := b.s.pool.Exec(ctx, `
		UPDATE blueprints SET name = $2, fields = $3, settings = $4, updated_at = now()
		WHERE id = $1
	`, bp.ID, bp.Name, fieldsRaw, settingsRaw)
	if err != nil {
		return apperrors.ErrStorageFailuref(err, "update blueprint")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrContentNotFoundf(bp.ID)
	}
	return nil
}

// Delete removes a blueprint by id.
func (b *BlueprintStore) Delete(ctx context.Context, id string) error {
	tag, err := b.s.pool.Exec(ctx, `DELETE FROM blueprints WHERE id = $1`, id)
	if err != nil {
		return apperrors.ErrStorageFailuref(err, "delete blueprint")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrContentNotFoundf(id)
	}
	return nil
}
