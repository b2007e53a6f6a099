package content

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/shepherd-cms/corepress/internal/domain"
	apperrors "github.com/shepherd-cms/corepress/internal/pkg/errors"
)

func (s *Service) writeVersion(ctx context.Context, tx pgx.Tx, item *domain.ContentItem, versionNumber int, changeSummary []domain.FieldChange, actor string) error {
	dataRaw, err := marshalJSON(item.Data)
	if err != nil {
		return apperrors.ErrStorageFailuref(err, "marshal version data")
	}
	summaryRaw, err := marshalJSON(changeSummary)
	if err != nil {
		return apperrors.ErrStorageFailuref(err, "marshal change summary")
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO versions (id, content_id, blueprint_id, data, version_number, created_by, change_summary, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, generateID("version"), item.ID, item.BlueprintID, dataRaw, versionNumber, actor, summaryRaw, time.Now().UTC())
	if err != nil {
		return apperrors.ErrStorageFailuref(err, "insert version")
	}
	return nil
}

func (s *Service) maxVersionNumber(ctx context.Context, tx pgx.Tx, contentID string) (int, error) {
	var max int
	err := tx.QueryRow(ctx, `SELECT COALESCE(MAX(version_number), 0) FROM versions WHERE content_id = $1`, contentID).Scan(&max)
	if err != nil {
		return 0, apperrors.ErrStorageFailuref(err, "query max version number")
	}
	return max, nil
}

// Rollback loads version versionNumber of the content identified by id
// or slug within bp and runs its data through Update as a patch, which
// itself produces a new version. Rollback never deletes history.
func (s *Service) Rollback(ctx context.Context, bp *domain.Blueprint, id string, versionNumber int, actor string) (*domain.ContentItem, error) {
	item, _, err := loadRawRow(ctx, s.pool, bp.ID, id)
	if err != nil {
		return nil, err
	}
	contentID := item.ID

	var dataRaw []byte
	err = s.pool.QueryRow(ctx, `
		SELECT data FROM versions WHERE content_id = $1 AND version_number = $2
	`, contentID, versionNumber).Scan(&dataRaw)
	if err != nil {
		return nil, apperrors.NotFound(apperrors.CodeVersionNotFound, fmt.Sprintf("version %d not found for content %s", versionNumber, id))
	}

	var patch map[string]any
	if err := unmarshalJSON(dataRaw, &patch); err != nil {
		return nil, apperrors.ErrStorageFailuref(err, "unmarshal version data")
	}

	return s.Update(ctx, bp, contentID, patch, actor)
}
