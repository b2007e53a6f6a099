package content

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shepherd-cms/corepress/internal/domain"
	apperrors "github.com/shepherd-cms/corepress/internal/pkg/errors"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, letting row
// loaders run either inside or outside a transaction.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var _ querier = (*pgxpool.Pool)(nil)
var _ querier = (pgx.Tx)(nil)

const contentColumns = `id, blueprint_id, slug, data, status, created_by, published_by, created_at, updated_at, published_at`

// loadRawRow fetches one content row by id or slug (within blueprintID)
// without deserializing its data.
func loadRawRow(ctx context.Context, q querier, blueprintID, idOrSlug string) (*domain.ContentItem, []byte, error) {
	item := &domain.ContentItem{}
	var dataRaw []byte

	row := q.QueryRow(ctx, `
		SELECT `+contentColumns+`
		FROM contents
		WHERE blueprint_id = $1 AND (id = $2 OR slug = $2)
	`, blueprintID, idOrSlug)

	err := row.Scan(
		&item.ID, &item.BlueprintID, &item.Slug, &dataRaw, &item.Status,
		&item.CreatedBy, &item.PublishedBy, &item.CreatedAt, &item.UpdatedAt, &item.PublishedAt,
	)
	if err != nil {
		return nil, nil, apperrors.NotFound(apperrors.CodeContentNotFound, fmt.Sprintf("content %q not found", idOrSlug))
	}
	return item, dataRaw, nil
}
