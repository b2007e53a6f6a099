package content

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/shepherd-cms/corepress/internal/domain"
	"github.com/shepherd-cms/corepress/internal/hooks"
	apperrors "github.com/shepherd-cms/corepress/internal/pkg/errors"
)

type relationRow struct {
	id           string
	sourceID     string
	targetID     string
	deletePolicy domain.RelationDeletePolicy
}

// Delete removes a content item and, per each relation's delete policy,
// its related content: restrict aborts the whole operation, cascade
// recursively deletes the related content (depth-first, with a visited
// set to stay cycle-safe), set-null drops only the relation row. Deletion
// policy is enforced here, application-side — the relations table itself
// carries no DB-level cascade (§3).
func (s *Service) Delete(ctx context.Context, bp *domain.Blueprint, idOrSlug, actor string) error {
	var deletedID string
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		item, _, err := loadRawRow(ctx, tx, bp.ID, idOrSlug)
		if err != nil {
			return err
		}
		deletedID = item.ID
		visited := map[string]bool{}
		return s.deleteRecursive(ctx, tx, item.ID, visited)
	})
	if err != nil {
		return err
	}

	s.hooks.Emit(ctx, "content:afterDelete", map[string]any{"id": deletedID, "actor": actor}, hooks.Continue)
	return nil
}

func (s *Service) deleteRecursive(ctx context.Context, tx pgx.Tx, contentID string, visited map[string]bool) error {
	if visited[contentID] {
		return nil
	}
	visited[contentID] = true

	relations, err := loadRelations(ctx, tx, contentID)
	if err != nil {
		return err
	}

	for _, rel := range relations {
		other := rel.sourceID
		if other == contentID {
			other = rel.targetID
		}

		switch rel.deletePolicy {
		case domain.RelationPolicyRestrict:
			return apperrors.ErrRelationRestrictf(other, 1)
		case domain.RelationPolicyCascade:
			if err := s.deleteRecursive(ctx, tx, other, visited); err != nil {
				return err
			}
		case domain.RelationPolicySetNull:
			// falls through to relation row deletion below
		}

		if _, err := tx.Exec(ctx, `DELETE FROM relations WHERE id = $1`, rel.id); err != nil {
			return apperrors.ErrStorageFailuref(err, "delete relation")
		}
	}

	if _, err := tx.Exec(ctx, `DELETE FROM versions WHERE content_id = $1`, contentID); err != nil {
		return apperrors.ErrStorageFailuref(err, "delete versions")
	}
	if _, err := tx.Exec(ctx, `DELETE FROM contents WHERE id = $1`, contentID); err != nil {
		return apperrors.ErrStorageFailuref(err, "delete content")
	}
	return nil
}

func loadRelations(ctx context.Context, tx pgx.Tx, contentID string) ([]relationRow, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, source_content_id, target_content_id, delete_policy
		FROM relations
		WHERE source_content_id = $1 OR target_content_id = $1
	`, contentID)
	if err != nil {
		return nil, apperrors.ErrStorageFailuref(err, "query relations")
	}
	defer rows.Close()

	var out []relationRow
	for rows.Next() {
		var r relationRow
		if err := rows.Scan(&r.id, &r.sourceID, &r.targetID, &r.deletePolicy); err != nil {
			return nil, apperrors.ErrStorageFailuref(err, "scan relation")
		}
		out = append(out, r)
	}
	return out, nil
}
