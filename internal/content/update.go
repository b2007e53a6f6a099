package content

import (
	"context"
	"reflect"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/shepherd-cms/corepress/internal/domain"
	"github.com/shepherd-cms/corepress/internal/hooks"
	apperrors "github.com/shepherd-cms/corepress/internal/pkg/errors"
)

// Update loads the current row, shallow-merges patch over its top-level
// data keys, validates the merged result via the Blueprint Engine,
// computes a field-by-field change summary over serialized values, and
// writes a new version when versioning is enabled and something changed.
func (s *Service) Update(ctx context.Context, bp *domain.Blueprint, idOrSlug string, patch map[string]any, actor string) (*domain.ContentItem, error) {
	var updated *domain.ContentItem

	err := s.withTx(ctx, func(tx pgx.Tx) error {
		item, dataRaw, err := loadRawRow(ctx, tx, bp.ID, idOrSlug)
		if err != nil {
			return err
		}

		var currentSerialized map[string]any
		if err := unmarshalJSON(dataRaw, &currentSerialized); err != nil {
			return apperrors.ErrStorageFailuref(err, "unmarshal content data")
		}
		current, err := s.deserializeData(bp, currentSerialized)
		if err != nil {
			return err
		}

		merged := make(map[string]any, len(current)+len(patch))
		for k, v := range current {
			merged[k] = v
		}
		for k, v := range patch {
			merged[k] = v
		}

		if err := validateAndMerge(bp, merged, s.registry); err != nil {
			return err
		}

		filtered, filterErrs := s.hooks.Filter(ctx, "content:beforeUpdate", merged, hooks.Stop)
		if len(filterErrs) > 0 {
			return apperrors.ErrValidationFailedf(filterErrs[0].Error())
		}

		nextSerialized, err := s.serializeData(bp, filtered)
		if err != nil {
			return err
		}

		changes := diffSerialized(bp, currentSerialized, nextSerialized)

		item.Data = filtered
		item.UpdatedAt = time.Now().UTC()

		dataOut, err := marshalJSON(nextSerialized)
		if err != nil {
			return apperrors.ErrStorageFailuref(err, "marshal content data")
		}
		_, err = tx.Exec(ctx, `UPDATE contents SET data = $1, updated_at = $2 WHERE id = $3`, dataOut, item.UpdatedAt, item.ID)
		if err != nil {
			return apperrors.ErrStorageFailuref(err, "update content")
		}

		if bp.Settings.Versioning && len(changes) > 0 {
			maxVersion, err := s.maxVersionNumber(ctx, tx, item.ID)
			if err != nil {
				return err
			}
			if err := s.writeVersion(ctx, tx, item, maxVersion+1, changes, actor); err != nil {
				return err
			}
		}

		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.hooks.Emit(ctx, "content:afterUpdate", map[string]any{
		"id":          updated.ID,
		"blueprintId": updated.BlueprintID,
		"actor":       actor,
	}, hooks.Continue)

	return updated, nil
}

// diffSerialized returns the ordered list of fields (in blueprint
// declaration order) whose serialized form changed between old and next.
func diffSerialized(bp *domain.Blueprint, old, next map[string]any) []domain.FieldChange {
	var changes []domain.FieldChange
	for _, field := range bp.Fields {
		oldVal, nextVal := old[field.Key], next[field.Key]
		if !reflect.DeepEqual(oldVal, nextVal) {
			changes = append(changes, domain.FieldChange{
				Field: field.Key,
				Old:   oldVal,
				New:   nextVal,
			})
		}
	}
	return changes
}
