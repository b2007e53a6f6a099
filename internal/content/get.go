package content

import (
	"context"
	"time"

	"github.com/shepherd-cms/corepress/internal/domain"
	"github.com/shepherd-cms/corepress/internal/hooks"
	apperrors "github.com/shepherd-cms/corepress/internal/pkg/errors"
)

// Get loads one content item by id or slug, deserializes its data via the
// Field Type Registry, resolves any requested populate paths, and runs
// the content:afterGet filter hook so plugins may inject synthetic
// fields.
func (s *Service) Get(ctx context.Context, bp *domain.Blueprint, idOrSlug string, options GetOptions) (*domain.ContentItem, error) {
	item, dataRaw, err := loadRawRow(ctx, s.pool, bp.ID, idOrSlug)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := unmarshalJSON(dataRaw, &raw); err != nil {
		return nil, apperrors.ErrStorageFailuref(err, "unmarshal content data")
	}
	deserialized, err := s.deserializeData(bp, raw)
	if err != nil {
		return nil, err
	}
	item.Data = deserialized

	if len(options.Populate) > 0 {
		populated, err := s.populate(ctx, item.Data, options.Populate)
		if err != nil {
			return nil, err
		}
		if item.Meta == nil {
			item.Meta = map[string]any{}
		}
		item.Meta["populated"] = populated
	}

	finalData, filterErrs := s.hooks.Filter(ctx, "content:afterGet", item.Data, hooks.Continue)
	_ = filterErrs // afterGet errors are collected, never fail the read
	item.Data = finalData

	return item, nil
}

// populate resolves relation field values found in data for each
// requested path. All distinct target ids across a path are fetched in a
// single `WHERE id = ANY($1)` round trip, never one query per id.
func (s *Service) populate(ctx context.Context, data map[string]any, paths []string) (map[string]any, error) {
	result := make(map[string]any, len(paths))
	for _, path := range paths {
		ids := relationIDs(data[path])
		if len(ids) == 0 {
			continue
		}
		rows, err := s.pool.Query(ctx, `
			SELECT id, blueprint_id, slug, data, status, created_at, updated_at
			FROM contents
			WHERE id = ANY($1)
		`, ids)
		if err != nil {
			return nil, apperrors.ErrStorageFailuref(err, "populate "+path)
		}
		defer rows.Close()

		byID := make(map[string]map[string]any, len(ids))
		for rows.Next() {
			var (
				id, blueprintID, itemSlug, status string
				dataRaw                           []byte
				createdAt, updatedAt              time.Time
			)
			if err := rows.Scan(&id, &blueprintID, &itemSlug, &dataRaw, &status, &createdAt, &updatedAt); err != nil {
				return nil, apperrors.ErrStorageFailuref(err, "scan populate row")
			}
			var raw map[string]any
			_ = unmarshalJSON(dataRaw, &raw)
			byID[id] = map[string]any{
				"id": id, "blueprintId": blueprintID, "slug": itemSlug,
				"data": raw, "status": status,
			}
		}
		result[path] = byID
	}
	return result, nil
}

// relationIDs extracts target content ids from a relation field's value,
// which is either a single {id,...} object or a slice of them.
func relationIDs(value any) []string {
	switch v := value.(type) {
	case map[string]any:
		if id, ok := v["id"].(string); ok {
			return []string{id}
		}
	case []any:
		var ids []string
		for _, entry := range v {
			if m, ok := entry.(map[string]any); ok {
				if id, ok := m["id"].(string); ok {
					ids = append(ids, id)
				}
			}
		}
		return ids
	}
	return nil
}
