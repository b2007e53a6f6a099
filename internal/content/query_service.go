package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/shepherd-cms/corepress/internal/domain"
	"github.com/shepherd-cms/corepress/internal/query"
	apperrors "github.com/shepherd-cms/corepress/internal/pkg/errors"
)

// Page is one page of content items returned by Query.
type Page struct {
	Items      []*domain.ContentItem
	Page       int
	Total      int
	TotalPages int
}

var topLevelColumns = map[string]string{
	"id":          "id",
	"slug":        "slug",
	"status":      "status",
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
	"publishedAt": "published_at",
}

var operatorSQL = map[query.Operator]string{
	query.OpEq:  "=",
	query.OpNe:  "!=",
	query.OpGt:  ">",
	query.OpGte: ">=",
	query.OpLt:  "<",
	query.OpLte: "<=",
}

// Query applies a planner-produced PlannedQuery against bp's content
// items: filters become a WHERE clause in declared order, sort is
// restricted to declared fields (unknown fields are ignored), and
// pagination is already clamped by the planner.
func (s *Service) Query(ctx context.Context, bp *domain.Blueprint, planned query.PlannedQuery, options GetOptions) (Page, error) {
	where, args := s.buildWhere(bp, planned.Filters)
	orderBy := s.buildOrderBy(bp, planned.Sort)

	var total int
	countSQL := `SELECT COUNT(*) FROM contents WHERE blueprint_id = $1` + where
	countArgs := append([]any{bp.ID}, args...)
	if err := s.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return Page{}, apperrors.ErrStorageFailuref(err, "count content")
	}

	offset := (planned.Page - 1) * planned.Limit
	listSQL := fmt.Sprintf(`
		SELECT `+contentColumns+`
		FROM contents
		WHERE blueprint_id = $1 %s
		%s
		LIMIT %d OFFSET %d
	`, where, orderBy, planned.Limit, offset)

	rows, err := s.pool.Query(ctx, listSQL, countArgs...)
	if err != nil {
		return Page{}, apperrors.ErrStorageFailuref(err, "query content")
	}
	defer rows.Close()

	var items []*domain.ContentItem
	for rows.Next() {
		item := &domain.ContentItem{}
		var dataRaw []byte
		if err := rows.Scan(
			&item.ID, &item.BlueprintID, &item.Slug, &dataRaw, &item.Status,
			&item.CreatedBy, &item.PublishedBy, &item.CreatedAt, &item.UpdatedAt, &item.PublishedAt,
		); err != nil {
			return Page{}, apperrors.ErrStorageFailuref(err, "scan content row")
		}
		var raw map[string]any
		if err := unmarshalJSON(dataRaw, &raw); err != nil {
			return Page{}, apperrors.ErrStorageFailuref(err, "unmarshal content data")
		}
		deserialized, err := s.deserializeData(bp, raw)
		if err != nil {
			return Page{}, err
		}
		item.Data = deserialized
		items = append(items, item)
	}

	totalPages := total / planned.Limit
	if total%planned.Limit != 0 {
		totalPages++
	}
	if totalPages == 0 {
		totalPages = 1
	}

	return Page{Items: items, Page: planned.Page, Total: total, TotalPages: totalPages}, nil
}

// buildWhere turns planned filters into a parameterized WHERE clause
// fragment, in the order the planner produced them.
func (s *Service) buildWhere(bp *domain.Blueprint, filters []query.Filter) (string, []any) {
	var clauses []string
	var args []any
	argIndex := 2 // $1 is blueprint_id

	for _, f := range filters {
		column, isJSON := resolveColumn(bp, f.Field)
		if column == "" {
			continue
		}
		var expr string
		switch f.Op {
		case query.OpIn, query.OpNin:
			op := "= ANY"
			if f.Op == query.OpNin {
				op = "!= ALL"
			}
			expr = fmt.Sprintf("%s %s($%d)", column, op, argIndex)
			args = append(args, f.Values)
			argIndex++
		case query.OpContains:
			expr = fmt.Sprintf("%s ILIKE '%%' || $%d || '%%'", column, argIndex)
			args = append(args, f.Value)
			argIndex++
		case query.OpStartsWith:
			expr = fmt.Sprintf("%s ILIKE $%d || '%%'", column, argIndex)
			args = append(args, f.Value)
			argIndex++
		case query.OpEndsWith:
			expr = fmt.Sprintf("%s ILIKE '%%' || $%d", column, argIndex)
			args = append(args, f.Value)
			argIndex++
		default:
			sqlOp, ok := operatorSQL[f.Op]
			if !ok {
				continue
			}
			expr = fmt.Sprintf("%s %s $%d", column, sqlOp, argIndex)
			args = append(args, f.Value)
			argIndex++
		}
		_ = isJSON
		clauses = append(clauses, expr)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " AND " + strings.Join(clauses, " AND "), args
}

func (s *Service) buildOrderBy(bp *domain.Blueprint, sorts []query.SortClause) string {
	var parts []string
	for _, sc := range sorts {
		column, _ := resolveColumn(bp, sc.Field)
		if column == "" {
			continue
		}
		dir := "ASC"
		if sc.Direction == "desc" {
			dir = "DESC"
		}
		parts = append(parts, fmt.Sprintf("%s %s", column, dir))
	}
	if len(parts) == 0 {
		return "ORDER BY created_at DESC"
	}
	return "ORDER BY " + strings.Join(parts, ", ")
}

// resolveColumn maps a planned query field name to a SQL expression:
// known top-level columns resolve directly, declared blueprint fields
// resolve to a JSON text extraction, and anything else resolves to ""
// (meaning: ignore this field, per spec.md's "unknown sort field is
// ignored with a warning").
func resolveColumn(bp *domain.Blueprint, field string) (string, bool) {
	if col, ok := topLevelColumns[field]; ok {
		return col, false
	}
	if _, ok := bp.FieldByKey(field); ok {
		return fmt.Sprintf("data->>'%s'", field), true
	}
	return "", false
}
