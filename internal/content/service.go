// Package content implements the Content Storage Service (component E):
// create/update/publish/unpublish/delete/get/query/rollback for typed
// content items, wiring the Blueprint Engine (B) into persistence and
// emitting Hook Orchestrator (D) events around every write.
//
// Import Path: github.com/shepherd-cms/corepress/internal/content
package content

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shepherd-cms/corepress/internal/blueprint"
	"github.com/shepherd-cms/corepress/internal/domain"
	"github.com/shepherd-cms/corepress/internal/fieldtype"
	"github.com/shepherd-cms/corepress/internal/hooks"
	apperrors "github.com/shepherd-cms/corepress/internal/pkg/errors"
	"github.com/shepherd-cms/corepress/internal/slug"
)

// Service wraps the shared connection pool plus the Blueprint Engine,
// Hook Orchestrator and Field Type Registry it coordinates around every
// content mutation (ADR-0012: one shared pgxpool, no separate ORM
// client).
type Service struct {
	pool     *pgxpool.Pool
	registry *fieldtype.Registry
	hooks    *hooks.Orchestrator
}

// NewService constructs a content Service.
func NewService(pool *pgxpool.Pool, registry *fieldtype.Registry, orchestrator *hooks.Orchestrator) *Service {
	return &Service{pool: pool, registry: registry, hooks: orchestrator}
}

// GetOptions controls Get/Query population and projection.
type GetOptions struct {
	// Populate lists relation field keys to resolve into embedded
	// content.
	Populate []string
	// IncludeMedia carries the `includeMedia` request flag (the request
	// parameter name is `includeMedia`, not `_includeMedia`; Open
	// Question, resolved in DESIGN.md). Get and Query do not read it:
	// media-kind fields are always returned as their stored asset id(s).
	IncludeMedia bool
}

func generateID(prefix string) string {
	id, err := newUUIDv7()
	if err != nil {
		return fmt.Sprintf("%s-fallback", prefix)
	}
	return fmt.Sprintf("%s-%s", prefix, id)
}

// serializeData walks bp's declared fields in order, calling each field's
// handler Serialize on the corresponding value in data. Undeclared keys
// are silently dropped (spec §4.2 rule 5).
func (s *Service) serializeData(bp *domain.Blueprint, data map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(bp.Fields))
	for _, field := range bp.Fields {
		value, present := data[field.Key]
		handler, ok := s.registry.Lookup(field.Type)
		if !ok {
			return nil, apperrors.ErrUnknownFieldKindf(string(field.Type))
		}
		if !present {
			out[field.Key] = handler.Default(field.Options)
			continue
		}
		serialized, err := handler.Serialize(value)
		if err != nil {
			return nil, apperrors.ErrFieldInvalidf(field.Key, err.Error())
		}
		out[field.Key] = serialized
	}
	return out, nil
}

// deserializeData is serializeData's inverse, used when loading a row
// back out of storage.
func (s *Service) deserializeData(bp *domain.Blueprint, raw map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(bp.Fields))
	for _, field := range bp.Fields {
		handler, ok := s.registry.Lookup(field.Type)
		if !ok {
			return nil, apperrors.ErrUnknownFieldKindf(string(field.Type))
		}
		value, err := handler.Deserialize(raw[field.Key])
		if err != nil {
			return nil, apperrors.ErrFieldInvalidf(field.Key, err.Error())
		}
		out[field.Key] = value
	}
	return out, nil
}

// deriveSlug resolves the slug to persist when the caller supplies none:
// the configured title field's value, falling back to the blueprint's
// name, normalized through component C.
func deriveSlug(bp *domain.Blueprint, data map[string]any) string {
	if bp.Settings.TitleField != "" {
		if v, ok := data[bp.Settings.TitleField]; ok {
			if s, ok := v.(string); ok && s != "" {
				return slug.Normalize(s)
			}
		}
	}
	return slug.Normalize(bp.Name)
}

// validateAndMerge runs the Blueprint Engine against merged and returns a
// structured error if it fails.
func validateAndMerge(bp *domain.Blueprint, merged map[string]any, registry *fieldtype.Registry) error {
	result := blueprint.Validate(bp, merged, registry)
	if !result.Valid {
		return apperrors.ErrValidationFailedf(result.Errors[0].Message)
	}
	return nil
}

func marshalJSON(v any) ([]byte, error) {
	if v == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(v)
}

func unmarshalJSON(raw []byte, out *map[string]any) error {
	if len(raw) == 0 {
		*out = map[string]any{}
		return nil
	}
	return json.Unmarshal(raw, out)
}

// withTx runs fn inside a transaction, committing on success and rolling
// back on any error (including a panic, which is re-raised after
// rollback).
func (s *Service) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return apperrors.ErrStorageFailuref(err, "begin transaction")
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return apperrors.ErrStorageFailuref(err, "commit transaction")
	}
	return nil
}
