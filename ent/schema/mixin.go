// Package schema contains Ent schema definitions for the content engine.
// These are declarative type definitions only; no generated client is
// checked in. Storage access goes through the hand-written repositories
// in internal/content, internal/plugin, and internal/webhook, which
// predate (and in places outgrew) what codegen would produce for the
// query-planning and field-type dispatch this domain needs. The schemas
// exist as the single source of truth for column shape and as a path
// to adopt the generated client later without redesigning the tables.
//
// Import Path: github.com/shepherd-cms/corepress/ent/schema
package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/mixin"
)

// TimeMixin adds created_at and updated_at fields to schemas.
type TimeMixin struct {
	mixin.Schema
}

// Fields of the TimeMixin.
func (TimeMixin) Fields() []ent.Field {
	return []ent.Field{
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

// AuditMixin adds created_at only, for append-only tables (versions,
// webhook deliveries).
type AuditMixin struct {
	mixin.Schema
}

// Fields of the AuditMixin.
func (AuditMixin) Fields() []ent.Field {
	return []ent.Field{
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
	}
}
