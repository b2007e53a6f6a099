package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Version holds the schema definition for an append-only snapshot of a
// Content Item's data (§4.4).
type Version struct {
	ent.Schema
}

// Mixin of the Version.
func (Version) Mixin() []ent.Mixin {
	return []ent.Mixin{
		AuditMixin{},
	}
}

// Fields of the Version.
func (Version) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("content_id").
			NotEmpty().
			Immutable(),
		field.String("blueprint_id").
			NotEmpty().
			Immutable(),
		field.JSON("data", map[string]any{}).
			Immutable(),
		field.Int("version_number").
			Immutable(),
		field.String("created_by").
			Optional().
			Immutable(),
		field.JSON("change_summary", []map[string]any{}).
			Optional().
			Immutable(),
	}
}

// Indexes of the Version.
func (Version) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("content_id", "version_number").Unique(),
	}
}
