package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Relation holds the schema definition for a directed edge between two
// Content Items (§3, relation field kind).
type Relation struct {
	ent.Schema
}

// Mixin of the Relation.
func (Relation) Mixin() []ent.Mixin {
	return []ent.Mixin{
		AuditMixin{},
	}
}

// Fields of the Relation.
func (Relation) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("source_content_id").
			NotEmpty().
			Immutable(),
		field.String("target_content_id").
			NotEmpty().
			Immutable(),
		field.Enum("type").
			Values("one-to-one", "one-to-many", "many-to-many").
			Immutable(),
		field.Enum("delete_policy").
			Values("restrict", "cascade", "set-null").
			Default("restrict").
			Comment("enforced application-side, never via DB cascade"),
		field.JSON("metadata", map[string]any{}).
			Optional(),
	}
}

// Indexes of the Relation.
func (Relation) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("source_content_id"),
		index.Fields("target_content_id"),
	}
}
