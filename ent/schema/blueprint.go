package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Blueprint holds the schema definition for the Blueprint entity: a
// user-defined content type with an ordered field list and behavioral
// settings (§3, §4.1).
type Blueprint struct {
	ent.Schema
}

// Mixin of the Blueprint.
func (Blueprint) Mixin() []ent.Mixin {
	return []ent.Mixin{
		TimeMixin{},
	}
}

// Fields of the Blueprint.
func (Blueprint) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("slug").
			NotEmpty().
			MaxLen(200),
		field.String("name").
			NotEmpty().
			MaxLen(200),
		field.JSON("fields", []map[string]any{}).
			Comment("ordered FieldDefinition list"),
		field.JSON("settings", map[string]any{}).
			Comment("draftMode, versioning, defaultStatus, apiAccess, titleField"),
	}
}

// Indexes of the Blueprint.
func (Blueprint) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("slug").Unique(),
	}
}
