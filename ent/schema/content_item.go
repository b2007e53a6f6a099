package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// ContentItem holds the schema definition for a content row conforming
// to a blueprint (§4.2).
type ContentItem struct {
	ent.Schema
}

// Mixin of the ContentItem.
func (ContentItem) Mixin() []ent.Mixin {
	return []ent.Mixin{
		TimeMixin{},
	}
}

// Fields of the ContentItem.
func (ContentItem) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("blueprint_id").
			NotEmpty().
			Immutable(),
		field.String("slug").
			Optional(),
		field.JSON("data", map[string]any{}),
		field.JSON("meta", map[string]any{}).
			Optional(),
		field.Enum("status").
			Values("draft", "published", "archived").
			Default("draft"),
		field.String("created_by").
			Optional(),
		field.String("published_by").
			Optional(),
		field.Time("published_at").
			Optional().
			Nillable(),
	}
}

// Indexes of the ContentItem.
func (ContentItem) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("blueprint_id"),
		index.Fields("blueprint_id", "slug").Unique(),
		index.Fields("status"),
	}
}
