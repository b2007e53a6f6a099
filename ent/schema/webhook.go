package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Webhook holds the schema definition for a registered subscription to
// a closed set of emitted events (§4.7).
type Webhook struct {
	ent.Schema
}

// Mixin of the Webhook.
func (Webhook) Mixin() []ent.Mixin {
	return []ent.Mixin{
		TimeMixin{},
	}
}

// Fields of the Webhook.
func (Webhook) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("name").
			NotEmpty(),
		field.String("url").
			NotEmpty(),
		field.JSON("events", []string{}),
		field.JSON("headers", map[string]string{}).
			Optional(),
		field.String("secret").
			Sensitive().
			Optional(),
		field.Bool("is_active").
			Default(true),
	}
}

// Indexes of the Webhook.
func (Webhook) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("is_active"),
	}
}
