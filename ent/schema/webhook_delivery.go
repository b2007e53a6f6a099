package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// WebhookDelivery holds the schema definition for one append-only HTTP
// delivery attempt record (§4.7).
type WebhookDelivery struct {
	ent.Schema
}

// Mixin of the WebhookDelivery.
func (WebhookDelivery) Mixin() []ent.Mixin {
	return []ent.Mixin{
		AuditMixin{},
	}
}

// Fields of the WebhookDelivery.
func (WebhookDelivery) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Unique().
			Immutable(),
		field.String("webhook_id").
			NotEmpty().
			Immutable(),
		field.String("event").
			NotEmpty().
			Immutable(),
		field.Int("attempt").
			Immutable(),
		field.Int("status_code").
			Optional(),
		field.Bool("success").
			Default(false),
		field.Text("response").
			Optional(),
		field.Int64("duration_ms").
			Optional(),
		field.Text("error").
			Optional(),
		field.Time("completed_at").
			Optional().
			Nillable(),
	}
}

// Indexes of the WebhookDelivery.
func (WebhookDelivery) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("webhook_id", "created_at"),
	}
}
