// Package domain holds the core entity definitions shared by every
// component of the content engine: blueprints, field definitions, content
// items, versions, relations, webhooks and webhook deliveries.
//
// Import Path: github.com/shepherd-cms/corepress/internal/domain
package domain

import "time"

// FieldKind is the closed set of field types the registry understands.
type FieldKind string

// Supported field kinds (spec §4.1).
const (
	FieldKindText       FieldKind = "text"
	FieldKindTextarea   FieldKind = "textarea"
	FieldKindRichText   FieldKind = "rich-text"
	FieldKindNumber     FieldKind = "number"
	FieldKindBoolean    FieldKind = "boolean"
	FieldKindDate       FieldKind = "date"
	FieldKindDateTime   FieldKind = "datetime"
	FieldKindSlug       FieldKind = "slug"
	FieldKindEmail      FieldKind = "email"
	FieldKindURL        FieldKind = "url"
	FieldKindSelect     FieldKind = "select"
	FieldKindMultiselect FieldKind = "multiselect"
	FieldKindJSON       FieldKind = "json"
	FieldKindMedia      FieldKind = "media"
	FieldKindRelation   FieldKind = "relation"
	FieldKindColor      FieldKind = "color"
	FieldKindLocation   FieldKind = "location"
	FieldKindReference  FieldKind = "reference"
)

// ValidationRule is one ordered rule attached to a field definition, e.g.
// {Name: "minLength", Value: 3}.
type ValidationRule struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// FieldDefinition is one entry of a blueprint's ordered field list.
type FieldDefinition struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Key        string           `json:"key"`
	Type       FieldKind        `json:"type"`
	Required   bool             `json:"required"`
	Options    map[string]any   `json:"options,omitempty"`
	Validation []ValidationRule `json:"validation,omitempty"`

	// UI hints: opaque to the core, preserved round-trip only.
	Group string `json:"group,omitempty"`
	Width string `json:"width,omitempty"`
}

// ContentAccess controls who may read published content through the API
// collaborator. The core never interprets this value itself (NEW, §3).
type ContentAccess string

const (
	AccessPublic        ContentAccess = "public"
	AccessAuthenticated ContentAccess = "authenticated"
	AccessPrivate       ContentAccess = "private"
)

// ContentStatus is the lifecycle state of a Content Item.
type ContentStatus string

const (
	StatusDraft     ContentStatus = "draft"
	StatusPublished ContentStatus = "published"
	StatusArchived  ContentStatus = "archived"
)

// BlueprintSettings are the per-blueprint behavioral switches.
type BlueprintSettings struct {
	DraftMode     bool          `json:"draftMode"`
	Versioning    bool          `json:"versioning"`
	DefaultStatus ContentStatus `json:"defaultStatus"`
	APIAccess     ContentAccess `json:"apiAccess"`

	// TitleField names the field key used to auto-derive a slug when none
	// is supplied on create (§4.3 Create algorithm).
	TitleField string `json:"titleField,omitempty"`
}

// Blueprint is a user-defined content type: an ordered field list plus
// settings.
type Blueprint struct {
	ID        string            `json:"id"`
	Slug      string            `json:"slug"`
	Name      string            `json:"name"`
	Fields    []FieldDefinition `json:"fields"`
	Settings  BlueprintSettings `json:"settings"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// FieldByKey returns the field definition with the given key, if any.
func (b *Blueprint) FieldByKey(key string) (*FieldDefinition, bool) {
	for i := range b.Fields {
		if b.Fields[i].Key == key {
			return &b.Fields[i], true
		}
	}
	return nil, false
}
