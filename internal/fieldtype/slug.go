package fieldtype

import (
	"fmt"

	"github.com/shepherd-cms/corepress/internal/domain"
	slugpkg "github.com/shepherd-cms/corepress/internal/slug"
)

// slugHandler stores a slug string. Validate does not normalize; it only
// checks the value already matches the storage-layer pattern. Slug-kind
// field values are not normalized on write either, so a value that does
// not match is rejected rather than rewritten.
type slugHandler struct{}

func (slugHandler) Kind() domain.FieldKind { return domain.FieldKindSlug }

func (slugHandler) Validate(value any, _ []domain.ValidationRule, _ Options) []FieldError {
	if isEmptyString(value) {
		return nil
	}
	s, ok := value.(string)
	if !ok {
		return []FieldError{{Message: "slug must be a string"}}
	}
	if !slugpkg.Valid(s) {
		return []FieldError{{Message: "slug must match ^[a-z0-9-]+$"}}
	}
	return nil
}

func (slugHandler) Serialize(value any) (any, error) {
	if value == nil {
		return "", nil
	}
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("slug: value is not a string")
	}
	return s, nil
}

func (slugHandler) Deserialize(raw any) (any, error) {
	if raw == nil {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("slug: stored value is not a string")
	}
	return s, nil
}

func (slugHandler) Default(_ Options) any { return "" }
