package fieldtype

import "github.com/shepherd-cms/corepress/internal/domain"

// booleanHandler: true/false, or "" meaning no value for a non-required
// field. Unlike other kinds, false is never treated as "no value" — only
// the empty string sentinel is.
type booleanHandler struct{}

func (booleanHandler) Kind() domain.FieldKind { return domain.FieldKindBoolean }

func (booleanHandler) Validate(value any, _ []domain.ValidationRule, _ Options) []FieldError {
	if isEmptyString(value) || value == nil {
		return nil
	}
	if _, ok := value.(bool); !ok {
		return []FieldError{{Message: "must be a boolean"}}
	}
	return nil
}

func (booleanHandler) Serialize(value any) (any, error) {
	b, _ := value.(bool)
	return b, nil
}

func (booleanHandler) Deserialize(raw any) (any, error) {
	b, _ := raw.(bool)
	return b, nil
}

func (booleanHandler) Default(_ Options) any { return false }
