package fieldtype

import (
	"encoding/json"

	"github.com/shepherd-cms/corepress/internal/domain"
)

// jsonHandler accepts any JSON-representable value verbatim; there is no
// schema to validate against beyond "it round-trips through json.Marshal".
type jsonHandler struct{}

func (jsonHandler) Kind() domain.FieldKind { return domain.FieldKindJSON }

func (jsonHandler) Validate(value any, _ []domain.ValidationRule, _ Options) []FieldError {
	if value == nil {
		return nil
	}
	if _, err := json.Marshal(value); err != nil {
		return []FieldError{{Message: "value is not valid JSON"}}
	}
	return nil
}

func (jsonHandler) Serialize(value any) (any, error) {
	return value, nil
}

func (jsonHandler) Deserialize(raw any) (any, error) {
	if s, ok := raw.(string); ok {
		var v any
		if err := json.Unmarshal([]byte(s), &v); err != nil {
			return nil, nil
		}
		return v, nil
	}
	return raw, nil
}

func (jsonHandler) Default(_ Options) any { return nil }
