package fieldtype

import (
	"fmt"

	"github.com/shepherd-cms/corepress/internal/domain"
)

// mediaHandler stores a single media asset ID, or (when options["multiple"]
// is true) an array of IDs. Only the shape is checked; no component checks
// that the referenced asset exists.
type mediaHandler struct{}

func (mediaHandler) Kind() domain.FieldKind { return domain.FieldKindMedia }

func (mediaHandler) Validate(value any, _ []domain.ValidationRule, options Options) []FieldError {
	if boolOption(options, "multiple") {
		if _, ok := toStringSlice(value); !ok {
			return []FieldError{{Message: "media must be an array of asset ids"}}
		}
		return nil
	}
	if value == nil || isEmptyString(value) {
		return nil
	}
	if _, ok := value.(string); !ok {
		return []FieldError{{Message: "media must be an asset id string"}}
	}
	return nil
}

func (mediaHandler) Serialize(value any) (any, error) {
	return value, nil
}

func (mediaHandler) Deserialize(raw any) (any, error) {
	return raw, nil
}

func (mediaHandler) Default(options Options) any {
	if boolOption(options, "multiple") {
		return []string{}
	}
	return ""
}

// relationHandler stores a single relation target {id, blueprint, ...} or,
// for to-many relations, an array of such objects. Delete-policy
// enforcement lives in the Content Storage Service (§4.3). Whether the
// target item exists is not checked, here or on write.
type relationHandler struct{}

func (relationHandler) Kind() domain.FieldKind { return domain.FieldKindRelation }

func (relationHandler) Validate(value any, _ []domain.ValidationRule, options Options) []FieldError {
	many := boolOption(options, "many")
	if many {
		items, ok := value.([]any)
		if !ok && value != nil {
			return []FieldError{{Message: "relation must be an array"}}
		}
		for _, item := range items {
			if err := validateRelationTarget(item); err != nil {
				return []FieldError{{Message: err.Error()}}
			}
		}
		return nil
	}
	if value == nil {
		return nil
	}
	if err := validateRelationTarget(value); err != nil {
		return []FieldError{{Message: err.Error()}}
	}
	return nil
}

func validateRelationTarget(v any) error {
	m, ok := v.(map[string]any)
	if !ok {
		return fmt.Errorf("relation target must be an object with an id")
	}
	if _, ok := m["id"].(string); !ok {
		return fmt.Errorf("relation target is missing an id")
	}
	return nil
}

func (relationHandler) Serialize(value any) (any, error) {
	return value, nil
}

func (relationHandler) Deserialize(raw any) (any, error) {
	return raw, nil
}

func (relationHandler) Default(options Options) any {
	if boolOption(options, "many") {
		return []any{}
	}
	return nil
}
