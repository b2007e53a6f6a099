package fieldtype

import (
	"fmt"

	"github.com/shepherd-cms/corepress/internal/domain"
)

// selectHandler stores a single string that must be one of
// options["options"][*]["value"]. "" means no value for a non-required
// field.
type selectHandler struct{}

func (selectHandler) Kind() domain.FieldKind { return domain.FieldKindSelect }

func (selectHandler) Validate(value any, _ []domain.ValidationRule, options Options) []FieldError {
	if isEmptyString(value) {
		return nil
	}
	s, ok := value.(string)
	if !ok {
		return []FieldError{{Message: "select must be a string"}}
	}
	allowed := optionValues(options)
	if len(allowed) > 0 && !allowed[s] {
		return []FieldError{{Message: fmt.Sprintf("%q is not one of the allowed options", s)}}
	}
	return nil
}

func (selectHandler) Serialize(value any) (any, error) {
	if value == nil {
		return "", nil
	}
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("select: value is not a string")
	}
	return s, nil
}

func (selectHandler) Deserialize(raw any) (any, error) {
	if raw == nil {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("select: stored value is not a string")
	}
	return s, nil
}

func (selectHandler) Default(_ Options) any { return "" }

// multiselectHandler stores a slice of strings, each drawn from the same
// allowed set as select. An empty slice means no value.
type multiselectHandler struct{}

func (multiselectHandler) Kind() domain.FieldKind { return domain.FieldKindMultiselect }

func (multiselectHandler) Validate(value any, _ []domain.ValidationRule, options Options) []FieldError {
	items, ok := toStringSlice(value)
	if !ok {
		return []FieldError{{Message: "multiselect must be an array of strings"}}
	}
	allowed := optionValues(options)
	var errs []FieldError
	for _, s := range items {
		if len(allowed) > 0 && !allowed[s] {
			errs = append(errs, FieldError{Message: fmt.Sprintf("%q is not one of the allowed options", s)})
		}
	}
	return errs
}

func (multiselectHandler) Serialize(value any) (any, error) {
	items, ok := toStringSlice(value)
	if !ok {
		return nil, fmt.Errorf("multiselect: value is not an array of strings")
	}
	return items, nil
}

func (multiselectHandler) Deserialize(raw any) (any, error) {
	items, ok := toStringSlice(raw)
	if !ok {
		return nil, fmt.Errorf("multiselect: stored value is not an array of strings")
	}
	return items, nil
}

func (multiselectHandler) Default(_ Options) any { return []string{} }

func optionValues(o Options) map[string]bool {
	if o == nil {
		return nil
	}
	raw, ok := o["options"].([]any)
	if !ok {
		return nil
	}
	out := make(map[string]bool, len(raw))
	for _, entry := range raw {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if v, ok := m["value"].(string); ok {
			out[v] = true
		}
	}
	return out
}

func toStringSlice(value any) ([]string, bool) {
	if value == nil {
		return []string{}, true
	}
	raw, ok := value.([]any)
	if ok {
		out := make([]string, 0, len(raw))
		for _, v := range raw {
			s, ok := v.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	if ss, ok := value.([]string); ok {
		return ss, true
	}
	return nil, false
}
