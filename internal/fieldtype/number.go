package fieldtype

import (
	"fmt"

	"github.com/shepherd-cms/corepress/internal/domain"
)

// numberHandler stores float64; nil means "no value" for non-required
// fields (unlike text kinds, "" is not a valid number representation).
type numberHandler struct{}

func (numberHandler) Kind() domain.FieldKind { return domain.FieldKindNumber }

func (numberHandler) Validate(value any, rules []domain.ValidationRule, _ Options) []FieldError {
	if value == nil {
		return nil
	}
	n, ok := toFloat(value)
	if !ok {
		return []FieldError{{Message: "must be a number"}}
	}
	var errs []FieldError
	if _, ok := ruleValue(rules, "integer"); ok {
		if n != float64(int64(n)) {
			errs = append(errs, FieldError{Message: "must be an integer"})
		}
	}
	if min, ok := ruleValue(rules, "min"); ok {
		if m, ok := toFloat(min); ok && n < m {
			errs = append(errs, FieldError{Message: fmt.Sprintf("must be at least %v", m)})
		}
	}
	if max, ok := ruleValue(rules, "max"); ok {
		if m, ok := toFloat(max); ok && n > m {
			errs = append(errs, FieldError{Message: fmt.Sprintf("must be at most %v", m)})
		}
	}
	return errs
}

func (numberHandler) Serialize(value any) (any, error) {
	if value == nil {
		return nil, nil
	}
	n, ok := toFloat(value)
	if !ok {
		return nil, fmt.Errorf("number: value is not numeric")
	}
	return n, nil
}

func (numberHandler) Deserialize(raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	n, ok := toFloat(raw)
	if !ok {
		return nil, fmt.Errorf("number: stored value is not numeric")
	}
	return n, nil
}

func (numberHandler) Default(_ Options) any { return nil }

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
