package fieldtype

import (
	"fmt"
	"regexp"

	"github.com/shepherd-cms/corepress/internal/domain"
)

// textHandler backs text, textarea and rich-text. All three share the same
// storage shape (plain string) and validation rules; only the Kind differs.
type textHandler struct {
	kind domain.FieldKind
}

func newTextHandler(kind domain.FieldKind) textHandler {
	return textHandler{kind: kind}
}

func (h textHandler) Kind() domain.FieldKind { return h.kind }

func (h textHandler) Validate(value any, rules []domain.ValidationRule, _ Options) []FieldError {
	if isEmptyString(value) {
		return nil
	}
	s, ok := value.(string)
	if !ok {
		return []FieldError{{Message: fmt.Sprintf("%s must be a string", h.kind)}}
	}
	var errs []FieldError
	if min, ok := ruleValue(rules, "minLength"); ok {
		if n, ok := toInt(min); ok && len(s) < n {
			errs = append(errs, FieldError{Message: fmt.Sprintf("must be at least %d characters", n)})
		}
	}
	if max, ok := ruleValue(rules, "maxLength"); ok {
		if n, ok := toInt(max); ok && len(s) > n {
			errs = append(errs, FieldError{Message: fmt.Sprintf("must be at most %d characters", n)})
		}
	}
	// Pattern is only checked when the blueprint author declared it; text
	// kinds never infer a format on their own.
	if pat, ok := ruleValue(rules, "pattern"); ok {
		if p, ok := pat.(string); ok {
			re, err := regexp.Compile(p)
			if err == nil && !re.MatchString(s) {
				errs = append(errs, FieldError{Message: "does not match required pattern"})
			}
		}
	}
	return errs
}

func (h textHandler) Serialize(value any) (any, error) {
	if value == nil {
		return "", nil
	}
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("%s: value is not a string", h.kind)
	}
	return s, nil
}

func (h textHandler) Deserialize(raw any) (any, error) {
	if raw == nil {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("%s: stored value is not a string", h.kind)
	}
	return s, nil
}

func (h textHandler) Default(_ Options) any { return "" }

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
