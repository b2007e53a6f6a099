package fieldtype

import (
	"fmt"
	"time"

	"github.com/shepherd-cms/corepress/internal/domain"
)

// dateHandler backs date and datetime. Both store an ISO-8601 string
// unchanged; Validate requires YYYY-MM-DD for date and RFC 3339 for
// datetime. "" means no value for a non-required field.
type dateHandler struct {
	kind   domain.FieldKind
	layout string
}

func newDateHandler(kind domain.FieldKind) dateHandler {
	if kind == domain.FieldKindDate {
		return dateHandler{kind: kind, layout: "2006-01-02"}
	}
	return dateHandler{kind: kind, layout: time.RFC3339}
}

func (h dateHandler) Kind() domain.FieldKind { return h.kind }

func (h dateHandler) Validate(value any, rules []domain.ValidationRule, _ Options) []FieldError {
	if isEmptyString(value) {
		return nil
	}
	s, ok := value.(string)
	if !ok {
		return []FieldError{{Message: fmt.Sprintf("%s must be a string", h.kind)}}
	}
	t, err := time.Parse(h.layout, s)
	if err != nil {
		if h.kind == domain.FieldKindDateTime {
			t, err = time.Parse(time.RFC3339Nano, s)
		}
		if err != nil {
			return []FieldError{{Message: fmt.Sprintf("must be a valid %s", h.kind)}}
		}
	}
	var errs []FieldError
	if min, ok := ruleValue(rules, "minDate"); ok {
		if ms, ok := min.(string); ok {
			if mt, err := time.Parse(h.layout, ms); err == nil && t.Before(mt) {
				errs = append(errs, FieldError{Message: fmt.Sprintf("must not be before %s", ms)})
			}
		}
	}
	if max, ok := ruleValue(rules, "maxDate"); ok {
		if ms, ok := max.(string); ok {
			if mt, err := time.Parse(h.layout, ms); err == nil && t.After(mt) {
				errs = append(errs, FieldError{Message: fmt.Sprintf("must not be after %s", ms)})
			}
		}
	}
	return errs
}

func (h dateHandler) Serialize(value any) (any, error) {
	if value == nil {
		return "", nil
	}
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("%s: value is not a string", h.kind)
	}
	return s, nil
}

func (h dateHandler) Deserialize(raw any) (any, error) {
	if raw == nil {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("%s: stored value is not a string", h.kind)
	}
	return s, nil
}

func (h dateHandler) Default(_ Options) any { return "" }
