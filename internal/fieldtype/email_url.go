package fieldtype

import (
	"fmt"
	"net/mail"
	"net/url"

	"github.com/shepherd-cms/corepress/internal/domain"
)

// emailHandler always validates the mail-address shape, regardless of
// whether the blueprint author declared any rule — unlike text, the
// format check is intrinsic to the kind.
type emailHandler struct{}

func (emailHandler) Kind() domain.FieldKind { return domain.FieldKindEmail }

func (emailHandler) Validate(value any, _ []domain.ValidationRule, _ Options) []FieldError {
	if isEmptyString(value) {
		return nil
	}
	s, ok := value.(string)
	if !ok {
		return []FieldError{{Message: "email must be a string"}}
	}
	if _, err := mail.ParseAddress(s); err != nil {
		return []FieldError{{Message: "must be a valid email address"}}
	}
	return nil
}

func (emailHandler) Serialize(value any) (any, error) {
	if value == nil {
		return "", nil
	}
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("email: value is not a string")
	}
	return s, nil
}

func (emailHandler) Deserialize(raw any) (any, error) {
	if raw == nil {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("email: stored value is not a string")
	}
	return s, nil
}

func (emailHandler) Default(_ Options) any { return "" }

// urlHandler always validates that the value parses as an absolute URL.
type urlHandler struct{}

func (urlHandler) Kind() domain.FieldKind { return domain.FieldKindURL }

func (urlHandler) Validate(value any, _ []domain.ValidationRule, _ Options) []FieldError {
	if isEmptyString(value) {
		return nil
	}
	s, ok := value.(string)
	if !ok {
		return []FieldError{{Message: "url must be a string"}}
	}
	u, err := url.Parse(s)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return []FieldError{{Message: "must be an absolute URL"}}
	}
	return nil
}

func (urlHandler) Serialize(value any) (any, error) {
	if value == nil {
		return "", nil
	}
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("url: value is not a string")
	}
	return s, nil
}

func (urlHandler) Deserialize(raw any) (any, error) {
	if raw == nil {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("url: stored value is not a string")
	}
	return s, nil
}

func (urlHandler) Default(_ Options) any { return "" }
