package fieldtype

import (
	"fmt"
	"regexp"

	"github.com/shepherd-cms/corepress/internal/domain"
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// colorHandler stores a strict "#RRGGBB" hex string.
type colorHandler struct{}

func (colorHandler) Kind() domain.FieldKind { return domain.FieldKindColor }

func (colorHandler) Validate(value any, _ []domain.ValidationRule, _ Options) []FieldError {
	if isEmptyString(value) {
		return nil
	}
	s, ok := value.(string)
	if !ok || !hexColor.MatchString(s) {
		return []FieldError{{Message: "must be a hex color in #RRGGBB form"}}
	}
	return nil
}

func (colorHandler) Serialize(value any) (any, error) {
	if value == nil {
		return "", nil
	}
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("color: value is not a string")
	}
	return s, nil
}

func (colorHandler) Deserialize(raw any) (any, error) {
	if raw == nil {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("color: stored value is not a string")
	}
	return s, nil
}

func (colorHandler) Default(_ Options) any { return "" }

// locationHandler stores {lat, lng} with lat in [-90,90] and lng in
// [-180,180].
type locationHandler struct{}

func (locationHandler) Kind() domain.FieldKind { return domain.FieldKindLocation }

func (locationHandler) Validate(value any, _ []domain.ValidationRule, _ Options) []FieldError {
	if value == nil {
		return nil
	}
	m, ok := value.(map[string]any)
	if !ok {
		return []FieldError{{Message: "location must be an object with lat and lng"}}
	}
	lat, latOK := toFloat(m["lat"])
	lng, lngOK := toFloat(m["lng"])
	if !latOK || !lngOK {
		return []FieldError{{Message: "location.lat and location.lng must be numbers"}}
	}
	var errs []FieldError
	if lat < -90 || lat > 90 {
		errs = append(errs, FieldError{Message: "location.lat must be between -90 and 90"})
	}
	if lng < -180 || lng > 180 {
		errs = append(errs, FieldError{Message: "location.lng must be between -180 and 180"})
	}
	return errs
}

func (locationHandler) Serialize(value any) (any, error) {
	return value, nil
}

func (locationHandler) Deserialize(raw any) (any, error) {
	return raw, nil
}

func (locationHandler) Default(_ Options) any { return nil }

// referenceHandler stores an opaque string identifier with no format
// check beyond presence; unlike relation it carries no target metadata
// and is resolved entirely by the caller's own domain logic.
type referenceHandler struct{}

func (referenceHandler) Kind() domain.FieldKind { return domain.FieldKindReference }

func (referenceHandler) Validate(value any, _ []domain.ValidationRule, _ Options) []FieldError {
	if isEmptyString(value) {
		return nil
	}
	if _, ok := value.(string); !ok {
		return []FieldError{{Message: "reference must be a string"}}
	}
	return nil
}

func (referenceHandler) Serialize(value any) (any, error) {
	if value == nil {
		return "", nil
	}
	s, ok := value.(string)
	if !ok {
		return nil, fmt.Errorf("reference: value is not a string")
	}
	return s, nil
}

func (referenceHandler) Deserialize(raw any) (any, error) {
	if raw == nil {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("reference: stored value is not a string")
	}
	return s, nil
}

func (referenceHandler) Default(_ Options) any { return "" }
