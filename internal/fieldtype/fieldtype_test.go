package fieldtype

import (
	"testing"

	"github.com/shepherd-cms/corepress/internal/domain"
)

func TestNewRegistry_RegistersAllBuiltinKinds(t *testing.T) {
	r := NewRegistry()
	kinds := []domain.FieldKind{
		domain.FieldKindText, domain.FieldKindTextarea, domain.FieldKindRichText,
		domain.FieldKindNumber, domain.FieldKindBoolean, domain.FieldKindDate,
		domain.FieldKindDateTime, domain.FieldKindSlug, domain.FieldKindEmail,
		domain.FieldKindURL, domain.FieldKindSelect, domain.FieldKindMultiselect,
		domain.FieldKindJSON, domain.FieldKindMedia, domain.FieldKindRelation,
		domain.FieldKindColor, domain.FieldKindLocation, domain.FieldKindReference,
	}
	if len(kinds) != 18 {
		t.Fatalf("test fixture itself should enumerate all 18 kinds, got %d", len(kinds))
	}
	for _, k := range kinds {
		h, ok := r.Lookup(k)
		if !ok {
			t.Errorf("kind %q not registered", k)
			continue
		}
		if h.Kind() != k {
			t.Errorf("handler for %q reports Kind() = %q", k, h.Kind())
		}
	}
}

func TestRegistry_RegisterRejectsBuiltinOverride(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(newTextHandler(domain.FieldKindText)); err == nil {
		t.Error("expected error overriding built-in kind")
	}
}

func TestRegistry_RegisterAcceptsNewKind(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(newTextHandler(domain.FieldKind("custom"))); err != nil {
		t.Fatalf("unexpected error registering new kind: %v", err)
	}
	if _, ok := r.Lookup(domain.FieldKind("custom")); !ok {
		t.Error("custom kind not found after Register")
	}
}

func TestTextHandler_EmptyStringMeansNoValue(t *testing.T) {
	h := newTextHandler(domain.FieldKindText)
	if errs := h.Validate("", []domain.ValidationRule{{Name: "minLength", Value: 5}}, nil); len(errs) != 0 {
		t.Errorf("expected no errors for empty non-required value, got %v", errs)
	}
}

func TestTextHandler_PatternOnlyCheckedWhenDeclared(t *testing.T) {
	h := newTextHandler(domain.FieldKindText)
	if errs := h.Validate("anything at all", nil, nil); len(errs) != 0 {
		t.Errorf("expected no format errors without an explicit pattern rule, got %v", errs)
	}
	rules := []domain.ValidationRule{{Name: "pattern", Value: `^[0-9]+$`}}
	if errs := h.Validate("abc", rules, nil); len(errs) == 0 {
		t.Error("expected pattern mismatch error")
	}
}

func TestBooleanHandler_FalseIsNotNoValue(t *testing.T) {
	h := booleanHandler{}
	if errs := h.Validate(false, nil, nil); len(errs) != 0 {
		t.Errorf("false should validate cleanly, got %v", errs)
	}
	if errs := h.Validate("", nil, nil); len(errs) != 0 {
		t.Errorf("empty string should mean no value, got %v", errs)
	}
	if errs := h.Validate("true", nil, nil); len(errs) == 0 {
		t.Error("expected error for non-bool value")
	}
}

func TestEmailHandler_AlwaysValidatesFormat(t *testing.T) {
	h := emailHandler{}
	if errs := h.Validate("not-an-email", nil, nil); len(errs) == 0 {
		t.Error("expected format error with no declared rules")
	}
	if errs := h.Validate("user@example.com", nil, nil); len(errs) != 0 {
		t.Errorf("expected valid email to pass, got %v", errs)
	}
	if errs := h.Validate("", nil, nil); len(errs) != 0 {
		t.Errorf("empty string should mean no value, got %v", errs)
	}
}

func TestURLHandler_RequiresAbsoluteURL(t *testing.T) {
	h := urlHandler{}
	if errs := h.Validate("/relative/path", nil, nil); len(errs) == 0 {
		t.Error("expected error for relative URL")
	}
	if errs := h.Validate("https://example.com/page", nil, nil); len(errs) != 0 {
		t.Errorf("expected absolute URL to pass, got %v", errs)
	}
}

func TestSlugHandler_RejectsUppercase(t *testing.T) {
	h := slugHandler{}
	if errs := h.Validate("Not-A-Slug", nil, nil); len(errs) == 0 {
		t.Error("expected error for uppercase slug value")
	}
	if errs := h.Validate("a-valid-slug", nil, nil); len(errs) != 0 {
		t.Errorf("expected valid slug to pass, got %v", errs)
	}
}

func TestSelectHandler_RejectsValueOutsideOptions(t *testing.T) {
	h := selectHandler{}
	opts := Options{"options": []any{
		map[string]any{"value": "draft"},
		map[string]any{"value": "published"},
	}}
	if errs := h.Validate("archived", nil, opts); len(errs) == 0 {
		t.Error("expected error for value outside option set")
	}
	if errs := h.Validate("draft", nil, opts); len(errs) != 0 {
		t.Errorf("expected allowed value to pass, got %v", errs)
	}
}

func TestMultiselectHandler_ValidatesEachElement(t *testing.T) {
	h := multiselectHandler{}
	opts := Options{"options": []any{map[string]any{"value": "a"}, map[string]any{"value": "b"}}}
	if errs := h.Validate([]any{"a", "c"}, nil, opts); len(errs) != 1 {
		t.Errorf("expected exactly one error for the invalid element, got %v", errs)
	}
}

func TestNumberHandler_IntegerRule(t *testing.T) {
	h := numberHandler{}
	rules := []domain.ValidationRule{{Name: "integer", Value: true}}
	if errs := h.Validate(3.5, rules, nil); len(errs) == 0 {
		t.Error("expected error for non-integer value")
	}
	if errs := h.Validate(float64(3), rules, nil); len(errs) != 0 {
		t.Errorf("expected integer value to pass, got %v", errs)
	}
	if errs := h.Validate(nil, rules, nil); len(errs) != 0 {
		t.Errorf("nil should mean no value, got %v", errs)
	}
}

func TestColorHandler_RequiresSixHexDigits(t *testing.T) {
	h := colorHandler{}
	if errs := h.Validate("#fff", nil, nil); len(errs) == 0 {
		t.Error("expected error for 3-digit hex shorthand")
	}
	if errs := h.Validate("#A1B2C3", nil, nil); len(errs) != 0 {
		t.Errorf("expected valid 6-digit hex to pass, got %v", errs)
	}
}

func TestLocationHandler_RangeChecks(t *testing.T) {
	h := locationHandler{}
	if errs := h.Validate(map[string]any{"lat": 95.0, "lng": 0.0}, nil, nil); len(errs) == 0 {
		t.Error("expected error for out-of-range latitude")
	}
	if errs := h.Validate(map[string]any{"lat": 45.0, "lng": -73.0}, nil, nil); len(errs) != 0 {
		t.Errorf("expected valid coordinates to pass, got %v", errs)
	}
}

func TestRelationHandler_RequiresTargetID(t *testing.T) {
	h := relationHandler{}
	if errs := h.Validate(map[string]any{"blueprint": "authors"}, nil, nil); len(errs) == 0 {
		t.Error("expected error for relation target missing id")
	}
	if errs := h.Validate(map[string]any{"id": "abc123"}, nil, nil); len(errs) != 0 {
		t.Errorf("expected valid target to pass, got %v", errs)
	}
}

func TestJSONHandler_AcceptsAnyMarshalableValue(t *testing.T) {
	h := jsonHandler{}
	if errs := h.Validate(map[string]any{"nested": []any{1, 2, 3}}, nil, nil); len(errs) != 0 {
		t.Errorf("expected marshalable value to pass, got %v", errs)
	}
}

func TestDateHandler_RejectsMalformedDate(t *testing.T) {
	h := newDateHandler(domain.FieldKindDate)
	if errs := h.Validate("not-a-date", nil, nil); len(errs) == 0 {
		t.Error("expected error for malformed date")
	}
	if errs := h.Validate("2024-01-15", nil, nil); len(errs) != 0 {
		t.Errorf("expected valid ISO date to pass, got %v", errs)
	}
}
