package blueprint

import (
	"reflect"
	"testing"

	"github.com/shepherd-cms/corepress/internal/domain"
	"github.com/shepherd-cms/corepress/internal/fieldtype"
)

func testBlueprint() *domain.Blueprint {
	return &domain.Blueprint{
		ID:   "bp-1",
		Slug: "articles",
		Name: "Articles",
		Fields: []domain.FieldDefinition{
			{Key: "title", Name: "Title", Type: domain.FieldKindText, Required: true},
			{Key: "body", Name: "Body", Type: domain.FieldKindRichText},
			{Key: "published", Name: "Published", Type: domain.FieldKindBoolean},
		},
	}
}

func TestValidate_StructuralErrorsShortCircuit(t *testing.T) {
	bp := &domain.Blueprint{ID: "bp-1", Slug: "Not Valid", Name: ""}
	result := Validate(bp, map[string]any{}, fieldtype.NewRegistry())
	if result.Valid {
		t.Fatal("expected invalid result for malformed blueprint")
	}
	if len(result.Errors) == 0 {
		t.Fatal("expected structural errors")
	}
}

func TestValidate_DuplicateFieldKeyRejected(t *testing.T) {
	bp := &domain.Blueprint{
		ID:   "bp-1",
		Slug: "articles",
		Name: "Articles",
		Fields: []domain.FieldDefinition{
			{Key: "title", Type: domain.FieldKindText},
			{Key: "title", Type: domain.FieldKindText},
		},
	}
	result := Validate(bp, map[string]any{}, fieldtype.NewRegistry())
	if result.Valid {
		t.Fatal("expected invalid result for duplicate field key")
	}
}

func TestValidate_RequiredFieldMissing(t *testing.T) {
	bp := testBlueprint()
	result := Validate(bp, map[string]any{}, fieldtype.NewRegistry())
	if result.Valid {
		t.Fatal("expected invalid result when required field is absent")
	}
	found := false
	for _, e := range result.Errors {
		if e.Key == "title" {
			found = true
		}
	}
	if !found {
		t.Error("expected an error tagged with key \"title\"")
	}
}

func TestValidate_AbsentKeyEquivalentToNil(t *testing.T) {
	bp := testBlueprint()
	withAbsent := Validate(bp, map[string]any{}, fieldtype.NewRegistry())
	withNil := Validate(bp, map[string]any{"title": nil}, fieldtype.NewRegistry())
	if withAbsent.Valid != withNil.Valid {
		t.Error("absent key and explicit nil should validate identically")
	}
}

func TestValidate_ExtraKeysProduceWarningsNotErrors(t *testing.T) {
	bp := testBlueprint()
	data := map[string]any{"title": "Hello", "unexpected": "value"}
	result := Validate(bp, data, fieldtype.NewRegistry())
	if !result.Valid {
		t.Fatalf("expected valid result, got errors: %v", result.Errors)
	}
	if len(result.Warnings) != 1 || result.Warnings[0].Key != "unexpected" {
		t.Errorf("expected one warning for the extra key, got %v", result.Warnings)
	}
}

func TestValidate_UnknownFieldKindProducesError(t *testing.T) {
	bp := &domain.Blueprint{
		ID:   "bp-1",
		Slug: "articles",
		Name: "Articles",
		Fields: []domain.FieldDefinition{
			{Key: "weird", Type: domain.FieldKind("not-a-real-kind")},
		},
	}
	result := Validate(bp, map[string]any{"weird": "x"}, fieldtype.NewRegistry())
	if result.Valid {
		t.Fatal("expected error for unknown field kind")
	}
}

func TestValidate_PureAndDeterministic(t *testing.T) {
	bp := testBlueprint()
	data := map[string]any{"title": "Hello", "body": "World", "published": true}

	bpCopy := deepCopyBlueprint(bp)
	dataCopy := deepCopyData(data)

	registry := fieldtype.NewRegistry()
	first := Validate(bp, data, registry)
	second := Validate(bp, data, registry)

	if !reflect.DeepEqual(bp, bpCopy) {
		t.Error("Validate mutated the blueprint")
	}
	if !reflect.DeepEqual(data, dataCopy) {
		t.Error("Validate mutated the data map")
	}
	if first.Valid != second.Valid || len(first.Errors) != len(second.Errors) {
		t.Error("Validate is not deterministic across repeated calls")
	}
}

func deepCopyBlueprint(bp *domain.Blueprint) *domain.Blueprint {
	out := *bp
	out.Fields = append([]domain.FieldDefinition(nil), bp.Fields...)
	return &out
}

func deepCopyData(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}
