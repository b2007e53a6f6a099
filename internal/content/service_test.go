package content

import (
	"testing"

	"github.com/shepherd-cms/corepress/internal/domain"
	"github.com/shepherd-cms/corepress/internal/fieldtype"
)

func testBlueprint() *domain.Blueprint {
	return &domain.Blueprint{
		ID:   "bp-1",
		Slug: "articles",
		Name: "Articles",
		Settings: domain.BlueprintSettings{
			TitleField: "title",
		},
		Fields: []domain.FieldDefinition{
			{Key: "title", Type: domain.FieldKindText, Required: true},
			{Key: "body", Type: domain.FieldKindRichText},
		},
	}
}

func TestService_SerializeDeserializeRoundTrip(t *testing.T) {
	s := &Service{registry: fieldtype.NewRegistry()}
	bp := testBlueprint()

	serialized, err := s.serializeData(bp, map[string]any{"title": "Hello", "body": "World"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	deserialized, err := s.deserializeData(bp, serialized)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deserialized["title"] != "Hello" || deserialized["body"] != "World" {
		t.Errorf("round trip mismatch: %v", deserialized)
	}
}

func TestService_SerializeDropsUndeclaredKeys(t *testing.T) {
	s := &Service{registry: fieldtype.NewRegistry()}
	bp := testBlueprint()

	serialized, err := s.serializeData(bp, map[string]any{"title": "Hello", "extra": "dropped"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := serialized["extra"]; ok {
		t.Error("expected undeclared key to be dropped on serialize")
	}
}

func TestDeriveSlug_FromTitleField(t *testing.T) {
	bp := testBlueprint()
	got := deriveSlug(bp, map[string]any{"title": "My First Post!"})
	if got != "my-first-post" {
		t.Errorf("got %q, want %q", got, "my-first-post")
	}
}

func TestDeriveSlug_FallsBackToBlueprintName(t *testing.T) {
	bp := testBlueprint()
	got := deriveSlug(bp, map[string]any{})
	if got != "articles" {
		t.Errorf("got %q, want %q", got, "articles")
	}
}

func TestDiffSerialized_OnlyReportsChangedFields(t *testing.T) {
	bp := testBlueprint()
	old := map[string]any{"title": "Hello", "body": "World"}
	next := map[string]any{"title": "Hello", "body": "Changed"}

	changes := diffSerialized(bp, old, next)
	if len(changes) != 1 || changes[0].Field != "body" {
		t.Errorf("expected exactly one change on \"body\", got %v", changes)
	}
}

func TestDiffSerialized_NoChangesWhenIdentical(t *testing.T) {
	bp := testBlueprint()
	data := map[string]any{"title": "Hello", "body": "World"}
	if changes := diffSerialized(bp, data, data); len(changes) != 0 {
		t.Errorf("expected no changes for identical data, got %v", changes)
	}
}

func TestRelationIDs_SingleAndMany(t *testing.T) {
	single := relationIDs(map[string]any{"id": "c-1"})
	if len(single) != 1 || single[0] != "c-1" {
		t.Errorf("expected [c-1], got %v", single)
	}

	many := relationIDs([]any{
		map[string]any{"id": "c-1"},
		map[string]any{"id": "c-2"},
	})
	if len(many) != 2 {
		t.Errorf("expected two ids, got %v", many)
	}
}

func TestResolveColumn_TopLevelAndDeclaredAndUnknown(t *testing.T) {
	bp := testBlueprint()

	if col, _ := resolveColumn(bp, "status"); col != "status" {
		t.Errorf("expected top-level column \"status\", got %q", col)
	}
	if col, isJSON := resolveColumn(bp, "title"); col == "" || !isJSON {
		t.Errorf("expected JSON column expression for declared field, got %q", col)
	}
	if col, _ := resolveColumn(bp, "nonexistent"); col != "" {
		t.Errorf("expected empty column for unknown field, got %q", col)
	}
}
