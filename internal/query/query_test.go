package query

import "testing"

func TestParse_FilterOperatorDefaultsToEq(t *testing.T) {
	planned, _ := Parse(map[string]string{"filters[status]": "published"})
	if len(planned.Filters) != 1 {
		t.Fatalf("expected one filter, got %v", planned.Filters)
	}
	if planned.Filters[0].Op != OpEq || planned.Filters[0].Value != "published" {
		t.Errorf("expected eq:published, got %+v", planned.Filters[0])
	}
}

func TestParse_FilterOperatorExplicit(t *testing.T) {
	planned, _ := Parse(map[string]string{"filters[age]": "gte:21"})
	if planned.Filters[0].Op != OpGte || planned.Filters[0].Value != "21" {
		t.Errorf("expected gte:21, got %+v", planned.Filters[0])
	}
}

func TestParse_InOperatorSplitsCommaList(t *testing.T) {
	planned, _ := Parse(map[string]string{"filters[tag]": "in:a,b,c"})
	if planned.Filters[0].Op != OpIn {
		t.Fatalf("expected op in, got %v", planned.Filters[0].Op)
	}
	want := []string{"a", "b", "c"}
	if len(planned.Filters[0].Values) != len(want) {
		t.Fatalf("expected %v, got %v", want, planned.Filters[0].Values)
	}
	for i := range want {
		if planned.Filters[0].Values[i] != want[i] {
			t.Errorf("index %d: got %q, want %q", i, planned.Filters[0].Values[i], want[i])
		}
	}
}

func TestParse_UnknownOperatorProducesWarning(t *testing.T) {
	_, warnings := Parse(map[string]string{"filters[status]": "bogus:x"})
	if len(warnings) != 1 {
		t.Fatalf("expected one warning, got %v", warnings)
	}
}

func TestParse_SortDefaultsToAscending(t *testing.T) {
	planned, _ := Parse(map[string]string{"sort": "createdAt,name:desc"})
	if len(planned.Sort) != 2 {
		t.Fatalf("expected two sort clauses, got %v", planned.Sort)
	}
	if planned.Sort[0].Field != "createdAt" || planned.Sort[0].Direction != "asc" {
		t.Errorf("expected createdAt:asc, got %+v", planned.Sort[0])
	}
	if planned.Sort[1].Field != "name" || planned.Sort[1].Direction != "desc" {
		t.Errorf("expected name:desc, got %+v", planned.Sort[1])
	}
}

func TestParse_PageAndLimitDefaults(t *testing.T) {
	planned, _ := Parse(map[string]string{})
	if planned.Page != 1 {
		t.Errorf("expected default page 1, got %d", planned.Page)
	}
	if planned.Limit != 25 {
		t.Errorf("expected default limit 25, got %d", planned.Limit)
	}
}

func TestParse_PageClampedToPositive(t *testing.T) {
	planned, _ := Parse(map[string]string{"page": "-5"})
	if planned.Page != 1 {
		t.Errorf("expected page clamped to 1, got %d", planned.Page)
	}
}

func TestParse_LimitClampedToRange(t *testing.T) {
	planned, _ := Parse(map[string]string{"limit": "500"})
	if planned.Limit != 100 {
		t.Errorf("expected limit clamped to 100, got %d", planned.Limit)
	}
	planned, _ = Parse(map[string]string{"limit": "0"})
	if planned.Limit != 1 {
		t.Errorf("expected limit clamped to 1, got %d", planned.Limit)
	}
}

func TestParse_PopulateAndFieldsCommaLists(t *testing.T) {
	planned, _ := Parse(map[string]string{
		"populate": "author,category",
		"fields":   "title,slug",
	})
	if len(planned.Populate) != 2 || planned.Populate[0] != "author" || planned.Populate[1] != "category" {
		t.Errorf("unexpected populate list: %v", planned.Populate)
	}
	if len(planned.Fields) != 2 || planned.Fields[0] != "title" || planned.Fields[1] != "slug" {
		t.Errorf("unexpected fields list: %v", planned.Fields)
	}
}

func TestParse_FieldsAbsentMeansNil(t *testing.T) {
	planned, _ := Parse(map[string]string{})
	if planned.Fields != nil {
		t.Errorf("expected nil fields when absent, got %v", planned.Fields)
	}
}
