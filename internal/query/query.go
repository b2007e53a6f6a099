// Package query implements the Query Planner (component F): parses the
// flat string parameters of an HTTP query string into a planned query
// consumed by the Content Storage Service.
//
// Import Path: github.com/shepherd-cms/corepress/internal/query
package query

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Operator is one of the allowed filter comparison operators (spec §4.3).
type Operator string

const (
	OpEq         Operator = "eq"
	OpNe         Operator = "ne"
	OpIn         Operator = "in"
	OpNin        Operator = "nin"
	OpGt         Operator = "gt"
	OpGte        Operator = "gte"
	OpLt         Operator = "lt"
	OpLte        Operator = "lte"
	OpContains   Operator = "contains"
	OpStartsWith Operator = "startsWith"
	OpEndsWith   Operator = "endsWith"
)

var knownOperators = map[Operator]bool{
	OpEq: true, OpNe: true, OpIn: true, OpNin: true,
	OpGt: true, OpGte: true, OpLt: true, OpLte: true,
	OpContains: true, OpStartsWith: true, OpEndsWith: true,
}

// Filter is a single parsed `filters[field]=op:value` entry. For in/nin
// operators Values holds the comma-split list; otherwise Value holds the
// raw string and Values is nil. No type coercion is attempted here — the
// storage service relies on the database's implicit coercion.
type Filter struct {
	Field  string
	Op     Operator
	Value  string
	Values []string
}

// SortClause is one `field:dir` entry of the sort parameter.
type SortClause struct {
	Field     string
	Direction string // "asc" or "desc"
}

// PlannedQuery is the output consumed by the Content Storage Service's
// Query operation.
type PlannedQuery struct {
	Filters  []Filter
	Sort     []SortClause
	Page     int
	Limit    int
	Populate []string
	Fields   []string // nil means all declared fields
}

// Warning is a non-fatal parse observation (e.g. an unrecognized
// operator).
type Warning struct {
	Message string
}

var filterKeyPattern = regexp.MustCompile(`^filters\[(.+)\]$`)

// Parse turns raw, a flat string→string map as received from an HTTP
// query string, into a PlannedQuery. Never returns an error: malformed
// input degrades to a warning and a sensible default, matching spec.md's
// "must be reproduced literally" parsing rules.
//
// Go map iteration order is undefined, so filters are sorted by field
// name for determinism; this is a Go-specific adaptation of the
// originally order-preserving parse, not a behavioral requirement.
func Parse(raw map[string]string) (PlannedQuery, []Warning) {
	var warnings []Warning
	planned := PlannedQuery{
		Page:  1,
		Limit: 25,
	}

	for key, value := range raw {
		m := filterKeyPattern.FindStringSubmatch(key)
		if m == nil {
			continue
		}
		field := m[1]
		op, val := splitOperator(value)
		if !knownOperators[op] {
			warnings = append(warnings, Warning{Message: "unknown filter operator \"" + string(op) + "\" for field " + field})
			continue
		}
		f := Filter{Field: field, Op: op}
		if op == OpIn || op == OpNin {
			f.Values = splitNonEmpty(val, ",")
		} else {
			f.Value = val
		}
		planned.Filters = append(planned.Filters, f)
	}
	sort.Slice(planned.Filters, func(i, j int) bool {
		return planned.Filters[i].Field < planned.Filters[j].Field
	})

	if sortRaw, ok := raw["sort"]; ok {
		for _, clause := range splitNonEmpty(sortRaw, ",") {
			field, dir := clause, "asc"
			if idx := strings.IndexByte(clause, ':'); idx >= 0 {
				field = clause[:idx]
				dir = clause[idx+1:]
				if dir != "asc" && dir != "desc" {
					warnings = append(warnings, Warning{Message: "unknown sort direction \"" + dir + "\" for field " + field + ", defaulting to asc"})
					dir = "asc"
				}
			}
			planned.Sort = append(planned.Sort, SortClause{Field: field, Direction: dir})
		}
	}

	if pageRaw, ok := raw["page"]; ok {
		if n, err := strconv.Atoi(pageRaw); err == nil {
			planned.Page = n
		} else {
			warnings = append(warnings, Warning{Message: "invalid page value \"" + pageRaw + "\", defaulting to 1"})
		}
	}
	if planned.Page < 1 {
		planned.Page = 1
	}

	if limitRaw, ok := raw["limit"]; ok {
		if n, err := strconv.Atoi(limitRaw); err == nil {
			planned.Limit = n
		} else {
			warnings = append(warnings, Warning{Message: "invalid limit value \"" + limitRaw + "\", defaulting to 25"})
		}
	}
	if planned.Limit < 1 {
		planned.Limit = 1
	}
	if planned.Limit > 100 {
		planned.Limit = 100
	}

	if populateRaw, ok := raw["populate"]; ok {
		planned.Populate = splitNonEmpty(populateRaw, ",")
	}

	if fieldsRaw, ok := raw["fields"]; ok {
		planned.Fields = splitNonEmpty(fieldsRaw, ",")
	}

	return planned, warnings
}

func splitOperator(value string) (Operator, string) {
	idx := strings.IndexByte(value, ':')
	if idx < 0 {
		return OpEq, value
	}
	return Operator(value[:idx]), value[idx+1:]
}

func splitNonEmpty(s, sep string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
