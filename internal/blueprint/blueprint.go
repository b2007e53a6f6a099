// Package blueprint implements the Blueprint Engine (component B):
// structural validation of a blueprint definition and field-by-field
// validation of a content payload against it, driven by the Field Type
// Registry (component A).
//
// Import Path: github.com/shepherd-cms/corepress/internal/blueprint
package blueprint

import (
	"fmt"

	"github.com/shepherd-cms/corepress/internal/domain"
	"github.com/shepherd-cms/corepress/internal/fieldtype"
	"github.com/shepherd-cms/corepress/internal/slug"
)

// FieldError is one validation failure tagged with the field key it
// belongs to. An empty key marks a blueprint-level (structural) error.
type FieldError struct {
	Key     string
	Message string
}

// Warning is a non-fatal observation. Validate emits one for each data key
// that no field of the blueprint declares.
type Warning struct {
	Key     string
	Message string
}

// ValidationResult is the outcome of Validate.
type ValidationResult struct {
	Valid    bool
	Errors   []FieldError
	Warnings []Warning
}

// Validate checks bp's own structure, then checks data against bp's field
// list in five steps (spec §4.2):
//
//  1. blueprint-level structural checks
//  2. for each field in order, resolve its handler via registry and validate
//  3. required is checked before type-specific checks
//  4. an absent key in data is equivalent to an explicit nil
//  5. extra keys in data not declared by any field are dropped with a warning
//
// Validate never mutates bp or data and is deterministic: the same inputs
// always produce the same result.
func Validate(bp *domain.Blueprint, data map[string]any, registry *fieldtype.Registry) ValidationResult {
	result := ValidationResult{Valid: true}

	structuralErrs := validateStructure(bp)
	if len(structuralErrs) > 0 {
		result.Valid = false
		result.Errors = append(result.Errors, structuralErrs...)
		return result
	}

	declared := make(map[string]bool, len(bp.Fields))
	for _, field := range bp.Fields {
		declared[field.Key] = true

		value, present := data[field.Key]
		if !present {
			value = nil
		}

		if field.Required && isMissing(value) {
			result.Errors = append(result.Errors, FieldError{
				Key:     field.Key,
				Message: "field is required",
			})
			continue
		}

		handler, ok := registry.Lookup(field.Type)
		if !ok {
			result.Errors = append(result.Errors, FieldError{
				Key:     field.Key,
				Message: fmt.Sprintf("unknown field kind %q", field.Type),
			})
			continue
		}

		if value == nil {
			// An absent optional field has nothing further to check.
			continue
		}

		for _, fe := range handler.Validate(value, field.Validation, field.Options) {
			result.Errors = append(result.Errors, FieldError{Key: field.Key, Message: fe.Message})
		}
	}

	for key := range data {
		if !declared[key] {
			result.Warnings = append(result.Warnings, Warning{
				Key:     key,
				Message: "field is not declared on this blueprint and will be dropped",
			})
		}
	}

	result.Valid = len(result.Errors) == 0
	return result
}

func validateStructure(bp *domain.Blueprint) []FieldError {
	var errs []FieldError

	if bp.Name == "" {
		errs = append(errs, FieldError{Message: "blueprint name must not be empty"})
	}
	if !slug.Valid(bp.Slug) {
		errs = append(errs, FieldError{Message: "blueprint slug must match ^[a-z0-9-]+$"})
	}
	if len(bp.Fields) == 0 {
		errs = append(errs, FieldError{Message: "blueprint must declare at least one field"})
	}

	seen := make(map[string]bool, len(bp.Fields))
	for _, field := range bp.Fields {
		if seen[field.Key] {
			errs = append(errs, FieldError{
				Key:     field.Key,
				Message: fmt.Sprintf("duplicate field key %q", field.Key),
			})
			continue
		}
		seen[field.Key] = true
	}

	return errs
}

// isMissing reports whether v is the kind-agnostic "no value" sentinel:
// nil, or the empty string several kinds treat as absent.
func isMissing(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return s == ""
	}
	return false
}
