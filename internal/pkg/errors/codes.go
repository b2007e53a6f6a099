package errors

import (
	"fmt"
	"net/http"
)

// Error code constants (§7).
// Errors contain code + params only, no hardcoded user-facing messages.

// Validation error codes.
const (
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeFieldRequired    = "FIELD_REQUIRED"
	CodeFieldInvalid     = "FIELD_INVALID"
	CodeUnknownFieldKind = "UNKNOWN_FIELD_KIND"
)

// Not-found error codes.
const (
	CodeBlueprintNotFound = "BLUEPRINT_NOT_FOUND"
	CodeContentNotFound   = "CONTENT_NOT_FOUND"
	CodeVersionNotFound   = "VERSION_NOT_FOUND"
	CodeWebhookNotFound   = "WEBHOOK_NOT_FOUND"
	CodePluginNotFound    = "PLUGIN_NOT_FOUND"
)

// Conflict error codes.
const (
	CodeSlugConflict      = "SLUG_CONFLICT"
	CodeBlueprintConflict = "BLUEPRINT_CONFLICT"
	CodeAlreadyPublished  = "ALREADY_PUBLISHED"
)

// Restrict error codes: a mutation refused by a relation delete policy.
const (
	CodeRelationRestrict = "RELATION_RESTRICT"
)

// Auth error codes. Raised by the API collaborator, never by core components.
const (
	CodeAuthFailed      = "AUTH_FAILED"
	CodeTokenExpired    = "TOKEN_EXPIRED"
	CodeTokenInvalid    = "TOKEN_INVALID"
	CodeAccessForbidden = "ACCESS_FORBIDDEN"
)

// Storage error codes.
const (
	CodeStorageFailure       = "STORAGE_FAILURE"
	CodeTransactionFailed    = "TRANSACTION_FAILED"
	CodeOptimisticLockFailed = "OPTIMISTIC_LOCK_FAILED"
)

// Plugin error codes.
const (
	CodePluginManifestInvalid = "PLUGIN_MANIFEST_INVALID"
	CodePluginInitFailed      = "PLUGIN_INIT_FAILED"
	CodePluginAlreadyEnabled  = "PLUGIN_ALREADY_ENABLED"
	CodePluginDisabled        = "PLUGIN_DISABLED"
)

// Migration error codes.
const (
	CodeMigrationFailed    = "MIGRATION_FAILED"
	CodeMigrationOutOfOrder = "MIGRATION_OUT_OF_ORDER"
	CodeMigrationChecksum  = "MIGRATION_CHECKSUM_MISMATCH"
)

// Hook error codes.
const (
	CodeHookPanic        = "HOOK_PANIC"
	CodeHookTypeMismatch = "HOOK_TYPE_MISMATCH"
)

// Webhook error codes. Terminal means the Delivery Engine has classified the
// failure as one it will not retry further (§5 error classification table).
const (
	CodeWebhookTerminal  = "WEBHOOK_TERMINAL"
	CodeWebhookSignature = "WEBHOOK_SIGNATURE_FAILED"
)

// Convenience constructors using predefined codes.

// ErrValidationFailedf creates a 400 validation error.
func ErrValidationFailedf(format string, args ...any) *AppError {
	return BadRequest(CodeValidationFailed, fmt.Sprintf(format, args...))
}

// ErrFieldRequiredf creates a 400 error for a missing required field.
func ErrFieldRequiredf(key string) *AppError {
	return BadRequest(CodeFieldRequired, fmt.Sprintf("field %q is required", key))
}

// ErrFieldInvalidf creates a 400 error for a field that failed type or rule
// validation.
func ErrFieldInvalidf(key, reason string) *AppError {
	return BadRequest(CodeFieldInvalid, fmt.Sprintf("field %q invalid: %s", key, reason))
}

// ErrUnknownFieldKindf creates a 400 error for a field definition naming a
// kind outside the registry.
func ErrUnknownFieldKindf(kind string) *AppError {
	return BadRequest(CodeUnknownFieldKind, fmt.Sprintf("unknown field kind %q", kind))
}

// ErrBlueprintNotFoundf creates a blueprint-not-found error.
func ErrBlueprintNotFoundf(id string) *AppError {
	return &AppError{
		Code:       CodeBlueprintNotFound,
		Message:    fmt.Sprintf("blueprint %q not found", id),
		HTTPStatus: http.StatusNotFound,
	}
}

// ErrContentNotFoundf creates a content-item-not-found error.
func ErrContentNotFoundf(id string) *AppError {
	return &AppError{
		Code:       CodeContentNotFound,
		Message:    fmt.Sprintf("content item %q not found", id),
		HTTPStatus: http.StatusNotFound,
	}
}

// ErrWebhookNotFoundf creates a webhook-subscription-not-found error.
func ErrWebhookNotFoundf(id string) *AppError {
	return &AppError{
		Code:       CodeWebhookNotFound,
		Message:    fmt.Sprintf("webhook %q not found", id),
		HTTPStatus: http.StatusNotFound,
	}
}

// ErrPluginNotFoundf creates a plugin-not-registered error.
func ErrPluginNotFoundf(name string) *AppError {
	return &AppError{
		Code:       CodePluginNotFound,
		Message:    fmt.Sprintf("plugin %q not registered", name),
		HTTPStatus: http.StatusNotFound,
	}
}

// ErrSlugConflictf creates a conflict error for a slug collision within a
// blueprint's content set.
func ErrSlugConflictf(slug string) *AppError {
	return &AppError{
		Code:       CodeSlugConflict,
		Message:    fmt.Sprintf("slug %q already exists for this blueprint", slug),
		HTTPStatus: http.StatusConflict,
	}
}

// ErrRelationRestrictf creates a conflict error when a delete is blocked by
// a restrict-policy relation still pointing at the target.
func ErrRelationRestrictf(targetID string, count int) *AppError {
	return &AppError{
		Code:       CodeRelationRestrict,
		Message:    fmt.Sprintf("content %q is referenced by %d restrict-policy relation(s)", targetID, count),
		HTTPStatus: http.StatusConflict,
	}
}

// ErrAuthFailedf creates an authentication-failure error.
func ErrAuthFailedf(reason string) *AppError {
	return &AppError{
		Code:       CodeAuthFailed,
		Message:    "authentication failed: " + reason,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// ErrTokenExpiredf creates an expired-bearer-token error.
func ErrTokenExpiredf() *AppError {
	return &AppError{
		Code:       CodeTokenExpired,
		Message:    "token expired",
		HTTPStatus: http.StatusUnauthorized,
	}
}

// ErrTokenInvalidf creates a malformed-or-unverifiable-token error.
func ErrTokenInvalidf(reason string) *AppError {
	return &AppError{
		Code:       CodeTokenInvalid,
		Message:    "token invalid: " + reason,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// ErrAccessForbiddenf creates a forbidden error for a blueprint access-level
// denial (e.g. a private blueprint read by an unauthenticated caller).
func ErrAccessForbiddenf(blueprintSlug string) *AppError {
	return &AppError{
		Code:       CodeAccessForbidden,
		Message:    fmt.Sprintf("blueprint %q is not accessible to this caller", blueprintSlug),
		HTTPStatus: http.StatusForbidden,
	}
}

// ErrStorageFailuref wraps a lower-level persistence error (pgx, pool) into
// a 500 AppError.
func ErrStorageFailuref(err error, op string) *AppError {
	return &AppError{
		Code:       CodeStorageFailure,
		Message:    "storage operation failed: " + op,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ErrOptimisticLockFailedf creates a conflict error for a concurrent update
// that lost a compare-and-swap on a content item's version number.
func ErrOptimisticLockFailedf(contentID string) *AppError {
	return &AppError{
		Code:       CodeOptimisticLockFailed,
		Message:    fmt.Sprintf("content %q was modified concurrently", contentID),
		HTTPStatus: http.StatusConflict,
	}
}

// ErrPluginManifestInvalidf creates a 400 error for a manifest that failed
// structural validation.
func ErrPluginManifestInvalidf(name, reason string) *AppError {
	return &AppError{
		Code:       CodePluginManifestInvalid,
		Message:    fmt.Sprintf("plugin %q manifest invalid: %s", name, reason),
		HTTPStatus: http.StatusBadRequest,
	}
}

// ErrPluginInitFailedf wraps a plugin's Init error into a 500 AppError.
func ErrPluginInitFailedf(err error, name string) *AppError {
	return &AppError{
		Code:       CodePluginInitFailed,
		Message:    fmt.Sprintf("plugin %q failed to initialize", name),
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ErrPluginAlreadyEnabledf creates a conflict error for a redundant enable
// call.
func ErrPluginAlreadyEnabledf(name string) *AppError {
	return &AppError{
		Code:       CodePluginAlreadyEnabled,
		Message:    fmt.Sprintf("plugin %q is already enabled", name),
		HTTPStatus: http.StatusConflict,
	}
}

// ErrMigrationFailedf wraps a migration-apply or rollback error.
func ErrMigrationFailedf(err error, version string) *AppError {
	return &AppError{
		Code:       CodeMigrationFailed,
		Message:    fmt.Sprintf("migration %q failed", version),
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ErrMigrationOutOfOrderf creates an error when a migration is applied out
// of sequence relative to already-recorded versions.
func ErrMigrationOutOfOrderf(version, lastApplied string) *AppError {
	return &AppError{
		Code:       CodeMigrationOutOfOrder,
		Message:    fmt.Sprintf("migration %q is out of order: last applied is %q", version, lastApplied),
		HTTPStatus: http.StatusInternalServerError,
	}
}

// ErrMigrationChecksumf creates an error when a previously-applied
// migration's file no longer matches its recorded checksum.
func ErrMigrationChecksumf(version string) *AppError {
	return &AppError{
		Code:       CodeMigrationChecksum,
		Message:    fmt.Sprintf("migration %q checksum mismatch", version),
		HTTPStatus: http.StatusInternalServerError,
	}
}

// ErrHookPanicf records a recovered panic from a hook handler.
func ErrHookPanicf(hookName string, recovered any) *AppError {
	return &AppError{
		Code:       CodeHookPanic,
		Message:    fmt.Sprintf("hook %q panicked: %v", hookName, recovered),
		HTTPStatus: http.StatusInternalServerError,
	}
}

// ErrHookTypeMismatchf records a filter hook handler returning a value whose
// type does not match the data it was given.
func ErrHookTypeMismatchf(hookName string) *AppError {
	return &AppError{
		Code:       CodeHookTypeMismatch,
		Message:    fmt.Sprintf("filter hook %q returned a value of the wrong type", hookName),
		HTTPStatus: http.StatusInternalServerError,
	}
}

// ErrWebhookTerminalf wraps a delivery error the Delivery Engine has
// classified as terminal: no further retry will be scheduled.
func ErrWebhookTerminalf(err error, webhookID string) *AppError {
	return &AppError{
		Code:       CodeWebhookTerminal,
		Message:    fmt.Sprintf("webhook %q delivery failed terminally", webhookID),
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}
