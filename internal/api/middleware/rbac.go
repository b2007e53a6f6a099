package middleware

import (
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/shepherd-cms/corepress/internal/domain"
	apperrors "github.com/shepherd-cms/corepress/internal/pkg/errors"
)

// RequirePermission returns middleware that checks if the authenticated user
// has a specific global permission (from their platform role).
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		perms, exists := c.Get("permissions")
		if !exists {
			_ = c.Error(apperrors.Forbidden("FORBIDDEN", "no permissions in context"))
			c.Abort()
			return
		}
		permList, ok := perms.([]string)
		if !ok {
			_ = c.Error(apperrors.Forbidden("FORBIDDEN", "invalid permissions type"))
			c.Abort()
			return
		}

		// platform:admin is the explicit super-admin permission (ADR-0019).
		if slices.Contains(permList, "platform:admin") {
			c.Next()
			return
		}

		if slices.Contains(permList, permission) {
			c.Next()
			return
		}

		_ = c.Error(apperrors.Forbidden("FORBIDDEN", "insufficient permissions"))
		c.Abort()
	}
}

// RequireBlueprintAccess returns middleware enforcing a blueprint's
// §3 ContentAccess level against the request's authentication state.
// "public" passes unconditionally; "authenticated" requires a user_id in
// context; "private" additionally requires platform:admin or an explicit
// permission on the blueprint's slug.
//
// This is usable directly only when the blueprint and its access level
// are known at route-registration time. Blueprints are runtime data, so
// the handlers that serve dynamic blueprint slugs (GetContent,
// QueryContent) call CheckBlueprintAccess inline instead, after loading
// the blueprint.
func RequireBlueprintAccess(access domain.ContentAccess, blueprintSlug string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := CheckBlueprintAccess(c, access, blueprintSlug); err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		c.Next()
	}
}

// CheckBlueprintAccess enforces a blueprint's §3 ContentAccess level
// against the request's authentication state and returns a non-nil error
// when the request must be rejected. Shared by RequireBlueprintAccess
// and by handlers that only learn the blueprint's access level after
// loading it from storage.
func CheckBlueprintAccess(c *gin.Context, access domain.ContentAccess, blueprintSlug string) error {
	switch access {
	case domain.AccessPublic:
		return nil
	case domain.AccessAuthenticated:
		if GetUserID(c.Request.Context()) == "" {
			return apperrors.ErrAccessForbiddenf(blueprintSlug)
		}
		return nil
	case domain.AccessPrivate:
		userID := GetUserID(c.Request.Context())
		if userID == "" {
			return apperrors.ErrAccessForbiddenf(blueprintSlug)
		}
		perms, _ := c.Get("permissions")
		permList, _ := perms.([]string)
		if slices.Contains(permList, "platform:admin") || slices.Contains(permList, "blueprint:"+blueprintSlug) {
			return nil
		}
		return apperrors.ErrAccessForbiddenf(blueprintSlug)
	default:
		return apperrors.ErrAccessForbiddenf(blueprintSlug)
	}
}
