package app

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/shepherd-cms/corepress/internal/api/handlers"
	"github.com/shepherd-cms/corepress/internal/api/middleware"
	"github.com/shepherd-cms/corepress/internal/config"
)

func newRouter(cfg *config.Config, server *handlers.Server, jwtCfg middleware.JWTConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.ErrorHandler())
	router.Use(cors.New(buildCORSConfig(cfg)))

	router.GET("/api/v1/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	requireAuth := middleware.JWTAuthWithConfig(jwtCfg)
	optionalAuth := middleware.JWTOptionalWithConfig(jwtCfg)

	v1 := router.Group("/api/v1")
	{
		bp := v1.Group("/blueprints")
		bp.POST("", requireAuth, middleware.RequirePermission("blueprint:write"), server.CreateBlueprint)
		bp.GET("", optionalAuth, server.ListBlueprints)
		bp.GET("/:blueprint", optionalAuth, server.GetBlueprint)
		bp.PATCH("/:blueprint", requireAuth, middleware.RequirePermission("blueprint:write"), server.UpdateBlueprint)
		bp.DELETE("/:blueprint", requireAuth, middleware.RequirePermission("blueprint:write"), server.DeleteBlueprint)

		// Content reads carry no static permission requirement: each
		// blueprint's Settings.APIAccess decides public/authenticated/private
		// access, checked inline once the handler has loaded the blueprint
		// (middleware.CheckBlueprintAccess). optionalAuth only populates the
		// claims context when a token is present; it never rejects a bare
		// request, since that decision belongs to the per-blueprint check.
		content := bp.Group("/:blueprint/contents")
		content.POST("", requireAuth, middleware.RequirePermission("content:write"), server.CreateContent)
		content.GET("", optionalAuth, server.QueryContent)
		content.GET("/:idOrSlug", optionalAuth, server.GetContent)
		content.PATCH("/:idOrSlug", requireAuth, middleware.RequirePermission("content:write"), server.UpdateContent)
		content.DELETE("/:idOrSlug", requireAuth, middleware.RequirePermission("content:write"), server.DeleteContent)
		content.POST("/:idOrSlug/publish", requireAuth, middleware.RequirePermission("content:publish"), server.PublishContent)
		content.POST("/:idOrSlug/unpublish", requireAuth, middleware.RequirePermission("content:publish"), server.UnpublishContent)
		content.POST("/:idOrSlug/rollback/:version", requireAuth, middleware.RequirePermission("content:write"), server.RollbackContent)

		webhooks := v1.Group("/webhooks", requireAuth, middleware.RequirePermission("webhook:manage"))
		webhooks.POST("", server.CreateWebhook)
		webhooks.GET("", server.ListWebhooks)
		webhooks.GET("/:id", server.GetWebhook)
		webhooks.GET("/:id/deliveries", server.ListWebhookDeliveries)
		webhooks.PATCH("/:id", server.SetWebhookActive)
		webhooks.DELETE("/:id", server.DeleteWebhook)

		plugins := v1.Group("/plugins", requireAuth, middleware.RequirePermission("platform:admin"))
		plugins.GET("", server.ListPlugins)
		plugins.GET("/:id", server.GetPlugin)
		plugins.PATCH("/:id/config", server.ReconfigurePlugin)
		plugins.DELETE("/:id", server.UnloadPlugin)
	}

	return router
}

func buildCORSConfig(cfg *config.Config) cors.Config {
	allowAllOrigins := cfg.Server.UnsafeAllowAllOrigins
	allowedOrigins := sanitizeAllowedOrigins(cfg.Server.AllowedOrigins)

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: cfg.Server.AllowCredentials,
		MaxAge:           12 * time.Hour,
	}

	if allowAllOrigins {
		corsCfg.AllowAllOrigins = true
		// gin-contrib/cors docs: AllowAllOrigins cannot be used with credentials.
		corsCfg.AllowCredentials = false
		return corsCfg
	}

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	}
	corsCfg.AllowOrigins = allowedOrigins
	return corsCfg
}

func sanitizeAllowedOrigins(origins []string) []string {
	cleaned := make([]string, 0, len(origins))
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" || origin == "*" {
			continue
		}
		cleaned = append(cleaned, origin)
	}
	return slices.Compact(cleaned)
}
