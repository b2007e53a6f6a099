// Package handlers implements the Gin HTTP handlers exposed by the
// content engine: blueprint CRUD, content CRUD/publish/query/rollback,
// webhook registration, and plugin lifecycle control.
//
// Import Path: github.com/shepherd-cms/corepress/internal/api/handlers
package handlers

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shepherd-cms/corepress/internal/api/middleware"
	"github.com/shepherd-cms/corepress/internal/content"
	"github.com/shepherd-cms/corepress/internal/fieldtype"
	"github.com/shepherd-cms/corepress/internal/governance/audit"
	"github.com/shepherd-cms/corepress/internal/plugin"
	"github.com/shepherd-cms/corepress/internal/webhook"
)

// Server implements every HTTP handler exposed by the content engine.
type Server struct {
	pool     *pgxpool.Pool
	jwtCfg   middleware.JWTConfig
	audit    *audit.Logger
	content  *content.Service
	registry *fieldtype.Registry
	webhooks *webhook.Engine
	plugins  *plugin.Manager
}

// ServerDeps holds all dependencies required to build a Server. Manual
// wiring only, no DI container.
type ServerDeps struct {
	Pool     *pgxpool.Pool
	JWTCfg   middleware.JWTConfig
	Audit    *audit.Logger
	Content  *content.Service
	Registry *fieldtype.Registry
	Webhooks *webhook.Engine
	Plugins  *plugin.Manager
}

// NewServer builds a Server from deps.
func NewServer(deps ServerDeps) *Server {
	return &Server{
		pool:     deps.Pool,
		jwtCfg:   deps.JWTCfg,
		audit:    deps.Audit,
		content:  deps.Content,
		registry: deps.Registry,
		webhooks: deps.Webhooks,
		plugins:  deps.Plugins,
	}
}

// actorFromCtx extracts the authenticated user id, falling back to an
// anonymous actor for unauthenticated writes that RBAC has already
// allowed (e.g. a public webhook registration endpoint, if one exists).
func actorFromCtx(c interface{ GetString(string) string }) string {
	if uid := c.GetString("user_id"); uid != "" {
		return uid
	}
	return "anonymous"
}

