// Package audit implements the audit logging service.
//
// Audit logs are append-only compliance records. Hard-delete is NOT allowed.
//
// Import Path: github.com/shepherd-cms/corepress/internal/governance/audit
package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/shepherd-cms/corepress/internal/pkg/logger"
)

// Logger writes audit records directly to the audit_logs table over the
// shared pool (ADR-0012) — there is no generated ORM client in this
// repository, so every write is a plain parameterized INSERT.
type Logger struct {
	pool *pgxpool.Pool
}

// NewLogger creates a new audit Logger.
func NewLogger(pool *pgxpool.Pool) *Logger {
	return &Logger{pool: pool}
}

// LogAction records an auditable action.
func (l *Logger) LogAction(ctx context.Context, action, resourceType, resourceID, actor string, details map[string]interface{}) error {
	raw, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("marshal audit details: %w", err)
	}

	_, err = l.pool.Exec(ctx,
		`INSERT INTO audit_logs (id, action, resource_type, resource_id, actor, details, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, now())`,
		generateAuditID(), action, resourceType, resourceID, actor, raw,
	)
	if err != nil {
		logger.Error("Failed to write audit log",
			zap.String("action", action),
			zap.String("resource_type", resourceType),
			zap.String("resource_id", resourceID),
			zap.Error(err),
		)
		return fmt.Errorf("write audit log: %w", err)
	}
	return nil
}

// LogBlueprintChange records a blueprint create/update/delete.
func (l *Logger) LogBlueprintChange(ctx context.Context, operation, blueprintID, actor string) error {
	return l.LogAction(ctx, "blueprint."+operation, "blueprint", blueprintID, actor, nil)
}

// LogContentChange records a content item create/update/publish/unpublish/delete.
func (l *Logger) LogContentChange(ctx context.Context, operation, contentID, actor string, changeSummary interface{}) error {
	return l.LogAction(ctx, "content."+operation, "content_item", contentID, actor, map[string]interface{}{
		"changeSummary": changeSummary,
	})
}

// LogPluginLifecycle records a plugin init/enable/reconfigure/disable/destroy transition.
func (l *Logger) LogPluginLifecycle(ctx context.Context, transition, pluginName, actor string) error {
	return l.LogAction(ctx, "plugin."+transition, "plugin", pluginName, actor, nil)
}

func generateAuditID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return fmt.Sprintf("audit-%s", id.String())
}
