// Package migrations holds the seed migration list for a fresh
// installation. All(), not the individual migration variables, is the
// entry point app wiring should use.
//
// Import Path: github.com/shepherd-cms/corepress/internal/migration/migrations
package migrations

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/shepherd-cms/corepress/internal/migration"
)

// All returns the full, ordered migration list for this installation.
func All() []migration.Migration {
	return []migration.Migration{initSchema}
}

var initSchema = migration.Migration{
	ID:        "0001_init",
	Name:      "initial schema",
	Timestamp: 1,
	Up:        initSchemaUp,
	Down:      initSchemaDown,
}

// initSchemaUp creates every table named in the external-interfaces
// contract (spec §6). relations carries a delete_policy column beyond
// the literal column list there, since domain.Relation.DeletePolicy must
// be persisted for application-side cascade/restrict/set-null
// enforcement to survive a restart.
func initSchemaUp(ctx context.Context, tx pgx.Tx) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL,
			permissions JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS blueprints (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			slug TEXT UNIQUE NOT NULL,
			fields JSONB NOT NULL,
			settings JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS contents (
			id TEXT PRIMARY KEY,
			blueprint_id TEXT NOT NULL REFERENCES blueprints(id),
			slug TEXT NOT NULL,
			data JSONB NOT NULL,
			meta JSONB,
			status TEXT NOT NULL,
			created_by TEXT,
			published_by TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			published_at TIMESTAMPTZ,
			UNIQUE (blueprint_id, slug)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_contents_blueprint_id ON contents (blueprint_id)`,
		`CREATE INDEX IF NOT EXISTS idx_contents_status ON contents (status)`,
		`CREATE INDEX IF NOT EXISTS idx_contents_published_at ON contents (published_at)`,
		`CREATE TABLE IF NOT EXISTS relations (
			id TEXT PRIMARY KEY,
			source_content_id TEXT NOT NULL,
			target_content_id TEXT NOT NULL,
			type TEXT NOT NULL,
			delete_policy TEXT NOT NULL DEFAULT 'restrict',
			metadata JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (source_content_id, target_content_id, type)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_relations_source ON relations (source_content_id)`,
		`CREATE INDEX IF NOT EXISTS idx_relations_target ON relations (target_content_id)`,
		`CREATE INDEX IF NOT EXISTS idx_relations_type ON relations (type)`,
		`CREATE INDEX IF NOT EXISTS idx_relations_source_type ON relations (source_content_id, type)`,
		`CREATE TABLE IF NOT EXISTS versions (
			id TEXT PRIMARY KEY,
			content_id TEXT NOT NULL,
			blueprint_id TEXT NOT NULL REFERENCES blueprints(id),
			data JSONB NOT NULL,
			version_number INT NOT NULL,
			created_by TEXT,
			change_summary JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_versions_content_id ON versions (content_id)`,
		`CREATE TABLE IF NOT EXISTS webhooks (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			url TEXT NOT NULL,
			events JSONB NOT NULL,
			headers JSONB,
			secret TEXT,
			is_active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS webhook_deliveries (
			id TEXT PRIMARY KEY,
			webhook_id TEXT NOT NULL REFERENCES webhooks(id) ON DELETE CASCADE,
			event TEXT NOT NULL,
			status_code INT,
			success BOOLEAN NOT NULL DEFAULT false,
			attempt INT NOT NULL,
			response TEXT,
			duration_ms BIGINT,
			error TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			completed_at TIMESTAMPTZ
		)`,
		`CREATE INDEX IF NOT EXISTS idx_webhook_deliveries_webhook_id ON webhook_deliveries (webhook_id)`,
		`CREATE INDEX IF NOT EXISTS idx_webhook_deliveries_event ON webhook_deliveries (event)`,
		`CREATE INDEX IF NOT EXISTS idx_webhook_deliveries_created_at ON webhook_deliveries (created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_webhook_deliveries_webhook_success ON webhook_deliveries (webhook_id, success)`,
		`CREATE TABLE IF NOT EXISTS audit_logs (
			id TEXT PRIMARY KEY,
			actor TEXT,
			action TEXT NOT NULL,
			resource_type TEXT,
			resource_id TEXT,
			details JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value JSONB
		)`,
		`CREATE TABLE IF NOT EXISTS api_keys (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id),
			key_hash TEXT UNIQUE NOT NULL,
			key_prefix TEXT NOT NULL,
			permissions JSONB,
			is_active BOOLEAN NOT NULL DEFAULT true,
			expires_at TIMESTAMPTZ,
			rate_limit_per_minute INT
		)`,
		`CREATE TABLE IF NOT EXISTS plugin_configs (
			plugin_id TEXT UNIQUE NOT NULL,
			config TEXT,
			environment TEXT,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}

	for _, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func initSchemaDown(ctx context.Context, tx pgx.Tx) error {
	statements := []string{
		`DROP TABLE IF EXISTS plugin_configs`,
		`DROP TABLE IF EXISTS api_keys`,
		`DROP TABLE IF EXISTS settings`,
		`DROP TABLE IF EXISTS audit_logs`,
		`DROP TABLE IF EXISTS webhook_deliveries`,
		`DROP TABLE IF EXISTS webhooks`,
		`DROP TABLE IF EXISTS versions`,
		`DROP TABLE IF EXISTS relations`,
		`DROP TABLE IF EXISTS contents`,
		`DROP TABLE IF EXISTS blueprints`,
		`DROP TABLE IF EXISTS users`,
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
