package modules

import (
	"context"
	"fmt"

	"github.com/riverqueue/river"
	"go.uber.org/zap"

	"github.com/shepherd-cms/corepress/internal/config"
	"github.com/shepherd-cms/corepress/internal/content"
	"github.com/shepherd-cms/corepress/internal/fieldtype"
	"github.com/shepherd-cms/corepress/internal/governance/audit"
	"github.com/shepherd-cms/corepress/internal/hooks"
	"github.com/shepherd-cms/corepress/internal/infrastructure"
	"github.com/shepherd-cms/corepress/internal/migration"
	"github.com/shepherd-cms/corepress/internal/pkg/logger"
	"github.com/shepherd-cms/corepress/internal/pkg/worker"
	"github.com/shepherd-cms/corepress/internal/plugin"
	"github.com/shepherd-cms/corepress/internal/webhook"
)

// Infrastructure holds shared cross-cutting dependencies for all modules.
// It is a provider, not a Module.
type Infrastructure struct {
	Config      *config.Config
	DB          *infrastructure.DatabaseClients
	Pools       *worker.Pools
	AuditLogger *audit.Logger

	FieldTypes *fieldtype.Registry
	Hooks      *hooks.Orchestrator
	Content    *content.Service
	Webhooks   *webhook.Engine
	Plugins    *plugin.Manager
	Migrations *migration.Runner
}

// NewInfrastructure initializes the connection pool, worker pools, and
// every core component (Blueprint/Field Type Engine, Content Storage
// Service, Hook Orchestrator, Webhook Delivery Engine, Plugin Manager,
// Migration Runner) that the rest of the app wires into HTTP handlers.
func NewInfrastructure(ctx context.Context, cfg *config.Config) (*Infrastructure, error) {
	db, err := infrastructure.NewDatabaseClients(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}

	pools, err := worker.NewPools(ctx, worker.PoolConfig{
		GeneralPoolSize: cfg.Worker.GeneralPoolSize,
		HooksPoolSize:   cfg.Worker.HooksPoolSize,
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init worker pools: %w", err)
	}

	fieldTypes := fieldtype.NewRegistry()
	orchestrator := hooks.New(pools.Hooks)
	contentSvc := content.NewService(db.Pool, fieldTypes, orchestrator)
	auditLogger := audit.NewLogger(db.Pool)
	migrations := migration.NewRunner(db.Pool)

	crypto, err := plugin.NewCrypto(cfg.Security.EncryptionKey)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init plugin crypto: %w", err)
	}
	plugins := plugin.NewManager(orchestrator, fieldTypes, nil, logger.L(), crypto)

	// The engine is built with no River client yet: River requires its
	// worker registry (which embeds this same engine) at construction, so
	// the client is patched in later by InitRiver once it exists.
	webhooks := webhook.NewEngine(db.Pool, nil, cfg.Webhook, logger.L())

	return &Infrastructure{
		Config:      cfg,
		DB:          db,
		Pools:       pools,
		AuditLogger: auditLogger,
		FieldTypes:  fieldTypes,
		Hooks:       orchestrator,
		Content:     contentSvc,
		Webhooks:    webhooks,
		Plugins:     plugins,
		Migrations:  migrations,
	}, nil
}

// InitRiver initializes the River client on top of a prepared worker
// registry, then attaches it to the already-built Webhook Delivery Engine.
func (i *Infrastructure) InitRiver(workers *river.Workers) error {
	if i == nil || i.DB == nil || i.Config == nil {
		return fmt.Errorf("infrastructure is not initialized")
	}
	if err := i.DB.InitRiverClient(workers, i.Config.River); err != nil {
		return fmt.Errorf("init river: %w", err)
	}
	i.Webhooks.SetRiverClient(i.DB.RiverClient)

	// The Hook Orchestrator dispatches the Webhook Delivery Engine as an
	// ordinary action hook handler; the engine has no privileged wiring
	// beyond subscribing to the emitted event names (§4.7).
	for _, event := range []string{
		"content:afterCreate", "content:afterUpdate", "content:afterDelete",
		"content:afterPublish", "content:afterUnpublish",
	} {
		ev := event
		i.Hooks.On(ev, func(ctx context.Context, data map[string]any) error {
			return i.Webhooks.Trigger(ctx, ev, data)
		})
	}
	return nil
}

// Close releases infra resources in reverse dependency order.
func (i *Infrastructure) Close() {
	if i == nil {
		return
	}
	if i.Pools != nil {
		i.Pools.Shutdown()
	}
	if i.DB != nil {
		i.DB.Close()
	}
}
