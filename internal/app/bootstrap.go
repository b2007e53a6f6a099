// Package app — composition root. ADR-0022: bootstrap stays orchestration-only.
package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/riverqueue/river"

	"github.com/shepherd-cms/corepress/internal/api/handlers"
	"github.com/shepherd-cms/corepress/internal/app/modules"
	"github.com/shepherd-cms/corepress/internal/config"
	"github.com/shepherd-cms/corepress/internal/infrastructure"
	"github.com/shepherd-cms/corepress/internal/migration"
	"github.com/shepherd-cms/corepress/internal/migration/migrations"
	"github.com/shepherd-cms/corepress/internal/pkg/worker"
)

// Application holds composed application dependencies.
type Application struct {
	Config  *config.Config
	Router  *gin.Engine
	DB      *infrastructure.DatabaseClients
	Pools   *worker.Pools
	Infra   *modules.Infrastructure
	Modules []modules.Module
}

// Bootstrap initializes all dependencies using module-oriented manual DI.
func Bootstrap(ctx context.Context, cfg *config.Config) (*Application, error) {
	infra, err := modules.NewInfrastructure(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("init infrastructure: %w", err)
	}

	if cfg.Database.AutoMigrate {
		if err := infra.DB.MigrateRiverTables(ctx); err != nil {
			infra.Close()
			return nil, fmt.Errorf("migrate river tables: %w", err)
		}
		opts := migration.Options{Transactional: true, StopOnError: true}
		if _, err := infra.Migrations.Migrate(ctx, migrations.All(), opts); err != nil {
			infra.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
	}

	allModules := []modules.Module{
		modules.NewContentModule(infra),
	}

	workers := river.NewWorkers()
	for _, mod := range allModules {
		mod.RegisterWorkers(workers)
	}
	if err := infra.InitRiver(workers); err != nil {
		infra.Close()
		return nil, fmt.Errorf("init river workers: %w", err)
	}

	serverDeps := modules.NewServerDeps(allModules)
	server := handlers.NewServer(serverDeps)

	return &Application{
		Config:  cfg,
		Router:  newRouter(cfg, server, serverDeps.JWTCfg),
		DB:      infra.DB,
		Pools:   infra.Pools,
		Infra:   infra,
		Modules: allModules,
	}, nil
}
