package migration_test

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"

	"github.com/shepherd-cms/corepress/internal/migration"
	"github.com/shepherd-cms/corepress/internal/testutil"
)

func sampleMigrations() []migration.Migration {
	return []migration.Migration{
		{
			ID: "0001_create_widgets", Name: "create widgets", Timestamp: 1,
			Up: func(ctx context.Context, tx pgx.Tx) error {
				_, err := tx.Exec(ctx, `CREATE TABLE widgets (id TEXT PRIMARY KEY)`)
				return err
			},
			Down: func(ctx context.Context, tx pgx.Tx) error {
				_, err := tx.Exec(ctx, `DROP TABLE widgets`)
				return err
			},
		},
		{
			ID: "0002_add_widget_name", Name: "add widget name", Timestamp: 2,
			Up: func(ctx context.Context, tx pgx.Tx) error {
				_, err := tx.Exec(ctx, `ALTER TABLE widgets ADD COLUMN name TEXT`)
				return err
			},
			Down: func(ctx context.Context, tx pgx.Tx) error {
				_, err := tx.Exec(ctx, `ALTER TABLE widgets DROP COLUMN name`)
				return err
			},
		},
	}
}

func TestMigrate_AppliesPendingInTimestampOrder(t *testing.T) {
	pool := testutil.OpenPGXPool(t, "migration")
	runner := migration.NewRunner(pool)
	ctx := context.Background()

	result, err := runner.Migrate(ctx, sampleMigrations(), migration.Options{Transactional: true, StopOnError: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Applied) != 2 || result.Applied[0] != "0001_create_widgets" || result.Applied[1] != "0002_add_widget_name" {
		t.Errorf("expected both migrations applied in order, got %v", result.Applied)
	}

	var count int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM migrations`).Scan(&count); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 migration records, got %d", count)
	}
}

func TestMigrate_SecondRunIsNoopAndLeavesNoDuplicates(t *testing.T) {
	pool := testutil.OpenPGXPool(t, "migration")
	runner := migration.NewRunner(pool)
	ctx := context.Background()

	if _, err := runner.Migrate(ctx, sampleMigrations(), migration.Options{Transactional: true, StopOnError: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	result, err := runner.Migrate(ctx, sampleMigrations(), migration.Options{Transactional: true, StopOnError: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Applied) != 0 {
		t.Errorf("expected no migrations applied on second run, got %v", result.Applied)
	}

	var count int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM migrations`).Scan(&count); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Errorf("expected no duplicate migration rows, got %d", count)
	}
}

func TestRollback_InvokesDownInReverseOrder(t *testing.T) {
	pool := testutil.OpenPGXPool(t, "migration")
	runner := migration.NewRunner(pool)
	ctx := context.Background()
	migrations := sampleMigrations()

	if _, err := runner.Migrate(ctx, migrations, migration.Options{Transactional: true, StopOnError: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := runner.Rollback(ctx, migrations, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var count int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM migrations`).Scan(&count); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Errorf("expected one migration record remaining after rollback, got %d", count)
	}

	var exists bool
	if err := pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM information_schema.columns WHERE table_name = 'widgets' AND column_name = 'name')
	`).Scan(&exists); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists {
		t.Error("expected rolled-back column to be dropped")
	}
}
