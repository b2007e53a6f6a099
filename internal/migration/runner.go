package migration

import (
	"context"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	apperrors "github.com/shepherd-cms/corepress/internal/pkg/errors"
)

// Options controls how Migrate applies pending migrations (spec §4.8).
type Options struct {
	Transactional bool
	StopOnError   bool
}

// Result reports what a Migrate call did.
type Result struct {
	Applied []string
	Skipped []string
}

// Runner applies and rolls back migrations against a single connection
// pool, tracking applied ids in a migrations table.
type Runner struct {
	pool *pgxpool.Pool
}

// NewRunner builds a Runner over pool.
func NewRunner(pool *pgxpool.Pool) *Runner {
	return &Runner{pool: pool}
}

// EnsureMigrationsTable creates the bookkeeping table if absent. This is
// the one piece of schema the runner manages outside the migration list
// itself, since the list can't record its own existence.
func (r *Runner) EnsureMigrationsTable(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS migrations (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			executed_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			execution_time_ms BIGINT NOT NULL
		)
	`)
	if err != nil {
		return apperrors.ErrStorageFailuref(err, "create migrations table")
	}
	return nil
}

// Migrate sorts allMigrations by Timestamp, filters out already-applied
// ids, and runs the rest per opts (spec §4.8).
func (r *Runner) Migrate(ctx context.Context, allMigrations []Migration, opts Options) (Result, error) {
	if err := r.EnsureMigrationsTable(ctx); err != nil {
		return Result{}, err
	}

	sorted := append([]Migration(nil), allMigrations...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Timestamp < sorted[j].Timestamp })

	applied, err := r.appliedIDs(ctx)
	if err != nil {
		return Result{}, err
	}

	var pending []Migration
	for _, m := range sorted {
		if !applied[m.ID] {
			pending = append(pending, m)
		}
	}
	if len(pending) == 0 {
		return Result{}, nil
	}

	if opts.Transactional && opts.StopOnError {
		return r.migrateInOneTransaction(ctx, pending)
	}
	return r.migrateIndividually(ctx, pending, opts.StopOnError)
}

func (r *Runner) migrateInOneTransaction(ctx context.Context, pending []Migration) (Result, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return Result{}, apperrors.ErrStorageFailuref(err, "begin migration transaction")
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	var result Result
	for _, m := range pending {
		start := time.Now()
		if err := m.Up(ctx, tx); err != nil {
			_ = tx.Rollback(ctx)
			return Result{}, apperrors.ErrMigrationFailedf(err, m.ID)
		}
		elapsed := time.Since(start).Milliseconds()
		if _, err := tx.Exec(ctx, `
			INSERT INTO migrations (id, name, executed_at, execution_time_ms) VALUES ($1, $2, now(), $3)
		`, m.ID, m.Name, elapsed); err != nil {
			_ = tx.Rollback(ctx)
			return Result{}, apperrors.ErrStorageFailuref(err, "record migration")
		}
		result.Applied = append(result.Applied, m.ID)
	}

	if err := tx.Commit(ctx); err != nil {
		return Result{}, apperrors.ErrStorageFailuref(err, "commit migration transaction")
	}
	return result, nil
}

func (r *Runner) migrateIndividually(ctx context.Context, pending []Migration, stopOnError bool) (Result, error) {
	var result Result
	for _, m := range pending {
		tx, err := r.pool.Begin(ctx)
		if err != nil {
			return result, apperrors.ErrStorageFailuref(err, "begin migration transaction")
		}

		start := time.Now()
		upErr := m.Up(ctx, tx)
		if upErr != nil {
			_ = tx.Rollback(ctx)
			if stopOnError {
				return result, apperrors.ErrMigrationFailedf(upErr, m.ID)
			}
			result.Skipped = append(result.Skipped, m.ID)
			continue
		}

		elapsed := time.Since(start).Milliseconds()
		if _, err := tx.Exec(ctx, `
			INSERT INTO migrations (id, name, executed_at, execution_time_ms) VALUES ($1, $2, now(), $3)
		`, m.ID, m.Name, elapsed); err != nil {
			_ = tx.Rollback(ctx)
			if stopOnError {
				return result, apperrors.ErrStorageFailuref(err, "record migration")
			}
			result.Skipped = append(result.Skipped, m.ID)
			continue
		}

		if err := tx.Commit(ctx); err != nil {
			if stopOnError {
				return result, apperrors.ErrStorageFailuref(err, "commit migration transaction")
			}
			result.Skipped = append(result.Skipped, m.ID)
			continue
		}
		result.Applied = append(result.Applied, m.ID)
	}
	return result, nil
}

// Rollback loads the last n applied migrations in reverse order, invokes
// Down for each, and deletes its migrations row.
func (r *Runner) Rollback(ctx context.Context, allMigrations []Migration, n int) error {
	byID := map[string]Migration{}
	for _, m := range allMigrations {
		byID[m.ID] = m
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id FROM migrations ORDER BY executed_at DESC, id DESC LIMIT $1
	`, n)
	if err != nil {
		return apperrors.ErrStorageFailuref(err, "query applied migrations")
	}
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return apperrors.ErrStorageFailuref(err, "scan applied migration id")
		}
		ids = append(ids, id)
	}
	rows.Close()

	for _, id := range ids {
		m, ok := byID[id]
		if !ok {
			return apperrors.ErrMigrationFailedf(apperrors.ErrNotFound, id)
		}

		tx, err := r.pool.Begin(ctx)
		if err != nil {
			return apperrors.ErrStorageFailuref(err, "begin rollback transaction")
		}
		if err := m.Down(ctx, tx); err != nil {
			_ = tx.Rollback(ctx)
			return apperrors.ErrMigrationFailedf(err, m.ID)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM migrations WHERE id = $1`, id); err != nil {
			_ = tx.Rollback(ctx)
			return apperrors.ErrStorageFailuref(err, "delete migration record")
		}
		if err := tx.Commit(ctx); err != nil {
			return apperrors.ErrStorageFailuref(err, "commit rollback transaction")
		}
	}
	return nil
}

func (r *Runner) appliedIDs(ctx context.Context) (map[string]bool, error) {
	rows, err := r.pool.Query(ctx, `SELECT id FROM migrations`)
	if err != nil {
		return nil, apperrors.ErrStorageFailuref(err, "query applied migrations")
	}
	defer rows.Close()

	applied := map[string]bool{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperrors.ErrStorageFailuref(err, "scan applied migration id")
		}
		applied[id] = true
	}
	return applied, nil
}
