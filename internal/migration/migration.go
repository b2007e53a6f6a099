// Package migration implements the Migration Runner (component I): an
// ordered, transactional-or-not runner over a fixed list of migrations,
// each with an id, name, monotonic timestamp, and up/down callbacks
// operating on a pgx transaction.
//
// Import Path: github.com/shepherd-cms/corepress/internal/migration
package migration

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Migration is one schema change. ID must be globally unique and is
// timestamp-prefixed by convention (e.g. "0001_init"). Timestamp orders
// migrations independently of ID string comparison.
type Migration struct {
	ID        string
	Name      string
	Timestamp int64
	Up        func(ctx context.Context, tx pgx.Tx) error
	Down      func(ctx context.Context, tx pgx.Tx) error
}
