// Package repository is the indexer's sole point of contact with Postgres.
// Every exported method either opens its own transaction or, where the tick
// orchestrator needs several writes to commit atomically, accepts a
// *sqlx.Tx the caller began and will commit or roll back itself.
package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/arkiv-network/indexer/internal/domain"
)

// Repository wraps the shared database handle. It owns no state beyond the
// connection pool: every decision the indexer makes is based on rows read
// fresh within the calling transaction, never a cache.
type Repository struct {
	db *sqlx.DB
}

// New wraps an already-open *sql.DB. The caller owns the connection's
// lifecycle (pool sizing, Close).
func New(db *sql.DB) *Repository {
	return &Repository{db: sqlx.NewDb(db, "postgres")}
}

// BeginTx starts a new transaction. Callers must Commit or Rollback it;
// every repository write method that takes a *sqlx.Tx assumes the caller
// does so via `defer tx.Rollback()` immediately followed by an explicit
// Commit on the success path.
func (r *Repository) BeginTx(ctx context.Context) (*sqlx.Tx, error) {
	return r.db.BeginTxx(ctx, nil)
}

// DB exposes the underlying pool for components (e.g. the materialized-view
// refresher) that only ever need fire-and-forget statements outside a tick
// transaction.
func (r *Repository) DB() *sqlx.DB {
	return r.db
}

// PendingTxRef identifies one row of pending_tx_operations.
type PendingTxRef struct {
	TxHash      domain.Hash32 `db:"tx_hash"`
	BlockNumber domain.BlockNumber `db:"block_number"`
	TxIndex     uint32        `db:"tx_index"`
}

// PendingLogRef identifies one row of pending_delete_logs or
// pending_log_events — both share the same shape.
type PendingLogRef struct {
	TxHash      domain.Hash32      `db:"tx_hash"`
	BlockHash   domain.Hash32      `db:"block_hash"`
	LogIndex    uint32             `db:"log_index"`
	BlockNumber domain.BlockNumber `db:"block_number"`
}
