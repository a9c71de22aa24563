package store

import (
	"context"

	"github.com/Harshitk-cp/leaddesk/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the query surface shared by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Transactor struct {
	db *pgxpool.Pool
}

func NewTransactor(db *pgxpool.Pool) *Transactor {
	return &Transactor{db: db}
}

// InTx begins a transaction and hands fn stores bound to it. pgx.BeginFunc
// rolls back when fn returns an error or panics.
func (t *Transactor) InTx(ctx context.Context, fn func(leads domain.LeadStore, activities domain.ActivityStore) error) error {
	return pgx.BeginFunc(ctx, t.db, func(tx pgx.Tx) error {
		return fn(NewLeadStore(tx), NewActivityStore(tx))
	})
}
