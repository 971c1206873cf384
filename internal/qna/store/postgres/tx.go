package postgres

import (
	"context"
	"database/sql"
	"time"

	"qna/pkg/platform/tx"
)

// Tx runs service units of work in a database transaction.
type Tx struct {
	db      *sql.DB
	timeout time.Duration
}

func NewTx(db *sql.DB) *Tx {
	return &Tx{db: db, timeout: tx.DefaultTimeout}
}

// RunInTx commits when fn returns nil and rolls back otherwise.
func (t *Tx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return tx.Run(ctx, t.db, t.timeout, fn)
}
