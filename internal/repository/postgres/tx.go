package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"revportal/internal/port"
)

type txKey struct{}

type txManager struct {
	db *sqlx.DB
}

// NewTxManager creates a TxManager that carries the open *sqlx.Tx in the context.
func NewTxManager(db *sqlx.DB) port.TxManager {
	return &txManager{db: db}
}

// RunInTx commits when fn returns nil and rolls back otherwise. A call nested
// inside an open transaction joins it.
func (m *txManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return fn(ctx)
	}

	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// conn returns the transaction carried by ctx, or db when there is none.
func conn(ctx context.Context, db *sqlx.DB) sqlx.ExtContext {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return db
}
