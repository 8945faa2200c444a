package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/marasteiner/flag-ding/repositories"
)

// txRunner runs fn inside one database transaction, handing it the
// executor the repositories should use.
type txRunner func(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error

func newTxRunner(db *sql.DB) txRunner {
	return func(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		if err := fn(tx); err != nil {
			_ = tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		return nil
	}
}
