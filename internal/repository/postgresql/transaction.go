package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/hirestack/ats-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type txKey struct{}

type txManager struct {
	db *database.DB
}

// NewTxManager creates a database.TxManager backed by pgx transactions
func NewTxManager(db *database.DB) database.TxManager {
	return &txManager{db: db}
}

// WithinTransaction executes fn inside a database transaction. The
// transaction is carried in the context so repositories called within fn
// share it.
func (m *txManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := m.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	txCtx := context.WithValue(ctx, txKey{}, tx)

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(txCtx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback error: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// GetQuerier returns either the transaction carried by the context or the
// pool. Used in repositories to support both transactional and
// non-transactional operations.
func GetQuerier(ctx context.Context, db *database.DB) database.Querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return db.Pool
}

// isUniqueViolation reports whether err is a PostgreSQL unique-constraint
// violation (code 23505). Races lost at commit time surface this way and
// are mapped to domain conflict errors by the repositories.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
