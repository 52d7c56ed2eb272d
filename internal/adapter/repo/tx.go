package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/IDLKZ/jankuier-back-sub002/internal/usecase"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so every repo can run either
// standalone or inside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// MySQLStore owns the connection pool and builds repo sets bound to it.
type MySQLStore struct {
	db *sql.DB
}

func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

// Repos returns a repo set bound to the bare pool, for plain reads.
func (s *MySQLStore) Repos() usecase.Repos {
	return buildRepos(s.db)
}

// Within runs fn inside one transaction: the triggering write and every
// derived consistency effect commit or roll back together.
func (s *MySQLStore) Within(ctx context.Context, fn func(r usecase.Repos) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(buildRepos(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func buildRepos(q DBTX) usecase.Repos {
	return usecase.Repos{
		Carts:      &MySQLCartRepo{q: q},
		CartItems:  &MySQLCartItemRepo{q: q},
		Products:   &MySQLProductRepo{q: q},
		Orders:     &MySQLOrderRepo{q: q},
		OrderItems: &MySQLOrderItemRepo{q: q},
		History:    &MySQLHistoryRepo{q: q},
		Codes:      &MySQLVerificationCodeRepo{q: q},
		Outbox:     &MySQLOutboxRepo{q: q},
	}
}

var _ usecase.TxRunner = (*MySQLStore)(nil)
