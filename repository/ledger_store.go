package repository

import (
	"context"
	"errors"
	"fmt"

	"xpslots/database"
	"xpslots/domain/interfaces"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

const (
	ledgerTable     = "ledger_records"
	colKey          = "key"
	colValue        = "value"
	colUpdatedAt    = "updated_at"
	upsertLedgerSQL = "ON CONFLICT (" + colKey + ") DO UPDATE SET " + colValue + " = EXCLUDED." + colValue + ", " + colUpdatedAt + " = NOW()"
)

type ledgerStore struct {
	q Queryable
}

// NewLedgerStore creates a key-value store for ledger records backed by PostgreSQL
func NewLedgerStore(db *database.DB) interfaces.KeyValueStore {
	return &ledgerStore{q: db.Pool}
}

// NewLedgerStoreWithTx creates a ledger store that runs inside an open transaction
func NewLedgerStoreWithTx(tx Queryable) interfaces.KeyValueStore {
	return &ledgerStore{q: tx}
}

func (s *ledgerStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query, args, err := psql.Select(colValue).
		From(ledgerTable).
		Where(sq.Eq{colKey: key}).
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("failed to build ledger query: %w", err)
	}

	var value []byte
	err = s.q.QueryRow(ctx, query, args...).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get ledger record: %w", err)
	}

	return value, true, nil
}

func (s *ledgerStore) Set(ctx context.Context, key string, value []byte) error {
	query, args, err := psql.Insert(ledgerTable).
		Columns(colKey, colValue).
		Values(key, string(value)).
		Suffix(upsertLedgerSQL).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build ledger upsert: %w", err)
	}

	if _, err := s.q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to set ledger record: %w", err)
	}
	return nil
}
