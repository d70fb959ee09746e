package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/sadaqa/internal/fund"
)

var _ fund.Repository = (*Store)(nil)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectTransactionColumns = `
	t.id, t.member_id, t.kind, t.type, t.amount, t.status, t.date, t.recorded_by,
	t.created_at, t.updated_at
`

// scanTransaction reads a transaction row. A NULL amount is read as zero.
func scanTransaction(s scanner) (*fund.Transaction, error) {
	var t fund.Transaction

	var kind, typ string

	var amount decimal.NullDecimal

	var status sql.NullString

	if err := s.Scan(
		&t.ID, &t.MemberID, &kind, &typ, &amount, &status, &t.Date, &t.RecordedBy,
		&t.CreatedAt, &t.UpdatedAt,
	); err != nil {
		return nil, err
	}

	t.Kind = fund.Kind(kind)
	t.Type = fund.Type(typ)

	if amount.Valid {
		t.Amount = amount.Decimal
	}

	if status.Valid && status.String != "" {
		t.Status = new(fund.Status(status.String))
	}

	return &t, nil
}

func nullStatus(s *fund.Status) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}

	return sql.NullString{String: string(*s), Valid: true}
}

func (s *Store) CreateTransaction(ctx context.Context, t *fund.Transaction) error {
	query := `
		INSERT INTO transactions (member_id, kind, type, amount, status, date, recorded_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		t.MemberID,
		t.Kind,
		t.Type,
		t.Amount,
		nullStatus(t.Status),
		t.Date,
		t.RecordedBy,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, id uuid.UUID) (*fund.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM transactions t WHERE t.id = $1`

	t, err := scanTransaction(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fund.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return t, nil
}

func (s *Store) ListTransactions(ctx context.Context, filter fund.ListFilter) ([]*fund.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + ` FROM transactions t WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.MemberID != nil {
		query += fmt.Sprintf(" AND t.member_id = $%d", argIdx)

		args = append(args, *filter.MemberID)
		argIdx++
	}

	if filter.Kind != nil {
		query += fmt.Sprintf(" AND t.kind = $%d", argIdx)

		args = append(args, *filter.Kind)
		argIdx++
	}

	if filter.Type != nil {
		query += fmt.Sprintf(" AND t.type = $%d", argIdx)

		args = append(args, *filter.Type)
		argIdx++
	}

	if filter.Status != nil {
		query += fmt.Sprintf(" AND COALESCE(NULLIF(t.status, ''), 'Paid') = $%d", argIdx)

		args = append(args, *filter.Status)
	}

	query += " ORDER BY t.created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*fund.Transaction

	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}

	return txs, nil
}

func (s *Store) UpdateTransaction(ctx context.Context, t *fund.Transaction) error {
	query := `
		UPDATE transactions
		SET type = $1, amount = $2, status = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		t.Type,
		t.Amount,
		nullStatus(t.Status),
		t.ID,
	).Scan(&t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fund.ErrNotFound
		}

		return fmt.Errorf("updating transaction: %w", err)
	}

	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	if n == 0 {
		return fund.ErrNotFound
	}

	return nil
}
