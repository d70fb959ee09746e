package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/sadaqa/internal/member"
)

var _ member.Repository = (*Store)(nil)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

const selectMemberColumns = `
	m.id, m.member_id, m.full_name, m.gender, m.contact_number, m.email, m.address,
	m.date_joined, m.donation_preference, m.expected_amount, m.assigned_agent_id,
	m.created_at, m.updated_at
`

// scanMember reads a member row. A NULL expected_amount is read as zero.
func scanMember(s scanner) (*member.Member, error) {
	var m member.Member

	var pref string

	var expected decimal.NullDecimal

	if err := s.Scan(
		&m.ID, &m.MemberID, &m.FullName, &m.Gender, &m.ContactNumber, &m.Email, &m.Address,
		&m.DateJoined, &pref, &expected, &m.AssignedAgentID,
		&m.CreatedAt, &m.UpdatedAt,
	); err != nil {
		return nil, err
	}

	m.DonationPreference = member.DonationPreference(pref)
	if expected.Valid {
		m.ExpectedAmount = expected.Decimal
	}

	return &m, nil
}

func (s *Store) CreateMember(ctx context.Context, m *member.Member) error {
	query := `
		INSERT INTO members (member_id, full_name, gender, contact_number, email, address,
			date_joined, donation_preference, expected_amount, assigned_agent_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		m.MemberID,
		m.FullName,
		m.Gender,
		m.ContactNumber,
		m.Email,
		m.Address,
		m.DateJoined,
		m.DonationPreference,
		m.ExpectedAmount,
		m.AssignedAgentID,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating member: %w", err)
	}

	return nil
}

func (s *Store) GetMember(ctx context.Context, id uuid.UUID) (*member.Member, error) {
	query := `SELECT ` + selectMemberColumns + ` FROM members m WHERE m.id = $1`

	m, err := scanMember(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, member.ErrNotFound
		}

		return nil, fmt.Errorf("getting member: %w", err)
	}

	return m, nil
}

func (s *Store) GetMemberByMemberID(ctx context.Context, memberID string) (*member.Member, error) {
	query := `SELECT ` + selectMemberColumns + ` FROM members m WHERE m.member_id = $1`

	m, err := scanMember(s.db.QueryRowContext(ctx, query, memberID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, member.ErrNotFound
		}

		return nil, fmt.Errorf("getting member by member id: %w", err)
	}

	return m, nil
}

func (s *Store) ListMembers(ctx context.Context, filter member.ListFilter) ([]*member.Member, error) {
	query := `SELECT ` + selectMemberColumns + ` FROM members m WHERE TRUE`

	var args []any

	argIdx := 1

	if filter.AssignedAgentID != nil {
		query += fmt.Sprintf(" AND m.assigned_agent_id = $%d", argIdx)

		args = append(args, *filter.AssignedAgentID)
		argIdx++
	}

	if filter.DonationPreference != nil {
		query += fmt.Sprintf(" AND m.donation_preference = $%d", argIdx)

		args = append(args, *filter.DonationPreference)
	}

	query += " ORDER BY m.created_at ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing members: %w", err)
	}
	defer rows.Close()

	var members []*member.Member

	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning member: %w", err)
		}

		members = append(members, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating member rows: %w", err)
	}

	return members, nil
}

func (s *Store) UpdateMember(ctx context.Context, m *member.Member) error {
	query := `
		UPDATE members
		SET full_name = $1, gender = $2, contact_number = $3, email = $4, address = $5,
			date_joined = $6, donation_preference = $7, expected_amount = $8,
			assigned_agent_id = $9, updated_at = NOW()
		WHERE id = $10
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		m.FullName,
		m.Gender,
		m.ContactNumber,
		m.Email,
		m.Address,
		m.DateJoined,
		m.DonationPreference,
		m.ExpectedAmount,
		m.AssignedAgentID,
		m.ID,
	).Scan(&m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return member.ErrNotFound
		}

		return fmt.Errorf("updating member: %w", err)
	}

	return nil
}

func (s *Store) DeleteMember(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting member: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting member: %w", err)
	}

	if n == 0 {
		return member.ErrNotFound
	}

	return nil
}
