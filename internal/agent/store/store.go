package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/sadaqa/internal/agent"
)

var _ agent.Repository = (*Store)(nil)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

const selectAgentColumns = `
	id, agent_id, full_name, gender, contact_number, email, assigned_area,
	joining_date, agent_type, secret_hash, created_at, updated_at
`

func scanAgent(s scanner) (*agent.Agent, error) {
	var a agent.Agent

	var hash string

	if err := s.Scan(
		&a.ID, &a.AgentID, &a.FullName, &a.Gender, &a.ContactNumber, &a.Email, &a.AssignedArea,
		&a.JoiningDate, &a.AgentType, &hash, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}

	a.SecretHash = []byte(hash)

	return &a, nil
}

func (s *Store) CreateAgent(ctx context.Context, a *agent.Agent) error {
	query := `
		INSERT INTO agents (agent_id, full_name, gender, contact_number, email, assigned_area,
			joining_date, agent_type, secret_hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW())
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
		a.AgentID,
		a.FullName,
		a.Gender,
		a.ContactNumber,
		a.Email,
		a.AssignedArea,
		a.JoiningDate,
		a.AgentType,
		string(a.SecretHash),
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("creating agent: %w", err)
	}

	return nil
}

func (s *Store) getBy(ctx context.Context, column string, value any) (*agent.Agent, error) {
	query := `SELECT ` + selectAgentColumns + ` FROM agents WHERE ` + column + ` = $1`

	a, err := scanAgent(s.db.QueryRowContext(ctx, query, value))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, agent.ErrNotFound
		}

		return nil, fmt.Errorf("getting agent: %w", err)
	}

	return a, nil
}

func (s *Store) GetAgent(ctx context.Context, id uuid.UUID) (*agent.Agent, error) {
	return s.getBy(ctx, "id", id)
}

func (s *Store) GetAgentByAgentID(ctx context.Context, agentID string) (*agent.Agent, error) {
	return s.getBy(ctx, "agent_id", agentID)
}

func (s *Store) ListAgents(ctx context.Context) ([]*agent.Agent, error) {
	query := `SELECT ` + selectAgentColumns + ` FROM agents ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing agents: %w", err)
	}
	defer rows.Close()

	var agents []*agent.Agent

	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning agent: %w", err)
		}

		agents = append(agents, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating agent rows: %w", err)
	}

	return agents, nil
}

func (s *Store) UpdateAgent(ctx context.Context, a *agent.Agent) error {
	query := `
		UPDATE agents
		SET full_name = $1, gender = $2, contact_number = $3, email = $4, assigned_area = $5,
			joining_date = $6, agent_type = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at
	`

	err := s.db.QueryRowContext(ctx, query,
		a.FullName,
		a.Gender,
		a.ContactNumber,
		a.Email,
		a.AssignedArea,
		a.JoiningDate,
		a.AgentType,
		a.ID,
	).Scan(&a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return agent.ErrNotFound
		}

		return fmt.Errorf("updating agent: %w", err)
	}

	return nil
}

// DeleteAgent removes the agent; members.assigned_agent_id is nulled by the FK.
func (s *Store) DeleteAgent(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM agents WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting agent: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting agent: %w", err)
	}

	if n == 0 {
		return agent.ErrNotFound
	}

	return nil
}
