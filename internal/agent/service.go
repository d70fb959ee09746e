package agent

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=agent
type Repository interface {
	CreateAgent(ctx context.Context, a *Agent) error
	GetAgent(ctx context.Context, id uuid.UUID) (*Agent, error)
	GetAgentByAgentID(ctx context.Context, agentID string) (*Agent, error)
	ListAgents(ctx context.Context) ([]*Agent, error)
	UpdateAgent(ctx context.Context, a *Agent) error
	DeleteAgent(ctx context.Context, id uuid.UUID) error
}

const (
	idAttempts   = 8
	secretLength = 8
	secretChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	FullName      string
	Gender        string
	ContactNumber string
	Email         string
	AssignedArea  string
	JoiningDate   *time.Time
	AgentType     string
}

type UpdateParams struct {
	FullName      *string
	Gender        *string
	ContactNumber *string
	Email         *string
	AssignedArea  *string
	JoiningDate   *time.Time
	AgentType     *string
}

// Created is returned once on creation; Secret is never stored in clear.
type Created struct {
	Agent  *Agent
	Secret string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Created, error) {
	agentID, err := s.allocateAgentID(ctx)
	if err != nil {
		return nil, err
	}

	secret, err := generateSecret()
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing secret code: %w", err)
	}

	a := &Agent{
		AgentID:       agentID,
		FullName:      params.FullName,
		Gender:        params.Gender,
		ContactNumber: params.ContactNumber,
		Email:         params.Email,
		AssignedArea:  params.AssignedArea,
		JoiningDate:   params.JoiningDate,
		AgentType:     params.AgentType,
		SecretHash:    hash,
	}
	if err := s.repo.CreateAgent(ctx, a); err != nil {
		return nil, err
	}

	return &Created{Agent: a, Secret: secret}, nil
}

func (s *Service) allocateAgentID(ctx context.Context) (string, error) {
	for range idAttempts {
		n, err := rand.Int(rand.Reader, big.NewInt(9000))
		if err != nil {
			return "", fmt.Errorf("generating agent id: %w", err)
		}

		candidate := fmt.Sprintf("AGT%04d", 1000+n.Int64())

		_, err = s.repo.GetAgentByAgentID(ctx, candidate)
		if errors.Is(err, ErrNotFound) {
			return candidate, nil
		}

		if err != nil {
			return "", fmt.Errorf("checking agent id: %w", err)
		}
	}

	return "", ErrIDSpaceExhausted
}

func generateSecret() (string, error) {
	buf := make([]byte, secretLength)
	limit := big.NewInt(int64(len(secretChars)))

	for i := range buf {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("generating secret code: %w", err)
		}

		buf[i] = secretChars[n.Int64()]
	}

	return string(buf), nil
}

// Authenticate checks an agent's business id and secret code.
func (s *Service) Authenticate(ctx context.Context, agentID, secret string) (*Agent, error) {
	a, err := s.repo.GetAgentByAgentID(ctx, agentID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}

		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword(a.SecretHash, []byte(secret)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return a, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Agent, error) {
	return s.repo.GetAgent(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Agent, error) {
	return s.repo.ListAgents(ctx)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Agent, error) {
	a, err := s.repo.GetAgent(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.FullName != nil {
		a.FullName = *params.FullName
	}

	if params.Gender != nil {
		a.Gender = *params.Gender
	}

	if params.ContactNumber != nil {
		a.ContactNumber = *params.ContactNumber
	}

	if params.Email != nil {
		a.Email = *params.Email
	}

	if params.AssignedArea != nil {
		a.AssignedArea = *params.AssignedArea
	}

	if params.JoiningDate != nil {
		a.JoiningDate = params.JoiningDate
	}

	if params.AgentType != nil {
		a.AgentType = *params.AgentType
	}

	if err := s.repo.UpdateAgent(ctx, a); err != nil {
		return nil, err
	}

	return a, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteAgent(ctx, id)
}
