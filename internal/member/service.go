package member

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=member
type Repository interface {
	CreateMember(ctx context.Context, m *Member) error
	GetMember(ctx context.Context, id uuid.UUID) (*Member, error)
	GetMemberByMemberID(ctx context.Context, memberID string) (*Member, error)
	ListMembers(ctx context.Context, filter ListFilter) ([]*Member, error)
	UpdateMember(ctx context.Context, m *Member) error
	DeleteMember(ctx context.Context, id uuid.UUID) error
}

// idAttempts bounds how many random business keys Create tries before giving up.
const idAttempts = 8

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	FullName           string
	Gender             string
	ContactNumber      string
	Email              string
	Address            string
	DateJoined         *time.Time
	DonationPreference DonationPreference
	ExpectedAmount     decimal.Decimal
	AssignedAgentID    *uuid.UUID
}

type UpdateParams struct {
	FullName           *string
	Gender             *string
	ContactNumber      *string
	Email              *string
	Address            *string
	DateJoined         *time.Time
	DonationPreference *DonationPreference
	ExpectedAmount     *decimal.Decimal
	AssignedAgentID    *uuid.UUID
}

type ListFilter struct {
	AssignedAgentID    *uuid.UUID
	DonationPreference *DonationPreference
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Member, error) {
	if params.ExpectedAmount.IsNegative() {
		return nil, ErrInvalidAmount
	}

	pref := params.DonationPreference
	if pref == "" {
		pref = PreferenceNone
	}

	memberID, err := s.allocateMemberID(ctx)
	if err != nil {
		return nil, err
	}

	m := &Member{
		MemberID:           memberID,
		FullName:           params.FullName,
		Gender:             params.Gender,
		ContactNumber:      params.ContactNumber,
		Email:              params.Email,
		Address:            params.Address,
		DateJoined:         params.DateJoined,
		DonationPreference: pref,
		ExpectedAmount:     params.ExpectedAmount,
		AssignedAgentID:    params.AssignedAgentID,
	}
	if err := s.repo.CreateMember(ctx, m); err != nil {
		return nil, err
	}

	return m, nil
}

// allocateMemberID picks a random MBR#### key that is not taken yet.
func (s *Service) allocateMemberID(ctx context.Context) (string, error) {
	for range idAttempts {
		candidate := fmt.Sprintf("MBR%04d", 1000+rand.IntN(9000))

		_, err := s.repo.GetMemberByMemberID(ctx, candidate)
		if errors.Is(err, ErrNotFound) {
			return candidate, nil
		}

		if err != nil {
			return "", fmt.Errorf("checking member id: %w", err)
		}
	}

	return "", ErrIDSpaceExhausted
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Member, error) {
	return s.repo.GetMember(ctx, id)
}

func (s *Service) GetByMemberID(ctx context.Context, memberID string) (*Member, error) {
	return s.repo.GetMemberByMemberID(ctx, memberID)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Member, error) {
	return s.repo.ListMembers(ctx, filter)
}

// Update applies the non-nil fields of params to the member and saves it.
func (s *Service) Update(ctx context.Context, id uuid.UUID, params UpdateParams) (*Member, error) {
	m, err := s.repo.GetMember(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.ExpectedAmount != nil && params.ExpectedAmount.IsNegative() {
		return nil, ErrInvalidAmount
	}

	if params.FullName != nil {
		m.FullName = *params.FullName
	}

	if params.Gender != nil {
		m.Gender = *params.Gender
	}

	if params.ContactNumber != nil {
		m.ContactNumber = *params.ContactNumber
	}

	if params.Email != nil {
		m.Email = *params.Email
	}

	if params.Address != nil {
		m.Address = *params.Address
	}

	if params.DateJoined != nil {
		m.DateJoined = params.DateJoined
	}

	if params.DonationPreference != nil {
		m.DonationPreference = *params.DonationPreference
	}

	if params.ExpectedAmount != nil {
		m.ExpectedAmount = *params.ExpectedAmount
	}

	if params.AssignedAgentID != nil {
		m.AssignedAgentID = params.AssignedAgentID
	}

	if err := s.repo.UpdateMember(ctx, m); err != nil {
		return nil, err
	}

	return m, nil
}

// Delete removes the member. Their fund records are left in place.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteMember(ctx, id)
}
