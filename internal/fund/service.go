package fund

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=fund
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, id uuid.UUID) (*Transaction, error)
	ListTransactions(ctx context.Context, filter ListFilter) ([]*Transaction, error)
	UpdateTransaction(ctx context.Context, tx *Transaction) error
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type RecordParams struct {
	MemberID   string
	Kind       Kind
	Type       Type
	Amount     decimal.Decimal
	Status     *Status
	Date       *time.Time
	RecordedBy *uuid.UUID
}

// CorrectParams holds the fields an existing record may be corrected on.
type CorrectParams struct {
	Amount *decimal.Decimal
	Type   *Type
	Status *Status
}

// ListFilter narrows a listing by equality on record fields. Status matches
// on the effective status, so StatusPaid also returns records without one.
type ListFilter struct {
	MemberID *string
	Kind     *Kind
	Type     *Type
	Status   *Status
}

func (s *Service) Record(ctx context.Context, params RecordParams) (*Transaction, error) {
	if !params.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	if !params.Type.Valid() {
		return nil, ErrInvalidType
	}

	kind := params.Kind
	if kind == "" {
		kind = KindFund
	}

	tx := &Transaction{
		MemberID:   params.MemberID,
		Kind:       kind,
		Type:       params.Type,
		Amount:     params.Amount,
		RecordedBy: params.RecordedBy,
		Date:       s.now().UTC(),
	}

	if params.Date != nil {
		tx.Date = *params.Date
	}

	if kind == KindDonation {
		if params.Status == nil {
			return nil, ErrMissingStatus
		}

		if !params.Status.Valid() {
			return nil, ErrInvalidStatus
		}

		tx.Status = params.Status
	}

	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, id)
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, filter)
}

// Correct fixes the amount, type or status of an existing record. Status can
// only be set on donation records.
func (s *Service) Correct(ctx context.Context, id uuid.UUID, params CorrectParams) (*Transaction, error) {
	tx, err := s.repo.GetTransaction(ctx, id)
	if err != nil {
		return nil, err
	}

	if params.Amount != nil {
		if !params.Amount.IsPositive() {
			return nil, ErrInvalidAmount
		}

		tx.Amount = *params.Amount
	}

	if params.Type != nil {
		if !params.Type.Valid() {
			return nil, ErrInvalidType
		}

		tx.Type = *params.Type
	}

	if params.Status != nil {
		if tx.Kind != KindDonation || !params.Status.Valid() {
			return nil, ErrInvalidStatus
		}

		tx.Status = params.Status
	}

	if err := s.repo.UpdateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteTransaction(ctx, id)
}
