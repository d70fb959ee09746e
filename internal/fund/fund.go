package fund

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound      = errors.New("transaction not found")
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	ErrInvalidType   = errors.New("unknown donation type")
	ErrInvalidStatus = errors.New("unknown status")
	ErrMissingStatus = errors.New("donation records require a status")
)

// Kind distinguishes the two record shapes. Funds carry no status and are
// always paid; donations carry an explicit Paid or Pending status.
type Kind string

const (
	KindFund     Kind = "fund"
	KindDonation Kind = "donation"
)

// Type is the donation schedule a payment belongs to.
type Type string

const (
	TypeMonthly Type = "Monthly"
	TypeYearly  Type = "Yearly"
	TypeOneTime Type = "One-time"
)

// Types lists every donation type in display order.
func Types() []Type {
	return []Type{TypeMonthly, TypeYearly, TypeOneTime}
}

func (t Type) Valid() bool {
	switch t {
	case TypeMonthly, TypeYearly, TypeOneTime:
		return true
	}

	return false
}

type Status string

const (
	StatusPaid    Status = "Paid"
	StatusPending Status = "Pending"
)

func (s Status) Valid() bool {
	return s == StatusPaid || s == StatusPending
}

// Transaction is a single fund or donation record tied to a member by the
// member's business key.
type Transaction struct {
	ID         uuid.UUID
	MemberID   string
	Kind       Kind
	Type       Type
	Amount     decimal.Decimal
	Status     *Status // nil means paid
	Date       time.Time
	RecordedBy *uuid.UUID
	CreatedAt  time.Time
	UpdatedAt  *time.Time
}

// EffectiveStatus treats a missing status as Paid.
func (t *Transaction) EffectiveStatus() Status {
	if t.Status == nil || *t.Status == "" {
		return StatusPaid
	}

	return *t.Status
}

func (t *Transaction) IsPaid() bool {
	return t.EffectiveStatus() == StatusPaid
}
