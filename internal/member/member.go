package member

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound         = errors.New("member not found")
	ErrInvalidAmount    = errors.New("expected amount must not be negative")
	ErrIDSpaceExhausted = errors.New("could not allocate a free member id")
)

// DonationPreference is how often a member has pledged to give.
type DonationPreference string

const (
	PreferenceMonthly DonationPreference = "Monthly"
	PreferenceYearly  DonationPreference = "Yearly"
	PreferenceOneTime DonationPreference = "One-time"
	PreferenceNone    DonationPreference = "None"
)

func (p DonationPreference) Valid() bool {
	switch p {
	case PreferenceMonthly, PreferenceYearly, PreferenceOneTime, PreferenceNone:
		return true
	}

	return false
}

// Member is a donor tracked by the mosque.
type Member struct {
	ID                 uuid.UUID
	MemberID           string // Business key, e.g. MBR4821
	FullName           string
	Gender             string
	ContactNumber      string
	Email              string
	Address            string
	DateJoined         *time.Time
	DonationPreference DonationPreference
	ExpectedAmount     decimal.Decimal
	AssignedAgentID    *uuid.UUID // Agent store id, not the AGT business key
	CreatedAt          time.Time
	UpdatedAt          *time.Time
}

// DisplayName falls back to a neutral salutation for unnamed members.
func (m *Member) DisplayName() string {
	if m == nil || m.FullName == "" {
		return "Member"
	}

	return m.FullName
}
