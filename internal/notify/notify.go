// Package notify sends payment reminders to members over SMS or email.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/sadaqa/internal/money"
	"github.com/MrJamesThe3rd/sadaqa/internal/reconcile"
)

var (
	ErrNoRecipient    = errors.New("no recipient")
	ErrNothingPending = errors.New("member has no pending amount")
	ErrUnknownChannel = errors.New("unknown channel")
	ErrEmptyMessage   = errors.New("message is empty")
)

// ReminderSubject is the email subject used for pending payment reminders.
const ReminderSubject = "Pending Payment Reminder"

type Channel string

const (
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
)

//go:generate mockgen -source=notify.go -destination=sender_mock.go -package=notify
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// ComposeReminder builds the default reminder text. An empty name falls back
// to "Member".
func ComposeReminder(name string, pending decimal.Decimal) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Member"
	}

	return fmt.Sprintf("Dear %s, your pending payment is %s %s. Please pay promptly.",
		name, money.Currency, pending.String())
}

type Service struct {
	sms   SMSSender
	email EmailSender
}

func NewService(sms SMSSender, email EmailSender) *Service {
	return &Service{sms: sms, email: email}
}

// SendSMS relays a single text message. Failures are returned as-is and
// never retried.
func (s *Service) SendSMS(ctx context.Context, to, body string) error {
	to = strings.TrimSpace(to)
	if to == "" {
		return ErrNoRecipient
	}

	if strings.TrimSpace(body) == "" {
		return ErrEmptyMessage
	}

	if err := s.sms.SendSMS(ctx, to, body); err != nil {
		return fmt.Errorf("sending sms: %w", err)
	}

	return nil
}

func (s *Service) SendEmail(ctx context.Context, to, subject, body string) error {
	to = strings.TrimSpace(to)
	if to == "" {
		return ErrNoRecipient
	}

	if strings.TrimSpace(body) == "" {
		return ErrEmptyMessage
	}

	if err := s.email.SendEmail(ctx, to, subject, body); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}

	return nil
}

// Remind sends a reminder for a reconciled member over the given channel and
// returns the message that was sent. An empty message is replaced with the
// composed default. There is no fallback to the other channel.
func (s *Service) Remind(ctx context.Context, res reconcile.Result, ch Channel, message string) (string, error) {
	if res.Member == nil || !res.PendingAmount.IsPositive() {
		return "", ErrNothingPending
	}

	if strings.TrimSpace(message) == "" {
		message = ComposeReminder(res.Member.FullName, res.PendingAmount)
	}

	switch ch {
	case ChannelSMS:
		return message, s.SendSMS(ctx, res.Member.ContactNumber, message)
	case ChannelEmail:
		return message, s.SendEmail(ctx, res.Member.Email, ReminderSubject, message)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownChannel, ch)
	}
}
