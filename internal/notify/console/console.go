// Package console provides senders that log messages instead of delivering
// them. They are used in development and when no provider is configured.
package console

import (
	"context"
	"log/slog"
	"sync"

	"github.com/MrJamesThe3rd/sadaqa/internal/notify"
)

var (
	_ notify.SMSSender   = (*Sender)(nil)
	_ notify.EmailSender = (*Sender)(nil)
)

type Message struct {
	Channel notify.Channel
	To      string
	Subject string
	Body    string
}

// Sender logs every message and keeps a copy of it.
type Sender struct {
	mu   sync.Mutex
	sent []Message
}

func New() *Sender {
	return &Sender{}
}

func (s *Sender) SendSMS(_ context.Context, to, body string) error {
	slog.Info("sms", "to", to, "body", body)
	s.record(Message{Channel: notify.ChannelSMS, To: to, Body: body})

	return nil
}

func (s *Sender) SendEmail(_ context.Context, to, subject, body string) error {
	slog.Info("email", "to", to, "subject", subject, "body", body)
	s.record(Message{Channel: notify.ChannelEmail, To: to, Subject: subject, Body: body})

	return nil
}

func (s *Sender) record(m Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sent = append(s.sent, m)
}

// Sent returns a copy of the messages sent so far.
func (s *Sender) Sent() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Message, len(s.sent))
	copy(out, s.sent)

	return out
}
