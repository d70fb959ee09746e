// Package sendgridmail sends plain-text email through the SendGrid v3 API.
package sendgridmail

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/MrJamesThe3rd/sadaqa/internal/notify"
)

const endpoint = "/v3/mail/send"

var _ notify.EmailSender = (*Sender)(nil)

type Sender struct {
	key  string
	host string
	from *sgmail.Email
}

func New(key, host, fromName, fromEmail string) *Sender {
	return &Sender{
		key:  key,
		host: host,
		from: sgmail.NewEmail(fromName, fromEmail),
	}
}

func (s *Sender) prepare(to, subject, body string) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = subject
	p.AddTos(sgmail.NewEmail("", to))

	m := sgmail.NewV3Mail()
	m.SetFrom(s.from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/plain", body))

	return m
}

func (s *Sender) SendEmail(ctx context.Context, to, subject, body string) error {
	req := sendgrid.GetRequest(s.key, endpoint, s.host)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(s.prepare(to, subject, body))

	res, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("calling sendgrid: %w", err)
	}

	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("sendgrid returned status %d: %s", res.StatusCode, res.Body)
	}

	return nil
}
