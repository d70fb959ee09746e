// Package twiliosms sends text messages through the Twilio REST API.
package twiliosms

import (
	"context"
	"fmt"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/MrJamesThe3rd/sadaqa/internal/notify"
)

var _ notify.SMSSender = (*Sender)(nil)

// messageCreator is the part of the Twilio API client the sender uses.
type messageCreator interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

type Sender struct {
	api  messageCreator
	from string
}

func New(accountSID, authToken, from string) *Sender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})

	return &Sender{api: client.Api, from: from}
}

// SendSMS creates a single outbound message. The Twilio client has no
// context support, so a cancelled context only stops the call before it is
// made.
func (s *Sender) SendSMS(ctx context.Context, to, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(body)

	if _, err := s.api.CreateMessage(params); err != nil {
		return fmt.Errorf("creating twilio message: %w", err)
	}

	return nil
}
