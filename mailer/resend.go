package mailer

import (
	"context"

	"github.com/resend/resend-go/v2"
)

// ResendMailer sends through the Resend HTTP API.
type ResendMailer struct {
	client *resend.Client
	from   string
}

func NewResendMailer(apiKey, from string) *ResendMailer {
	return &ResendMailer{client: resend.NewClient(apiKey), from: from}
}

func (m *ResendMailer) Send(ctx context.Context, msg Message) (string, error) {
	sent, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	})
	if err != nil {
		return "", err
	}
	return sent.Id, nil
}
