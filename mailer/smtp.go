package mailer

import (
	"context"
	"net/smtp"

	"github.com/jordan-wright/email"
)

// SMTPMailer sends through a plain SMTP relay. SMTP has no message id in
// the submission response, so Send returns an empty id on success.
type SMTPMailer struct {
	addr string
	auth smtp.Auth
	from string
}

func NewSMTPMailer(host, port, user, password, from string) *SMTPMailer {
	return &SMTPMailer{
		addr: host + ":" + port,
		auth: smtp.PlainAuth("", user, password, host),
		from: from,
	}
}

func (m *SMTPMailer) Send(_ context.Context, msg Message) (string, error) {
	e := email.NewEmail()
	e.From = m.from
	e.To = []string{msg.To}
	e.Subject = msg.Subject
	e.HTML = []byte(msg.HTML)
	e.Text = []byte(msg.Text)
	if err := e.Send(m.addr, m.auth); err != nil {
		return "", err
	}
	return "", nil
}
