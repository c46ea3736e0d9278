// Package mailer sends fulfillment emails. Two backends are provided: the
// Resend HTTP API and plain SMTP; the service picks one at startup based on
// configuration.
package mailer

import "context"

// Message is a rendered email ready to dispatch.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Mailer dispatches a message and returns the vendor message id when the
// backend provides one.
type Mailer interface {
	Send(ctx context.Context, msg Message) (string, error)
}
