// Package mailer delivers out-of-band messages, mainly OTP codes. Sends are
// synchronous so callers can abort a flow when delivery fails.
package mailer

import (
	"context"
	"log"
)

// Mailer sends one plain-text message.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Console logs messages instead of sending them. Default in dev.
type Console struct{}

// Send writes the message to the process log.
func (Console) Send(_ context.Context, to, subject, body string) error {
	log.Printf("mail to %s: %s\n%s", to, subject, body)
	return nil
}
