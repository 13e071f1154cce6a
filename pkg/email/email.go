// Package email delivers transactional mail through Amazon SES.
package email

import (
	"context"
	"errors"
	"strings"
)

// Message is a single transactional email with both HTML and plain text parts.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Validate checks the fields every provider needs.
func (m Message) Validate() error {
	if strings.TrimSpace(m.To) == "" {
		return errors.New("email recipient is required")
	}
	if strings.TrimSpace(m.Subject) == "" {
		return errors.New("email subject is required")
	}
	if m.HTML == "" && m.Text == "" {
		return errors.New("email body is required")
	}
	return nil
}

// Sender delivers a message and returns the provider message id.
type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// NoopSender accepts every valid message without delivering it.
type NoopSender struct{}

func (NoopSender) Send(_ context.Context, msg Message) (string, error) {
	if err := msg.Validate(); err != nil {
		return "", err
	}
	return "", nil
}
