// Package notify delivers signup emails.
package notify

import (
	"context"
	"errors"
)

//go:generate mockgen -source=sender.go -destination=mocks/mock_sender.go -package=mocks Sender

// ErrNotConfigured is returned when the essential SMTP credentials are missing. No connection
// is attempted in that case.
var ErrNotConfigured = errors.New("notify: email transport not configured")

// Sender sends a single plain-text email.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

// DeliveryError reports a transport failure (dial, auth or send) and carries its cause.
type DeliveryError struct {
	Cause error
}

func (e *DeliveryError) Error() string {
	if e.Cause == nil {
		return "notify: delivery failed"
	}
	return "notify: delivery failed: " + e.Cause.Error()
}

func (e *DeliveryError) Unwrap() error { return e.Cause }
