// Package telemetry emits signup lifecycle events (OTel log records) off the request path.
package telemetry

import (
	"context"
	"time"
)

// Event types emitted by the signup and login flows.
const (
	EventOTPRequested  = "signup.otp_requested"
	EventOTPResent     = "signup.otp_resent"
	EventOTPVerified   = "signup.otp_verified"
	EventOTPRejected   = "signup.otp_rejected"
	EventOTPExpired    = "signup.otp_expired"
	EventDeliveryError = "signup.delivery_failed"
	EventLoginSuccess  = "auth.login_success"
	EventLoginFailure  = "auth.login_failure"
)

// Event is one telemetry record. Attributes are free-form string pairs.
type Event struct {
	Type       string
	Email      string
	Source     string
	Attributes map[string]string
	CreatedAt  time.Time
}

// EventEmitter emits telemetry events (e.g. to OTel Logs). Best-effort; callers log and ignore errors.
type EventEmitter interface {
	Emit(ctx context.Context, event Event) error
}
