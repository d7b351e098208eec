package domain

import "time"

// Audit actions recorded by the signup and login flows.
const (
	ActionSignupRequested = "signup_requested"
	ActionOTPResent       = "otp_resent"
	ActionSignupVerified  = "signup_verified"
	ActionLoginSuccess    = "login_success"
	ActionLoginFailure    = "login_failure"
)

// AuditLog represents an audit event.
type AuditLog struct {
	ID        string
	UserEmail string
	Action    string
	IP        string
	Metadata  string
	CreatedAt time.Time
}
