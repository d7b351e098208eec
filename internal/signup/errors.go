package signup

import (
	"errors"
	"net/http"
)

// Kind classifies a signup failure. Each kind maps to one HTTP status.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindExpired
	KindAuth
	KindDelivery
)

// String returns the kind name used in logs and metrics labels.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindExpired:
		return "expired"
	case KindAuth:
		return "auth"
	case KindDelivery:
		return "delivery"
	default:
		return "internal"
	}
}

// HTTPStatus returns the response status for k.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation, KindExpired:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindAuth:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error is a user-facing signup failure. Message is safe to return to the client; Err is the
// underlying cause, if any, and is only logged.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Kind.String() + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Kind.String() + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// KindOf returns the Kind of err, or KindInternal when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// User-facing messages.
const (
	MsgOTPSent        = "OTP sent to your email. Please check your inbox."
	MsgOTPSentDev     = "Email delivery is unavailable; use the development OTP shown."
	MsgOTPResent      = "A new OTP has been sent to your email."
	MsgVerified       = "Email verified. Your account has been created."
	MsgLoggedIn       = "Login successful."
	MsgEmailRequired  = "Email is required."
	MsgInvalidOTP     = "Invalid OTP."
	MsgOTPFormat      = "OTP must be 6 letters and numbers with at least one of each."
	MsgOTPExpired     = "OTP has expired. Please sign up again."
	MsgNoPending      = "No pending signup found for this email."
	MsgNoAccount      = "Account not found."
	MsgLoginRequired  = "Email and password are required."
	MsgBadCredentials = "Invalid email or password."
	MsgDeliveryFailed = "Could not send the OTP email. Please try again later."
	MsgInternal       = "Something went wrong."
	MsgInvalidBody    = "Invalid request body."
)
