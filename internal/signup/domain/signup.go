// Package domain defines the pending signup and confirmed user records.
package domain

import (
	"strings"
	"time"
)

// OTPTTL is how long a signup code stays valid after it is issued.
const OTPTTL = 10 * time.Minute

// Profile is the user-supplied part of a signup shared by pending and confirmed records.
type Profile struct {
	FullName     string
	Email        string
	PresentSkill string
	School       string
	Country      string
	PhoneNumber  string
}

// Normalized returns a copy with email lower-cased, phone normalized and all fields trimmed.
func (p Profile) Normalized() Profile {
	return Profile{
		FullName:     strings.TrimSpace(p.FullName),
		Email:        NormalizeEmail(p.Email),
		PresentSkill: strings.TrimSpace(p.PresentSkill),
		School:       strings.TrimSpace(p.School),
		Country:      strings.TrimSpace(p.Country),
		PhoneNumber:  NormalizePhone(p.PhoneNumber),
	}
}

// PendingSignup is an unconfirmed registration awaiting OTP verification.
type PendingSignup struct {
	Profile
	PasswordHash string
	OTPCode      string
	ExpiresAt    time.Time
	CreatedAt    time.Time
}

// NewPendingSignup builds a pending record with normalized fields and a code valid for OTPTTL from issuedAt.
func NewPendingSignup(profile Profile, passwordHash, otp string, issuedAt time.Time) *PendingSignup {
	issuedAt = issuedAt.UTC()
	return &PendingSignup{
		Profile:      profile.Normalized(),
		PasswordHash: passwordHash,
		OTPCode:      strings.ToUpper(otp),
		ExpiresAt:    issuedAt.Add(OTPTTL),
		CreatedAt:    issuedAt,
	}
}

// Reissue replaces the code and restarts the expiry window.
func (p *PendingSignup) Reissue(otp string, issuedAt time.Time) {
	p.OTPCode = strings.ToUpper(otp)
	p.ExpiresAt = issuedAt.UTC().Add(OTPTTL)
}

// Expired reports whether now is strictly after ExpiresAt.
func (p *PendingSignup) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}

// Promote returns the confirmed user for this signup.
func (p *PendingSignup) Promote(id string, now time.Time) *ConfirmedUser {
	return &ConfirmedUser{
		ID:           id,
		Profile:      p.Profile,
		PasswordHash: p.PasswordHash,
		CreatedAt:    now.UTC(),
	}
}

// ConfirmedUser is a verified account. Immutable once created.
type ConfirmedUser struct {
	ID string
	Profile
	PasswordHash string
	CreatedAt    time.Time
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeName trims and case-folds a full name for equality checks.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NormalizePhone keeps only digits, preserving a single leading '+'.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	var b strings.Builder
	b.Grow(len(phone))
	if strings.HasPrefix(phone, "+") {
		b.WriteByte('+')
	}
	for i := 0; i < len(phone); i++ {
		if c := phone[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}
