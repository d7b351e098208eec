package domain

import (
	"testing"
	"time"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"+1 (555) 123-4567", "+15551234567"},
		{"555.123.4567", "5551234567"},
		{"  +44 20 7946 0958 ", "+442079460958"},
		{"12+34", "1234"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := NormalizePhone(tt.in); got != tt.want {
			t.Errorf("NormalizePhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewPendingSignup_NormalizesAtConstruction(t *testing.T) {
	issued := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	p := NewPendingSignup(Profile{
		FullName:     "  Ada Lovelace ",
		Email:        " Ada@Example.COM ",
		PresentSkill: " Mathematician ",
		School:       " Home ",
		Country:      " UK ",
		PhoneNumber:  "+44 (20) 7946-0958",
	}, "hash", "a1b2c3", issued)

	if p.Email != "ada@example.com" {
		t.Errorf("Email = %q", p.Email)
	}
	if p.FullName != "Ada Lovelace" {
		t.Errorf("FullName = %q", p.FullName)
	}
	if p.PhoneNumber != "+442079460958" {
		t.Errorf("PhoneNumber = %q", p.PhoneNumber)
	}
	if p.OTPCode != "A1B2C3" {
		t.Errorf("OTPCode = %q, want upper-cased", p.OTPCode)
	}
	if !p.ExpiresAt.Equal(issued.Add(10 * time.Minute)) {
		t.Errorf("ExpiresAt = %v, want issued+10m", p.ExpiresAt)
	}
}

func TestPendingSignup_ExpiredBoundary(t *testing.T) {
	issued := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	p := NewPendingSignup(Profile{Email: "a@b.co"}, "hash", "A1B2C3", issued)

	if p.Expired(p.ExpiresAt) {
		t.Error("exactly at expiry should still be valid")
	}
	if p.Expired(p.ExpiresAt.Add(-time.Second)) {
		t.Error("one second before expiry should be valid")
	}
	if !p.Expired(p.ExpiresAt.Add(time.Second)) {
		t.Error("one second after expiry should be expired")
	}
}

func TestPendingSignup_ReissueAndPromote(t *testing.T) {
	issued := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	p := NewPendingSignup(Profile{Email: "a@b.co", FullName: "Ada Lovelace"}, "hash", "A1B2C3", issued)

	later := issued.Add(5 * time.Minute)
	p.Reissue("z9y8x7", later)
	if p.OTPCode != "Z9Y8X7" || !p.ExpiresAt.Equal(later.Add(OTPTTL)) {
		t.Errorf("after Reissue: code %q expires %v", p.OTPCode, p.ExpiresAt)
	}

	u := p.Promote("user-1", later)
	if u.ID != "user-1" || u.Email != "a@b.co" || u.PasswordHash != "hash" || !u.CreatedAt.Equal(later) {
		t.Errorf("Promote = %+v", u)
	}
}
