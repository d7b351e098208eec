package signup

import (
	"errors"
	"testing"
)

func validSignup() SignupRequest {
	return SignupRequest{
		FullName:        "Ada Lovelace",
		Email:           "ada@example.com",
		Password:        "Secret1!x",
		ConfirmPassword: "Secret1!x",
		PresentSkill:    "Engineer",
		School:          "Analytical College",
		Country:         "UK",
		PhoneNumber:     "+44 7700 900123",
	}
}

func TestValidateSignup_Valid(t *testing.T) {
	if err := ValidateSignup(validSignup()); err != nil {
		t.Fatalf("ValidateSignup: %v", err)
	}
}

func TestValidateSignup_Rules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *SignupRequest)
		want   string
	}{
		{"single name", func(r *SignupRequest) { r.FullName = "Ada" },
			"Full name must contain at least two names, each starting with a capital letter."},
		{"lowercase surname", func(r *SignupRequest) { r.FullName = "Ada lovelace" },
			"Full name must contain at least two names, each starting with a capital letter."},
		{"digit in name", func(r *SignupRequest) { r.FullName = "Ada L0velace" },
			"Full name must contain at least two names, each starting with a capital letter."},
		{"email without dot", func(r *SignupRequest) { r.Email = "ada@example" },
			"Please enter a valid email address."},
		{"email with space", func(r *SignupRequest) { r.Email = "ada lovelace@example.com" },
			"Please enter a valid email address."},
		{"short password", func(r *SignupRequest) { r.Password, r.ConfirmPassword = "Se1!", "Se1!" },
			"Password must be at least 8 characters long."},
		{"no uppercase", func(r *SignupRequest) { r.Password, r.ConfirmPassword = "secret1!x", "secret1!x" },
			"Password must contain at least one uppercase letter."},
		{"no digit", func(r *SignupRequest) { r.Password, r.ConfirmPassword = "Secret!!x", "Secret!!x" },
			"Password must contain at least one number."},
		{"special outside set", func(r *SignupRequest) { r.Password, r.ConfirmPassword = "Secret1&x", "Secret1&x" },
			"Password must contain at least one special character (!@#$%)."},
		{"mismatch", func(r *SignupRequest) { r.ConfirmPassword = "Secret1!y" },
			"Passwords do not match."},
		{"short skill", func(r *SignupRequest) { r.PresentSkill = " E " },
			"Present skill/career must be at least 2 characters."},
		{"short school", func(r *SignupRequest) { r.School = "" },
			"School must be at least 2 characters."},
		{"short country", func(r *SignupRequest) { r.Country = "U" },
			"Country must be at least 2 characters."},
		{"phone too short", func(r *SignupRequest) { r.PhoneNumber = "12345" },
			"Please enter a valid phone number (7-15 digits, optional leading +)."},
		{"phone with letters", func(r *SignupRequest) { r.PhoneNumber = "+1 555 CALL NOW" },
			"Please enter a valid phone number (7-15 digits, optional leading +)."},
		{"first failure wins", func(r *SignupRequest) { r.Email, r.PhoneNumber = "bad", "bad" },
			"Please enter a valid email address."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validSignup()
			tt.mutate(&req)
			err := ValidateSignup(req)
			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("ValidateSignup() = %v, want *Error", err)
			}
			if e.Kind != KindValidation {
				t.Errorf("Kind = %v, want validation", e.Kind)
			}
			if e.Message != tt.want {
				t.Errorf("Message = %q, want %q", e.Message, tt.want)
			}
		})
	}
}

func TestValidateSignup_PhoneFormats(t *testing.T) {
	for _, phone := range []string{"+1 (555) 010-2000", "555.010.2000", "0123456", "+123456789012345"} {
		req := validSignup()
		req.PhoneNumber = phone
		if err := ValidateSignup(req); err != nil {
			t.Errorf("phone %q: %v", phone, err)
		}
	}
	req := validSignup()
	req.PhoneNumber = "+1234567890123456"
	if err := ValidateSignup(req); err == nil {
		t.Error("16 digits should be rejected")
	}
}

func TestValidateSignup_NameWithApostropheAndHyphen(t *testing.T) {
	req := validSignup()
	req.FullName = "Mary-Jane O'Neil Smith"
	if err := ValidateSignup(req); err != nil {
		t.Fatalf("ValidateSignup: %v", err)
	}
}
