package mfa

import (
	"strings"
	"testing"
)

func TestGenerateOTP_Format(t *testing.T) {
	for i := 0; i < 1000; i++ {
		otp, err := GenerateOTP()
		if err != nil {
			t.Fatalf("GenerateOTP: %v", err)
		}
		if len(otp) != 6 {
			t.Fatalf("OTP length = %d, want 6 (%q)", len(otp), otp)
		}
		if _, ok := NormalizeOTP(otp); !ok {
			t.Fatalf("generated OTP %q is not well formed", otp)
		}
		if otp != strings.ToUpper(otp) {
			t.Fatalf("generated OTP %q is not upper-case", otp)
		}
	}
}

func TestGenerateOTP_Randomness(t *testing.T) {
	// 36^6 codes; 100 draws colliding is vanishingly unlikely.
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		otp, err := GenerateOTP()
		if err != nil {
			t.Fatalf("GenerateOTP: %v", err)
		}
		if seen[otp] {
			t.Errorf("duplicate OTP generated: %s", otp)
		}
		seen[otp] = true
	}
}

func TestGenerateOTP_LetterAndDigitPositionsVary(t *testing.T) {
	firstIsLetter := map[bool]bool{}
	for i := 0; i < 200; i++ {
		otp, err := GenerateOTP()
		if err != nil {
			t.Fatalf("GenerateOTP: %v", err)
		}
		firstIsLetter[otp[0] >= 'A' && otp[0] <= 'Z'] = true
	}
	if len(firstIsLetter) != 2 {
		t.Error("shuffle should let both letters and digits appear in the first position")
	}
}

func TestNormalizeOTP(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"a1b2c3", "A1B2C3", true},
		{" A1B2C3 ", "A1B2C3", true},
		{"ABCDEF", "ABCDEF", false},
		{"123456", "123456", false},
		{"A1B2C", "A1B2C", false},
		{"A1B2C3D", "A1B2C3D", false},
		{"A1B2C!", "A1B2C!", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := NormalizeOTP(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("NormalizeOTP(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestOTPEqual_CaseInsensitive(t *testing.T) {
	if !OTPEqual("a1b2c3", "A1B2C3") {
		t.Error("OTPEqual should ignore case")
	}
}

func TestOTPEqual_RejectsIncorrect(t *testing.T) {
	if OTPEqual("A1B2C3", "A1B2C4") {
		t.Error("OTPEqual should reject incorrect OTP")
	}
	if OTPEqual("A1B2C3", "A1B2C3X") {
		t.Error("OTPEqual should reject different length")
	}
}

func TestOTPEqual_EmptyInputs(t *testing.T) {
	if OTPEqual("", "") {
		t.Error("OTPEqual should not match empty inputs")
	}
	if OTPEqual("", "A1B2C3") {
		t.Error("OTPEqual should not match empty OTP")
	}
}
