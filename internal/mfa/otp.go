// Package mfa generates and checks the one-time codes sent to users during signup.
package mfa

import (
	"crypto/rand"
	"crypto/subtle"
	"math/big"
	"strings"
)

const (
	// OTPLength is the number of characters in a code.
	OTPLength = 6

	otpLetters  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	otpDigits   = "0123456789"
	otpAlphabet = otpLetters + otpDigits
)

// GenerateOTP returns a 6-character code over [A-Z0-9] with at least one letter and one digit.
// One letter and one digit are placed by construction, the other four are drawn uniformly from the
// full alphabet, and the result is shuffled. Uses crypto/rand for randomness.
func GenerateOTP() (string, error) {
	code := make([]byte, 0, OTPLength)

	c, err := pick(otpLetters)
	if err != nil {
		return "", err
	}
	code = append(code, c)
	if c, err = pick(otpDigits); err != nil {
		return "", err
	}
	code = append(code, c)
	for len(code) < OTPLength {
		if c, err = pick(otpAlphabet); err != nil {
			return "", err
		}
		code = append(code, c)
	}

	// Fisher-Yates.
	for i := len(code) - 1; i > 0; i-- {
		j, err := randIntn(i + 1)
		if err != nil {
			return "", err
		}
		code[i], code[j] = code[j], code[i]
	}
	return string(code), nil
}

// NormalizeOTP upper-cases and trims code and reports whether it is well formed:
// exactly 6 characters from [A-Z0-9], at least one letter and one digit.
func NormalizeOTP(code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != OTPLength {
		return code, false
	}
	var letter, digit bool
	for i := 0; i < len(code); i++ {
		switch ch := code[i]; {
		case ch >= 'A' && ch <= 'Z':
			letter = true
		case ch >= '0' && ch <= '9':
			digit = true
		default:
			return code, false
		}
	}
	return code, letter && digit
}

// OTPEqual performs a case-insensitive constant-time comparison of the provided code with the stored one.
func OTPEqual(provided, stored string) bool {
	if provided == "" || stored == "" {
		return false
	}
	p := strings.ToUpper(provided)
	s := strings.ToUpper(stored)
	return subtle.ConstantTimeCompare([]byte(p), []byte(s)) == 1
}

func pick(alphabet string) (byte, error) {
	i, err := randIntn(len(alphabet))
	if err != nil {
		return 0, err
	}
	return alphabet[i], nil
}

func randIntn(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}
