// Package security holds password hashing and the signed session cookie issued on login.
package security

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const sessionIssuer = "clearn"

var (
	// ErrInvalidToken is returned when a token is malformed, expired or signed with another key.
	ErrInvalidToken = errors.New("invalid token")
	// ErrEmptySecret is returned by NewSessionTokens when no signing secret is configured.
	ErrEmptySecret = errors.New("security: empty session secret")
)

// SessionClaims holds JWT claims for the login session cookie.
type SessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// SessionTokens issues and validates HS256 session JWTs.
type SessionTokens struct {
	secret []byte
	ttl    time.Duration
	nowF   func() time.Time
}

// NewSessionTokens returns a SessionTokens signing with secret. Tokens expire after ttl.
func NewSessionTokens(secret string, ttl time.Duration) (*SessionTokens, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionTokens{
		secret: []byte(secret),
		ttl:    ttl,
		nowF:   func() time.Time { return time.Now().UTC() },
	}, nil
}

// TTL returns the lifetime of issued tokens.
func (p *SessionTokens) TTL() time.Duration {
	return p.ttl
}

// Issue returns a signed token for the given user and its expiration time.
func (p *SessionTokens) Issue(userID, email string) (token string, expiresAt time.Time, err error) {
	jti, err := generateJTI()
	if err != nil {
		return "", time.Time{}, err
	}
	now := p.nowF()
	expiresAt = now.Add(p.ttl)
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   userID,
			Issuer:    sessionIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Email: email,
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// Validate parses the token (signature, exp, iss) and returns its claims.
func (p *SessionTokens) Validate(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return p.secret, nil
	},
		jwt.WithIssuer(sessionIssuer),
		jwt.WithTimeFunc(p.nowF),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func generateJTI() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
