// Package devotp keeps the last signup OTP per email so it can be read back through GET /dev/signup/otp.
// Only wired when OTP_RETURN_TO_CLIENT is enabled outside production.
package devotp

import (
	"context"
	"strings"
	"sync"
	"time"
)

// Store holds plain OTPs by normalized email for dev-only retrieval.
type Store interface {
	// Put stores otp for email until expiresAt, replacing any earlier code.
	Put(ctx context.Context, email, otp string, expiresAt time.Time)
	// Get returns the otp for email if present and not expired. Returns ok false if missing or expired.
	Get(ctx context.Context, email string) (otp string, ok bool)
	// Delete forgets the code for email (after verification or expiry).
	Delete(ctx context.Context, email string)
}

type entry struct {
	otp       string
	expiresAt time.Time
}

// MemoryStore is an in-memory Store implementation.
type MemoryStore struct {
	mu   sync.RWMutex
	m    map[string]entry
	nowF func() time.Time
}

// NewMemoryStore returns a new in-memory dev OTP store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		m:    make(map[string]entry),
		nowF: func() time.Time { return time.Now().UTC() },
	}
}

func key(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Put stores otp for email until expiresAt.
func (s *MemoryStore) Put(ctx context.Context, email, otp string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key(email)] = entry{otp: otp, expiresAt: expiresAt}
}

// Get returns the otp for email if present and not expired. A code is still valid at exactly
// expiresAt. Expired entries are dropped.
func (s *MemoryStore) Get(ctx context.Context, email string) (string, bool) {
	k := key(email)
	s.mu.RLock()
	e, ok := s.m[k]
	s.mu.RUnlock()
	if !ok {
		return "", false
	}
	now := s.nowF()
	if !now.After(e.expiresAt) {
		return e.otp, true
	}

	// a Put may have replaced the entry since the read lock was released
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.m[k]
	if !ok {
		return "", false
	}
	if !now.After(cur.expiresAt) {
		return cur.otp, true
	}
	delete(s.m, k)
	return "", false
}

// Delete removes the entry for email, if any.
func (s *MemoryStore) Delete(ctx context.Context, email string) {
	s.mu.Lock()
	delete(s.m, key(email))
	s.mu.Unlock()
}
