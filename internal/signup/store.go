package signup

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"clearn/backend/internal/signup/domain"
	"clearn/backend/internal/signup/repository"
)

// Reason names the field an existing account already uses.
type Reason string

const (
	ReasonNone     Reason = ""
	ReasonEmail    Reason = "email"
	ReasonPhone    Reason = "phone"
	ReasonName     Reason = "name"
	ReasonPassword Reason = "password"
)

// Message returns the client-facing conflict message for r.
func (r Reason) Message() string {
	switch r {
	case ReasonEmail:
		return "An account with this email already exists."
	case ReasonPhone:
		return "An account with this phone number already exists."
	case ReasonName:
		return "An account with this full name already exists."
	case ReasonPassword:
		return "This password is already in use. Please choose a different password."
	default:
		return ""
	}
}

// Store errors returned by the composite operations.
var (
	ErrPendingNotFound = errors.New("signup: no pending signup")
	ErrPendingExpired  = errors.New("signup: pending signup expired")
	ErrCodeMismatch    = errors.New("signup: code mismatch")
)

// PasswordMatcher verifies a plaintext password against a stored hash.
type PasswordMatcher interface {
	Matches(hash, password string) bool
}

// optimisticScans is how many lock-free duplicate scans InsertPendingUnique tries before scanning
// under the store lock.
const optimisticScans = 3

// CredentialStore owns pending signups and confirmed users. Every mutation runs under one
// store-wide mutex so concurrent requests for the same email cannot interleave. version counts
// inserts and promotions so a scan done outside the lock can tell whether it is still current.
type CredentialStore struct {
	mu      sync.Mutex
	version atomic.Uint64
	repo    repository.Repository
	matcher PasswordMatcher
	newID   func() string
}

// NewCredentialStore returns a store over repo. matcher is used for the password reuse check.
func NewCredentialStore(repo repository.Repository, matcher PasswordMatcher) *CredentialStore {
	return &CredentialStore{
		repo:    repo,
		matcher: matcher,
		newID:   func() string { return uuid.New().String() },
	}
}

// FindDuplicate reports the first field an existing confirmed user or pending signup shares with
// the candidate. Confirmed users are scanned before pending signups; within a record the check
// order is email, phone, name, password. It does not take the store lock.
func (s *CredentialStore) FindDuplicate(ctx context.Context, fullName, email, phone, password string) (Reason, error) {
	return s.findDuplicate(ctx, fullName, email, phone, password, "")
}

type candidate struct {
	email, phone, name string
}

func (s *CredentialStore) findDuplicate(ctx context.Context, fullName, email, phone, password, skipPending string) (Reason, error) {
	c := candidate{
		email: domain.NormalizeEmail(email),
		phone: domain.NormalizePhone(phone),
		name:  domain.NormalizeName(fullName),
	}

	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return ReasonNone, fmt.Errorf("list users: %w", err)
	}
	for _, u := range users {
		if r := s.match(c, password, u.Profile, u.PasswordHash); r != ReasonNone {
			return r, nil
		}
	}

	pending, err := s.repo.ListPending(ctx)
	if err != nil {
		return ReasonNone, fmt.Errorf("list pending: %w", err)
	}
	for _, p := range pending {
		if skipPending != "" && p.Email == skipPending {
			continue
		}
		if r := s.match(c, password, p.Profile, p.PasswordHash); r != ReasonNone {
			return r, nil
		}
	}
	return ReasonNone, nil
}

func (s *CredentialStore) match(c candidate, password string, existing domain.Profile, hash string) Reason {
	switch {
	case c.email != "" && c.email == existing.Email:
		return ReasonEmail
	case c.phone != "" && c.phone == existing.PhoneNumber:
		return ReasonPhone
	case c.name != "" && c.name == domain.NormalizeName(existing.FullName):
		return ReasonName
	case password != "" && s.matcher != nil && s.matcher.Matches(hash, password):
		return ReasonPassword
	}
	return ReasonNone
}

// InsertPendingUnique runs the duplicate check and, if nothing conflicts, stores p. A pending
// signup already held under p.Email is ignored by the check and replaced, so resubmitting the
// form overwrites the earlier attempt. Returns the conflicting Reason when p was not stored.
//
// The scan, with its bcrypt comparisons, runs outside the store lock. p is committed only if no
// record was added or promoted since the scan started; otherwise the scan is repeated, and after
// optimisticScans attempts it runs under the lock.
func (s *CredentialStore) InsertPendingUnique(ctx context.Context, p *domain.PendingSignup, password string) (Reason, error) {
	for i := 0; i < optimisticScans; i++ {
		seen := s.version.Load()
		reason, err := s.findDuplicate(ctx, p.FullName, p.Email, p.PhoneNumber, password, p.Email)
		if err != nil || reason != ReasonNone {
			return reason, err
		}

		s.mu.Lock()
		if s.version.Load() == seen {
			err := s.putPendingLocked(ctx, p)
			s.mu.Unlock()
			return ReasonNone, err
		}
		s.mu.Unlock()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	reason, err := s.findDuplicate(ctx, p.FullName, p.Email, p.PhoneNumber, password, p.Email)
	if err != nil || reason != ReasonNone {
		return reason, err
	}
	return ReasonNone, s.putPendingLocked(ctx, p)
}

// InsertPending stores p without a duplicate check, replacing any pending signup for p.Email.
func (s *CredentialStore) InsertPending(ctx context.Context, p *domain.PendingSignup) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.putPendingLocked(ctx, p)
}

func (s *CredentialStore) putPendingLocked(ctx context.Context, p *domain.PendingSignup) error {
	if err := s.repo.PutPending(ctx, p); err != nil {
		return fmt.Errorf("put pending: %w", err)
	}
	s.version.Add(1)
	return nil
}

// ReissuePending replaces the code on the pending signup for email and restarts its expiry.
// Returns ErrPendingNotFound when there is none.
func (s *CredentialStore) ReissuePending(ctx context.Context, email, code string, now time.Time) (*domain.PendingSignup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.repo.GetPending(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("get pending: %w", err)
	}
	if p == nil {
		return nil, ErrPendingNotFound
	}
	p.Reissue(code, now)
	if err := s.repo.PutPending(ctx, p); err != nil {
		return nil, fmt.Errorf("put pending: %w", err)
	}
	return p, nil
}

// VerifyAndPromote checks code against the pending signup for email at time now.
// An expired record is purged and ErrPendingExpired returned; a wrong code returns
// ErrCodeMismatch and leaves the record in place; a match promotes it to a confirmed user.
func (s *CredentialStore) VerifyAndPromote(ctx context.Context, email string, now time.Time, codeMatches func(stored string) bool) (*domain.ConfirmedUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = domain.NormalizeEmail(email)
	p, err := s.repo.GetPending(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("get pending: %w", err)
	}
	if p == nil {
		return nil, ErrPendingNotFound
	}
	if p.Expired(now) {
		if err := s.repo.DeletePending(ctx, email); err != nil {
			return nil, fmt.Errorf("purge expired: %w", err)
		}
		return nil, ErrPendingExpired
	}
	if !codeMatches(p.OTPCode) {
		return nil, ErrCodeMismatch
	}
	return s.promoteLocked(ctx, p, now)
}

// Promote moves the pending signup for email to the confirmed users. Returns ErrPendingNotFound
// when there is none.
func (s *CredentialStore) Promote(ctx context.Context, email string, now time.Time) (*domain.ConfirmedUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.repo.GetPending(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("get pending: %w", err)
	}
	if p == nil {
		return nil, ErrPendingNotFound
	}
	return s.promoteLocked(ctx, p, now)
}

func (s *CredentialStore) promoteLocked(ctx context.Context, p *domain.PendingSignup, now time.Time) (*domain.ConfirmedUser, error) {
	u := p.Promote(s.newID(), now)
	if err := s.repo.Promote(ctx, u); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPendingNotFound
		}
		return nil, fmt.Errorf("promote: %w", err)
	}
	// a record moving from pending to users can slip between the two lists of a concurrent scan
	s.version.Add(1)
	return u, nil
}

// GetPending returns the pending signup for email, or nil.
func (s *CredentialStore) GetPending(ctx context.Context, email string) (*domain.PendingSignup, error) {
	return s.repo.GetPending(ctx, domain.NormalizeEmail(email))
}

// GetUser returns the confirmed user for email, or nil.
func (s *CredentialStore) GetUser(ctx context.Context, email string) (*domain.ConfirmedUser, error) {
	return s.repo.GetUser(ctx, domain.NormalizeEmail(email))
}
