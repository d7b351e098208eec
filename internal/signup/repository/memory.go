package repository

import (
	"context"
	"slices"
	"sync"

	"clearn/backend/internal/signup/domain"
)

// Memory is an in-process Repository. Records are copied on the way in and out so callers
// cannot mutate stored state.
type Memory struct {
	mu sync.RWMutex

	pending      map[string]*domain.PendingSignup
	pendingOrder []string
	users        map[string]*domain.ConfirmedUser
	userOrder    []string
}

// NewMemory returns an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{
		pending: make(map[string]*domain.PendingSignup),
		users:   make(map[string]*domain.ConfirmedUser),
	}
}

// GetPending returns the pending signup for email, or nil if not found.
func (m *Memory) GetPending(ctx context.Context, email string) (*domain.PendingSignup, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.pending[email]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

// PutPending inserts or replaces p. A replaced record keeps its original position.
func (m *Memory) PutPending(ctx context.Context, p *domain.PendingSignup) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.pending[p.Email]; !ok {
		m.pendingOrder = append(m.pendingOrder, p.Email)
	}
	cp := *p
	m.pending[p.Email] = &cp
	return nil
}

// DeletePending removes the pending signup for email. Missing records are not an error.
func (m *Memory) DeletePending(ctx context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletePendingLocked(email)
	return nil
}

func (m *Memory) deletePendingLocked(email string) {
	if _, ok := m.pending[email]; !ok {
		return
	}
	delete(m.pending, email)
	if i := slices.Index(m.pendingOrder, email); i >= 0 {
		m.pendingOrder = slices.Delete(m.pendingOrder, i, i+1)
	}
}

// ListPending returns copies of all pending signups in insertion order.
func (m *Memory) ListPending(ctx context.Context) ([]*domain.PendingSignup, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.PendingSignup, 0, len(m.pendingOrder))
	for _, email := range m.pendingOrder {
		cp := *m.pending[email]
		out = append(out, &cp)
	}
	return out, nil
}

// GetUser returns the confirmed user for email, or nil if not found.
func (m *Memory) GetUser(ctx context.Context, email string) (*domain.ConfirmedUser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

// ListUsers returns copies of all confirmed users in insertion order.
func (m *Memory) ListUsers(ctx context.Context) ([]*domain.ConfirmedUser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.ConfirmedUser, 0, len(m.userOrder))
	for _, email := range m.userOrder {
		cp := *m.users[email]
		out = append(out, &cp)
	}
	return out, nil
}

// Promote stores u and drops the matching pending signup.
func (m *Memory) Promote(ctx context.Context, u *domain.ConfirmedUser) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.pending[u.Email]; !ok {
		return ErrNotFound
	}
	if _, ok := m.users[u.Email]; !ok {
		m.userOrder = append(m.userOrder, u.Email)
	}
	cp := *u
	m.users[u.Email] = &cp
	m.deletePendingLocked(u.Email)
	return nil
}
