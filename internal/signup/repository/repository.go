// Package repository persists pending signups and confirmed users.
package repository

import (
	"context"
	"errors"

	"clearn/backend/internal/signup/domain"
)

// ErrNotFound is returned by mutations that target a pending signup that does not exist.
var ErrNotFound = errors.New("signup: record not found")

// Repository defines persistence for both signup record kinds, keyed by normalized email.
// Get methods return (nil, nil) when the record does not exist. List methods return records
// in insertion order.
type Repository interface {
	GetPending(ctx context.Context, email string) (*domain.PendingSignup, error)
	// PutPending inserts or replaces the pending signup for p.Email.
	PutPending(ctx context.Context, p *domain.PendingSignup) error
	DeletePending(ctx context.Context, email string) error
	ListPending(ctx context.Context) ([]*domain.PendingSignup, error)

	GetUser(ctx context.Context, email string) (*domain.ConfirmedUser, error)
	ListUsers(ctx context.Context) ([]*domain.ConfirmedUser, error)
	// Promote stores u and deletes the pending signup with the same email as one step.
	// Returns ErrNotFound if there is no pending signup for u.Email.
	Promote(ctx context.Context, u *domain.ConfirmedUser) error
}
