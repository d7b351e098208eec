package repository

import (
	"context"

	"clearn/backend/internal/audit/domain"
)

// Repository defines persistence for audit logs.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.AuditLog, error)
	ListByUser(ctx context.Context, email string, limit int) ([]*domain.AuditLog, error)
	Create(ctx context.Context, a *domain.AuditLog) error
}
