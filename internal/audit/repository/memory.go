package repository

import (
	"context"
	"sync"

	"clearn/backend/internal/audit/domain"
)

// MemoryRepository keeps audit logs in process memory. Used when no database is configured.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries []domain.AuditLog
}

// NewMemory returns an empty in-memory audit repository.
func NewMemory() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*domain.AuditLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.entries {
		if r.entries[i].ID == id {
			a := r.entries[i]
			return &a, nil
		}
	}
	return nil, nil
}

func (r *MemoryRepository) ListByUser(ctx context.Context, email string, limit int) ([]*domain.AuditLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.AuditLog
	for i := len(r.entries) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		if r.entries[i].UserEmail == email {
			a := r.entries[i]
			out = append(out, &a)
		}
	}
	return out, nil
}

func (r *MemoryRepository) Create(ctx context.Context, a *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *a)
	return nil
}
