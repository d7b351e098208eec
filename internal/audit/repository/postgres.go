package repository

import (
	"context"
	"database/sql"
	"errors"

	"clearn/backend/internal/audit/domain"
)

const auditColumns = `id, user_email, action, ip, metadata, created_at`

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an audit log repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAuditLog(s rowScanner) (*domain.AuditLog, error) {
	var (
		a     domain.AuditLog
		email sql.NullString
		meta  sql.NullString
	)
	if err := s.Scan(&a.ID, &email, &a.Action, &a.IP, &meta, &a.CreatedAt); err != nil {
		return nil, err
	}
	a.UserEmail = email.String
	a.Metadata = meta.String
	a.CreatedAt = a.CreatedAt.UTC()
	return &a, nil
}

// GetByID returns the audit log for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.AuditLog, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+auditColumns+` FROM audit_logs WHERE id = $1`, id)
	a, err := scanAuditLog(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return a, nil
}

// ListByUser returns the most recent audit logs for email, newest first.
func (r *PostgresRepository) ListByUser(ctx context.Context, email string, limit int) ([]*domain.AuditLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+auditColumns+` FROM audit_logs WHERE user_email = $1 ORDER BY created_at DESC LIMIT $2`,
		email, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.AuditLog
	for rows.Next() {
		a, err := scanAuditLog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Create persists the audit log to the database. The audit log must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, a *domain.AuditLog) error {
	email := sql.NullString{String: a.UserEmail, Valid: a.UserEmail != ""}
	meta := sql.NullString{String: a.Metadata, Valid: a.Metadata != ""}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO audit_logs (`+auditColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, email, a.Action, a.IP, meta, a.CreatedAt)
	return err
}
