package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"clearn/backend/internal/signup/domain"
)

const pendingColumns = `email, full_name, password_hash, present_skill, school, country, phone_number, otp_code, expires_at, created_at`

const userColumns = `id, email, full_name, password_hash, present_skill, school, country, phone_number, created_at`

// PostgresRepository stores signups in the pending_signups and users tables.
type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a signup repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPending(s rowScanner) (*domain.PendingSignup, error) {
	var p domain.PendingSignup
	if err := s.Scan(&p.Email, &p.FullName, &p.PasswordHash, &p.PresentSkill, &p.School, &p.Country,
		&p.PhoneNumber, &p.OTPCode, &p.ExpiresAt, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.ExpiresAt = p.ExpiresAt.UTC()
	p.CreatedAt = p.CreatedAt.UTC()
	return &p, nil
}

func scanUser(s rowScanner) (*domain.ConfirmedUser, error) {
	var u domain.ConfirmedUser
	if err := s.Scan(&u.ID, &u.Email, &u.FullName, &u.PasswordHash, &u.PresentSkill, &u.School, &u.Country,
		&u.PhoneNumber, &u.CreatedAt); err != nil {
		return nil, err
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}

// GetPending returns the pending signup for email, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetPending(ctx context.Context, email string) (*domain.PendingSignup, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+pendingColumns+` FROM pending_signups WHERE email = $1`, email)
	p, err := scanPending(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// PutPending upserts p. created_at is kept from the first insert so list order is stable.
func (r *PostgresRepository) PutPending(ctx context.Context, p *domain.PendingSignup) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO pending_signups (`+pendingColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (email) DO UPDATE SET
	full_name = EXCLUDED.full_name,
	password_hash = EXCLUDED.password_hash,
	present_skill = EXCLUDED.present_skill,
	school = EXCLUDED.school,
	country = EXCLUDED.country,
	phone_number = EXCLUDED.phone_number,
	otp_code = EXCLUDED.otp_code,
	expires_at = EXCLUDED.expires_at`,
		p.Email, p.FullName, p.PasswordHash, p.PresentSkill, p.School, p.Country, p.PhoneNumber,
		p.OTPCode, p.ExpiresAt, p.CreatedAt)
	return err
}

// DeletePending removes the pending signup for email. Missing rows are not an error.
func (r *PostgresRepository) DeletePending(ctx context.Context, email string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM pending_signups WHERE email = $1`, email)
	return err
}

// ListPending returns all pending signups ordered by creation time.
func (r *PostgresRepository) ListPending(ctx context.Context) ([]*domain.PendingSignup, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+pendingColumns+` FROM pending_signups ORDER BY created_at, email`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.PendingSignup
	for rows.Next() {
		p, err := scanPending(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetUser returns the confirmed user for email, or nil if not found.
func (r *PostgresRepository) GetUser(ctx context.Context, email string) (*domain.ConfirmedUser, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

// ListUsers returns all confirmed users ordered by creation time.
func (r *PostgresRepository) ListUsers(ctx context.Context) ([]*domain.ConfirmedUser, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*domain.ConfirmedUser
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Promote inserts u and deletes its pending signup in one transaction.
func (r *PostgresRepository) Promote(ctx context.Context, u *domain.ConfirmedUser) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `DELETE FROM pending_signups WHERE email = $1`, u.Email)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	if _, err = tx.ExecContext(ctx, `INSERT INTO users (`+userColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		u.ID, u.Email, u.FullName, u.PasswordHash, u.PresentSkill, u.School, u.Country, u.PhoneNumber, u.CreatedAt); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return tx.Commit()
}
