package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
)

// User is an individually-authenticated account.
type User struct {
	ID           int64  `db:"id"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	Verified     bool   `db:"verified"`
}

// OTP is the one live verification code for an email address.
type OTP struct {
	ID        int64     `db:"id"`
	Email     string    `db:"email"`
	Code      string    `db:"code"`
	ExpiresAt time.Time `db:"expires_at"`
}

// Repository persists users and one-time passcodes.
type Repository struct {
	db *sqlx.DB
}

// NewRepository creates a repo.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// GetUserByEmail returns the user or (nil, nil) when none exists.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.GetContext(ctx, &u, r.db.Rebind(`
		SELECT id, email, password_hash, verified FROM users WHERE email = ?
	`), email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new user row.
func (r *Repository) CreateUser(ctx context.Context, email, passwordHash string, verified bool) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO users (email, password_hash, verified) VALUES (?, ?, ?)
	`), email, passwordHash, verified)
	return err
}

// ReplaceOTP stores a fresh code for email, displacing any prior one.
func (r *Repository) ReplaceOTP(ctx context.Context, email, code string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO otps (email, code, expires_at)
		VALUES (?, ?, ?)
		ON CONFLICT (email) DO UPDATE SET code = excluded.code, expires_at = excluded.expires_at
	`), email, code, expiresAt)
	return err
}

// GetOTP returns the live code for email or (nil, nil) when none exists.
func (r *Repository) GetOTP(ctx context.Context, email string) (*OTP, error) {
	var o OTP
	err := r.db.GetContext(ctx, &o, r.db.Rebind(`
		SELECT id, email, code, expires_at FROM otps WHERE email = ?
	`), email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// DeleteOTP removes the code for email, if any.
func (r *Repository) DeleteOTP(ctx context.Context, email string) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM otps WHERE email = ?`), email)
	return err
}
