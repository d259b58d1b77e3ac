package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mjagro/content-engine/internal/types"
)

// ProfileRecord is an operator profile row including the password hash; the
// hash never leaves the server layer.
type ProfileRecord struct {
	ID           uuid.UUID
	FullName     string
	Email        string
	Role         types.Role
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile converts a record to its API representation.
func (r *ProfileRecord) Profile() *types.Profile {
	return &types.Profile{
		ID:        r.ID,
		FullName:  r.FullName,
		Email:     r.Email,
		Role:      r.Role,
		CreatedAt: r.CreatedAt,
	}
}

// CreateProfile inserts an operator profile. Emails are stored lowercase.
func (db *DB) CreateProfile(ctx context.Context, fullName, email string, role types.Role, passwordHash string) (*ProfileRecord, error) {
	var r ProfileRecord
	err := db.pool.QueryRow(ctx,
		`INSERT INTO profiles (full_name, email, role, password_hash)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, full_name, email, role, password_hash, created_at, updated_at`,
		fullName, strings.ToLower(email), role, passwordHash,
	).Scan(&r.ID, &r.FullName, &r.Email, &r.Role, &r.PasswordHash, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}
	return &r, nil
}

// GetProfileByEmail retrieves a profile by email. Returns nil when not found.
func (db *DB) GetProfileByEmail(ctx context.Context, email string) (*ProfileRecord, error) {
	var r ProfileRecord
	err := db.pool.QueryRow(ctx,
		`SELECT id, full_name, email, role, password_hash, created_at, updated_at
		 FROM profiles WHERE email = $1`,
		strings.ToLower(email),
	).Scan(&r.ID, &r.FullName, &r.Email, &r.Role, &r.PasswordHash, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &r, nil
}

// GetProfileByID retrieves a profile by ID. Returns nil when not found.
func (db *DB) GetProfileByID(ctx context.Context, id uuid.UUID) (*ProfileRecord, error) {
	var r ProfileRecord
	err := db.pool.QueryRow(ctx,
		`SELECT id, full_name, email, role, password_hash, created_at, updated_at
		 FROM profiles WHERE id = $1`,
		id,
	).Scan(&r.ID, &r.FullName, &r.Email, &r.Role, &r.PasswordHash, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return &r, nil
}
