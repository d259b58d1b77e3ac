// Package server provides the HTTP REST API for the content engine.
package server

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mjagro/content-engine/internal/config"
	"github.com/mjagro/content-engine/internal/db"
	"github.com/mjagro/content-engine/internal/types"
)

// ProfileStore is the persistence surface AuthService needs. Implemented by
// *db.DB; tests substitute an in-memory fake.
type ProfileStore interface {
	CreateProfile(ctx context.Context, fullName, email string, role types.Role, passwordHash string) (*db.ProfileRecord, error)
	GetProfileByEmail(ctx context.Context, email string) (*db.ProfileRecord, error)
	GetProfileByID(ctx context.Context, id uuid.UUID) (*db.ProfileRecord, error)
}

// AuthService provides business logic for operator authentication.
type AuthService struct {
	store          ProfileStore
	passwordConfig *config.PasswordConfig
}

// NewAuthService creates a new AuthService with the given dependencies
func NewAuthService(store ProfileStore, passwordConfig *config.PasswordConfig) *AuthService {
	return &AuthService{
		store:          store,
		passwordConfig: passwordConfig,
	}
}

// Register creates a new operator profile with password authentication
func (s *AuthService) Register(ctx context.Context, req *types.RegisterRequest) (*types.Profile, error) {
	// Check if email already exists
	existing, err := s.store.GetProfileByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if existing != nil {
		return nil, &ErrEmailAlreadyExists{Email: req.Email}
	}

	// Hash password
	passwordHash, err := s.passwordConfig.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	record, err := s.store.CreateProfile(ctx, req.FullName, req.Email, req.Role, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	// Convert and return (password hash excluded)
	return record.Profile(), nil
}

// Login authenticates an operator and returns profile data
func (s *AuthService) Login(ctx context.Context, req *types.LoginRequest) (*types.Profile, error) {
	record, err := s.store.GetProfileByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile by email: %w", err)
	}

	// Security: Always return generic error if profile not found or password wrong
	if record == nil {
		return nil, &ErrInvalidCredentials{}
	}

	if !s.passwordConfig.VerifyPassword(req.Password, record.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}

	// Convert and return (password hash excluded)
	return record.Profile(), nil
}

// RequireApprover loads the profile and verifies it holds the approver role.
// action names the operation for the error message.
func (s *AuthService) RequireApprover(ctx context.Context, profileID uuid.UUID, action string) (*db.ProfileRecord, error) {
	record, err := s.store.GetProfileByID(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if record == nil {
		return nil, &ErrProfileNotFound{ProfileID: profileID}
	}
	if record.Role != types.RoleApprover {
		return nil, &ErrForbidden{Action: action}
	}
	return record, nil
}
