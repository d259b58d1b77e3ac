// Package server provides the HTTP REST API for the content engine.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/mjagro/content-engine/internal/db"
	"github.com/mjagro/content-engine/internal/generate"
	"github.com/mjagro/content-engine/internal/qa"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrProfileNotFound indicates the operator profile was not found
type ErrProfileNotFound struct {
	ProfileID uuid.UUID
}

func (e *ErrProfileNotFound) Error() string {
	return fmt.Sprintf("profile not found: %s", e.ProfileID)
}

// ErrForbidden indicates the operator lacks the role required for an action
type ErrForbidden struct {
	Action string
}

func (e *ErrForbidden) Error() string {
	return fmt.Sprintf("approver role required to %s", e.Action)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrEmailAlreadyExists:
		return http.StatusConflict
	case *ErrInvalidCredentials:
		return http.StatusUnauthorized
	case *ErrProfileNotFound:
		return http.StatusNotFound
	case *ErrForbidden:
		return http.StatusForbidden
	case *ErrValidation:
		return http.StatusBadRequest
	}

	var transitionErr *db.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		return http.StatusConflict
	}
	if errors.Is(err, qa.ErrProjectNotFound) || errors.Is(err, generate.ErrProjectNotFound) ||
		errors.Is(err, db.ErrProjectNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
