package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/mjagro/content-engine/internal/db"
	"github.com/mjagro/content-engine/internal/generate"
	"github.com/mjagro/content-engine/internal/qa"
	"github.com/mjagro/content-engine/internal/types"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name:     "email already exists",
			err:      &ErrEmailAlreadyExists{Email: "sara@mjagro.example"},
			expected: http.StatusConflict,
		},
		{
			name:     "invalid credentials",
			err:      &ErrInvalidCredentials{},
			expected: http.StatusUnauthorized,
		},
		{
			name:     "profile not found",
			err:      &ErrProfileNotFound{ProfileID: uuid.New()},
			expected: http.StatusNotFound,
		},
		{
			name:     "forbidden",
			err:      &ErrForbidden{Action: "approve a project"},
			expected: http.StatusForbidden,
		},
		{
			name:     "validation",
			err:      &ErrValidation{Field: "platforms", Message: "required"},
			expected: http.StatusBadRequest,
		},
		{
			name:     "invalid status transition",
			err:      &db.InvalidTransitionError{From: types.StatusDraft, To: types.StatusApproved},
			expected: http.StatusConflict,
		},
		{
			name:     "qa project not found",
			err:      qa.ErrProjectNotFound,
			expected: http.StatusNotFound,
		},
		{
			name:     "generate project not found",
			err:      fmt.Errorf("load failed: %w", generate.ErrProjectNotFound),
			expected: http.StatusNotFound,
		},
		{
			name:     "db project not found",
			err:      fmt.Errorf("%w: %s", db.ErrProjectNotFound, uuid.New()),
			expected: http.StatusNotFound,
		},
		{
			name:     "unknown error",
			err:      errors.New("something broke"),
			expected: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}

func TestHTTPStatus_WrappedStageError(t *testing.T) {
	// Engine stage errors carry their cause; not-found still maps to 404
	err := &qa.StageError{Stage: "persist", Cause: fmt.Errorf("%w: abc", db.ErrProjectNotFound)}
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}

func TestErrorMessages(t *testing.T) {
	assert.Contains(t, (&ErrEmailAlreadyExists{Email: "x@y.example"}).Error(), "x@y.example")
	assert.Equal(t, "invalid email or password", (&ErrInvalidCredentials{}).Error())
	assert.Contains(t, (&ErrForbidden{Action: "export a project"}).Error(), "approver role required")
	assert.Contains(t, (&ErrValidation{Field: "name", Message: "required"}).Error(), "name")
}
