package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Project represents a unit of content work scoped to one product, a set of
// target platforms, content types, and markets.
type Project struct {
	ID                 uuid.UUID     `json:"id"`
	Name               string        `json:"name"`
	ProductID          *uuid.UUID    `json:"product_id,omitempty"`
	Status             ProjectStatus `json:"status"`
	Language           Language      `json:"language"`
	Platforms          []Platform    `json:"platforms"`
	ContentTypes       []ContentType `json:"content_types"`
	Markets            []Market      `json:"markets"`
	SuggestedDuration  *int          `json:"suggested_duration,omitempty"`
	CreatedByProfileID uuid.UUID     `json:"created_by_profile_id"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// CreateProjectInput represents the request to create a new project.
type CreateProjectInput struct {
	Name         string        `json:"name" validate:"required,min=1,max=200"`
	ProductID    *uuid.UUID    `json:"product_id,omitempty"`
	Language     Language      `json:"language" validate:"required,oneof=en fr de"`
	Platforms    []Platform    `json:"platforms" validate:"required,min=1,dive,oneof=tiktok instagram_reels facebook_reels youtube_shorts"`
	ContentTypes []ContentType `json:"content_types" validate:"required,min=1,dive,oneof=education product authority trust"`
	Markets      []Market      `json:"markets" validate:"required,min=1,dive,oneof=fr de gcc global"`
}

// Validate validates the CreateProjectInput using the validator.
func (i *CreateProjectInput) Validate() error {
	validate := validator.New()
	return validate.Struct(i)
}

// ApprovalRecord represents one human status transition (approve, reject,
// export) in a project's approval history.
type ApprovalRecord struct {
	ID                  uuid.UUID     `json:"id"`
	ProjectID           uuid.UUID     `json:"project_id"`
	ApprovedByProfileID uuid.UUID     `json:"approved_by_profile_id"`
	PreviousStatus      ProjectStatus `json:"previous_status"`
	NewStatus           ProjectStatus `json:"new_status"`
	RejectionReason     *string       `json:"rejection_reason,omitempty"`
	CreatedAt           time.Time     `json:"created_at"`
}
