package types

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Product represents a catalog product whose visual and textual attributes
// are treated as ground truth that generation must not alter.
type Product struct {
	ID              uuid.UUID `json:"id"`
	SKU             string    `json:"sku"`
	Name            string    `json:"name"`
	Description     string    `json:"description,omitempty"`
	PackType        string    `json:"pack_type,omitempty"`
	PackSize        string    `json:"pack_size,omitempty"`
	PrimaryColor    string    `json:"primary_color,omitempty"`
	SecondaryColor  string    `json:"secondary_color,omitempty"`
	ComplianceFlags []string  `json:"compliance_flags"`
	ImageURLs       []string  `json:"image_urls"`
	VideoURLs       []string  `json:"video_urls"`
	LandingURL      string    `json:"landing_url,omitempty"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CreateProductInput represents the request to create a new catalog product.
type CreateProductInput struct {
	SKU             string   `json:"sku" validate:"required,min=1,max=64"`
	Name            string   `json:"name" validate:"required,min=1,max=200"`
	Description     string   `json:"description,omitempty"`
	PackType        string   `json:"pack_type,omitempty"`
	PackSize        string   `json:"pack_size,omitempty"`
	PrimaryColor    string   `json:"primary_color,omitempty" validate:"omitempty,hexcolor"`
	SecondaryColor  string   `json:"secondary_color,omitempty" validate:"omitempty,hexcolor"`
	ComplianceFlags []string `json:"compliance_flags,omitempty"`
	ImageURLs       []string `json:"image_urls,omitempty" validate:"omitempty,dive,url"`
	VideoURLs       []string `json:"video_urls,omitempty" validate:"omitempty,dive,url"`
	LandingURL      string   `json:"landing_url,omitempty" validate:"omitempty,url"`
}

// Validate validates the CreateProductInput using the validator.
func (i *CreateProductInput) Validate() error {
	validate := validator.New()
	return validate.Struct(i)
}
