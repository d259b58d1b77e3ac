package types

import (
	"time"

	"github.com/google/uuid"
)

// Hook represents a generated opening line for a video.
type Hook struct {
	ID             uuid.UUID `json:"id"`
	ProjectID      uuid.UUID `json:"project_id"`
	HookType       HookType  `json:"hook_type"`
	HookText       string    `json:"hook_text"`
	RetentionScore *int      `json:"retention_score,omitempty"`
	IsSelected     bool      `json:"is_selected"`
	CreatedAt      time.Time `json:"created_at"`
}

// Script represents a generated platform-specific video script. The section
// structure is locked: hook, value delivery, brand anchor, soft CTA.
type Script struct {
	ID              uuid.UUID `json:"id"`
	ProjectID       uuid.UUID `json:"project_id"`
	Platform        Platform  `json:"platform"`
	HookSection     string    `json:"hook_section"`
	ValueDelivery   string    `json:"value_delivery"`
	BrandAnchor     string    `json:"brand_anchor"`
	SoftCTA         string    `json:"soft_cta"`
	FullScript      string    `json:"full_script"`
	DurationSeconds int       `json:"duration_seconds"`
	IsSelected      bool      `json:"is_selected"`
	CreatedAt       time.Time `json:"created_at"`
}

// Caption represents a generated platform caption with hashtags and SEO copy.
type Caption struct {
	ID             uuid.UUID `json:"id"`
	ProjectID      uuid.UUID `json:"project_id"`
	Platform       Platform  `json:"platform"`
	CaptionText    string    `json:"caption_text"`
	Hashtags       []string  `json:"hashtags"`
	SEOTitle       string    `json:"seo_title,omitempty"`
	SEODescription string    `json:"seo_description,omitempty"`
	IsSelected     bool      `json:"is_selected"`
	CreatedAt      time.Time `json:"created_at"`
}

// StoryboardShot is one entry in a storyboard shot list.
type StoryboardShot struct {
	Order       int    `json:"order"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
	Framing     string `json:"framing"`
}

// TextOverlay suggests on-screen text with placement and timing.
type TextOverlay struct {
	Text     string `json:"text"`
	Position string `json:"position"`
	Timing   string `json:"timing"`
}

// Storyboard represents generated visual guidance for a project.
type Storyboard struct {
	ID            uuid.UUID        `json:"id"`
	ProjectID     uuid.UUID        `json:"project_id"`
	ShotList      []StoryboardShot `json:"shot_list"`
	CameraFraming string           `json:"camera_framing,omitempty"`
	TextOverlays  []TextOverlay    `json:"text_overlay_suggestions"`
	LogoPlacement string           `json:"logo_placement,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
}
