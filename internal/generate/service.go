// Package generate produces draft marketing content (hooks, scripts,
// captions, storyboards) for a project. Every LLM response is checked
// against a JSON Schema before it is persisted.
package generate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mjagro/content-engine/internal/llm"
	"github.com/mjagro/content-engine/internal/prompts"
	"github.com/mjagro/content-engine/internal/qa"
	"github.com/mjagro/content-engine/internal/schemas"
	"github.com/mjagro/content-engine/internal/types"
)

// ErrProjectNotFound is returned when the target project does not exist.
var ErrProjectNotFound = errors.New("project not found")

// Store is the persistence surface the generation service needs.
type Store interface {
	GetProject(ctx context.Context, id uuid.UUID) (*types.Project, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*types.Product, error)
	InsertHooks(ctx context.Context, projectID uuid.UUID, hooks []types.Hook) error
	InsertScripts(ctx context.Context, projectID uuid.UUID, scripts []types.Script) error
	InsertCaptions(ctx context.Context, projectID uuid.UUID, captions []types.Caption) error
	ListScripts(ctx context.Context, projectID uuid.UUID) ([]types.Script, error)
	SaveStoryboard(ctx context.Context, sb *types.Storyboard) error
}

// Service generates content through an LLM client and persists the results.
type Service struct {
	store Store
	llm   llm.Client
	rules qa.RuleSet
	brand Brand
}

// NewService creates a generation service.
func NewService(store Store, client llm.Client, rules qa.RuleSet, brand Brand) *Service {
	return &Service{store: store, llm: client, rules: rules, brand: brand}
}

// loadProject fetches the project and, when linked, its product.
func (s *Service) loadProject(ctx context.Context, projectID uuid.UUID) (*types.Project, *types.Product, error) {
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	if project == nil {
		return nil, nil, ErrProjectNotFound
	}

	var product *types.Product
	if project.ProductID != nil {
		product, err = s.store.GetProduct(ctx, *project.ProductID)
		if err != nil {
			return nil, nil, err
		}
	}
	return project, product, nil
}

func productLabel(product *types.Product) string {
	if product == nil {
		return "Premium nuts and dried fruits"
	}
	return fmt.Sprintf("%s (SKU %s)", product.Name, product.SKU)
}

func (s *Service) brandData(project *types.Project, product *types.Product) map[string]string {
	return map[string]string{
		"Brand":    s.brand.Name,
		"Company":  s.brand.Company,
		"Tone":     s.brand.Tone,
		"Avoid":    s.brand.Avoid,
		"Product":  productLabel(product),
		"Language": strings.ToUpper(string(project.Language)),
	}
}

// -----------------------------------------------------------------------------
// Hooks
// -----------------------------------------------------------------------------

type hookPayload struct {
	HookType       types.HookType `json:"hook_type"`
	HookText       string         `json:"hook_text"`
	RetentionScore *int           `json:"retention_score"`
}

// GenerateHooks generates the four hook variants (curiosity, authority,
// pain point, visual) and stores them.
func (s *Service) GenerateHooks(ctx context.Context, projectID uuid.UUID) ([]types.Hook, error) {
	project, product, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	template, err := prompts.Get("hooks.json", "generate")
	if err != nil {
		return nil, err
	}
	data := s.brandData(project, product)
	data["ContentTypes"] = joinContentTypes(project.ContentTypes)

	raw, err := s.llm.GenerateJSON(ctx, prompts.Format(template, data), llm.TierStandard)
	if err != nil {
		return nil, fmt.Errorf("failed to generate hooks: %w", err)
	}
	if err := schemas.Validate(schemas.SchemaHooks, raw); err != nil {
		return nil, fmt.Errorf("generated hooks failed validation: %w", err)
	}

	var payloads []hookPayload
	if err := json.Unmarshal([]byte(raw), &payloads); err != nil {
		return nil, fmt.Errorf("failed to parse generated hooks: %w", err)
	}

	hooks := make([]types.Hook, 0, len(payloads))
	for _, p := range payloads {
		hooks = append(hooks, types.Hook{
			ProjectID:      projectID,
			HookType:       p.HookType,
			HookText:       p.HookText,
			RetentionScore: p.RetentionScore,
		})
	}

	if err := s.store.InsertHooks(ctx, projectID, hooks); err != nil {
		return nil, err
	}
	return hooks, nil
}

func joinContentTypes(cts []types.ContentType) string {
	parts := make([]string, len(cts))
	for i, ct := range cts {
		parts[i] = string(ct)
	}
	return strings.Join(parts, ", ")
}

// -----------------------------------------------------------------------------
// Scripts
// -----------------------------------------------------------------------------

type scriptPayload struct {
	Platform        types.Platform `json:"platform"`
	HookSection     string         `json:"hook_section"`
	ValueDelivery   string         `json:"value_delivery"`
	BrandAnchor     string         `json:"brand_anchor"`
	SoftCTA         string         `json:"soft_cta"`
	FullScript      string         `json:"full_script"`
	DurationSeconds int            `json:"duration_seconds"`
}

// GenerateScripts generates one script per target platform concurrently and
// stores them. Each script is constrained to its platform's duration window.
func (s *Service) GenerateScripts(ctx context.Context, projectID uuid.UUID) ([]types.Script, error) {
	project, product, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if len(project.Platforms) == 0 {
		return nil, fmt.Errorf("project has no target platforms")
	}

	template, err := prompts.Get("scripts.json", "generate")
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	scripts := make([]types.Script, 0, len(project.Platforms))

	g, gctx := errgroup.WithContext(ctx)
	for _, platform := range project.Platforms {
		limits, ok := s.rules.Platforms[platform]
		if !ok {
			continue
		}
		g.Go(func() error {
			data := s.brandData(project, product)
			data["Platform"] = limits.Label
			data["MinDuration"] = fmt.Sprintf("%d", limits.MinDurationSeconds)
			data["MaxDuration"] = fmt.Sprintf("%d", limits.MaxDurationSeconds)

			raw, err := s.llm.GenerateJSON(gctx, prompts.Format(template, data), llm.TierStandard)
			if err != nil {
				return fmt.Errorf("failed to generate %s script: %w", platform, err)
			}
			if err := schemas.Validate(schemas.SchemaScript, raw); err != nil {
				return fmt.Errorf("generated %s script failed validation: %w", platform, err)
			}

			var p scriptPayload
			if err := json.Unmarshal([]byte(raw), &p); err != nil {
				return fmt.Errorf("failed to parse generated script: %w", err)
			}

			mu.Lock()
			scripts = append(scripts, types.Script{
				ProjectID:       projectID,
				Platform:        platform,
				HookSection:     p.HookSection,
				ValueDelivery:   p.ValueDelivery,
				BrandAnchor:     p.BrandAnchor,
				SoftCTA:         p.SoftCTA,
				FullScript:      p.FullScript,
				DurationSeconds: p.DurationSeconds,
			})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := s.store.InsertScripts(ctx, projectID, scripts); err != nil {
		return nil, err
	}
	return scripts, nil
}

// -----------------------------------------------------------------------------
// Captions
// -----------------------------------------------------------------------------

type captionPayload struct {
	Platform       types.Platform `json:"platform"`
	CaptionText    string         `json:"caption_text"`
	Hashtags       []string       `json:"hashtags"`
	SEOTitle       string         `json:"seo_title"`
	SEODescription string         `json:"seo_description"`
}

// GenerateCaptions generates one caption per target platform and stores them.
// When a platform has a selected script its hook section seeds the caption.
func (s *Service) GenerateCaptions(ctx context.Context, projectID uuid.UUID) ([]types.Caption, error) {
	project, product, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.ListScripts(ctx, projectID)
	if err != nil {
		return nil, err
	}
	selected := make(map[types.Platform]string)
	for _, sc := range existing {
		if sc.IsSelected {
			selected[sc.Platform] = sc.HookSection
		}
	}

	template, err := prompts.Get("captions.json", "generate")
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	captions := make([]types.Caption, 0, len(project.Platforms))

	g, gctx := errgroup.WithContext(ctx)
	for _, platform := range project.Platforms {
		g.Go(func() error {
			data := s.brandData(project, product)
			data["Platform"] = string(platform)
			data["ScriptSummary"] = selected[platform]

			raw, err := s.llm.GenerateJSON(gctx, prompts.Format(template, data), llm.TierLite)
			if err != nil {
				return fmt.Errorf("failed to generate %s caption: %w", platform, err)
			}
			if err := schemas.Validate(schemas.SchemaCaption, raw); err != nil {
				return fmt.Errorf("generated %s caption failed validation: %w", platform, err)
			}

			var p captionPayload
			if err := json.Unmarshal([]byte(raw), &p); err != nil {
				return fmt.Errorf("failed to parse generated caption: %w", err)
			}

			mu.Lock()
			captions = append(captions, types.Caption{
				ProjectID:      projectID,
				Platform:       platform,
				CaptionText:    p.CaptionText,
				Hashtags:       p.Hashtags,
				SEOTitle:       p.SEOTitle,
				SEODescription: p.SEODescription,
			})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := s.store.InsertCaptions(ctx, projectID, captions); err != nil {
		return nil, err
	}
	return captions, nil
}

// -----------------------------------------------------------------------------
// Storyboards
// -----------------------------------------------------------------------------

type storyboardPayload struct {
	ShotList      []types.StoryboardShot `json:"shot_list"`
	CameraFraming string                 `json:"camera_framing"`
	TextOverlays  []types.TextOverlay    `json:"text_overlay_suggestions"`
	LogoPlacement string                 `json:"logo_placement"`
}

// GenerateStoryboard generates visual guidance from one of the project's
// scripts and stores it, replacing any previous storyboard.
func (s *Service) GenerateStoryboard(ctx context.Context, projectID, scriptID uuid.UUID) (*types.Storyboard, error) {
	project, product, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	existing, err := s.store.ListScripts(ctx, projectID)
	if err != nil {
		return nil, err
	}
	var script *types.Script
	for i := range existing {
		if existing[i].ID == scriptID {
			script = &existing[i]
			break
		}
	}
	if script == nil {
		return nil, fmt.Errorf("script not found: %s", scriptID)
	}

	template, err := prompts.Get("storyboard.json", "generate")
	if err != nil {
		return nil, err
	}
	data := s.brandData(project, product)
	data["Script"] = script.FullScript
	data["Duration"] = fmt.Sprintf("%d", script.DurationSeconds)
	data["Platform"] = string(script.Platform)

	raw, err := s.llm.GenerateJSON(ctx, prompts.Format(template, data), llm.TierAdvanced)
	if err != nil {
		return nil, fmt.Errorf("failed to generate storyboard: %w", err)
	}
	if err := schemas.Validate(schemas.SchemaStoryboard, raw); err != nil {
		return nil, fmt.Errorf("generated storyboard failed validation: %w", err)
	}

	var p storyboardPayload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("failed to parse generated storyboard: %w", err)
	}

	sb := &types.Storyboard{
		ProjectID:     projectID,
		ShotList:      p.ShotList,
		CameraFraming: p.CameraFraming,
		TextOverlays:  p.TextOverlays,
		LogoPlacement: p.LogoPlacement,
	}
	if err := s.store.SaveStoryboard(ctx, sb); err != nil {
		return nil, err
	}
	return sb, nil
}

// -----------------------------------------------------------------------------
// Single fields
// -----------------------------------------------------------------------------

// FieldRequest asks for regeneration of one free-form text field.
type FieldRequest struct {
	ProjectID       uuid.UUID `json:"project_id"`
	FieldName       string    `json:"field_name"`
	FieldPurpose    string    `json:"field_purpose,omitempty"`
	Constraints     string    `json:"constraints,omitempty"`
	PlatformContext string    `json:"platform_context,omitempty"`
	CurrentValue    string    `json:"current_value,omitempty"`
}

// GenerateField generates production-ready text for a single field. The
// result is returned to the caller for review, never persisted directly.
func (s *Service) GenerateField(ctx context.Context, req FieldRequest) (string, error) {
	if req.FieldName == "" {
		return "", fmt.Errorf("field name is required")
	}

	project, product, err := s.loadProject(ctx, req.ProjectID)
	if err != nil {
		return "", err
	}

	template, err := prompts.Get("field.json", "generate")
	if err != nil {
		return "", err
	}

	data := s.brandData(project, product)
	data["FieldName"] = req.FieldName
	data["FieldPurpose"] = orDefault(req.FieldPurpose, "Generate production-ready text")
	data["Constraints"] = req.Constraints
	data["PlatformContext"] = req.PlatformContext
	data["CurrentValue"] = req.CurrentValue
	data["ProductContext"] = productContext(product)

	text, err := s.llm.GenerateContent(ctx, prompts.Format(template, data), llm.TierStandard)
	if err != nil {
		return "", fmt.Errorf("failed to generate field: %w", err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("no content generated")
	}
	return text, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func productContext(product *types.Product) string {
	if product == nil {
		return "NO PRODUCT SELECTED. Generate generic brand content for TAVAAZO premium nuts and dried fruits."
	}
	flags := "None"
	if len(product.ComplianceFlags) > 0 {
		flags = strings.Join(product.ComplianceFlags, ", ")
	}
	return fmt.Sprintf(`SELECTED PRODUCT (READ-ONLY, do NOT invent, modify, or replace):
- SKU: %s
- Name: %s
- Description: %s
- Pack Type: %s
- Pack Size: %s
- Compliance Flags: %s`,
		product.SKU, product.Name,
		orDefault(product.Description, "N/A"),
		orDefault(product.PackType, "N/A"),
		orDefault(product.PackSize, "N/A"),
		flags)
}
