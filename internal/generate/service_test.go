package generate

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mjagro/content-engine/internal/llm"
	"github.com/mjagro/content-engine/internal/qa"
	"github.com/mjagro/content-engine/internal/types"
)

// fakeLLM routes every call through a single function so tests can key the
// response off the prompt content.
type fakeLLM struct {
	mu      sync.Mutex
	prompts []string
	respond func(prompt string) (string, error)
}

func (f *fakeLLM) GenerateContent(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	return f.record(prompt)
}

func (f *fakeLLM) GenerateJSON(_ context.Context, prompt string, _ llm.ModelTier) (string, error) {
	return f.record(prompt)
}

func (f *fakeLLM) record(prompt string) (string, error) {
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.mu.Unlock()
	return f.respond(prompt)
}

func (f *fakeLLM) GetModel(llm.ModelTier) string { return "fake-model" }
func (f *fakeLLM) Close() error                  { return nil }

func (f *fakeLLM) lastPrompt() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.prompts) == 0 {
		return ""
	}
	return f.prompts[len(f.prompts)-1]
}

type fakeStore struct {
	mu       sync.Mutex
	project  *types.Project
	product  *types.Product
	scripts  []types.Script
	hooks    []types.Hook
	captions []types.Caption
	board    *types.Storyboard
}

func (f *fakeStore) GetProject(_ context.Context, id uuid.UUID) (*types.Project, error) {
	if f.project != nil && f.project.ID == id {
		return f.project, nil
	}
	return nil, nil
}

func (f *fakeStore) GetProduct(_ context.Context, id uuid.UUID) (*types.Product, error) {
	if f.product != nil && f.product.ID == id {
		return f.product, nil
	}
	return nil, nil
}

func (f *fakeStore) InsertHooks(_ context.Context, _ uuid.UUID, hooks []types.Hook) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hooks = append(f.hooks, hooks...)
	return nil
}

func (f *fakeStore) InsertScripts(_ context.Context, _ uuid.UUID, scripts []types.Script) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scripts = append(f.scripts, scripts...)
	return nil
}

func (f *fakeStore) InsertCaptions(_ context.Context, _ uuid.UUID, captions []types.Caption) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.captions = append(f.captions, captions...)
	return nil
}

func (f *fakeStore) ListScripts(_ context.Context, _ uuid.UUID) ([]types.Script, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.scripts, nil
}

func (f *fakeStore) SaveStoryboard(_ context.Context, sb *types.Storyboard) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.board = sb
	return nil
}

func newFixture(platforms ...types.Platform) (*fakeStore, *types.Project) {
	if len(platforms) == 0 {
		platforms = []types.Platform{types.PlatformTikTok}
	}
	product := &types.Product{
		ID:              uuid.New(),
		SKU:             "TAV-PST-500",
		Name:            "Premium Pistachios",
		ComplianceFlags: []string{"LMIV"},
	}
	project := &types.Project{
		ID:           uuid.New(),
		Name:         "Pistachio Launch",
		ProductID:    &product.ID,
		Status:       types.StatusDraft,
		Language:     types.LangEnglish,
		Platforms:    platforms,
		ContentTypes: []types.ContentType{types.ContentProduct},
		Markets:      []types.Market{types.MarketGermany},
	}
	return &fakeStore{project: project, product: product}, project
}

func newService(store *fakeStore, client llm.Client) *Service {
	return NewService(store, client, qa.DefaultRuleSet(), DefaultBrand())
}

const hooksResponse = `[
	{"hook_type": "curiosity", "hook_text": "Why are real pistachios green?", "retention_score": 82},
	{"hook_type": "authority", "hook_text": "Three generations of growers check every batch.", "retention_score": 75},
	{"hook_type": "pain_point", "hook_text": "Most roasted nuts lose their flavor in weeks.", "retention_score": 70},
	{"hook_type": "visual", "hook_text": "A single shell cracks open in slow motion.", "retention_score": 78}
]`

func TestGenerateHooks(t *testing.T) {
	store, project := newFixture()
	client := &fakeLLM{respond: func(string) (string, error) { return hooksResponse, nil }}
	svc := newService(store, client)

	hooks, err := svc.GenerateHooks(context.Background(), project.ID)
	require.NoError(t, err)
	require.Len(t, hooks, 4)
	assert.Len(t, store.hooks, 4)

	assert.Equal(t, types.HookCuriosity, hooks[0].HookType)
	require.NotNil(t, hooks[0].RetentionScore)
	assert.Equal(t, 82, *hooks[0].RetentionScore)

	prompt := client.lastPrompt()
	assert.Contains(t, prompt, "TAVAAZO")
	assert.Contains(t, prompt, "TAV-PST-500")
	assert.Contains(t, prompt, "product")
}

func TestGenerateHooks_InvalidResponse(t *testing.T) {
	store, project := newFixture()
	client := &fakeLLM{respond: func(string) (string, error) {
		return `[{"hook_type": "clickbait", "hook_text": "x"}]`, nil
	}}
	svc := newService(store, client)

	_, err := svc.GenerateHooks(context.Background(), project.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation")
	assert.Empty(t, store.hooks, "invalid output must not be persisted")
}

func TestGenerateHooks_ProjectNotFound(t *testing.T) {
	store, _ := newFixture()
	client := &fakeLLM{respond: func(string) (string, error) { return hooksResponse, nil }}
	svc := newService(store, client)

	_, err := svc.GenerateHooks(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestGenerateScripts_PerPlatform(t *testing.T) {
	store, project := newFixture(types.PlatformTikTok, types.PlatformYouTubeShorts)
	client := &fakeLLM{respond: func(prompt string) (string, error) {
		platform, duration := "tiktok", 20
		if strings.Contains(prompt, "YouTube Shorts") {
			platform, duration = "youtube_shorts", 35
		}
		return fmt.Sprintf(`{
			"platform": %q,
			"hook_section": "Why are real pistachios green?",
			"value_delivery": "Slow roasting keeps the color.",
			"brand_anchor": "TAVAAZO selects every batch by hand.",
			"soft_cta": "See the full range on our site.",
			"full_script": "Why are real pistachios green? Slow roasting keeps the color.",
			"duration_seconds": %d
		}`, platform, duration), nil
	}}
	svc := newService(store, client)

	scripts, err := svc.GenerateScripts(context.Background(), project.ID)
	require.NoError(t, err)
	require.Len(t, scripts, 2)

	byPlatform := make(map[types.Platform]types.Script)
	for _, s := range scripts {
		byPlatform[s.Platform] = s
	}
	assert.Equal(t, 20, byPlatform[types.PlatformTikTok].DurationSeconds)
	assert.Equal(t, 35, byPlatform[types.PlatformYouTubeShorts].DurationSeconds)
	assert.Len(t, store.scripts, 2)
}

func TestGenerateScripts_GenerationFailure(t *testing.T) {
	store, project := newFixture(types.PlatformTikTok, types.PlatformYouTubeShorts)
	client := &fakeLLM{respond: func(prompt string) (string, error) {
		if strings.Contains(prompt, "YouTube Shorts") {
			return "", fmt.Errorf("model overloaded")
		}
		return `{"platform": "tiktok", "full_script": "ok", "duration_seconds": 20}`, nil
	}}
	svc := newService(store, client)

	_, err := svc.GenerateScripts(context.Background(), project.ID)
	require.Error(t, err)
	assert.Empty(t, store.scripts, "partial batches must not be persisted")
}

func TestGenerateCaptions_UsesSelectedScript(t *testing.T) {
	store, project := newFixture()
	store.scripts = []types.Script{{
		ID:          uuid.New(),
		ProjectID:   project.ID,
		Platform:    types.PlatformTikTok,
		HookSection: "Why are real pistachios green?",
		IsSelected:  true,
	}}
	client := &fakeLLM{respond: func(string) (string, error) {
		return `{
			"platform": "tiktok",
			"caption_text": "Slow-roasted in small batches.",
			"hashtags": ["#pistachio", "#tavaazo"],
			"seo_title": "Premium Pistachios | TAVAAZO",
			"seo_description": "Hand-selected pistachios."
		}`, nil
	}}
	svc := newService(store, client)

	captions, err := svc.GenerateCaptions(context.Background(), project.ID)
	require.NoError(t, err)
	require.Len(t, captions, 1)
	assert.Equal(t, []string{"#pistachio", "#tavaazo"}, captions[0].Hashtags)

	assert.Contains(t, client.lastPrompt(), "Why are real pistachios green?")
}

func TestGenerateStoryboard(t *testing.T) {
	store, project := newFixture()
	scriptID := uuid.New()
	store.scripts = []types.Script{{
		ID:              scriptID,
		ProjectID:       project.ID,
		Platform:        types.PlatformTikTok,
		FullScript:      "Why are real pistachios green? Slow roasting keeps the color.",
		DurationSeconds: 20,
	}}
	client := &fakeLLM{respond: func(string) (string, error) {
		return `{
			"shot_list": [
				{"order": 1, "description": "Pistachios pour into a bowl", "duration": "0-3s", "framing": "Close-up"}
			],
			"camera_framing": "Vertical 9:16, natural light.",
			"text_overlay_suggestions": [{"text": "Hand-selected", "position": "center", "timing": "2-4s"}],
			"logo_placement": "Bottom-right corner, small"
		}`, nil
	}}
	svc := newService(store, client)

	sb, err := svc.GenerateStoryboard(context.Background(), project.ID, scriptID)
	require.NoError(t, err)
	require.Len(t, sb.ShotList, 1)
	assert.Equal(t, 1, sb.ShotList[0].Order)
	require.NotNil(t, store.board)
	assert.Equal(t, project.ID, store.board.ProjectID)

	assert.Contains(t, client.lastPrompt(), "Slow roasting keeps the color.")
}

func TestGenerateStoryboard_ScriptNotFound(t *testing.T) {
	store, project := newFixture()
	client := &fakeLLM{respond: func(string) (string, error) { return "{}", nil }}
	svc := newService(store, client)

	_, err := svc.GenerateStoryboard(context.Background(), project.ID, uuid.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "script not found")
}

func TestGenerateField(t *testing.T) {
	store, project := newFixture()
	client := &fakeLLM{respond: func(string) (string, error) {
		return "  Slow-roasted pistachios, hand-selected at origin.  ", nil
	}}
	svc := newService(store, client)

	text, err := svc.GenerateField(context.Background(), FieldRequest{
		ProjectID: project.ID,
		FieldName: "pack_copy",
	})
	require.NoError(t, err)
	assert.Equal(t, "Slow-roasted pistachios, hand-selected at origin.", text)

	prompt := client.lastPrompt()
	assert.Contains(t, prompt, "FIELD: pack_copy")
	assert.Contains(t, prompt, "SELECTED PRODUCT")
	assert.Contains(t, prompt, "LMIV")
}

func TestGenerateField_MissingName(t *testing.T) {
	store, project := newFixture()
	client := &fakeLLM{respond: func(string) (string, error) { return "text", nil }}
	svc := newService(store, client)

	_, err := svc.GenerateField(context.Background(), FieldRequest{ProjectID: project.ID})
	require.Error(t, err)
}

func TestGenerateField_EmptyResponse(t *testing.T) {
	store, project := newFixture()
	client := &fakeLLM{respond: func(string) (string, error) { return "   ", nil }}
	svc := newService(store, client)

	_, err := svc.GenerateField(context.Background(), FieldRequest{
		ProjectID: project.ID,
		FieldName: "pack_copy",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no content generated")
}
