package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_Hooks_Valid(t *testing.T) {
	content := `[
		{"hook_type": "curiosity", "hook_text": "Why are real pistachios green?", "retention_score": 82},
		{"hook_type": "visual", "hook_text": "A single saffron thread falls in slow motion."}
	]`

	assert.NoError(t, Validate(SchemaHooks, content))
}

func TestValidate_Hooks_BadHookType(t *testing.T) {
	content := `[{"hook_type": "clickbait", "hook_text": "You will not believe this!"}]`

	err := Validate(SchemaHooks, content)
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidate_Hooks_MissingText(t *testing.T) {
	content := `[{"hook_type": "authority"}]`

	err := Validate(SchemaHooks, content)
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestValidate_Script_Valid(t *testing.T) {
	content := `{
		"platform": "tiktok",
		"hook_section": "Why are real pistachios green?",
		"value_delivery": "Slow roasting keeps the color and the flavor.",
		"brand_anchor": "TAVAAZO selects every batch by hand.",
		"soft_cta": "See the full range on our site.",
		"full_script": "Why are real pistachios green? Slow roasting keeps the color.",
		"duration_seconds": 20
	}`

	assert.NoError(t, Validate(SchemaScript, content))
}

func TestValidate_Script_DurationWrongType(t *testing.T) {
	content := `{"platform": "tiktok", "full_script": "text", "duration_seconds": "20"}`

	err := Validate(SchemaScript, content)
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestValidate_Caption_Valid(t *testing.T) {
	content := `{
		"platform": "instagram_reels",
		"caption_text": "Slow-roasted in small batches.",
		"hashtags": ["#pistachio", "#tavaazo"],
		"seo_title": "Premium Pistachios | TAVAAZO",
		"seo_description": "Hand-selected pistachios, slow-roasted in small batches."
	}`

	assert.NoError(t, Validate(SchemaCaption, content))
}

func TestValidate_Storyboard_Valid(t *testing.T) {
	content := `{
		"shot_list": [
			{"order": 1, "description": "Close-up of pistachios pouring into a bowl", "duration": "0-3s", "framing": "Close-up"},
			{"order": 2, "description": "Hands cracking a shell", "duration": "3-6s", "framing": "Macro"}
		],
		"camera_framing": "Vertical 9:16, natural light, shallow depth of field.",
		"text_overlay_suggestions": [
			{"text": "Hand-selected", "position": "center", "timing": "2-4s"}
		],
		"logo_placement": "Bottom-right corner, small"
	}`

	assert.NoError(t, Validate(SchemaStoryboard, content))
}

func TestValidate_Storyboard_EmptyShotList(t *testing.T) {
	content := `{"shot_list": []}`

	err := Validate(SchemaStoryboard, content)
	require.Error(t, err)
}

func TestValidate_ProductFacts_Valid(t *testing.T) {
	content := `{
		"product_name": "TAVAAZO Premium Pistachios",
		"ingredients": ["pistachios", "sea salt"],
		"allergen_statement": "Contains tree nuts.",
		"origin": "Iran",
		"claims": ["Hand-selected", "Slow-roasted"]
	}`

	assert.NoError(t, Validate(SchemaProductFacts, content))
}

func TestValidate_UnknownSchema(t *testing.T) {
	err := Validate("does-not-exist", `{}`)
	require.Error(t, err)

	var loadErr *SchemaLoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Contains(t, loadErr.Error(), "unknown schema")
}

func TestValidate_MalformedJSON(t *testing.T) {
	err := Validate(SchemaHooks, `not json at all`)
	require.Error(t, err)
}

func TestValidateJSONString(t *testing.T) {
	schema := `{"type": "object", "required": ["name"], "properties": {"name": {"type": "string"}}}`

	assert.NoError(t, ValidateJSONString(schema, `{"name": "ok"}`))

	err := ValidateJSONString(schema, `{}`)
	require.Error(t, err)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "(root)", validationErr.Errors[0].Field)
}
