// Package llm - extractor.go provides generic LLM-based structured extraction.
package llm

import (
	"fmt"
	"strings"
)

// ExtractionSchema defines the structure for LLM-based content extraction.
// It provides a reusable way to define what information to extract from text.
type ExtractionSchema struct {
	Name        string        // Schema name (e.g., "ProductFacts")
	Description string        // System prompt preamble describing the extraction task
	Fields      []SchemaField // Expected output fields
}

// SchemaField defines a single field in the extraction output.
type SchemaField struct {
	Name        string // JSON field name
	Type        string // Type hint: "string", "[]string", "map[string]string"
	Description string // Description for the LLM
	Required    bool   // Whether this field is required
}

// BuildExtractionPrompt constructs the LLM prompt from schema and input text.
func BuildExtractionPrompt(schema ExtractionSchema, inputText string) string {
	var sb strings.Builder

	// System description
	sb.WriteString(schema.Description)
	sb.WriteString("\n\n")

	// Output schema
	sb.WriteString("Return ONLY valid JSON matching this exact structure:\n{\n")
	for i, field := range schema.Fields {
		typeHint := field.Type
		if typeHint == "" {
			typeHint = "string"
		}
		requiredHint := ""
		if field.Required {
			requiredHint = " (required)"
		}
		sb.WriteString(fmt.Sprintf("  \"%s\": %s%s", field.Name, typeHint, requiredHint))
		if field.Description != "" {
			sb.WriteString(fmt.Sprintf(" // %s", field.Description))
		}
		if i < len(schema.Fields)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("}\n\n")

	// Instructions
	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Extract information directly from the text, do not invent or summarize.\n")
	sb.WriteString("- Return ONLY the JSON object, no markdown, no explanation, no code blocks.\n\n")

	// Input text
	sb.WriteString("Input text:\n\"\"\"\n")
	sb.WriteString(inputText)
	sb.WriteString("\n\"\"\"\n")

	return sb.String()
}

// --- Predefined Schemas ---

// ProductFactsSchema returns the extraction schema for product landing pages.
// Extracts ingredients, allergen statements, origin, and marketing claims so
// compliance reviews can compare the page against the product record.
func ProductFactsSchema() ExtractionSchema {
	return ExtractionSchema{
		Name: "ProductFacts",
		Description: `You are a food-product page parser. COPY TEXT VERBATIM - do not paraphrase, summarize, or reword.
Your task is to extract factual product information from a raw product landing page.
IMPORTANT: Preserve the exact wording from the original text.
Goal: Extract ingredients, allergen statements, origin, and any health or quality claims made on the page.
EXCLUDE: Navigation menus, cookie banners, footer links, unrelated cross-sell items.`,
		Fields: []SchemaField{
			{
				Name:        "product_name",
				Type:        "\"string\"",
				Description: "Product name as shown on the page",
				Required:    true,
			},
			{
				Name:        "ingredients",
				Type:        "[\"string\"]",
				Description: "Listed ingredients - copy each one verbatim",
				Required:    false,
			},
			{
				Name:        "allergen_statement",
				Type:        "\"string\"",
				Description: "Allergen disclosure text (e.g., 'Contains tree nuts') - copy verbatim",
				Required:    false,
			},
			{
				Name:        "origin",
				Type:        "\"string\"",
				Description: "Country or region of origin if stated",
				Required:    false,
			},
			{
				Name:        "claims",
				Type:        "[\"string\"]",
				Description: "Health, quality, or marketing claims made on the page - copy each verbatim",
				Required:    false,
			},
		},
	}
}
