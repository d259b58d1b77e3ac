// Package fetch - scan.go audits product landing pages for compliance
// signals, chiefly allergen disclosure.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/mjagro/content-engine/internal/llm"
	"github.com/mjagro/content-engine/internal/schemas"
	"github.com/mjagro/content-engine/internal/types"
)

// maxExtractionChars caps how much page text is sent to the LLM.
const maxExtractionChars = 8000

// PageFetcher retrieves landing pages. Implemented by CachedFetcher.
type PageFetcher interface {
	FetchForProduct(ctx context.Context, urlStr string, productID *uuid.UUID) (*CachedResult, error)
}

// ProductFacts is the structured information extracted from a landing page.
type ProductFacts struct {
	ProductName       string   `json:"product_name"`
	Ingredients       []string `json:"ingredients"`
	AllergenStatement string   `json:"allergen_statement"`
	Origin            string   `json:"origin"`
	Claims            []string `json:"claims"`
}

// PageScan is the result of auditing one product landing page.
type PageScan struct {
	URL                string        `json:"url"`
	FromCache          bool          `json:"from_cache"`
	Platform           ShopPlatform  `json:"platform"`
	DisclosesAllergens bool          `json:"discloses_allergens"`
	MatchedTerms       []string      `json:"matched_terms"`
	Facts              *ProductFacts `json:"facts,omitempty"`
}

// Scanner fetches a product's landing page and checks it for allergen
// disclosure. With an LLM client attached it also extracts structured
// product facts from the page text.
type Scanner struct {
	fetcher PageFetcher
	llm     llm.Client
	verbose bool
}

// NewScanner creates a scanner. client may be nil to skip fact extraction.
func NewScanner(fetcher PageFetcher, client llm.Client, verbose bool) *Scanner {
	return &Scanner{fetcher: fetcher, llm: client, verbose: verbose}
}

// ScanProduct audits the product's landing page. terms are the disclosure
// keywords to look for (matched case-insensitively).
func (s *Scanner) ScanProduct(ctx context.Context, product *types.Product, terms []string) (*PageScan, error) {
	if product.LandingURL == "" {
		return nil, fmt.Errorf("product %s has no landing URL", product.SKU)
	}

	result, err := s.fetcher.FetchForProduct(ctx, product.LandingURL, &product.ID)
	if err != nil {
		return nil, err
	}

	text := result.Text
	platform := DetectShopPlatform(product.LandingURL, result.HTML)

	// Storefronts that render client-side come back nearly empty over plain
	// HTTP; retry with a headless browser.
	if !result.FromCache && ShouldUseBrowser(text) {
		html, berr := BrowserSimple(ctx, product.LandingURL, s.verbose)
		if berr == nil {
			platform = DetectShopPlatform(product.LandingURL, html)
			if rendered, terr := ExtractMainText(html,
				PlatformContentSelectors(platform),
				PlatformNoiseSelectors(platform)...); terr == nil && rendered != "" {
				text = rendered
			}
		} else if s.verbose {
			log.Printf("[SCAN] browser fallback failed for %s: %v", product.LandingURL, berr)
		}
	}

	matched := MatchTerms(text, terms)
	scan := &PageScan{
		URL:                product.LandingURL,
		FromCache:          result.FromCache,
		Platform:           platform,
		DisclosesAllergens: len(matched) > 0,
		MatchedTerms:       matched,
	}

	if s.llm != nil && text != "" {
		facts, ferr := s.extractFacts(ctx, text)
		if ferr != nil {
			// Extraction is best-effort; the disclosure result stands alone.
			if s.verbose {
				log.Printf("[SCAN] fact extraction failed for %s: %v", product.LandingURL, ferr)
			}
		} else {
			scan.Facts = facts
		}
	}

	return scan, nil
}

// MatchTerms returns the terms found in text by case-insensitive substring
// containment.
func MatchTerms(text string, terms []string) []string {
	lower := strings.ToLower(text)
	var matched []string
	for _, term := range terms {
		if term != "" && strings.Contains(lower, strings.ToLower(term)) {
			matched = append(matched, term)
		}
	}
	return matched
}

func (s *Scanner) extractFacts(ctx context.Context, text string) (*ProductFacts, error) {
	if len(text) > maxExtractionChars {
		text = text[:maxExtractionChars]
	}

	prompt := llm.BuildExtractionPrompt(llm.ProductFactsSchema(), text)
	raw, err := s.llm.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		return nil, err
	}
	if err := schemas.Validate(schemas.SchemaProductFacts, raw); err != nil {
		return nil, err
	}

	var facts ProductFacts
	if err := json.Unmarshal([]byte(raw), &facts); err != nil {
		return nil, fmt.Errorf("failed to parse product facts: %w", err)
	}
	return &facts, nil
}
