package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mjagro/content-engine/internal/db"
	"github.com/mjagro/content-engine/internal/fetch"
	"github.com/mjagro/content-engine/internal/llm"
	"github.com/mjagro/content-engine/internal/qa"
	"github.com/mjagro/content-engine/internal/types"
)

var (
	scanProduct     string
	scanDatabaseURL string
	scanAPIKey      string
	scanSkipCache   bool
	scanCacheTTL    int
	scanVerbose     bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Audit a product's landing page for allergen disclosure",
	Long: `Fetches the product's landing page (through the page cache), checks it
for allergen disclosure terms, and prints the scan result as JSON.

With GEMINI_API_KEY set, structured product facts are also extracted
from the page text.`,
	RunE: runScanCmd,
}

func init() {
	scanCmd.Flags().StringVarP(&scanProduct, "product", "p", "", "Product ID or SKU (required)")
	scanCmd.Flags().StringVar(&scanDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	scanCmd.Flags().StringVar(&scanAPIKey, "api-key", "", "Gemini API Key (optional, defaults to GEMINI_API_KEY env var)")
	scanCmd.Flags().BoolVar(&scanSkipCache, "skip-cache", false, "Bypass the page cache and fetch fresh")
	scanCmd.Flags().IntVar(&scanCacheTTL, "cache-ttl", 0, "Page cache TTL in hours (0 uses the default)")
	scanCmd.Flags().BoolVarP(&scanVerbose, "verbose", "v", false, "Print detailed debug information")
	_ = scanCmd.MarkFlagRequired("product")
	rootCmd.AddCommand(scanCmd)
}

func runScanCmd(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	databaseURL := scanDatabaseURL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	var product *types.Product
	if id, perr := uuid.Parse(scanProduct); perr == nil {
		product, err = database.GetProduct(ctx, id)
	} else {
		product, err = database.GetProductBySKU(ctx, scanProduct)
	}
	if err != nil {
		return fmt.Errorf("failed to look up product: %w", err)
	}
	if product == nil {
		return fmt.Errorf("product not found: %s", scanProduct)
	}

	apiKey := scanAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}

	var client llm.Client
	if apiKey != "" {
		client, err = llm.NewClient(ctx, llm.DefaultGeminiConfig(), apiKey)
		if err != nil {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
		defer client.Close()
	} else if scanVerbose {
		fmt.Fprintln(os.Stderr, "No API key configured; skipping product fact extraction")
	}

	fetcherConfig := fetch.DefaultCachedFetcherConfig()
	fetcherConfig.SkipCache = scanSkipCache
	if scanCacheTTL > 0 {
		fetcherConfig.CacheTTL = time.Duration(scanCacheTTL) * time.Hour
	}
	fetcher := fetch.NewCachedFetcher(database, fetcherConfig)

	scanner := fetch.NewScanner(fetcher, client, scanVerbose)
	scan, err := scanner.ScanProduct(ctx, product, qa.DefaultRuleSet().AllergenTerms)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	out, err := json.MarshalIndent(scan, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode scan result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
