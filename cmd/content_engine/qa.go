package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mjagro/content-engine/internal/db"
	"github.com/mjagro/content-engine/internal/observability"
	"github.com/mjagro/content-engine/internal/qa"
	"github.com/mjagro/content-engine/internal/types"
)

var (
	qaProjectID   string
	qaDatabaseURL string
	qaVerbose     bool
)

var qaCmd = &cobra.Command{
	Use:   "qa",
	Short: "Run the QA compliance pass for a project",
	Long: `Evaluates every compliance rule against a project's content snapshot,
persists the resulting checks, and updates the project status to
pending_approval or qa_failed.

Exits with a non-zero status when critical checks fail.`,
	RunE: runQACmd,
}

func init() {
	qaCmd.Flags().StringVarP(&qaProjectID, "project", "p", "", "Project ID to evaluate (required)")
	qaCmd.Flags().StringVar(&qaDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	qaCmd.Flags().BoolVarP(&qaVerbose, "verbose", "v", false, "Print every check grouped by category")
	_ = qaCmd.MarkFlagRequired("project")
	rootCmd.AddCommand(qaCmd)
}

func runQACmd(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	projectID, err := uuid.Parse(qaProjectID)
	if err != nil {
		return fmt.Errorf("invalid project ID format: %w", err)
	}

	databaseURL := qaDatabaseURL
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

	printer := observability.NewPrinter(os.Stdout)

	if qaVerbose {
		project, err := database.GetProject(ctx, projectID)
		if err != nil {
			return fmt.Errorf("failed to load project: %w", err)
		}
		var product *types.Product
		if project != nil && project.ProductID != nil {
			product, err = database.GetProduct(ctx, *project.ProductID)
			if err != nil {
				return fmt.Errorf("failed to load product: %w", err)
			}
		}
		printer.PrintProject(project, product)
	}

	engine := qa.NewEngine(database, qa.DefaultRuleSet())
	report, err := engine.Run(ctx, projectID)
	if err != nil {
		return fmt.Errorf("QA run failed: %w", err)
	}

	if qaVerbose {
		printer.PrintChecks(report.Groups)
	} else {
		printer.PrintFailures(report.Checks)
	}
	printer.PrintReport(report)

	if report.Summary.CriticalFail > 0 {
		return fmt.Errorf("%d critical check(s) failed", report.Summary.CriticalFail)
	}
	return nil
}
