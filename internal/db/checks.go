package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mjagro/content-engine/internal/qa"
	"github.com/mjagro/content-engine/internal/types"
)

// LoadSnapshot gathers the full content snapshot for one QA run. Returns a
// snapshot with a nil Project when the project does not exist.
func (db *DB) LoadSnapshot(ctx context.Context, projectID uuid.UUID) (*qa.Snapshot, error) {
	project, err := db.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, nil
	}

	snap := &qa.Snapshot{Project: project}

	if project.ProductID != nil {
		snap.Product, err = db.GetProduct(ctx, *project.ProductID)
		if err != nil {
			return nil, err
		}
	}

	if snap.Hooks, err = db.ListHooks(ctx, projectID); err != nil {
		return nil, err
	}
	if snap.Scripts, err = db.ListScripts(ctx, projectID); err != nil {
		return nil, err
	}
	if snap.Captions, err = db.ListCaptions(ctx, projectID); err != nil {
		return nil, err
	}

	return snap, nil
}

// SaveRun replaces the project's previous check rows with the new set and,
// when newStatus is non-nil, updates the project status. Everything happens
// in one transaction so a partial write can never leave the check rows and
// the status disagreeing.
func (db *DB) SaveRun(ctx context.Context, projectID uuid.UUID, checks []types.Check, newStatus *types.ProjectStatus) error {
	return db.withTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM compliance_checks WHERE project_id = $1`, projectID); err != nil {
			return fmt.Errorf("failed to clear previous checks: %w", err)
		}

		for _, c := range checks {
			if _, err := tx.Exec(ctx,
				`INSERT INTO compliance_checks (project_id, check_name, passed, notes)
				 VALUES ($1, $2, $3, $4)`,
				projectID, c.Name, c.Passed, c.Notes,
			); err != nil {
				return fmt.Errorf("failed to insert check %q: %w", c.Name, err)
			}
		}

		if newStatus != nil {
			result, err := tx.Exec(ctx,
				`UPDATE projects SET status = $1, updated_at = NOW() WHERE id = $2`,
				*newStatus, projectID,
			)
			if err != nil {
				return fmt.Errorf("failed to update project status: %w", err)
			}
			if result.RowsAffected() == 0 {
				return fmt.Errorf("project not found: %s", projectID)
			}
		}

		return nil
	})
}

// ListChecks retrieves the latest persisted check rows for a project.
func (db *DB) ListChecks(ctx context.Context, projectID uuid.UUID) ([]types.StoredCheck, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, project_id, check_name, passed, notes, checked_at
		 FROM compliance_checks WHERE project_id = $1 ORDER BY checked_at, id`,
		projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list checks: %w", err)
	}
	defer rows.Close()

	var checks []types.StoredCheck
	for rows.Next() {
		var c types.StoredCheck
		if err := rows.Scan(&c.ID, &c.ProjectID, &c.Name, &c.Passed, &c.Notes, &c.CheckedAt); err != nil {
			return nil, fmt.Errorf("failed to scan check: %w", err)
		}
		checks = append(checks, c)
	}
	return checks, nil
}
