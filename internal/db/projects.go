package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mjagro/content-engine/internal/types"
)

// CreateProject creates a project together with its platform, content-type,
// and market rows in one transaction.
func (db *DB) CreateProject(ctx context.Context, input *types.CreateProjectInput, createdBy uuid.UUID) (*types.Project, error) {
	var id uuid.UUID
	err := db.withTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO projects (name, product_id, language, created_by_profile_id)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id`,
			input.Name, input.ProductID, input.Language, createdBy,
		).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to insert project: %w", err)
		}

		for _, platform := range input.Platforms {
			if _, err := tx.Exec(ctx,
				`INSERT INTO project_platforms (project_id, platform) VALUES ($1, $2)
				 ON CONFLICT DO NOTHING`,
				id, platform,
			); err != nil {
				return fmt.Errorf("failed to insert project platform: %w", err)
			}
		}
		for _, ct := range input.ContentTypes {
			if _, err := tx.Exec(ctx,
				`INSERT INTO project_content_types (project_id, content_type) VALUES ($1, $2)
				 ON CONFLICT DO NOTHING`,
				id, ct,
			); err != nil {
				return fmt.Errorf("failed to insert project content type: %w", err)
			}
		}
		for _, market := range input.Markets {
			if _, err := tx.Exec(ctx,
				`INSERT INTO project_markets (project_id, market) VALUES ($1, $2)
				 ON CONFLICT DO NOTHING`,
				id, market,
			); err != nil {
				return fmt.Errorf("failed to insert project market: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return db.GetProject(ctx, id)
}

// GetProject retrieves a project with its platforms, content types, and
// markets. Returns nil when the project does not exist.
func (db *DB) GetProject(ctx context.Context, id uuid.UUID) (*types.Project, error) {
	var p types.Project
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, product_id, status, language, suggested_duration,
		        created_by_profile_id, created_at, updated_at
		 FROM projects WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.Name, &p.ProductID, &p.Status, &p.Language, &p.SuggestedDuration,
		&p.CreatedByProfileID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	if err := db.loadProjectFacets(ctx, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (db *DB) loadProjectFacets(ctx context.Context, p *types.Project) error {
	rows, err := db.pool.Query(ctx,
		`SELECT platform FROM project_platforms WHERE project_id = $1 ORDER BY platform`, p.ID)
	if err != nil {
		return fmt.Errorf("failed to list project platforms: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var platform types.Platform
		if err := rows.Scan(&platform); err != nil {
			return fmt.Errorf("failed to scan platform: %w", err)
		}
		p.Platforms = append(p.Platforms, platform)
	}

	ctRows, err := db.pool.Query(ctx,
		`SELECT content_type FROM project_content_types WHERE project_id = $1 ORDER BY content_type`, p.ID)
	if err != nil {
		return fmt.Errorf("failed to list project content types: %w", err)
	}
	defer ctRows.Close()
	for ctRows.Next() {
		var ct types.ContentType
		if err := ctRows.Scan(&ct); err != nil {
			return fmt.Errorf("failed to scan content type: %w", err)
		}
		p.ContentTypes = append(p.ContentTypes, ct)
	}

	mRows, err := db.pool.Query(ctx,
		`SELECT market FROM project_markets WHERE project_id = $1 ORDER BY market`, p.ID)
	if err != nil {
		return fmt.Errorf("failed to list project markets: %w", err)
	}
	defer mRows.Close()
	for mRows.Next() {
		var m types.Market
		if err := mRows.Scan(&m); err != nil {
			return fmt.Errorf("failed to scan market: %w", err)
		}
		p.Markets = append(p.Markets, m)
	}

	return nil
}

// ProjectFilters holds optional filters for listing projects.
type ProjectFilters struct {
	Status types.ProjectStatus
	Limit  int
}

// ListProjects retrieves projects ordered by most recently updated.
func (db *DB) ListProjects(ctx context.Context, filters ProjectFilters) ([]types.Project, error) {
	if filters.Limit == 0 {
		filters.Limit = 50
	}

	query := `SELECT id, name, product_id, status, language, suggested_duration,
	                 created_by_profile_id, created_at, updated_at
	          FROM projects WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, filters.Status)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY updated_at DESC LIMIT $%d", argNum)
	args = append(args, filters.Limit)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []types.Project
	for rows.Next() {
		var p types.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.ProductID, &p.Status, &p.Language,
			&p.SuggestedDuration, &p.CreatedByProfileID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}

	for i := range projects {
		if err := db.loadProjectFacets(ctx, &projects[i]); err != nil {
			return nil, err
		}
	}
	return projects, nil
}

// UpdateProjectStatus sets a project's lifecycle status.
func (db *DB) UpdateProjectStatus(ctx context.Context, id uuid.UUID, status types.ProjectStatus) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE projects SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update project status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("project not found: %s", id)
	}
	return nil
}

// DeleteProject deletes a project and all its generated content (via cascade).
func (db *DB) DeleteProject(ctx context.Context, id uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("project not found: %s", id)
	}
	return nil
}
