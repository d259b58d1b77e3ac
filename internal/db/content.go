package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mjagro/content-engine/internal/types"
)

// -----------------------------------------------------------------------------
// Hooks
// -----------------------------------------------------------------------------

// InsertHooks bulk-inserts generated hooks for a project.
func (db *DB) InsertHooks(ctx context.Context, projectID uuid.UUID, hooks []types.Hook) error {
	return db.withTx(ctx, func(tx pgx.Tx) error {
		for _, h := range hooks {
			if _, err := tx.Exec(ctx,
				`INSERT INTO generated_hooks (project_id, hook_type, hook_text, retention_score)
				 VALUES ($1, $2, $3, $4)`,
				projectID, h.HookType, h.HookText, h.RetentionScore,
			); err != nil {
				return fmt.Errorf("failed to insert hook: %w", err)
			}
		}
		return nil
	})
}

// ListHooks retrieves all hooks for a project in generation order.
func (db *DB) ListHooks(ctx context.Context, projectID uuid.UUID) ([]types.Hook, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, project_id, hook_type, hook_text, retention_score, is_selected, created_at
		 FROM generated_hooks WHERE project_id = $1 ORDER BY created_at, id`,
		projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list hooks: %w", err)
	}
	defer rows.Close()

	var hooks []types.Hook
	for rows.Next() {
		var h types.Hook
		if err := rows.Scan(&h.ID, &h.ProjectID, &h.HookType, &h.HookText,
			&h.RetentionScore, &h.IsSelected, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan hook: %w", err)
		}
		hooks = append(hooks, h)
	}
	return hooks, nil
}

// SelectHook marks one hook as selected and clears the flag on every other
// hook of the project.
func (db *DB) SelectHook(ctx context.Context, projectID, hookID uuid.UUID) error {
	return db.withTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`UPDATE generated_hooks SET is_selected = FALSE WHERE project_id = $1`,
			projectID,
		); err != nil {
			return fmt.Errorf("failed to clear hook selection: %w", err)
		}
		result, err := tx.Exec(ctx,
			`UPDATE generated_hooks SET is_selected = TRUE WHERE id = $1 AND project_id = $2`,
			hookID, projectID,
		)
		if err != nil {
			return fmt.Errorf("failed to select hook: %w", err)
		}
		if result.RowsAffected() == 0 {
			return fmt.Errorf("hook not found: %s", hookID)
		}
		return nil
	})
}

// -----------------------------------------------------------------------------
// Scripts
// -----------------------------------------------------------------------------

// InsertScripts bulk-inserts generated scripts for a project.
func (db *DB) InsertScripts(ctx context.Context, projectID uuid.UUID, scripts []types.Script) error {
	return db.withTx(ctx, func(tx pgx.Tx) error {
		for _, s := range scripts {
			if _, err := tx.Exec(ctx,
				`INSERT INTO generated_scripts (project_id, platform, hook_section, value_delivery,
				                                brand_anchor, soft_cta, full_script, duration_seconds)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				projectID, s.Platform, s.HookSection, s.ValueDelivery,
				s.BrandAnchor, s.SoftCTA, s.FullScript, s.DurationSeconds,
			); err != nil {
				return fmt.Errorf("failed to insert script: %w", err)
			}
		}
		return nil
	})
}

// ListScripts retrieves all scripts for a project in generation order.
func (db *DB) ListScripts(ctx context.Context, projectID uuid.UUID) ([]types.Script, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, project_id, platform, hook_section, value_delivery, brand_anchor,
		        soft_cta, full_script, duration_seconds, is_selected, created_at
		 FROM generated_scripts WHERE project_id = $1 ORDER BY created_at, id`,
		projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list scripts: %w", err)
	}
	defer rows.Close()

	var scripts []types.Script
	for rows.Next() {
		var s types.Script
		if err := rows.Scan(&s.ID, &s.ProjectID, &s.Platform, &s.HookSection, &s.ValueDelivery,
			&s.BrandAnchor, &s.SoftCTA, &s.FullScript, &s.DurationSeconds,
			&s.IsSelected, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan script: %w", err)
		}
		scripts = append(scripts, s)
	}
	return scripts, nil
}

// SelectScript marks one script as selected for its platform and clears the
// flag on the project's other scripts of the same platform.
func (db *DB) SelectScript(ctx context.Context, projectID, scriptID uuid.UUID) error {
	return db.withTx(ctx, func(tx pgx.Tx) error {
		var platform types.Platform
		err := tx.QueryRow(ctx,
			`SELECT platform FROM generated_scripts WHERE id = $1 AND project_id = $2`,
			scriptID, projectID,
		).Scan(&platform)
		if err != nil {
			if err == pgx.ErrNoRows {
				return fmt.Errorf("script not found: %s", scriptID)
			}
			return fmt.Errorf("failed to look up script: %w", err)
		}

		if _, err := tx.Exec(ctx,
			`UPDATE generated_scripts SET is_selected = FALSE
			 WHERE project_id = $1 AND platform = $2`,
			projectID, platform,
		); err != nil {
			return fmt.Errorf("failed to clear script selection: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`UPDATE generated_scripts SET is_selected = TRUE WHERE id = $1`,
			scriptID,
		); err != nil {
			return fmt.Errorf("failed to select script: %w", err)
		}
		return nil
	})
}

// -----------------------------------------------------------------------------
// Captions
// -----------------------------------------------------------------------------

// InsertCaptions bulk-inserts generated captions for a project.
func (db *DB) InsertCaptions(ctx context.Context, projectID uuid.UUID, captions []types.Caption) error {
	return db.withTx(ctx, func(tx pgx.Tx) error {
		for _, c := range captions {
			if _, err := tx.Exec(ctx,
				`INSERT INTO generated_captions (project_id, platform, caption_text, hashtags,
				                                 seo_title, seo_description)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				projectID, c.Platform, c.CaptionText, c.Hashtags, c.SEOTitle, c.SEODescription,
			); err != nil {
				return fmt.Errorf("failed to insert caption: %w", err)
			}
		}
		return nil
	})
}

// ListCaptions retrieves all captions for a project in generation order.
func (db *DB) ListCaptions(ctx context.Context, projectID uuid.UUID) ([]types.Caption, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, project_id, platform, caption_text, hashtags, seo_title,
		        seo_description, is_selected, created_at
		 FROM generated_captions WHERE project_id = $1 ORDER BY created_at, id`,
		projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list captions: %w", err)
	}
	defer rows.Close()

	var captions []types.Caption
	for rows.Next() {
		var c types.Caption
		if err := rows.Scan(&c.ID, &c.ProjectID, &c.Platform, &c.CaptionText, &c.Hashtags,
			&c.SEOTitle, &c.SEODescription, &c.IsSelected, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan caption: %w", err)
		}
		captions = append(captions, c)
	}
	return captions, nil
}

// -----------------------------------------------------------------------------
// Storyboards
// -----------------------------------------------------------------------------

// SaveStoryboard stores visual guidance for a project, replacing any
// previous storyboard.
func (db *DB) SaveStoryboard(ctx context.Context, sb *types.Storyboard) error {
	shotsJSON, err := json.Marshal(sb.ShotList)
	if err != nil {
		return fmt.Errorf("failed to marshal shot list: %w", err)
	}
	overlaysJSON, err := json.Marshal(sb.TextOverlays)
	if err != nil {
		return fmt.Errorf("failed to marshal text overlays: %w", err)
	}

	return db.withTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`DELETE FROM storyboards WHERE project_id = $1`, sb.ProjectID); err != nil {
			return fmt.Errorf("failed to clear storyboard: %w", err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO storyboards (project_id, shot_list, camera_framing, text_overlays, logo_placement)
			 VALUES ($1, $2, $3, $4, $5)`,
			sb.ProjectID, shotsJSON, sb.CameraFraming, overlaysJSON, sb.LogoPlacement,
		); err != nil {
			return fmt.Errorf("failed to insert storyboard: %w", err)
		}
		return nil
	})
}

// GetStoryboard retrieves the project's storyboard. Returns nil when none
// has been generated.
func (db *DB) GetStoryboard(ctx context.Context, projectID uuid.UUID) (*types.Storyboard, error) {
	var sb types.Storyboard
	var shotsJSON, overlaysJSON []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, project_id, shot_list, camera_framing, text_overlays, logo_placement, created_at
		 FROM storyboards WHERE project_id = $1`,
		projectID,
	).Scan(&sb.ID, &sb.ProjectID, &shotsJSON, &sb.CameraFraming, &overlaysJSON,
		&sb.LogoPlacement, &sb.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get storyboard: %w", err)
	}

	if err := json.Unmarshal(shotsJSON, &sb.ShotList); err != nil {
		return nil, fmt.Errorf("failed to parse shot list: %w", err)
	}
	if err := json.Unmarshal(overlaysJSON, &sb.TextOverlays); err != nil {
		return nil, fmt.Errorf("failed to parse text overlays: %w", err)
	}
	return &sb, nil
}
