package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mjagro/content-engine/internal/types"
)

// ErrProjectNotFound indicates a status transition targeted a project that
// does not exist.
var ErrProjectNotFound = errors.New("project not found")

// TransitionStatus moves a project to a new lifecycle status and appends the
// approval-history row in one transaction. The caller supplies the statuses
// the transition is allowed from; an empty list allows any current status.
func (db *DB) TransitionStatus(
	ctx context.Context,
	projectID, profileID uuid.UUID,
	newStatus types.ProjectStatus,
	rejectionReason *string,
	allowedFrom ...types.ProjectStatus,
) (*types.ApprovalRecord, error) {
	var record types.ApprovalRecord
	err := db.withTx(ctx, func(tx pgx.Tx) error {
		var current types.ProjectStatus
		err := tx.QueryRow(ctx,
			`SELECT status FROM projects WHERE id = $1 FOR UPDATE`, projectID,
		).Scan(&current)
		if err != nil {
			if err == pgx.ErrNoRows {
				return fmt.Errorf("%w: %s", ErrProjectNotFound, projectID)
			}
			return fmt.Errorf("failed to read project status: %w", err)
		}

		if len(allowedFrom) > 0 {
			allowed := false
			for _, s := range allowedFrom {
				if current == s {
					allowed = true
					break
				}
			}
			if !allowed {
				return &InvalidTransitionError{From: current, To: newStatus}
			}
		}

		if _, err := tx.Exec(ctx,
			`UPDATE projects SET status = $1, updated_at = NOW() WHERE id = $2`,
			newStatus, projectID,
		); err != nil {
			return fmt.Errorf("failed to update project status: %w", err)
		}

		err = tx.QueryRow(ctx,
			`INSERT INTO approval_history (project_id, approved_by_profile_id,
			                               previous_status, new_status, rejection_reason)
			 VALUES ($1, $2, $3, $4, $5)
			 RETURNING id, created_at`,
			projectID, profileID, current, newStatus, rejectionReason,
		).Scan(&record.ID, &record.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to record approval: %w", err)
		}

		record.ProjectID = projectID
		record.ApprovedByProfileID = profileID
		record.PreviousStatus = current
		record.NewStatus = newStatus
		record.RejectionReason = rejectionReason
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// InvalidTransitionError indicates the project is not in a status the
// requested transition is allowed from.
type InvalidTransitionError struct {
	From types.ProjectStatus
	To   types.ProjectStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition project from %s to %s", e.From, e.To)
}

// ListApprovalHistory retrieves a project's approval history, newest first.
func (db *DB) ListApprovalHistory(ctx context.Context, projectID uuid.UUID) ([]types.ApprovalRecord, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, project_id, approved_by_profile_id, previous_status, new_status,
		        rejection_reason, created_at
		 FROM approval_history WHERE project_id = $1 ORDER BY created_at DESC`,
		projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list approval history: %w", err)
	}
	defer rows.Close()

	var records []types.ApprovalRecord
	for rows.Next() {
		var r types.ApprovalRecord
		if err := rows.Scan(&r.ID, &r.ProjectID, &r.ApprovedByProfileID, &r.PreviousStatus,
			&r.NewStatus, &r.RejectionReason, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan approval record: %w", err)
		}
		records = append(records, r)
	}
	return records, nil
}
