package qa

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/mjagro/content-engine/internal/types"
)

// ErrProjectNotFound indicates the project does not exist in the store.
var ErrProjectNotFound = errors.New("project not found")

// Snapshot is the full content snapshot the evaluator runs against.
type Snapshot struct {
	Project  *types.Project
	Product  *types.Product
	Hooks    []types.Hook
	Scripts  []types.Script
	Captions []types.Caption
}

// Store is the persistence collaborator for the QA engine. SaveRun must
// replace the project's previous check rows with the new set and, when
// newStatus is non-nil, update the project status, all atomically.
type Store interface {
	LoadSnapshot(ctx context.Context, projectID uuid.UUID) (*Snapshot, error)
	SaveRun(ctx context.Context, projectID uuid.UUID, checks []types.Check, newStatus *types.ProjectStatus) error
}

// StageError reports which engine stage failed.
type StageError struct {
	Stage string // "load" or "persist"
	Cause error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("qa %s failed: %v", e.Stage, e.Cause)
}

func (e *StageError) Unwrap() error {
	return e.Cause
}

// Report is the result of one QA run handed back to the caller.
type Report struct {
	ProjectID     uuid.UUID           `json:"project_id"`
	Checks        []types.Check       `json:"checks"`
	Groups        []CategoryGroup     `json:"groups"`
	Summary       Summary             `json:"summary"`
	Status        types.ProjectStatus `json:"status"`
	StatusChanged bool                `json:"status_changed"`
}

// Engine runs the full QA pass: load snapshot, evaluate rules, aggregate,
// persist the check set, and transition project status.
type Engine struct {
	store Store
	rules RuleSet
	group singleflight.Group
}

// NewEngine creates a QA engine backed by the given store and rule set.
func NewEngine(store Store, rules RuleSet) *Engine {
	return &Engine{store: store, rules: rules}
}

// Run executes one evaluate-and-persist pass for a project. Concurrent runs
// for the same project coalesce into a single pass sharing one result.
func (e *Engine) Run(ctx context.Context, projectID uuid.UUID) (*Report, error) {
	v, err, _ := e.group.Do(projectID.String(), func() (any, error) {
		return e.run(ctx, projectID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*Report), nil
}

func (e *Engine) run(ctx context.Context, projectID uuid.UUID) (*Report, error) {
	snap, err := e.store.LoadSnapshot(ctx, projectID)
	if err != nil {
		return nil, &StageError{Stage: "load", Cause: err}
	}
	if snap == nil || snap.Project == nil {
		return nil, ErrProjectNotFound
	}
	if len(snap.Project.Platforms) == 0 {
		return nil, &StageError{Stage: "load", Cause: fmt.Errorf("project %s has no target platforms", projectID)}
	}

	checks := Evaluate(e.rules, snap.Project, snap.Product, snap.Hooks, snap.Scripts, snap.Captions)
	summary := Summarize(checks)
	next, changed := NextStatus(summary)

	var newStatus *types.ProjectStatus
	if changed {
		newStatus = &next
	}
	if err := e.store.SaveRun(ctx, projectID, checks, newStatus); err != nil {
		return nil, &StageError{Stage: "persist", Cause: err}
	}

	status := snap.Project.Status
	if changed {
		status = next
	}

	return &Report{
		ProjectID:     projectID,
		Checks:        checks,
		Groups:        GroupByCategory(checks),
		Summary:       summary,
		Status:        status,
		StatusChanged: changed,
	}, nil
}
