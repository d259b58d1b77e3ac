package types

import (
	"time"

	"github.com/google/uuid"
)

// CheckCategory classifies a QA check for display grouping and severity
// weighting. Failures in the platform and compliance categories block a
// project from advancing; brand and content failures are informational.
type CheckCategory string

// QA check categories in evaluation order.
const (
	CategoryBrand      CheckCategory = "brand"
	CategoryPlatform   CheckCategory = "platform"
	CategoryCompliance CheckCategory = "compliance"
	CategoryContent    CheckCategory = "content"
)

// CheckCategories lists every category in evaluation order.
func CheckCategories() []CheckCategory {
	return []CheckCategory{CategoryBrand, CategoryPlatform, CategoryCompliance, CategoryContent}
}

// Critical reports whether a failure in this category blocks export.
func (c CheckCategory) Critical() bool {
	return c == CategoryPlatform || c == CategoryCompliance
}

// Check is one named pass/fail assertion produced by a QA run. The category
// is fixed by the rule that produced the check, never inferred afterwards.
type Check struct {
	Name     string        `json:"check_name"`
	Passed   bool          `json:"passed"`
	Notes    string        `json:"notes,omitempty"`
	Category CheckCategory `json:"category"`
}

// StoredCheck is a persisted check row, keyed by project. Rows for a project
// are fully replaced on every QA run; only the latest run is kept.
type StoredCheck struct {
	ID        uuid.UUID `json:"id"`
	ProjectID uuid.UUID `json:"project_id"`
	Name      string    `json:"check_name"`
	Passed    bool      `json:"passed"`
	Notes     string    `json:"notes,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}
