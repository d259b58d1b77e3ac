package qa

import "github.com/mjagro/content-engine/internal/types"

// Summary aggregates one QA run. CriticalFail counts failures in the
// platform and compliance categories; those alone block export.
type Summary struct {
	Pass         int `json:"pass_count"`
	Fail         int `json:"fail_count"`
	CriticalFail int `json:"critical_fail_count"`
	Total        int `json:"total"`
}

// Summarize classifies a check list into pass/fail/critical-fail counts.
func Summarize(checks []types.Check) Summary {
	var s Summary
	s.Total = len(checks)
	for _, c := range checks {
		if c.Passed {
			s.Pass++
			continue
		}
		s.Fail++
		if c.Category.Critical() {
			s.CriticalFail++
		}
	}
	return s
}

// NextStatus computes the project status a QA run transitions to. The second
// return value is false when the status must be left unchanged: non-critical
// failures alone neither advance nor block a project.
func NextStatus(s Summary) (types.ProjectStatus, bool) {
	switch {
	case s.CriticalFail > 0:
		return types.StatusQAFailed, true
	case s.Fail == 0:
		return types.StatusPendingApproval, true
	default:
		return "", false
	}
}
