package qa

import "github.com/mjagro/content-engine/internal/types"

// CategoryGroup is one report section: all checks of one category, in
// evaluation order.
type CategoryGroup struct {
	Category types.CheckCategory `json:"category"`
	Checks   []types.Check       `json:"checks"`
}

// GroupByCategory groups checks into the fixed category order (brand,
// platform, compliance, content), dropping empty categories. Order within a
// group is the evaluation order.
func GroupByCategory(checks []types.Check) []CategoryGroup {
	var groups []CategoryGroup
	for _, cat := range types.CheckCategories() {
		var group []types.Check
		for _, c := range checks {
			if c.Category == cat {
				group = append(group, c)
			}
		}
		if len(group) > 0 {
			groups = append(groups, CategoryGroup{Category: cat, Checks: group})
		}
	}
	return groups
}
