// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/mjagro/content-engine/internal/qa"
	"github.com/mjagro/content-engine/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// statusMark renders a check result as a compact marker.
func statusMark(passed bool) string {
	if passed {
		return "PASS"
	}
	return "FAIL"
}

// PrintProject outputs a human-readable summary of the project under review.
func (p *Printer) PrintProject(project *types.Project, product *types.Product) {
	if project == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:     %s\n", project.Name))
	sb.WriteString(fmt.Sprintf("Status:   %s\n", project.Status))
	sb.WriteString(fmt.Sprintf("Language: %s\n", project.Language))

	if product != nil {
		sb.WriteString(fmt.Sprintf("Product:  %s (%s)\n", product.Name, product.SKU))
	}

	if len(project.Platforms) > 0 {
		names := make([]string, len(project.Platforms))
		for i, pl := range project.Platforms {
			names[i] = string(pl)
		}
		sb.WriteString(fmt.Sprintf("Targets:  %s", strings.Join(names, ", ")))
	}

	p.printBox("PROJECT", sb.String())
}

// PrintChecks outputs every check of a QA run grouped by category, failures
// first within each group.
func (p *Printer) PrintChecks(groups []qa.CategoryGroup) {
	if len(groups) == 0 {
		return
	}

	var sb strings.Builder
	for gi, group := range groups {
		passed := 0
		for _, check := range group.Checks {
			if check.Passed {
				passed++
			}
		}
		sb.WriteString(fmt.Sprintf("%s (%d/%d passed)\n",
			strings.ToUpper(string(group.Category)), passed, len(group.Checks)))

		for _, check := range group.Checks {
			sb.WriteString(fmt.Sprintf("  [%s] %s\n", statusMark(check.Passed), check.Name))
			if !check.Passed && check.Notes != "" {
				sb.WriteString(fmt.Sprintf("         %s\n", check.Notes))
			}
		}
		if gi < len(groups)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("QA CHECKS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintFailures outputs only the failed checks, up to maxItemsToShow.
func (p *Printer) PrintFailures(checks []types.Check) {
	var failed []types.Check
	for _, c := range checks {
		if !c.Passed {
			failed = append(failed, c)
		}
	}
	if len(failed) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(failed), maxItemsToShow)
	for i := 0; i < count; i++ {
		c := failed[i]
		sb.WriteString(fmt.Sprintf("• %s/%s\n", c.Category, c.Name))
		if c.Notes != "" {
			sb.WriteString(fmt.Sprintf("  %s\n", c.Notes))
		}
	}
	if len(failed) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("... and %d more failures", len(failed)-maxItemsToShow))
	}

	p.printBox("FAILED CHECKS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintReport outputs the QA run verdict: the aggregate summary and the
// resulting project status.
func (p *Printer) PrintReport(report *qa.Report) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Checks:   %d passed, %d failed (of %d)\n",
		report.Summary.Pass, report.Summary.Fail, report.Summary.Total))
	sb.WriteString(fmt.Sprintf("Critical failures: %d\n", report.Summary.CriticalFail))
	sb.WriteString(fmt.Sprintf("Status:   %s", report.Status))
	if report.StatusChanged {
		sb.WriteString(" (changed)")
	}

	p.printBox("QA REPORT", sb.String())
}
