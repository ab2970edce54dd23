package compliance

import (
	"fmt"
	"strings"
)

// Report renders a compliance result as a markdown document.
func Report(r Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Compliance Report - Project %s\n\n", r.ProjectID)
	fmt.Fprintf(&b, "**Overall Status:** %s\n\n", strings.ToUpper(r.OverallStatus))
	fmt.Fprintf(&b, "**Date:** %s\n\n", r.CheckedAt.Format("2006-01-02"))

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- Standards Checked: %d\n", len(r.StandardsChecked))
	fmt.Fprintf(&b, "- Total Issues: %d\n", r.TotalIssues)
	fmt.Fprintf(&b, "- Critical Issues: %d\n", r.CriticalIssues)
	fmt.Fprintf(&b, "- High Priority Issues: %d\n", r.HighIssues)

	b.WriteString("\n## Standards Checked\n\n")
	for _, code := range r.StandardsChecked {
		name := code
		if std, ok := Lookup(code); ok {
			name = std.Name
		}
		if res, ok := r.StandardResults[code]; ok {
			fmt.Fprintf(&b, "- %s: %s (%.0f%%)\n", name, res.Status, res.Score)
		} else {
			fmt.Fprintf(&b, "- %s\n", name)
		}
	}

	if len(r.Issues) > 0 {
		b.WriteString("\n## Issues Identified\n")
		for i, issue := range r.Issues {
			fmt.Fprintf(&b, "\n### %d. %s\n\n", i+1, issue.Description)
			fmt.Fprintf(&b, "- **Severity:** %s\n", issue.Severity)
			fmt.Fprintf(&b, "- **Standard:** %s\n", issue.Standard)
			if issue.Reference != "" {
				fmt.Fprintf(&b, "- **Reference:** %s\n", issue.Reference)
			}
			if issue.Recommendation != "" {
				fmt.Fprintf(&b, "- **Recommendation:** %s\n", issue.Recommendation)
			}
		}
	}

	if len(r.Recommendations) > 0 {
		b.WriteString("\n## Recommendations\n\n")
		for _, rec := range r.Recommendations {
			fmt.Fprintf(&b, "- %s\n", rec)
		}
	}
	return b.String()
}
