// Package portfolio filters, sorts and summarises lists of projects.
//
// Everything here works on in-memory slices that the caller has already
// loaded; none of it touches the database.
package portfolio

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/infraflow-ai/infraflow/pkg/model"
)

// StatusAll disables the status filter.
const StatusAll = "all"

// Query narrows a project list.
type Query struct {
	// Status keeps only projects with this status. Empty or "all" keeps every status.
	Status string
	// Search keeps projects whose name, country or description contains it,
	// ignoring case.
	Search string
}

// SortKey orders a project list.
type SortKey string

const (
	SortName       SortKey = "name"
	SortInvestment SortKey = "investment"
	SortDate       SortKey = "date"

	DefaultSort = SortDate
)

// ParseSortKey returns DefaultSort for an empty string and false for an unknown key.
func ParseSortKey(s string) (SortKey, bool) {
	switch key := SortKey(strings.ToLower(strings.TrimSpace(s))); key {
	case "":
		return DefaultSort, true
	case SortName, SortInvestment, SortDate:
		return key, true
	default:
		return key, false
	}
}

// Filter returns the projects matching q in their original order. The input
// slice is not modified.
func Filter(projects []model.Project, q Query) []model.Project {
	status := strings.TrimSpace(q.Status)
	filterStatus := status != "" && !strings.EqualFold(status, StatusAll)

	folder := cases.Fold()
	search := folder.String(strings.TrimSpace(q.Search))

	out := make([]model.Project, 0, len(projects))
	for _, p := range projects {
		if filterStatus && p.Status.String() != status {
			continue
		}
		if search != "" && !matches(folder, search, p.Name, p.Country, p.Description) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func matches(folder cases.Caser, search string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(folder.String(f), search) {
			return true
		}
	}
	return false
}

// Sort orders projects in place. Ties keep their input order and an unknown
// key leaves the slice untouched.
func Sort(projects []model.Project, key SortKey) {
	switch key {
	case SortName:
		folder := cases.Fold()
		slices.SortStableFunc(projects, func(a, b model.Project) int {
			return cmp.Or(
				strings.Compare(folder.String(a.Name), folder.String(b.Name)),
				strings.Compare(a.Name, b.Name),
			)
		})
	case SortInvestment:
		slices.SortStableFunc(projects, func(a, b model.Project) int {
			return cmp.Compare(b.Investment(), a.Investment())
		})
	case SortDate:
		slices.SortStableFunc(projects, func(a, b model.Project) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	}
}

// Apply filters then sorts, returning a new slice.
func Apply(projects []model.Project, q Query, key SortKey) []model.Project {
	out := Filter(projects, q)
	Sort(out, key)
	return out
}

// Recent returns up to n projects, newest first.
func Recent(projects []model.Project, n int) []model.Project {
	out := slices.Clone(projects)
	Sort(out, SortDate)
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
