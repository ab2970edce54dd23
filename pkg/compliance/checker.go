// Package compliance checks projects against DFI and international standards.
//
// Checks are rule based: a key requirement of a standard is met when it is
// mentioned in the project's evidence, which is the project description, the
// names of its documents and every string extracted from them.
package compliance

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/infraflow-ai/infraflow/pkg/logging"
	"github.com/infraflow-ai/infraflow/pkg/model"
)

// Outcomes of a check.
const (
	StatusCompliant    = "compliant"
	StatusPartial      = "partial"
	StatusNonCompliant = "non_compliant"
)

// Issue severities.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

type Issue struct {
	Standard       string `json:"standard"`
	Severity       string `json:"severity"`
	Description    string `json:"description"`
	Reference      string `json:"reference"`
	Recommendation string `json:"recommendation"`
}

// StandardResult is the outcome for one standard.
type StandardResult struct {
	Standard         string   `json:"standard"`
	Name             string   `json:"name"`
	Status           string   `json:"status"`
	Score            float64  `json:"score"`
	Issues           []Issue  `json:"issues"`
	Recommendations  []string `json:"recommendations"`
	CompliantAreas   []string `json:"compliant_areas"`
	MissingDocuments []string `json:"missing_documents"`
}

// Result is the outcome across every standard checked.
type Result struct {
	ProjectID        uuid.UUID                 `json:"project_id"`
	OverallStatus    string                    `json:"overall_status"`
	StandardsChecked []string                  `json:"standards_checked"`
	StandardResults  map[string]StandardResult `json:"standard_results"`
	Issues           []Issue                   `json:"issues"`
	Recommendations  []string                  `json:"recommendations"`
	TotalIssues      int                       `json:"total_issues"`
	CriticalIssues   int                       `json:"critical_issues"`
	HighIssues       int                       `json:"high_issues"`
	CheckedAt        time.Time                 `json:"checked_at"`
}

// Evidence is what a project offers to the checks.
type Evidence struct {
	// Facts merges the extracted_data of every document, later documents winning.
	Facts map[string]any
	// Text is the lowercased searchable evidence.
	Text string

	dfiInvolvement     string
	location           string
	financialStructure string
}

// Gather collects the evidence of a project and its documents.
func Gather(project model.Project, documents []model.Document) Evidence {
	facts := map[string]any{}
	var text []string
	if project.Description != "" {
		text = append(text, project.Description)
	}
	for _, d := range documents {
		text = append(text, d.Name)
		extracted := d.Extracted()
		for k, v := range extracted {
			facts[k] = v
		}
		text = appendStrings(text, extracted)
	}

	ev := Evidence{
		Facts: facts,
		Text:  strings.ToLower(strings.Join(text, "\n")),
	}

	dfi := []string{str(facts["dfi_involvement"])}
	dfi = append(dfi, project.Partners()...)
	ev.dfiInvolvement = strings.ToLower(strings.Join(dfi, " "))

	location := []string{str(facts["location"]), project.Country}
	var projectLocation map[string]any
	if err := model.DecodeJSON(project.Location, &projectLocation); err == nil {
		location = appendStrings(location, projectLocation)
	}
	ev.location = strings.ToLower(strings.Join(location, " "))

	ev.financialStructure = strings.ToLower(str(facts["financial_structure"]))
	return ev
}

func str(v any) string {
	s, _ := v.(string)
	return s
}

// appendStrings appends every string found in v, descending into maps and
// lists. Map keys are visited in sorted order.
func appendStrings(out []string, v any) []string {
	switch t := v.(type) {
	case string:
		if t != "" {
			out = append(out, t)
		}
	case []any:
		for _, item := range t {
			out = appendStrings(out, item)
		}
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			out = appendStrings(out, t[k])
		}
	}
	return out
}

// Applicable returns the codes of the standards that apply, sorted.
// Local content and ESG scoring always apply.
func Applicable(ev Evidence) []string {
	set := map[string]struct{}{
		LocalContent: {},
		ESGScoring:   {},
	}
	if strings.Contains(ev.dfiInvolvement, "ebrd") {
		set[EBRDEnvironmental] = struct{}{}
	}
	if containsAny(ev.dfiInvolvement, "ifc", "world bank", "adb", "afdb") {
		set[IFCPerformance] = struct{}{}
	}
	if containsAny(ev.location, "eu", "europe", "european") {
		set[EUTaxonomy] = struct{}{}
	}
	if strings.Contains(ev.financialStructure, "project finance") {
		set[EquatorPrinciples] = struct{}{}
	}

	out := make([]string, 0, len(set))
	for code := range set {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

func containsAny(s string, terms ...string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

// Checker runs compliance checks.
type Checker struct {
	log zerolog.Logger
	now func() time.Time
}

func NewChecker() *Checker {
	return &Checker{
		log: logging.Component("compliance"),
		now: time.Now,
	}
}

// CheckProject checks every applicable standard.
func (c *Checker) CheckProject(project model.Project, documents []model.Document) Result {
	ev := Gather(project, documents)
	return c.check(project.ID, ev, Applicable(ev))
}

// CheckStandards checks the given standards. Unknown codes are logged and skipped.
func (c *Checker) CheckStandards(project model.Project, documents []model.Document, codes []string) Result {
	known := make([]string, 0, len(codes))
	for _, code := range codes {
		if _, ok := Lookup(code); !ok {
			c.log.Warn().Str("standard", code).Msg("unknown standard")
			continue
		}
		if !slices.Contains(known, code) {
			known = append(known, code)
		}
	}
	return c.check(project.ID, Gather(project, documents), known)
}

func (c *Checker) check(projectID uuid.UUID, ev Evidence, codes []string) Result {
	r := Result{
		ProjectID:        projectID,
		StandardsChecked: codes,
		StandardResults:  make(map[string]StandardResult, len(codes)),
		Issues:           []Issue{},
		Recommendations:  []string{},
		CheckedAt:        c.now().UTC(),
	}

	seen := map[string]struct{}{}
	for _, code := range codes {
		std, _ := Lookup(code)
		res := CheckStandard(std, ev)
		r.StandardResults[code] = res
		r.Issues = append(r.Issues, res.Issues...)
		for _, rec := range res.Recommendations {
			if _, dup := seen[rec]; !dup {
				seen[rec] = struct{}{}
				r.Recommendations = append(r.Recommendations, rec)
			}
		}
	}

	for _, issue := range r.Issues {
		switch issue.Severity {
		case SeverityCritical:
			r.CriticalIssues++
		case SeverityHigh:
			r.HighIssues++
		}
	}
	r.TotalIssues = len(r.Issues)

	switch {
	case r.CriticalIssues > 0:
		r.OverallStatus = StatusNonCompliant
	case r.HighIssues > 0:
		r.OverallStatus = StatusPartial
	default:
		r.OverallStatus = StatusCompliant
	}

	c.log.Info().
		Str("project_id", projectID.String()).
		Strs("standards", codes).
		Str("status", r.OverallStatus).
		Int("issues", r.TotalIssues).
		Msg("compliance checked")
	return r
}

// CheckStandard looks for each key requirement of std in the evidence.
func CheckStandard(std Standard, ev Evidence) StandardResult {
	res := StandardResult{
		Standard:         std.Code,
		Name:             std.Name,
		Issues:           []Issue{},
		Recommendations:  []string{},
		CompliantAreas:   []string{},
		MissingDocuments: []string{},
	}

	for _, req := range std.KeyRequirements {
		if strings.Contains(ev.Text, strings.ToLower(req)) {
			res.CompliantAreas = append(res.CompliantAreas, req)
			continue
		}
		issue := Issue{
			Standard:       std.Code,
			Severity:       SeverityMedium,
			Description:    "Missing or incomplete: " + req,
			Reference:      std.Name,
			Recommendation: "Provide documentation for " + req,
		}
		res.Issues = append(res.Issues, issue)
		res.Recommendations = append(res.Recommendations, "Develop and submit "+req)
		res.MissingDocuments = append(res.MissingDocuments, issue.Description)
	}

	total := len(std.KeyRequirements)
	switch {
	case len(res.Issues) == 0:
		res.Status = StatusCompliant
	case float64(len(res.Issues)) > float64(total)/2:
		res.Status = StatusNonCompliant
	default:
		res.Status = StatusPartial
	}
	if total > 0 {
		res.Score = float64(len(res.CompliantAreas)) / float64(total) * 100
	} else {
		res.Score = 100
	}
	return res
}

// ColumnStatus maps a check outcome to the compliance_status column. Partial
// results need a reviewer.
func ColumnStatus(status string) model.ComplianceStatus {
	switch status {
	case StatusCompliant:
		return model.ComplianceStatusCompliant
	case StatusNonCompliant:
		return model.ComplianceStatusNonCompliant
	case StatusPartial:
		return model.ComplianceStatusNeedsReview
	default:
		return model.ComplianceStatusPending
	}
}

// Checks converts the result into one compliance_checks row per standard, in
// the order the standards were checked.
func (r Result) Checks(reviewer string) []model.ComplianceCheck {
	checked := r.CheckedAt
	out := make([]model.ComplianceCheck, 0, len(r.StandardsChecked))
	for _, code := range r.StandardsChecked {
		res, ok := r.StandardResults[code]
		if !ok {
			continue
		}
		score := res.Score
		row := model.ComplianceCheck{
			Standard:        code,
			Category:        res.Name,
			Status:          ColumnStatus(res.Status),
			Score:           &score,
			Issues:          model.JSON(res.Issues),
			Evidence:        model.JSON(map[string]any{"compliant_areas": res.CompliantAreas, "missing_documents": res.MissingDocuments}),
			Recommendations: model.JSON(res.Recommendations),
			Reviewer:        reviewer,
			Notes:           fmt.Sprintf("%d of %d key requirements evidenced", len(res.CompliantAreas), len(res.CompliantAreas)+len(res.Issues)),
			CheckedAt:       &checked,
		}
		row.ProjectID = r.ProjectID
		out = append(out, row)
	}
	return out
}
