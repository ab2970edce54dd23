// Package risk scores project risk from the risk factors found in documents.
package risk

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/infraflow-ai/infraflow/pkg/model"
)

// Categories of risk factors.
const (
	CategoryFinancial     = "financial"
	CategoryPolitical     = "political"
	CategoryEnvironmental = "environmental"
	CategoryTechnical     = "technical"
	CategoryRegulatory    = "regulatory"
)

// Levels of overall risk.
const (
	LevelLow      = "low"
	LevelMedium   = "medium"
	LevelHigh     = "high"
	LevelCritical = "critical"
)

const (
	maxFactors     = 10
	maxNameLength  = 100
	maxMitigations = 10
	criticalScore  = 60
	defaultScore   = 50.0
	assessmentType = "automated"
)

var categoryKeywords = []struct {
	category string
	terms    []string
}{
	{CategoryPolitical, []string{"political", "government", "regulation"}},
	{CategoryEnvironmental, []string{"environmental", "climate", "pollution"}},
	{CategoryTechnical, []string{"technical", "technology", "engineering"}},
}

var generalMitigations = []string{
	"Conduct regular risk reviews",
	"Maintain contingency reserves",
	"Ensure comprehensive insurance coverage",
}

// Factor is a single scored risk. Scores are on a 0..100 scale.
type Factor struct {
	Category             string   `json:"category"`
	Name                 string   `json:"name"`
	Description          string   `json:"description"`
	Likelihood           float64  `json:"likelihood"`
	Impact               float64  `json:"impact"`
	Score                float64  `json:"risk_score"`
	MitigationStrategies []string `json:"mitigation_strategies"`
}

// Assessment is the result of scoring a project.
type Assessment struct {
	ProjectID      uuid.UUID `json:"project_id"`
	OverallScore   float64   `json:"overall_score"`
	Level          string    `json:"risk_level"`
	Factors        []Factor  `json:"risk_factors"`
	CriticalRisks  []string  `json:"critical_risks"`
	MitigationPlan []string  `json:"mitigation_plan"`
	AssessedAt     time.Time `json:"assessed_at"`
}

// Assess scores a project from the extracted data of its documents. Without
// any recorded risk factors the default infrastructure risks are used.
func Assess(projectID uuid.UUID, extracted []map[string]any, now time.Time) Assessment {
	factors := Categorize(RiskStrings(extracted))
	if len(factors) == 0 {
		factors = DefaultFactors()
	}

	score := OverallScore(factors)
	a := Assessment{
		ProjectID:      projectID,
		OverallScore:   score,
		Level:          Level(score),
		Factors:        factors,
		CriticalRisks:  []string{},
		MitigationPlan: MitigationPlan(factors),
		AssessedAt:     now.UTC(),
	}
	for _, f := range factors {
		if f.Score > criticalScore {
			a.CriticalRisks = append(a.CriticalRisks, f.Name)
		}
	}
	return a
}

// RiskStrings collects the risk_factors lists of every document, in order.
func RiskStrings(extracted []map[string]any) []string {
	var out []string
	for _, data := range extracted {
		switch v := data["risk_factors"].(type) {
		case []string:
			for _, s := range v {
				if strings.TrimSpace(s) != "" {
					out = append(out, s)
				}
			}
		case []any:
			for _, item := range v {
				if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
					out = append(out, s)
				}
			}
		case string:
			if strings.TrimSpace(v) != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

// Categorize turns the first ten risk descriptions into factors with
// default scores, sorted into categories by keyword.
func Categorize(risks []string) []Factor {
	if len(risks) > maxFactors {
		risks = risks[:maxFactors]
	}
	factors := make([]Factor, 0, len(risks))
	for _, r := range risks {
		factors = append(factors, Factor{
			Category:             categorize(r),
			Name:                 truncate(r, maxNameLength),
			Description:          r,
			Likelihood:           defaultScore,
			Impact:               defaultScore,
			Score:                defaultScore,
			MitigationStrategies: []string{},
		})
	}
	return factors
}

func categorize(risk string) string {
	lower := strings.ToLower(risk)
	for _, ck := range categoryKeywords {
		for _, term := range ck.terms {
			if strings.Contains(lower, term) {
				return ck.category
			}
		}
	}
	return CategoryFinancial
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// DefaultFactors are assumed for projects without documented risks.
func DefaultFactors() []Factor {
	return []Factor{
		{
			Category:             CategoryFinancial,
			Name:                 "Currency Risk",
			Description:          "Risk of currency devaluation affecting returns",
			Likelihood:           40,
			Impact:               60,
			Score:                48,
			MitigationStrategies: []string{"Currency hedging", "Local revenue contracts"},
		},
		{
			Category:             CategoryPolitical,
			Name:                 "Regulatory Risk",
			Description:          "Risk of changes in regulatory framework",
			Likelihood:           35,
			Impact:               70,
			Score:                49,
			MitigationStrategies: []string{"Long-term agreements", "Political risk insurance"},
		},
	}
}

// OverallScore is the mean factor score, or 50 when there are no factors.
func OverallScore(factors []Factor) float64 {
	if len(factors) == 0 {
		return defaultScore
	}
	var total float64
	for _, f := range factors {
		total += f.Score
	}
	return total / float64(len(factors))
}

// Level buckets an overall score.
func Level(score float64) string {
	switch {
	case score < 30:
		return LevelLow
	case score < 50:
		return LevelMedium
	case score < 70:
		return LevelHigh
	default:
		return LevelCritical
	}
}

// MitigationPlan lists each factor's strategies once, in first-seen order,
// followed by the general recommendations, capped at ten entries.
func MitigationPlan(factors []Factor) []string {
	seen := map[string]struct{}{}
	plan := make([]string, 0, maxMitigations)
	add := func(s string) {
		if _, dup := seen[s]; dup {
			return
		}
		seen[s] = struct{}{}
		plan = append(plan, s)
	}
	for _, f := range factors {
		for _, s := range f.MitigationStrategies {
			add(s)
		}
	}
	for _, s := range generalMitigations {
		add(s)
	}
	if len(plan) > maxMitigations {
		plan = plan[:maxMitigations]
	}
	return plan
}

// ProjectScore converts an overall score to the 0..10 scale of projects.risk_score.
func (a Assessment) ProjectScore() float64 {
	return a.OverallScore / 10
}

// RiskAssessment converts the result into a row for risk_assessments. Each
// category column holds the factors of that category.
func (a Assessment) RiskAssessment(assessedBy string) model.RiskAssessment {
	byCategory := map[string][]Factor{}
	categories := map[string]int{}
	for _, f := range a.Factors {
		byCategory[f.Category] = append(byCategory[f.Category], f)
		categories[f.Category]++
	}
	column := func(category string) datatypes.JSON {
		if fs, ok := byCategory[category]; ok {
			return model.JSON(fs)
		}
		return nil
	}

	score := a.OverallScore
	date := a.AssessedAt
	row := model.RiskAssessment{
		AssessmentType:       assessmentType,
		AssessedBy:           assessedBy,
		AssessmentDate:       &date,
		OverallRiskScore:     &score,
		PoliticalRisk:        column(CategoryPolitical),
		FinancialRisk:        column(CategoryFinancial),
		EnvironmentalRisk:    column(CategoryEnvironmental),
		TechnicalRisk:        column(CategoryTechnical),
		IdentifiedRisks:      model.JSON(a.Factors),
		MitigationStrategies: model.JSON(a.MitigationPlan),
		RiskCategories:       model.JSON(categories),
		RiskMatrix:           model.JSON(matrix(a.Factors)),
	}
	row.ProjectID = a.ProjectID
	row.Metadata = model.JSON(map[string]any{
		"risk_level":     a.Level,
		"critical_risks": a.CriticalRisks,
	})
	return row
}

// matrix places each factor in a likelihood/impact grid keyed "likelihood:impact"
// with bands low (<34), medium (<67) and high.
func matrix(factors []Factor) map[string][]string {
	band := func(v float64) string {
		switch {
		case v < 34:
			return LevelLow
		case v < 67:
			return LevelMedium
		default:
			return LevelHigh
		}
	}
	out := map[string][]string{}
	for _, f := range factors {
		key := band(f.Likelihood) + ":" + band(f.Impact)
		out[key] = append(out[key], f.Name)
	}
	return out
}
