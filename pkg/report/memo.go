package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/infraflow-ai/infraflow/pkg/compliance"
	"github.com/infraflow-ai/infraflow/pkg/model"
	"github.com/infraflow-ai/infraflow/pkg/risk"
)

// MemoInput is what an investment memo summarises. Model and Risk are
// optional; Checks may be empty.
type MemoInput struct {
	Project   model.Project
	Model     *model.FinancialModel
	Risk      *model.RiskAssessment
	Checks    []model.ComplianceCheck
	Generated time.Time
}

// Recommendation outcomes.
const (
	RecommendProceed   = "Proceed to investment committee"
	RecommendDiligence = "Further due diligence required"
	RecommendDecline   = "Do not proceed at this stage"
)

// InvestmentMemo renders a markdown memo for in.
func InvestmentMemo(in MemoInput) string {
	p := in.Project
	var b strings.Builder

	fmt.Fprintf(&b, "# Investment Memo: %s\n\n", p.Name)
	fmt.Fprintf(&b, "_Generated %s_\n\n", in.Generated.UTC().Format("2 January 2006"))

	b.WriteString("## Project Overview\n\n")
	b.WriteString("| Field | Value |\n|---|---|\n")
	row(&b, "Sponsor", orDash(p.Sponsor))
	row(&b, "Country", p.Country)
	row(&b, "Sector", p.Sector.String())
	row(&b, "Status", p.Status.String())
	if p.TotalValue != nil {
		row(&b, "Total Value", fmt.Sprintf("%s (%s)", Money(*p.TotalValue, p.Currency), Compact(*p.TotalValue)))
	}
	if partners := p.Partners(); len(partners) > 0 {
		row(&b, "DFI Partners", strings.Join(partners, ", "))
	}
	if p.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", p.Description)
	}

	b.WriteString("\n## Financial Analysis\n\n")
	if m := in.Model; m != nil {
		fmt.Fprintf(&b, "- **Model:** %s v%d\n", m.ModelType, m.Version)
		if m.NPV != nil {
			fmt.Fprintf(&b, "- **NPV:** %s\n", Money(*m.NPV, m.Currency))
		}
		if m.IRR != nil {
			fmt.Fprintf(&b, "- **IRR:** %.2f%%\n", *m.IRR*100)
		} else {
			b.WriteString("- **IRR:** not defined\n")
		}
		if m.PaybackPeriod != nil {
			fmt.Fprintf(&b, "- **Payback:** %.1f years\n", *m.PaybackPeriod)
		}
	} else {
		b.WriteString("No financial model has been run.\n")
	}

	b.WriteString("\n## Risk Assessment\n\n")
	if r := in.Risk; r != nil && r.OverallRiskScore != nil {
		fmt.Fprintf(&b, "- **Overall Risk Score:** %.1f / 100 (%s)\n", *r.OverallRiskScore, risk.Level(*r.OverallRiskScore))
		var strategies []string
		_ = model.DecodeJSON(r.MitigationStrategies, &strategies)
		if len(strategies) > 0 {
			b.WriteString("\n**Mitigation:**\n\n")
			for _, s := range strategies {
				fmt.Fprintf(&b, "- %s\n", s)
			}
		}
	} else {
		b.WriteString("No risk assessment on record.\n")
	}

	b.WriteString("\n## Compliance\n\n")
	if len(in.Checks) > 0 {
		b.WriteString("| Standard | Status | Score |\n|---|---|---|\n")
		for _, c := range in.Checks {
			name := c.Standard
			if std, ok := compliance.Lookup(c.Standard); ok {
				name = std.Name
			}
			score := "-"
			if c.Score != nil {
				score = fmt.Sprintf("%.0f%%", *c.Score)
			}
			fmt.Fprintf(&b, "| %s | %s | %s |\n", name, c.Status, score)
		}
	} else {
		b.WriteString("No compliance checks on record.\n")
	}

	fmt.Fprintf(&b, "\n## Recommendation\n\n**%s**\n", Recommend(in))
	return b.String()
}

// Recommend proceeds only with a positive NPV, risk below the high band and
// no non compliant standard. Negative NPV or critical risk declines.
func Recommend(in MemoInput) string {
	var (
		npv      *float64
		score    *float64
		breached bool
	)
	if in.Model != nil {
		npv = in.Model.NPV
	}
	if in.Risk != nil {
		score = in.Risk.OverallRiskScore
	}
	for _, c := range in.Checks {
		if c.Status == model.ComplianceStatusNonCompliant {
			breached = true
		}
	}

	switch {
	case npv != nil && *npv < 0, score != nil && risk.Level(*score) == risk.LevelCritical:
		return RecommendDecline
	case npv != nil && *npv > 0 && score != nil && *score < 50 && !breached:
		return RecommendProceed
	default:
		return RecommendDiligence
	}
}

func row(b *strings.Builder, field, value string) {
	fmt.Fprintf(b, "| %s | %s |\n", field, value)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
