package report

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infraflow-ai/infraflow/pkg/model"
)

func ptr[T any](v T) *T { return &v }

func TestMoney(t *testing.T) {
	assert.Equal(t, "USD 1,250,000", Money(1_250_000, ""))
	assert.Equal(t, "EUR 980", Money(980.4, "EUR"))
	assert.Equal(t, "USD -2,500", Money(-2500, "USD"))
}

func TestCompact(t *testing.T) {
	assert.Equal(t, "12.5 M", Compact(12_500_000))
	assert.Equal(t, "500", Compact(500))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatMarkdown, f)

	f, err = ParseFormat("HTML")
	require.NoError(t, err)
	assert.Equal(t, FormatHTML, f)

	_, err = ParseFormat("pdf")
	assert.Error(t, err)
}

func TestRenderHTML(t *testing.T) {
	html, err := Render("# Title\n\n| a | b |\n|---|---|\n| 1 | 2 |\n", FormatHTML)
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>Title</h1>")
	assert.Contains(t, html, "<table>")

	same, err := Render("# Title", FormatMarkdown)
	require.NoError(t, err)
	assert.Equal(t, "# Title", same)
}

func memoInput() MemoInput {
	return MemoInput{
		Project: model.Project{
			Base:        model.Base{ID: uuid.New()},
			Name:        "Lake Turkana Wind",
			Sponsor:     "KP&P",
			Country:     "Kenya",
			Sector:      model.SectorTypeRenewableEnergy,
			Status:      model.ProjectStatusActive,
			TotalValue:  ptr(680_000_000.0),
			Currency:    "USD",
			DFIPartners: model.JSON([]string{"AfDB", "EIB"}),
		},
		Model: &model.FinancialModel{
			ModelType:     model.ModelTypeDCF,
			Version:       1,
			Currency:      "USD",
			NPV:           ptr(12_000_000.0),
			IRR:           ptr(0.1234),
			PaybackPeriod: ptr(7.0),
		},
		Risk: &model.RiskAssessment{
			OverallRiskScore:     ptr(42.0),
			MitigationStrategies: model.JSON([]string{"Political risk insurance"}),
		},
		Checks: []model.ComplianceCheck{
			{Standard: "ifc_performance", Status: model.ComplianceStatusCompliant, Score: ptr(100.0)},
		},
		Generated: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestInvestmentMemo(t *testing.T) {
	memo := InvestmentMemo(memoInput())

	assert.Contains(t, memo, "# Investment Memo: Lake Turkana Wind")
	assert.Contains(t, memo, "_Generated 1 March 2025_")
	assert.Contains(t, memo, "| Total Value | USD 680,000,000 (680 M) |")
	assert.Contains(t, memo, "| DFI Partners | AfDB, EIB |")
	assert.Contains(t, memo, "- **NPV:** USD 12,000,000")
	assert.Contains(t, memo, "- **IRR:** 12.34%")
	assert.Contains(t, memo, "42.0 / 100 (medium)")
	assert.Contains(t, memo, "- Political risk insurance")
	assert.Contains(t, memo, "| IFC Performance Standards | compliant | 100% |")
	assert.Contains(t, memo, "**"+RecommendProceed+"**")
}

func TestInvestmentMemoWithoutAnalyses(t *testing.T) {
	in := memoInput()
	in.Model, in.Risk, in.Checks = nil, nil, nil

	memo := InvestmentMemo(in)
	assert.Contains(t, memo, "No financial model has been run.")
	assert.Contains(t, memo, "No risk assessment on record.")
	assert.Contains(t, memo, "No compliance checks on record.")
	assert.Contains(t, memo, RecommendDiligence)
}

func TestRecommend(t *testing.T) {
	in := memoInput()
	assert.Equal(t, RecommendProceed, Recommend(in))

	in.Checks = append(in.Checks, model.ComplianceCheck{Standard: "eu_taxonomy", Status: model.ComplianceStatusNonCompliant})
	assert.Equal(t, RecommendDiligence, Recommend(in))

	in = memoInput()
	in.Model.NPV = ptr(-1.0)
	assert.Equal(t, RecommendDecline, Recommend(in))

	in = memoInput()
	in.Risk.OverallRiskScore = ptr(75.0)
	assert.Equal(t, RecommendDecline, Recommend(in))
}

func TestStoredContentRoundTrip(t *testing.T) {
	in := memoInput()
	r := New(in.Project, TypeInvestmentMemo, "Memo", "# Hello", "u1")
	assert.Equal(t, in.Project.ID, r.ProjectID)
	assert.Equal(t, "markdown", r.Format)

	markdown, err := Markdown(r)
	require.NoError(t, err)
	assert.Equal(t, "# Hello", markdown)
}
