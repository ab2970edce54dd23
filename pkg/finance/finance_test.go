package finance

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infraflow-ai/infraflow/pkg/model"
)

// flat is a five year project with no growth, inflation or tax, so every
// operating year yields exactly the revenue.
func flat() Assumptions {
	return Assumptions{
		KeyInitialInvestment: 1000,
		KeyAnnualRevenue:     300,
		KeyAnnualCosts:       0,
		KeyRevenueGrowthRate: 0,
		KeyInflationRate:     0,
		KeyTaxRate:           0,
		KeyProjectLifetime:   5,
		KeyDiscountRate:      0.10,
	}
}

func TestDCF(t *testing.T) {
	res, err := DCF(flat())
	require.NoError(t, err)

	assert.Equal(t, []float64{-1000, 300, 300, 300, 300, 300}, res.CashFlows)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, res.Years)
	assert.InDelta(t, 137.236, res.NPV, 0.001)
	assert.Equal(t, 4.0, res.PaybackPeriod)
	require.NotNil(t, res.IRR)
	assert.InDelta(t, 0.1524, *res.IRR, 0.0001)
}

func TestDCFTaxesOnlyProfit(t *testing.T) {
	a := flat().With(Assumptions{KeyTaxRate: 0.2})
	res, err := DCF(a)
	require.NoError(t, err)
	// ebit = 300 - 200 depreciation, tax = 20
	assert.InDelta(t, 280, res.CashFlows[1], 1e-9)

	loss := flat().With(Assumptions{KeyTaxRate: 0.2, KeyAnnualRevenue: 100})
	res, err = DCF(loss)
	require.NoError(t, err)
	assert.InDelta(t, 100, res.CashFlows[1], 1e-9)
}

func TestDCFPaybackDefaultsToLifetime(t *testing.T) {
	res, err := DCF(flat().With(Assumptions{KeyAnnualRevenue: 10}))
	require.NoError(t, err)
	assert.Equal(t, 5.0, res.PaybackPeriod)
}

func TestDCFRejectsLifetime(t *testing.T) {
	for _, life := range []float64{0, -3, 500} {
		_, err := DCF(flat().With(Assumptions{KeyProjectLifetime: life}))
		assert.ErrorIs(t, err, ErrInvalidLifetime)
	}
}

func TestDCFDefaults(t *testing.T) {
	res, err := DCF(Assumptions{})
	require.NoError(t, err)
	assert.Len(t, res.CashFlows, DefaultProjectLifetime+1)
	assert.Zero(t, res.NPV)
	assert.Nil(t, res.IRR)
}

func TestIRR(t *testing.T) {
	irr := IRR([]float64{-100, 110})
	require.NotNil(t, irr)
	assert.InDelta(t, 0.10, *irr, 1e-9)

	irr = IRR([]float64{-1000, 100, 100, 100, 100, 1100})
	require.NotNil(t, irr)
	assert.InDelta(t, 0.10, *irr, 1e-9)

	assert.Nil(t, IRR([]float64{100, 200}))
	assert.Nil(t, IRR([]float64{-100, -200}))
	assert.Nil(t, IRR(nil))
}

func TestNPV(t *testing.T) {
	assert.InDelta(t, 0, NPV(0.10, []float64{-100, 110}), 1e-9)
	assert.Equal(t, -100.0, NPV(0.10, []float64{-100}))
}

func TestMonteCarloDeterministic(t *testing.T) {
	ctx := context.Background()
	a := flat()

	first, err := MonteCarlo(ctx, a, 500, 42)
	require.NoError(t, err)
	second, err := MonteCarlo(ctx, a, 500, 42)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 500, first.NumSimulations)

	other, err := MonteCarlo(ctx, a, 500, 7)
	require.NoError(t, err)
	assert.NotEqual(t, first.NPVMean, other.NPVMean)

	assert.LessOrEqual(t, first.NPV5thPercentile, first.NPVMedian)
	assert.LessOrEqual(t, first.NPVMedian, first.NPV95thPercentile)
	assert.GreaterOrEqual(t, first.ProbabilityPositiveNPV, 0.0)
	assert.LessOrEqual(t, first.ProbabilityPositiveNPV, 1.0)
	require.NotNil(t, first.IRRMean)
	require.NotNil(t, first.IRRMedian)
}

func TestMonteCarloWithoutSpreadMatchesDCF(t *testing.T) {
	a := flat().With(Assumptions{
		KeyDiscountRateStd:  0,
		KeyAnnualRevenueStd: 0,
		KeyAnnualCostsStd:   0,
	})
	dcf, err := DCF(a)
	require.NoError(t, err)

	stats, err := MonteCarlo(context.Background(), a, 50, 1)
	require.NoError(t, err)
	assert.InDelta(t, dcf.NPV, stats.NPVMean, 1e-6)
	assert.InDelta(t, 0, stats.NPVStd, 1e-6)
	assert.Equal(t, 1.0, stats.ProbabilityPositiveNPV)
}

func TestMonteCarloDefaultsAndCancellation(t *testing.T) {
	stats, err := MonteCarlo(context.Background(), flat(), 0, 3)
	require.NoError(t, err)
	assert.Equal(t, DefaultSimulations, stats.NumSimulations)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = MonteCarlo(ctx, flat(), 100, 3)
	assert.True(t, errors.Is(err, context.Canceled))

	_, err = MonteCarlo(context.Background(), flat().With(Assumptions{KeyProjectLifetime: 0}), 10, 3)
	assert.ErrorIs(t, err, ErrInvalidLifetime)
}

func TestPercentile(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}
	assert.Equal(t, 3.0, percentile(xs, 50))
	assert.InDelta(t, 1.2, percentile(xs, 5), 1e-9)
	assert.InDelta(t, 4.8, percentile(xs, 95), 1e-9)
	assert.InDelta(t, 1.41421356, stddev(xs), 1e-6)
}

func TestBlendedFinance(t *testing.T) {
	a := flat().With(Assumptions{
		KeyCommercialDebt:   600,
		KeyConcessionalDebt: 200,
		KeyEquity:           100,
		KeyGrants:           100,
	})
	res, err := BlendedFinance(a)
	require.NoError(t, err)

	assert.Equal(t, 1000.0, res.Structure.TotalFinancing)
	assert.InDelta(t, 0.069, res.Structure.BlendedCostOfCapital, 1e-12)
	assert.InDelta(t, 0.3, res.Structure.SubsidyPercentage, 1e-12)

	dcf, err := DCF(a.With(Assumptions{KeyDiscountRate: 0.069}))
	require.NoError(t, err)
	assert.InDelta(t, dcf.NPV, res.NPV, 1e-9)
}

func TestBlendedFinanceWithoutFinancing(t *testing.T) {
	res, err := BlendedFinance(flat())
	require.NoError(t, err)
	assert.Zero(t, res.Structure.BlendedCostOfCapital)
	assert.Zero(t, res.Structure.SubsidyPercentage)
	assert.InDelta(t, 500, res.NPV, 1e-9)
}

func TestScenarios(t *testing.T) {
	e := NewEngine(100)
	results := e.Scenarios(flat(), []Scenario{
		{Name: "High revenue", Probability: 0.25, AssumptionsOverride: Assumptions{KeyAnnualRevenue: 400}},
		{Probability: 0.5},
		{Name: "Broken", AssumptionsOverride: Assumptions{KeyProjectLifetime: 0}},
	}, model.ModelTypeDCF)

	require.Len(t, results, 2)
	assert.Equal(t, "High revenue", results[0].Name)
	assert.Equal(t, 0.25, results[0].Probability)
	assert.Equal(t, "Unnamed Scenario", results[1].Name)
	assert.Greater(t, results[0].NPV, results[1].NPV)
}

func TestSensitivity(t *testing.T) {
	e := NewEngine(100)
	base := flat()
	delete(base, KeyDiscountRate)

	s := e.Sensitivity(base)
	require.Len(t, s, 3)

	dcf, err := DCF(base)
	require.NoError(t, err)
	for _, v := range SensitivityVariations {
		require.Len(t, s[v.Key], 5, v.Key)
		assert.InDelta(t, dcf.NPV, s[v.Key][2], 1e-9, v.Key)
	}

	rates := s[KeyDiscountRate]
	assert.Greater(t, rates[0], rates[4], "higher discount rates lower the NPV")
	revenue := s[KeyAnnualRevenue]
	assert.Less(t, revenue[0], revenue[4])
}

func TestEngineBuild(t *testing.T) {
	e := NewEngine(200)
	projectID := uuid.New()
	seed := uint64(9)

	t.Run("unknown type falls back to dcf", func(t *testing.T) {
		res, err := e.Build(context.Background(), ModelRequest{ProjectID: projectID, ModelType: "lbo", Assumptions: flat()})
		require.NoError(t, err)
		assert.Equal(t, model.ModelTypeDCF, res.ModelType)
		require.NotNil(t, res.NPV)
		assert.InDelta(t, 137.236, *res.NPV, 0.001)
		require.NotNil(t, res.PaybackPeriod)
		assert.Len(t, res.Sensitivity, 3)
	})

	t.Run("monte carlo uses the configured run size", func(t *testing.T) {
		res, err := e.Build(context.Background(), ModelRequest{ProjectID: projectID, ModelType: model.ModelTypeMonteCarlo, Assumptions: flat(), Seed: &seed})
		require.NoError(t, err)
		require.NotNil(t, res.MonteCarlo)
		assert.Equal(t, 200, res.MonteCarlo.NumSimulations)
		assert.Nil(t, res.PaybackPeriod)
		assert.Equal(t, res.MonteCarlo.NPVMean, *res.NPV)
	})

	t.Run("blended finance", func(t *testing.T) {
		a := flat().With(Assumptions{KeyEquity: 1000})
		res, err := e.Build(context.Background(), ModelRequest{ProjectID: projectID, ModelType: model.ModelTypeBlendedFinance, Assumptions: a})
		require.NoError(t, err)
		require.NotNil(t, res.Blended)
		assert.InDelta(t, 0.15, res.Blended.BlendedCostOfCapital, 1e-12)

		row := res.FinancialModel(a, nil)
		assert.Equal(t, projectID, row.ProjectID)
		require.NotNil(t, row.DiscountRate)
		assert.InDelta(t, 0.15, *row.DiscountRate, 1e-12)
		require.NotNil(t, row.ProjectLifeYears)
		assert.Equal(t, 5, *row.ProjectLifeYears)
		assert.NotEmpty(t, row.DCFAnalysis)
	})

	t.Run("invalid lifetime", func(t *testing.T) {
		_, err := e.Build(context.Background(), ModelRequest{ModelType: model.ModelTypeDCF, Assumptions: Assumptions{KeyProjectLifetime: 0}})
		assert.ErrorIs(t, err, ErrInvalidLifetime)
	})
}

func TestFromData(t *testing.T) {
	a := FromData(5e6, nil)
	assert.Equal(t, 5e6, a[KeyInitialInvestment])
	_, hasRevenue := a[KeyAnnualRevenue]
	assert.False(t, hasRevenue)

	a = FromData(5e6, []map[string]any{
		{"total_investment": "8,000,000", "capacity": "50 MW"},
	})
	assert.Equal(t, 8e6, a[KeyInitialInvestment])
	assert.InDelta(t, 1.2e6, a[KeyAnnualRevenue], 1e-6)
	assert.InDelta(t, 0.42e6, a[KeyAnnualCosts], 1e-6)
}
