package finance

import (
	"maps"
	"strconv"
	"strings"
)

// Assumption keys read by the engine.
const (
	KeyDiscountRate      = "discount_rate"
	KeyProjectLifetime   = "project_lifetime"
	KeyInitialInvestment = "initial_investment"
	KeyAnnualRevenue     = "annual_revenue"
	KeyAnnualCosts       = "annual_costs"
	KeyRevenueGrowthRate = "revenue_growth_rate"
	KeyTaxRate           = "tax_rate"
	KeyInflationRate     = "inflation_rate"

	KeyDiscountRateStd  = "discount_rate_std"
	KeyAnnualRevenueStd = "annual_revenue_std"
	KeyAnnualCostsStd   = "annual_costs_std"

	KeyCommercialDebt   = "commercial_debt_amount"
	KeyConcessionalDebt = "concessional_debt_amount"
	KeyEquity           = "equity_amount"
	KeyGrants           = "grant_amount"
	KeyCommercialRate   = "commercial_rate"
	KeyConcessionalRate = "concessional_rate"
	KeyEquityReturn     = "equity_return"
)

// Defaults applied when an assumption is missing.
const (
	DefaultDiscountRate      = 0.10
	DefaultProjectLifetime   = 25
	DefaultRevenueGrowthRate = 0.03
	DefaultTaxRate           = 0.20
	DefaultInflationRate     = 0.025

	DefaultCommercialRate   = 0.08
	DefaultConcessionalRate = 0.03
	DefaultEquityReturn     = 0.15
)

// Assumptions are the numeric inputs of a model, keyed by name.
type Assumptions map[string]float64

// Get returns the value of key or def when it is absent.
func (a Assumptions) Get(key string, def float64) float64 {
	if v, ok := a[key]; ok {
		return v
	}
	return def
}

// With returns a copy of a with overrides applied on top.
func (a Assumptions) With(overrides Assumptions) Assumptions {
	out := make(Assumptions, len(a)+len(overrides))
	maps.Copy(out, a)
	maps.Copy(out, overrides)
	return out
}

// FromData builds assumptions for a project that has no model of its own,
// from its recorded investment and the data extracted from its documents.
// Revenue is only estimated when a document states the plant capacity.
func FromData(investment float64, extracted []map[string]any) Assumptions {
	a := Assumptions{
		KeyDiscountRate:      DefaultDiscountRate,
		KeyProjectLifetime:   DefaultProjectLifetime,
		KeyTaxRate:           DefaultTaxRate,
		KeyRevenueGrowthRate: DefaultRevenueGrowthRate,
		KeyInflationRate:     DefaultInflationRate,
	}
	if investment > 0 {
		a[KeyInitialInvestment] = investment
	}

	var hasCapacity bool
	for _, data := range extracted {
		if v, ok := number(data["total_investment"]); ok && v > 0 {
			a[KeyInitialInvestment] = v
		}
		if c, ok := data["capacity"]; ok && c != nil && c != "" {
			hasCapacity = true
		}
	}

	if hasCapacity {
		a[KeyAnnualRevenue] = a.Get(KeyInitialInvestment, 0) * 0.15
		a[KeyAnnualCosts] = a[KeyAnnualRevenue] * 0.35
	}
	return a
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(n), ",", ""), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
