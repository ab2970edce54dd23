package finance

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidLifetime is returned when project_lifetime is not a positive number of years.
var ErrInvalidLifetime = errors.New("project_lifetime must be between 1 and 200 years")

const maxLifetime = 200

// DCFResult is the outcome of a discounted cash flow run. IRR is nil when it
// cannot be determined.
type DCFResult struct {
	NPV           float64   `json:"npv"`
	IRR           *float64  `json:"irr"`
	PaybackPeriod float64   `json:"payback_period"`
	CashFlows     []float64 `json:"cash_flows"`
	Years         []int     `json:"years"`
}

// DCF projects yearly free cash flows over the project lifetime and discounts
// them. Year 0 carries the initial investment as an outflow; depreciation is
// straight-line and losses are not taxed.
func DCF(a Assumptions) (DCFResult, error) {
	rate := a.Get(KeyDiscountRate, DefaultDiscountRate)
	lifetimeYears := a.Get(KeyProjectLifetime, DefaultProjectLifetime)
	investment := a.Get(KeyInitialInvestment, 0)
	revenue := a.Get(KeyAnnualRevenue, 0)
	costs := a.Get(KeyAnnualCosts, 0)
	growth := a.Get(KeyRevenueGrowthRate, DefaultRevenueGrowthRate)
	taxRate := a.Get(KeyTaxRate, DefaultTaxRate)
	inflation := a.Get(KeyInflationRate, DefaultInflationRate)

	if math.IsNaN(lifetimeYears) || lifetimeYears < 1 || lifetimeYears > maxLifetime {
		return DCFResult{}, fmt.Errorf("%w: got %v", ErrInvalidLifetime, lifetimeYears)
	}
	if rate <= -1 {
		return DCFResult{}, fmt.Errorf("discount_rate must be greater than -1: got %v", rate)
	}
	lifetime := int(lifetimeYears)

	var depreciation float64
	if investment > 0 {
		depreciation = investment / float64(lifetime)
	}

	res := DCFResult{
		CashFlows: make([]float64, 0, lifetime+1),
		Years:     make([]int, 0, lifetime+1),
	}
	res.CashFlows = append(res.CashFlows, -investment)
	res.Years = append(res.Years, 0)

	cumulative := -investment
	payback := 0
	for year := 1; year <= lifetime; year++ {
		rev := revenue * math.Pow(1+growth, float64(year-1))
		cost := costs * math.Pow(1+inflation, float64(year-1))
		ebit := rev - cost - depreciation
		tax := math.Max(0, ebit*taxRate)
		fcf := ebit - tax + depreciation

		res.CashFlows = append(res.CashFlows, fcf)
		res.Years = append(res.Years, year)

		cumulative += fcf
		if payback == 0 && cumulative >= 0 {
			payback = year
		}
	}
	if payback == 0 {
		payback = lifetime
	}

	res.NPV = NPV(rate, res.CashFlows)
	res.IRR = IRR(res.CashFlows)
	res.PaybackPeriod = float64(payback)
	return res, nil
}

// NPV discounts cashFlows, the first of which is at year 0.
func NPV(rate float64, cashFlows []float64) float64 {
	var npv float64
	for year, cf := range cashFlows {
		npv += cf / math.Pow(1+rate, float64(year))
	}
	return npv
}

const (
	irrTolerance = 1e-10
	irrMaxIter   = 200
)

// IRR returns the rate at which the NPV of cashFlows is zero. It tries Newton's
// method from 10% first and falls back to bisection. Nil means the flows never
// change sign or no finite root was found.
func IRR(cashFlows []float64) *float64 {
	if !changesSign(cashFlows) {
		return nil
	}
	if r, ok := irrNewton(cashFlows, 0.1); ok {
		return &r
	}
	if r, ok := irrBisect(cashFlows); ok {
		return &r
	}
	return nil
}

func changesSign(cashFlows []float64) bool {
	var pos, neg bool
	for _, cf := range cashFlows {
		pos = pos || cf > 0
		neg = neg || cf < 0
	}
	return pos && neg
}

func irrNewton(cashFlows []float64, guess float64) (float64, bool) {
	r := guess
	for i := 0; i < irrMaxIter; i++ {
		var f, df float64
		for t, cf := range cashFlows {
			d := math.Pow(1+r, float64(t))
			f += cf / d
			df -= float64(t) * cf / (d * (1 + r))
		}
		if df == 0 || math.IsNaN(df) {
			return 0, false
		}
		next := r - f/df
		if math.IsNaN(next) || math.IsInf(next, 0) || next <= -1 {
			return 0, false
		}
		if math.Abs(next-r) < irrTolerance {
			return next, true
		}
		r = next
	}
	return 0, false
}

func irrBisect(cashFlows []float64) (float64, bool) {
	lo, hi := -0.9999, 1.0
	fLo := NPV(lo, cashFlows)
	fHi := NPV(hi, cashFlows)
	for fLo*fHi > 0 {
		hi *= 2
		if hi > 1e6 {
			return 0, false
		}
		fHi = NPV(hi, cashFlows)
	}
	for i := 0; i < irrMaxIter; i++ {
		mid := (lo + hi) / 2
		fMid := NPV(mid, cashFlows)
		if math.Abs(fMid) < irrTolerance || (hi-lo)/2 < irrTolerance {
			return mid, !math.IsNaN(mid)
		}
		if fMid*fLo < 0 {
			hi = mid
		} else {
			lo, fLo = mid, fMid
		}
	}
	return (lo + hi) / 2, true
}
