package finance

import (
	"context"
	"math"
	"math/rand/v2"
	"runtime"
	"slices"

	"golang.org/x/sync/errgroup"
)

// DefaultSimulations is used when a Monte Carlo run asks for n <= 0 and the
// engine has no configured default.
const DefaultSimulations = 1000

// MonteCarloStats summarises the NPV and IRR distributions of a simulation run.
type MonteCarloStats struct {
	NPVMean                float64  `json:"npv_mean"`
	NPVMedian              float64  `json:"npv_median"`
	NPVStd                 float64  `json:"npv_std"`
	NPV5thPercentile       float64  `json:"npv_5th_percentile"`
	NPV95thPercentile      float64  `json:"npv_95th_percentile"`
	ProbabilityPositiveNPV float64  `json:"probability_positive_npv"`
	IRRMean                *float64 `json:"irr_mean"`
	IRRMedian              *float64 `json:"irr_median"`
	NumSimulations         int      `json:"num_simulations"`
}

type simulation struct {
	npv float64
	irr *float64
}

// MonteCarlo samples discount rate, revenue and costs from normal
// distributions around the base assumptions and runs a DCF per sample.
//
// Simulation i draws from its own generator seeded with (seed, i), so the
// result depends only on seed and n, not on how work is spread across workers.
func MonteCarlo(ctx context.Context, a Assumptions, n int, seed uint64) (MonteCarloStats, error) {
	if n <= 0 {
		n = DefaultSimulations
	}

	rateMean := a.Get(KeyDiscountRate, DefaultDiscountRate)
	rateStd := a.Get(KeyDiscountRateStd, 0.02)
	revenueMean := a.Get(KeyAnnualRevenue, 0)
	revenueStd := a.Get(KeyAnnualRevenueStd, revenueMean*0.15)
	costMean := a.Get(KeyAnnualCosts, 0)
	costStd := a.Get(KeyAnnualCostsStd, costMean*0.10)

	// Validate once up front so a bad lifetime fails fast instead of n times.
	if _, err := DCF(a); err != nil {
		return MonteCarloStats{}, err
	}

	results := make([]simulation, n)
	workers := min(runtime.GOMAXPROCS(0), n)
	chunk := (n + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				rng := rand.New(rand.NewPCG(seed, uint64(i)))
				sample := a.With(Assumptions{
					KeyDiscountRate:  clamp(normal(rng, rateMean, rateStd), 0.01, 0.30),
					KeyAnnualRevenue: math.Max(0, normal(rng, revenueMean, revenueStd)),
					KeyAnnualCosts:   math.Max(0, normal(rng, costMean, costStd)),
				})
				res, err := DCF(sample)
				if err != nil {
					return err
				}
				results[i] = simulation{npv: res.NPV, irr: res.IRR}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return MonteCarloStats{}, err
	}

	return summarise(results), nil
}

func summarise(results []simulation) MonteCarloStats {
	npvs := make([]float64, len(results))
	var irrs []float64
	var positive int
	for i, r := range results {
		npvs[i] = r.npv
		if r.npv > 0 {
			positive++
		}
		if r.irr != nil {
			irrs = append(irrs, *r.irr)
		}
	}
	slices.Sort(npvs)

	stats := MonteCarloStats{
		NPVMean:                mean(npvs),
		NPVMedian:              percentile(npvs, 50),
		NPVStd:                 stddev(npvs),
		NPV5thPercentile:       percentile(npvs, 5),
		NPV95thPercentile:      percentile(npvs, 95),
		ProbabilityPositiveNPV: float64(positive) / float64(len(npvs)),
		NumSimulations:         len(results),
	}
	if len(irrs) > 0 {
		slices.Sort(irrs)
		m, med := mean(irrs), percentile(irrs, 50)
		stats.IRRMean, stats.IRRMedian = &m, &med
	}
	return stats
}

func normal(rng *rand.Rand, mean, std float64) float64 {
	return mean + std*rng.NormFloat64()
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stddev is the population standard deviation.
func stddev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := mean(xs)
	var ss float64
	for _, x := range xs {
		ss += (x - m) * (x - m)
	}
	return math.Sqrt(ss / float64(len(xs)))
}

// percentile interpolates linearly between closest ranks of sorted.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	pos := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (pos-float64(lo))*(sorted[hi]-sorted[lo])
}
