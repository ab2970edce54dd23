package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/infraflow-ai/infraflow/pkg/logging"
	"github.com/infraflow-ai/infraflow/pkg/model"
)

// Scenario overrides some base assumptions.
type Scenario struct {
	Name                string      `json:"name"`
	Probability         float64     `json:"probability"`
	AssumptionsOverride Assumptions `json:"assumptions_override"`
}

// ScenarioResult is the outcome of one scenario.
type ScenarioResult struct {
	Name          string   `json:"name"`
	Probability   float64  `json:"probability"`
	NPV           float64  `json:"npv"`
	IRR           *float64 `json:"irr"`
	PaybackPeriod float64  `json:"payback_period"`
}

// Variation is one parameter of the sensitivity analysis. Relative
// variations scale the base value, absolute ones are added to it.
type Variation struct {
	Key      string
	Steps    []float64
	Relative bool
}

// SensitivityVariations are the parameters varied by Sensitivity, in order.
var SensitivityVariations = []Variation{
	{Key: KeyDiscountRate, Steps: []float64{-0.02, -0.01, 0, 0.01, 0.02}},
	{Key: KeyRevenueGrowthRate, Steps: []float64{-0.02, -0.01, 0, 0.01, 0.02}},
	{Key: KeyAnnualRevenue, Steps: []float64{-0.20, -0.10, 0, 0.10, 0.20}, Relative: true},
}

var sensitivityDefaults = map[string]float64{
	KeyDiscountRate:      DefaultDiscountRate,
	KeyRevenueGrowthRate: DefaultRevenueGrowthRate,
}

// Sensitivity maps each varied parameter to the NPV at each step.
type Sensitivity map[string][]float64

// ModelRequest asks the engine for a financial model.
type ModelRequest struct {
	ProjectID   uuid.UUID   `json:"project_id"`
	ModelType   string      `json:"model_type"`
	Assumptions Assumptions `json:"assumptions"`
	Scenarios   []Scenario  `json:"scenarios,omitempty"`
	Simulations int         `json:"num_simulations,omitempty"`
	Seed        *uint64     `json:"seed,omitempty"`
}

// ModelResult is everything the engine computed for a request.
type ModelResult struct {
	ProjectID     uuid.UUID         `json:"project_id"`
	ModelType     string            `json:"model_type"`
	NPV           *float64          `json:"npv"`
	IRR           *float64          `json:"irr"`
	PaybackPeriod *float64          `json:"payback_period"`
	DCF           *DCFResult        `json:"dcf_analysis,omitempty"`
	Scenarios     []ScenarioResult  `json:"scenarios_results"`
	Sensitivity   Sensitivity       `json:"sensitivity_analysis"`
	MonteCarlo    *MonteCarloStats  `json:"monte_carlo_results,omitempty"`
	Blended       *BlendedStructure `json:"blended_finance,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

// Engine builds financial models.
type Engine struct {
	// Simulations is the Monte Carlo run size used when a request leaves it unset.
	Simulations int

	log zerolog.Logger
	now func() time.Time
}

func NewEngine(simulations int) *Engine {
	return &Engine{
		Simulations: simulations,
		log:         logging.Component("finance"),
		now:         time.Now,
	}
}

// Build runs the base model for req.ModelType, then its scenarios and the
// sensitivity analysis. Unknown model types are treated as DCF.
func (e *Engine) Build(ctx context.Context, req ModelRequest) (ModelResult, error) {
	modelType := req.ModelType
	switch modelType {
	case model.ModelTypeDCF, model.ModelTypeMonteCarlo, model.ModelTypeBlendedFinance:
	default:
		e.log.Warn().Str("model_type", modelType).Msg("unknown model type, using dcf")
		modelType = model.ModelTypeDCF
	}

	res := ModelResult{
		ProjectID: req.ProjectID,
		ModelType: modelType,
		CreatedAt: e.now().UTC(),
	}

	switch modelType {
	case model.ModelTypeMonteCarlo:
		n := req.Simulations
		if n <= 0 {
			n = e.Simulations
		}
		seed := uint64(res.CreatedAt.UnixNano())
		if req.Seed != nil {
			seed = *req.Seed
		}
		stats, err := MonteCarlo(ctx, req.Assumptions, n, seed)
		if err != nil {
			return ModelResult{}, err
		}
		res.NPV = &stats.NPVMean
		res.IRR = stats.IRRMean
		res.MonteCarlo = &stats
	case model.ModelTypeBlendedFinance:
		blended, err := BlendedFinance(req.Assumptions)
		if err != nil {
			return ModelResult{}, err
		}
		res.setDCF(blended.DCFResult)
		res.Blended = &blended.Structure
	default:
		dcf, err := DCF(req.Assumptions)
		if err != nil {
			return ModelResult{}, err
		}
		res.setDCF(dcf)
	}

	res.Scenarios = e.Scenarios(req.Assumptions, req.Scenarios, modelType)
	res.Sensitivity = e.Sensitivity(req.Assumptions)

	e.log.Info().
		Str("project_id", req.ProjectID.String()).
		Str("model_type", modelType).
		Interface("npv", res.NPV).
		Interface("irr", res.IRR).
		Msg("financial model built")
	return res, nil
}

func (r *ModelResult) setDCF(dcf DCFResult) {
	npv, payback := dcf.NPV, dcf.PaybackPeriod
	r.NPV = &npv
	r.IRR = dcf.IRR
	r.PaybackPeriod = &payback
	r.DCF = &dcf
}

// Scenarios runs each scenario with its overrides merged into base. Blended
// finance scenarios use the blended rate; every other type runs a DCF.
// Failing scenarios are logged and left out.
func (e *Engine) Scenarios(base Assumptions, scenarios []Scenario, modelType string) []ScenarioResult {
	out := make([]ScenarioResult, 0, len(scenarios))
	for _, s := range scenarios {
		name := s.Name
		if name == "" {
			name = "Unnamed Scenario"
		}

		assumptions := base.With(s.AssumptionsOverride)
		var (
			dcf DCFResult
			err error
		)
		if modelType == model.ModelTypeBlendedFinance {
			var blended BlendedResult
			blended, err = BlendedFinance(assumptions)
			dcf = blended.DCFResult
		} else {
			dcf, err = DCF(assumptions)
		}
		if err != nil {
			e.log.Error().Err(err).Str("scenario", name).Msg("scenario failed")
			continue
		}

		out = append(out, ScenarioResult{
			Name:          name,
			Probability:   s.Probability,
			NPV:           dcf.NPV,
			IRR:           dcf.IRR,
			PaybackPeriod: dcf.PaybackPeriod,
		})
	}
	return out
}

// Sensitivity varies each of SensitivityVariations around base and records
// the NPV of every step. A missing rate starts from its default; a step that
// fails records 0.
func (e *Engine) Sensitivity(base Assumptions) Sensitivity {
	out := make(Sensitivity, len(SensitivityVariations))
	for _, v := range SensitivityVariations {
		baseValue := base.Get(v.Key, sensitivityDefaults[v.Key])
		npvs := make([]float64, len(v.Steps))
		for i, step := range v.Steps {
			value := baseValue + step
			if v.Relative {
				value = baseValue * (1 + step)
			}
			dcf, err := DCF(base.With(Assumptions{v.Key: value}))
			if err != nil {
				e.log.Warn().Err(err).Str("parameter", v.Key).Float64("step", step).Msg("sensitivity step failed")
				continue
			}
			npvs[i] = dcf.NPV
		}
		out[v.Key] = npvs
	}
	return out
}

// FinancialModel converts the result into a row for financial_models.
func (r ModelResult) FinancialModel(a Assumptions, createdBy *string) model.FinancialModel {
	m := model.FinancialModel{
		ModelType:           r.ModelType,
		Version:             1,
		Currency:            "USD",
		Assumptions:         model.JSON(a),
		NPV:                 r.NPV,
		IRR:                 r.IRR,
		PaybackPeriod:       r.PaybackPeriod,
		Scenarios:           model.JSON(r.Scenarios),
		SensitivityAnalysis: model.JSON(r.Sensitivity),
		Outputs:             model.JSON(r),
	}
	m.ProjectID = r.ProjectID
	m.CreatedBy = createdBy

	rate := a.Get(KeyDiscountRate, DefaultDiscountRate)
	if r.Blended != nil {
		rate = r.Blended.BlendedCostOfCapital
	}
	m.DiscountRate = &rate
	life := int(a.Get(KeyProjectLifetime, DefaultProjectLifetime))
	m.ProjectLifeYears = &life

	if r.DCF != nil {
		m.DCFAnalysis = model.JSON(r.DCF)
	}
	if r.MonteCarlo != nil {
		m.RiskMetrics = model.JSON(r.MonteCarlo)
	}
	return m
}
