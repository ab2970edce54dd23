package finance

// BlendedStructure describes the capital stack of a blended finance model.
type BlendedStructure struct {
	TotalFinancing       float64 `json:"total_financing"`
	CommercialDebt       float64 `json:"commercial_debt"`
	ConcessionalDebt     float64 `json:"concessional_debt"`
	Equity               float64 `json:"equity"`
	Grants               float64 `json:"grants"`
	BlendedCostOfCapital float64 `json:"blended_cost_of_capital"`
	SubsidyPercentage    float64 `json:"subsidy_percentage"`
}

// BlendedResult is a DCF run at the blended cost of capital.
type BlendedResult struct {
	DCFResult
	Structure BlendedStructure `json:"blended_finance"`
}

// BlendedFinance weights the cost of each financing source by its amount and
// discounts the project's cash flows at that rate. Grants cost nothing.
func BlendedFinance(a Assumptions) (BlendedResult, error) {
	s := BlendedStructure{
		CommercialDebt:   a.Get(KeyCommercialDebt, 0),
		ConcessionalDebt: a.Get(KeyConcessionalDebt, 0),
		Equity:           a.Get(KeyEquity, 0),
		Grants:           a.Get(KeyGrants, 0),
	}
	s.TotalFinancing = s.CommercialDebt + s.ConcessionalDebt + s.Equity + s.Grants

	if s.TotalFinancing > 0 {
		s.BlendedCostOfCapital = (s.CommercialDebt*a.Get(KeyCommercialRate, DefaultCommercialRate) +
			s.ConcessionalDebt*a.Get(KeyConcessionalRate, DefaultConcessionalRate) +
			s.Equity*a.Get(KeyEquityReturn, DefaultEquityReturn)) / s.TotalFinancing
		s.SubsidyPercentage = (s.ConcessionalDebt + s.Grants) / s.TotalFinancing
	}

	dcf, err := DCF(a.With(Assumptions{KeyDiscountRate: s.BlendedCostOfCapital}))
	if err != nil {
		return BlendedResult{}, err
	}
	return BlendedResult{DCFResult: dcf, Structure: s}, nil
}
