package model

import "gorm.io/datatypes"

// Financial model types understood by the finance engine.
const (
	ModelTypeDCF            = "dcf"
	ModelTypeMonteCarlo     = "monte_carlo"
	ModelTypeBlendedFinance = "blended_finance"
)

type FinancialModel struct {
	ProjectChild
	ModelType           string         `gorm:"not null" json:"model_type"`
	Version             int            `gorm:"default:1" json:"version"`
	Currency            string         `gorm:"default:USD" json:"currency"`
	Assumptions         datatypes.JSON `gorm:"not null" json:"assumptions"`
	DiscountRate        *float64       `json:"discount_rate,omitempty"`
	ProjectLifeYears    *int           `json:"project_life_years,omitempty"`
	NPV                 *float64       `gorm:"column:npv" json:"npv,omitempty"`
	IRR                 *float64       `gorm:"column:irr" json:"irr,omitempty"`
	PaybackPeriod       *float64       `json:"payback_period,omitempty"`
	DCFAnalysis         datatypes.JSON `gorm:"column:dcf_analysis" json:"dcf_analysis,omitempty"`
	Scenarios           datatypes.JSON `json:"scenarios,omitempty"`
	SensitivityAnalysis datatypes.JSON `json:"sensitivity_analysis,omitempty"`
	RiskMetrics         datatypes.JSON `json:"risk_metrics,omitempty"`
	Outputs             datatypes.JSON `json:"outputs,omitempty"`
}

func (FinancialModel) TableName() string {
	return "financial_models"
}
