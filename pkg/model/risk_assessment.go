package model

import (
	"time"

	"gorm.io/datatypes"
)

type RiskAssessment struct {
	ProjectChild
	AssessmentType       string         `gorm:"not null" json:"assessment_type"`
	AssessedBy           string         `json:"assessed_by,omitempty"`
	AssessmentDate       *time.Time     `json:"assessment_date,omitempty"`
	OverallRiskScore     *float64       `json:"overall_risk_score,omitempty"`
	PoliticalRisk        datatypes.JSON `json:"political_risk,omitempty"`
	FinancialRisk        datatypes.JSON `json:"financial_risk,omitempty"`
	EnvironmentalRisk    datatypes.JSON `json:"environmental_risk,omitempty"`
	TechnicalRisk        datatypes.JSON `json:"technical_risk,omitempty"`
	CountryRisk          datatypes.JSON `json:"country_risk,omitempty"`
	IdentifiedRisks      datatypes.JSON `json:"identified_risks,omitempty"`
	MitigationStrategies datatypes.JSON `json:"mitigation_strategies,omitempty"`
	RiskCategories       datatypes.JSON `json:"risk_categories,omitempty"`
	RiskMatrix           datatypes.JSON `json:"risk_matrix,omitempty"`
}

func (RiskAssessment) TableName() string {
	return "risk_assessments"
}
