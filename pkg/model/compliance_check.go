package model

import (
	"time"

	"gorm.io/datatypes"
)

type ComplianceCheck struct {
	ProjectChild
	Standard        string           `gorm:"not null" json:"standard"`
	Category        string           `json:"category,omitempty"`
	Status          ComplianceStatus `gorm:"type:text;not null" json:"status"`
	Score           *float64         `json:"score,omitempty"`
	Issues          datatypes.JSON   `json:"issues,omitempty"`
	Evidence        datatypes.JSON   `json:"evidence,omitempty"`
	Recommendations datatypes.JSON   `json:"recommendations,omitempty"`
	Reviewer        string           `json:"reviewer,omitempty"`
	Notes           string           `json:"notes,omitempty"`
	CheckedAt       *time.Time       `json:"checked_at,omitempty"`
}

func (ComplianceCheck) TableName() string {
	return "compliance_checks"
}
