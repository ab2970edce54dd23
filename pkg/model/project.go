package model

import (
	"sort"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Project is the root of the schema; every other table except audit_log references it.
type Project struct {
	Base
	Name         string         `gorm:"not null" json:"name"`
	Sponsor      string         `json:"sponsor,omitempty"`
	Country      string         `gorm:"not null" json:"country"`
	Sector       SectorType     `gorm:"type:text;not null" json:"sector"`
	Status       ProjectStatus  `gorm:"type:text;not null;index" json:"status"`
	Description  string         `json:"description,omitempty"`
	TotalValue   *float64       `json:"total_value,omitempty"`
	Currency     string         `gorm:"default:USD" json:"currency"`
	RiskScore    *float64       `json:"risk_score,omitempty"`
	DFIPartners  datatypes.JSON `gorm:"column:dfi_partners" json:"dfi_partners,omitempty"`
	Location     datatypes.JSON `json:"location,omitempty"`
	Timeline     datatypes.JSON `json:"timeline,omitempty"`
	Stakeholders datatypes.JSON `json:"stakeholders,omitempty"`
	UpdatedBy    *string        `json:"updated_by,omitempty"`
}

func (Project) TableName() string {
	return "projects"
}

// Investment is the project's total value, zero when unknown.
func (p Project) Investment() float64 {
	if p.TotalValue == nil {
		return 0
	}
	return *p.TotalValue
}

// Partners decodes dfi_partners. The column holds either a list of names or an
// object keyed by partner name.
func (p Project) Partners() []string {
	var names []string
	if err := DecodeJSON(p.DFIPartners, &names); err == nil {
		return names
	}
	var byName map[string]any
	if err := DecodeJSON(p.DFIPartners, &byName); err != nil {
		return nil
	}
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// OwnedBy reports whether userID created the project.
func (p Project) OwnedBy(userID string) bool {
	return p.CreatedBy != nil && *p.CreatedBy == userID
}

// ProjectChild is embedded by every table that hangs off a project. Project
// is only there so AutoMigrate emits the foreign key; it is never preloaded.
type ProjectChild struct {
	Base
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index" json:"project_id"`
	Project   *Project  `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"-"`
}
