package model

import "gorm.io/datatypes"

type Report struct {
	ProjectChild
	Title        string         `gorm:"not null" json:"title"`
	ReportType   string         `gorm:"not null" json:"report_type"`
	Content      datatypes.JSON `gorm:"not null" json:"content"`
	Format       string         `gorm:"default:markdown" json:"format"`
	FileURL      string         `gorm:"column:file_url" json:"file_url,omitempty"`
	TemplateUsed string         `json:"template_used,omitempty"`
	GeneratedBy  string         `json:"generated_by,omitempty"`
}

func (Report) TableName() string {
	return "reports"
}
