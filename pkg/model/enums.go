package model

//go:generate go run github.com/dmarkham/enumer -type ProjectStatus -trimprefix ProjectStatus -transform snake -json -sql -text -yaml -output project_status.gen.go
//go:generate go run github.com/dmarkham/enumer -type SectorType -trimprefix SectorType -transform snake -json -sql -text -yaml -output sector_type.gen.go
//go:generate go run github.com/dmarkham/enumer -type DocumentType -trimprefix DocumentType -transform snake -json -sql -text -yaml -output document_type.gen.go
//go:generate go run github.com/dmarkham/enumer -type ComplianceStatus -trimprefix ComplianceStatus -transform snake -json -sql -text -yaml -output compliance_status.gen.go

// ProjectStatus mirrors the project_status column type.
type ProjectStatus int

const (
	ProjectStatusDraft ProjectStatus = iota
	ProjectStatusPipeline
	ProjectStatusUnderReview
	ProjectStatusApproved
	ProjectStatusRejected
	ProjectStatusActive
	ProjectStatusCompleted
	ProjectStatusCancelled
)

// SectorType mirrors the sector_type column type.
type SectorType int

const (
	SectorTypeOther SectorType = iota
	SectorTypeRenewableEnergy
	SectorTypeGreenHydrogen
	SectorTypeTransmission
	SectorTypeWater
	SectorTypeTransportation
	SectorTypeWasteManagement
)

// DocumentType mirrors the document_type column type.
type DocumentType int

const (
	DocumentTypeOther DocumentType = iota
	DocumentTypeFeasibilityStudy
	DocumentTypeFinancialModel
	DocumentTypeEnvironmentalImpact
	DocumentTypeTechnicalSpecification
	DocumentTypeLegalAgreement
	DocumentTypeComplianceReport
	DocumentTypeInvestmentMemo
	DocumentTypeDueDiligence
)

// ComplianceStatus mirrors the compliance_status column type.
type ComplianceStatus int

const (
	ComplianceStatusPending ComplianceStatus = iota
	ComplianceStatusInProgress
	ComplianceStatusCompliant
	ComplianceStatusNonCompliant
	ComplianceStatusNeedsReview
	ComplianceStatusApproved
)
