package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/infraflow-ai/infraflow/pkg/model"
)

var (
	// ErrModelNotFound is returned when a financial model doesn't exist
	ErrModelNotFound = errors.New("financial model not found")

	// ErrAssessmentNotFound is returned when a project has no risk assessment
	ErrAssessmentNotFound = errors.New("risk assessment not found")
)

// FinancialModelStore abstracts financial model persistence
type FinancialModelStore interface {
	// CreateFinancialModel stores m as the next version for its project.
	CreateFinancialModel(ctx context.Context, m *model.FinancialModel) error
	GetFinancialModel(ctx context.Context, id uuid.UUID) (*model.FinancialModel, error)
	ListFinancialModels(ctx context.Context, projectID uuid.UUID) ([]model.FinancialModel, error)

	// LatestFinancialModel returns ErrModelNotFound when the project has none.
	LatestFinancialModel(ctx context.Context, projectID uuid.UUID) (*model.FinancialModel, error)

	// AllFinancialModels returns every live model across projects.
	AllFinancialModels(ctx context.Context) ([]model.FinancialModel, error)

	UpdateFinancialModel(ctx context.Context, m *model.FinancialModel) error
}

// ComplianceStore abstracts compliance check persistence
type ComplianceStore interface {
	// SaveChecks writes checks in one transaction.
	SaveChecks(ctx context.Context, checks []model.ComplianceCheck) error
	ListChecks(ctx context.Context, projectID uuid.UUID) ([]model.ComplianceCheck, error)
	AllChecks(ctx context.Context) ([]model.ComplianceCheck, error)
}

// RiskStore abstracts risk assessment persistence
type RiskStore interface {
	// SaveAssessment stores a and sets the project's risk_score to
	// projectScore in the same transaction.
	SaveAssessment(ctx context.Context, a *model.RiskAssessment, projectScore float64) error

	// LatestAssessment returns ErrAssessmentNotFound when there is none.
	LatestAssessment(ctx context.Context, projectID uuid.UUID) (*model.RiskAssessment, error)
}
