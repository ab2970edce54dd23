package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/infraflow-ai/infraflow/pkg/filter"
	"github.com/infraflow-ai/infraflow/pkg/model"
)

// ErrProjectNotFound is returned when a project doesn't exist or is deleted
var ErrProjectNotFound = errors.New("project not found")

// ProjectQuery narrows ListProjects. Zero fields match everything.
type ProjectQuery struct {
	Country   string
	Sector    *model.SectorType
	Status    *model.ProjectStatus
	Condition filter.Condition
}

// ChildCounts are the number of live child rows of a project.
type ChildCounts struct {
	Documents        int64 `json:"documents"`
	FinancialModels  int64 `json:"financial_models"`
	ComplianceChecks int64 `json:"compliance_checks"`
	RiskAssessments  int64 `json:"risk_assessments"`
	Stakeholders     int64 `json:"stakeholders"`
	Reports          int64 `json:"reports"`
}

// ProjectStore abstracts project persistence
type ProjectStore interface {
	CreateProject(ctx context.Context, p *model.Project) error

	// GetProject returns ErrProjectNotFound for missing or soft deleted rows.
	GetProject(ctx context.Context, id uuid.UUID) (*model.Project, error)

	// ListProjects returns every live project matching q, newest first.
	ListProjects(ctx context.Context, q ProjectQuery) ([]model.Project, error)

	UpdateProject(ctx context.Context, p *model.Project) error

	// DeleteProject soft deletes the project.
	DeleteProject(ctx context.Context, id uuid.UUID) error

	CountChildren(ctx context.Context, id uuid.UUID) (ChildCounts, error)
}
