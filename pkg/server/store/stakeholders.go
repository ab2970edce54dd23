package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/infraflow-ai/infraflow/pkg/model"
)

var (
	// ErrStakeholderNotFound is returned when a stakeholder doesn't exist
	ErrStakeholderNotFound = errors.New("stakeholder not found")

	// ErrReportNotFound is returned when a report doesn't exist
	ErrReportNotFound = errors.New("report not found")
)

// StakeholderStore abstracts stakeholder persistence
type StakeholderStore interface {
	CreateStakeholder(ctx context.Context, s *model.Stakeholder) error
	GetStakeholder(ctx context.Context, id uuid.UUID) (*model.Stakeholder, error)
	ListStakeholders(ctx context.Context, projectID uuid.UUID) ([]model.Stakeholder, error)
	UpdateStakeholder(ctx context.Context, s *model.Stakeholder) error
	DeleteStakeholder(ctx context.Context, id uuid.UUID) error
}

// ReportStore abstracts generated report persistence
type ReportStore interface {
	CreateReport(ctx context.Context, r *model.Report) error
	GetReport(ctx context.Context, id uuid.UUID) (*model.Report, error)
}
