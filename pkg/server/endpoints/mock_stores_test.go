package endpoints

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/infraflow-ai/infraflow/pkg/audit"
	"github.com/infraflow-ai/infraflow/pkg/model"
	"github.com/infraflow-ai/infraflow/pkg/server/store"
)

// MockProjectStore implements store.ProjectStore for testing using testify/mock
type MockProjectStore struct {
	mock.Mock
}

func (m *MockProjectStore) CreateProject(ctx context.Context, p *model.Project) error {
	args := m.Called(ctx, p)
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockProjectStore) GetProject(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectStore) ListProjects(ctx context.Context, q store.ProjectQuery) ([]model.Project, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Project), args.Error(1)
}

func (m *MockProjectStore) UpdateProject(ctx context.Context, p *model.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProjectStore) DeleteProject(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProjectStore) CountChildren(ctx context.Context, id uuid.UUID) (store.ChildCounts, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(store.ChildCounts), args.Error(1)
}

// MockDocumentStore implements store.DocumentStore for testing using testify/mock
type MockDocumentStore struct {
	mock.Mock
}

func (m *MockDocumentStore) CreateDocument(ctx context.Context, doc *model.Document) error {
	args := m.Called(ctx, doc)
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockDocumentStore) UpdateDocument(ctx context.Context, doc *model.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentStore) GetDocument(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Document), args.Error(1)
}

func (m *MockDocumentStore) ListDocuments(ctx context.Context, projectID uuid.UUID) ([]model.Document, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Document), args.Error(1)
}

func (m *MockDocumentStore) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockFinancialModelStore implements store.FinancialModelStore for testing using testify/mock
type MockFinancialModelStore struct {
	mock.Mock
}

func (m *MockFinancialModelStore) CreateFinancialModel(ctx context.Context, fm *model.FinancialModel) error {
	args := m.Called(ctx, fm)
	if fm.ID == uuid.Nil {
		fm.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockFinancialModelStore) GetFinancialModel(ctx context.Context, id uuid.UUID) (*model.FinancialModel, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FinancialModel), args.Error(1)
}

func (m *MockFinancialModelStore) ListFinancialModels(ctx context.Context, projectID uuid.UUID) ([]model.FinancialModel, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.FinancialModel), args.Error(1)
}

func (m *MockFinancialModelStore) LatestFinancialModel(ctx context.Context, projectID uuid.UUID) (*model.FinancialModel, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.FinancialModel), args.Error(1)
}

func (m *MockFinancialModelStore) AllFinancialModels(ctx context.Context) ([]model.FinancialModel, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.FinancialModel), args.Error(1)
}

func (m *MockFinancialModelStore) UpdateFinancialModel(ctx context.Context, fm *model.FinancialModel) error {
	args := m.Called(ctx, fm)
	return args.Error(0)
}

// MockComplianceStore implements store.ComplianceStore for testing using testify/mock
type MockComplianceStore struct {
	mock.Mock
}

func (m *MockComplianceStore) SaveChecks(ctx context.Context, checks []model.ComplianceCheck) error {
	args := m.Called(ctx, checks)
	return args.Error(0)
}

func (m *MockComplianceStore) ListChecks(ctx context.Context, projectID uuid.UUID) ([]model.ComplianceCheck, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ComplianceCheck), args.Error(1)
}

func (m *MockComplianceStore) AllChecks(ctx context.Context) ([]model.ComplianceCheck, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ComplianceCheck), args.Error(1)
}

// MockRiskStore implements store.RiskStore for testing using testify/mock
type MockRiskStore struct {
	mock.Mock
}

func (m *MockRiskStore) SaveAssessment(ctx context.Context, a *model.RiskAssessment, projectScore float64) error {
	args := m.Called(ctx, a, projectScore)
	return args.Error(0)
}

func (m *MockRiskStore) LatestAssessment(ctx context.Context, projectID uuid.UUID) (*model.RiskAssessment, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RiskAssessment), args.Error(1)
}

// MockStakeholderStore implements store.StakeholderStore for testing using testify/mock
type MockStakeholderStore struct {
	mock.Mock
}

func (m *MockStakeholderStore) CreateStakeholder(ctx context.Context, s *model.Stakeholder) error {
	args := m.Called(ctx, s)
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockStakeholderStore) GetStakeholder(ctx context.Context, id uuid.UUID) (*model.Stakeholder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Stakeholder), args.Error(1)
}

func (m *MockStakeholderStore) ListStakeholders(ctx context.Context, projectID uuid.UUID) ([]model.Stakeholder, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Stakeholder), args.Error(1)
}

func (m *MockStakeholderStore) UpdateStakeholder(ctx context.Context, s *model.Stakeholder) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockStakeholderStore) DeleteStakeholder(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockReportStore implements store.ReportStore for testing using testify/mock
type MockReportStore struct {
	mock.Mock
}

func (m *MockReportStore) CreateReport(ctx context.Context, r *model.Report) error {
	args := m.Called(ctx, r)
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockReportStore) GetReport(ctx context.Context, id uuid.UUID) (*model.Report, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Report), args.Error(1)
}

// MockHealthStore implements store.HealthStore for testing using testify/mock
type MockHealthStore struct {
	mock.Mock
}

func (m *MockHealthStore) CheckConnectivity(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockAuditReader implements AuditReader for testing using testify/mock
type MockAuditReader struct {
	mock.Mock
}

func (m *MockAuditReader) List(ctx context.Context, q audit.Query) ([]model.AuditLog, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AuditLog), args.Error(1)
}

var (
	_ store.ProjectStore        = (*MockProjectStore)(nil)
	_ store.DocumentStore       = (*MockDocumentStore)(nil)
	_ store.FinancialModelStore = (*MockFinancialModelStore)(nil)
	_ store.ComplianceStore     = (*MockComplianceStore)(nil)
	_ store.RiskStore           = (*MockRiskStore)(nil)
	_ store.StakeholderStore    = (*MockStakeholderStore)(nil)
	_ store.ReportStore         = (*MockReportStore)(nil)
	_ store.HealthStore         = (*MockHealthStore)(nil)
	_ AuditReader               = (*MockAuditReader)(nil)
)
