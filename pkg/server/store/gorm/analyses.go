package gorm

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/infraflow-ai/infraflow/pkg/model"
	"github.com/infraflow-ai/infraflow/pkg/server/store"
)

var (
	_ store.FinancialModelStore = (*FinancialModelStore)(nil)
	_ store.ComplianceStore     = (*ComplianceStore)(nil)
	_ store.RiskStore           = (*RiskStore)(nil)
)

// FinancialModelStore implements store.FinancialModelStore using GORM
type FinancialModelStore struct {
	db *gorm.DB
}

func NewFinancialModelStore(db *gorm.DB) *FinancialModelStore {
	return &FinancialModelStore{db: db}
}

// CreateFinancialModel numbers m after the project's highest version,
// counting soft deleted models so versions are never reused.
func (s *FinancialModelStore) CreateFinancialModel(ctx context.Context, m *model.FinancialModel) error {
	return session(s.db, ctx).Transaction(func(tx *gorm.DB) error {
		var latest int
		err := tx.Unscoped().Model(&model.FinancialModel{}).
			Where("project_id = ?", m.ProjectID).
			Select("COALESCE(MAX(version), 0)").
			Scan(&latest).Error
		if err != nil {
			return err
		}
		m.Version = latest + 1
		return tx.Create(m).Error
	})
}

func (s *FinancialModelStore) GetFinancialModel(ctx context.Context, id uuid.UUID) (*model.FinancialModel, error) {
	var m model.FinancialModel
	if err := session(s.db, ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, notFound(err, store.ErrModelNotFound)
	}
	return &m, nil
}

func (s *FinancialModelStore) ListFinancialModels(ctx context.Context, projectID uuid.UUID) ([]model.FinancialModel, error) {
	var models []model.FinancialModel
	err := session(s.db, ctx).Where("project_id = ?", projectID).Order("version DESC").Find(&models).Error
	return models, err
}

func (s *FinancialModelStore) LatestFinancialModel(ctx context.Context, projectID uuid.UUID) (*model.FinancialModel, error) {
	var m model.FinancialModel
	err := session(s.db, ctx).Where("project_id = ?", projectID).Order("version DESC").First(&m).Error
	if err != nil {
		return nil, notFound(err, store.ErrModelNotFound)
	}
	return &m, nil
}

func (s *FinancialModelStore) AllFinancialModels(ctx context.Context) ([]model.FinancialModel, error) {
	var models []model.FinancialModel
	err := session(s.db, ctx).Order("created_at").Find(&models).Error
	return models, err
}

func (s *FinancialModelStore) UpdateFinancialModel(ctx context.Context, m *model.FinancialModel) error {
	return update(session(s.db, ctx), m, store.ErrModelNotFound)
}

// ComplianceStore implements store.ComplianceStore using GORM
type ComplianceStore struct {
	db *gorm.DB
}

func NewComplianceStore(db *gorm.DB) *ComplianceStore {
	return &ComplianceStore{db: db}
}

func (s *ComplianceStore) SaveChecks(ctx context.Context, checks []model.ComplianceCheck) error {
	if len(checks) == 0 {
		return nil
	}
	return session(s.db, ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&checks).Error
	})
}

func (s *ComplianceStore) ListChecks(ctx context.Context, projectID uuid.UUID) ([]model.ComplianceCheck, error) {
	var checks []model.ComplianceCheck
	err := session(s.db, ctx).Where("project_id = ?", projectID).Order("created_at DESC").Find(&checks).Error
	return checks, err
}

func (s *ComplianceStore) AllChecks(ctx context.Context) ([]model.ComplianceCheck, error) {
	var checks []model.ComplianceCheck
	err := session(s.db, ctx).Order("created_at").Find(&checks).Error
	return checks, err
}

// RiskStore implements store.RiskStore using GORM
type RiskStore struct {
	db *gorm.DB
}

func NewRiskStore(db *gorm.DB) *RiskStore {
	return &RiskStore{db: db}
}

func (s *RiskStore) SaveAssessment(ctx context.Context, a *model.RiskAssessment, projectScore float64) error {
	return session(s.db, ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(a).Error; err != nil {
			return err
		}
		res := tx.Model(&model.Project{}).Where("id = ?", a.ProjectID).Update("risk_score", projectScore)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return store.ErrProjectNotFound
		}
		return nil
	})
}

func (s *RiskStore) LatestAssessment(ctx context.Context, projectID uuid.UUID) (*model.RiskAssessment, error) {
	var a model.RiskAssessment
	err := session(s.db, ctx).Where("project_id = ?", projectID).Order("created_at DESC").First(&a).Error
	if err != nil {
		return nil, notFound(err, store.ErrAssessmentNotFound)
	}
	return &a, nil
}
