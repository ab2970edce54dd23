package gorm

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/infraflow-ai/infraflow/pkg/model"
	"github.com/infraflow-ai/infraflow/pkg/server/store"
)

var (
	_ store.StakeholderStore = (*StakeholderStore)(nil)
	_ store.ReportStore      = (*ReportStore)(nil)
)

// StakeholderStore implements store.StakeholderStore using GORM. Contact
// details are sealed by the model hooks when the connection carries a cipher.
type StakeholderStore struct {
	db *gorm.DB
}

func NewStakeholderStore(db *gorm.DB) *StakeholderStore {
	return &StakeholderStore{db: db}
}

func (s *StakeholderStore) CreateStakeholder(ctx context.Context, sh *model.Stakeholder) error {
	return session(s.db, ctx).Create(sh).Error
}

func (s *StakeholderStore) GetStakeholder(ctx context.Context, id uuid.UUID) (*model.Stakeholder, error) {
	var sh model.Stakeholder
	if err := session(s.db, ctx).First(&sh, "id = ?", id).Error; err != nil {
		return nil, notFound(err, store.ErrStakeholderNotFound)
	}
	return &sh, nil
}

func (s *StakeholderStore) ListStakeholders(ctx context.Context, projectID uuid.UUID) ([]model.Stakeholder, error) {
	var list []model.Stakeholder
	err := session(s.db, ctx).Where("project_id = ?", projectID).Order("name").Find(&list).Error
	return list, err
}

func (s *StakeholderStore) UpdateStakeholder(ctx context.Context, sh *model.Stakeholder) error {
	return update(session(s.db, ctx), sh, store.ErrStakeholderNotFound)
}

func (s *StakeholderStore) DeleteStakeholder(ctx context.Context, id uuid.UUID) error {
	tx := session(s.db, ctx).Delete(&model.Stakeholder{}, "id = ?", id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrStakeholderNotFound
	}
	return nil
}

// ReportStore implements store.ReportStore using GORM
type ReportStore struct {
	db *gorm.DB
}

func NewReportStore(db *gorm.DB) *ReportStore {
	return &ReportStore{db: db}
}

func (s *ReportStore) CreateReport(ctx context.Context, r *model.Report) error {
	return session(s.db, ctx).Create(r).Error
}

func (s *ReportStore) GetReport(ctx context.Context, id uuid.UUID) (*model.Report, error) {
	var r model.Report
	if err := session(s.db, ctx).First(&r, "id = ?", id).Error; err != nil {
		return nil, notFound(err, store.ErrReportNotFound)
	}
	return &r, nil
}
