package gorm

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/infraflow-ai/infraflow/pkg/model"
	"github.com/infraflow-ai/infraflow/pkg/server/store"
)

// Ensure ProjectStore implements store.ProjectStore
var _ store.ProjectStore = (*ProjectStore)(nil)

// ProjectStore implements store.ProjectStore using GORM
type ProjectStore struct {
	db *gorm.DB
}

func NewProjectStore(db *gorm.DB) *ProjectStore {
	return &ProjectStore{db: db}
}

func (s *ProjectStore) CreateProject(ctx context.Context, p *model.Project) error {
	return session(s.db, ctx).Create(p).Error
}

func (s *ProjectStore) GetProject(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var p model.Project
	if err := session(s.db, ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, notFound(err, store.ErrProjectNotFound)
	}
	return &p, nil
}

func (s *ProjectStore) ListProjects(ctx context.Context, q store.ProjectQuery) ([]model.Project, error) {
	tx := session(s.db, ctx).Model(&model.Project{})
	if q.Country != "" {
		tx = tx.Where("LOWER(country) = ?", strings.ToLower(q.Country))
	}
	if q.Sector != nil {
		tx = tx.Where("sector = ?", *q.Sector)
	}
	if q.Status != nil {
		tx = tx.Where("status = ?", *q.Status)
	}
	if !q.Condition.Empty() {
		tx = tx.Where(q.Condition.Clause, q.Condition.Params...)
	}

	var projects []model.Project
	if err := tx.Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (s *ProjectStore) UpdateProject(ctx context.Context, p *model.Project) error {
	return update(session(s.db, ctx), p, store.ErrProjectNotFound)
}

func (s *ProjectStore) DeleteProject(ctx context.Context, id uuid.UUID) error {
	tx := session(s.db, ctx).Delete(&model.Project{}, "id = ?", id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrProjectNotFound
	}
	return nil
}

func (s *ProjectStore) CountChildren(ctx context.Context, id uuid.UUID) (store.ChildCounts, error) {
	var counts store.ChildCounts
	db := session(s.db, ctx)
	for _, c := range []struct {
		model any
		dest  *int64
	}{
		{&model.Document{}, &counts.Documents},
		{&model.FinancialModel{}, &counts.FinancialModels},
		{&model.ComplianceCheck{}, &counts.ComplianceChecks},
		{&model.RiskAssessment{}, &counts.RiskAssessments},
		{&model.Stakeholder{}, &counts.Stakeholders},
		{&model.Report{}, &counts.Reports},
	} {
		if err := db.Model(c.model).Where("project_id = ?", id).Count(c.dest).Error; err != nil {
			return counts, err
		}
	}
	return counts, nil
}
