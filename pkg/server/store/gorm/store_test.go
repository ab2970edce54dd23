package gorm

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/infraflow-ai/infraflow/pkg/cipher"
	"github.com/infraflow-ai/infraflow/pkg/db"
	"github.com/infraflow-ai/infraflow/pkg/filter"
	"github.com/infraflow-ai/infraflow/pkg/model"
	"github.com/infraflow-ai/infraflow/pkg/server/store"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	c, err := cipher.NewSymmetric(make([]byte, 32))
	require.NoError(t, err)

	database, err := db.Connect(db.Config{URL: "sqlite://:memory:", Cipher: c})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database))
	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return database
}

func ptr[T any](v T) *T { return &v }

func seedProject(t *testing.T, s *ProjectStore, name, country string, sector model.SectorType, status model.ProjectStatus) *model.Project {
	t.Helper()
	p := &model.Project{Name: name, Country: country, Sector: sector, Status: status}
	p.CreatedBy = ptr("u1")
	require.NoError(t, s.CreateProject(context.Background(), p))
	return p
}

func TestProjectStoreCRUD(t *testing.T) {
	ctx := context.Background()
	s := NewProjectStore(openTestDB(t))

	p := seedProject(t, s, "Solar Park", "Kenya", model.SectorTypeRenewableEnergy, model.ProjectStatusDraft)

	got, err := s.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Solar Park", got.Name)

	got.Status = model.ProjectStatusActive
	got.Description = ""
	require.NoError(t, s.UpdateProject(ctx, got))

	got, err = s.GetProject(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ProjectStatusActive, got.Status)
	require.NotNil(t, got.CreatedBy)
	assert.Equal(t, "u1", *got.CreatedBy)

	require.NoError(t, s.DeleteProject(ctx, p.ID))
	_, err = s.GetProject(ctx, p.ID)
	assert.ErrorIs(t, err, store.ErrProjectNotFound)
	assert.ErrorIs(t, s.DeleteProject(ctx, p.ID), store.ErrProjectNotFound)
	assert.ErrorIs(t, s.UpdateProject(ctx, got), store.ErrProjectNotFound)
}

func TestProjectStoreList(t *testing.T) {
	ctx := context.Background()
	s := NewProjectStore(openTestDB(t))

	seedProject(t, s, "Solar Park", "Kenya", model.SectorTypeRenewableEnergy, model.ProjectStatusActive)
	seedProject(t, s, "Toll Road", "Ghana", model.SectorTypeTransportation, model.ProjectStatusActive)
	seedProject(t, s, "Water Plant", "Kenya", model.SectorTypeWater, model.ProjectStatusDraft)

	all, err := s.ListProjects(ctx, store.ProjectQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	kenya, err := s.ListProjects(ctx, store.ProjectQuery{Country: "kenya"})
	require.NoError(t, err)
	assert.Len(t, kenya, 2)

	active := model.ProjectStatusActive
	sector := model.SectorTypeTransportation
	both, err := s.ListProjects(ctx, store.ProjectQuery{Status: &active, Sector: &sector})
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, "Toll Road", both[0].Name)

	cond, err := filter.Parse(`status = "active" AND country = "Kenya"`, filter.ProjectSchema())
	require.NoError(t, err)
	filtered, err := s.ListProjects(ctx, store.ProjectQuery{Condition: cond})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Solar Park", filtered[0].Name)
}

func TestCountChildrenSkipsDeleted(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	projects := NewProjectStore(database)
	docs := NewDocumentStore(database)

	p := seedProject(t, projects, "Port", "Senegal", model.SectorTypeTransportation, model.ProjectStatusActive)
	for _, name := range []string{"a.pdf", "b.pdf"} {
		require.NoError(t, docs.CreateDocument(ctx, &model.Document{ProjectChild: model.ProjectChild{ProjectID: p.ID}, Name: name}))
	}
	list, err := docs.ListDocuments(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.NoError(t, docs.DeleteDocument(ctx, list[0].ID))

	counts, err := projects.CountChildren(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts.Documents)
	assert.Zero(t, counts.FinancialModels)
}

func TestDocumentStoreUpdate(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	p := seedProject(t, NewProjectStore(database), "Port", "Senegal", model.SectorTypeTransportation, model.ProjectStatusActive)
	docs := NewDocumentStore(database)

	doc := &model.Document{ProjectChild: model.ProjectChild{ProjectID: p.ID}, Name: "eia.pdf", ProcessingStatus: model.ProcessingPending}
	require.NoError(t, docs.CreateDocument(ctx, doc))

	doc.ProcessingStatus = model.ProcessingCompleted
	doc.Type = model.DocumentTypeEnvironmentalImpact
	require.NoError(t, docs.UpdateDocument(ctx, doc))

	got, err := docs.GetDocument(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ProcessingCompleted, got.ProcessingStatus)
	assert.Equal(t, model.DocumentTypeEnvironmentalImpact, got.Type)

	_, err = docs.GetDocument(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrDocumentNotFound)
}

func TestFinancialModelVersions(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	p := seedProject(t, NewProjectStore(database), "Grid", "Nigeria", model.SectorTypeTransmission, model.ProjectStatusActive)
	models := NewFinancialModelStore(database)

	_, err := models.LatestFinancialModel(ctx, p.ID)
	assert.ErrorIs(t, err, store.ErrModelNotFound)

	for i := 0; i < 3; i++ {
		m := &model.FinancialModel{
			ProjectChild: model.ProjectChild{ProjectID: p.ID},
			ModelType:    model.ModelTypeDCF,
			Assumptions:  model.JSON(map[string]float64{"discount_rate": 0.1}),
			NPV:          ptr(float64(i)),
		}
		require.NoError(t, models.CreateFinancialModel(ctx, m))
		assert.Equal(t, i+1, m.Version)
	}

	latest, err := models.LatestFinancialModel(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, latest.Version)

	list, err := models.ListFinancialModels(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, list, 3)

	all, err := models.AllFinancialModels(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRiskStoreUpdatesProjectScore(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	projects := NewProjectStore(database)
	p := seedProject(t, projects, "Dam", "Ethiopia", model.SectorTypeWater, model.ProjectStatusActive)
	risks := NewRiskStore(database)

	a := &model.RiskAssessment{
		ProjectChild:     model.ProjectChild{ProjectID: p.ID},
		AssessmentType:   "automated",
		OverallRiskScore: ptr(64.0),
	}
	require.NoError(t, risks.SaveAssessment(ctx, a, 6.4))

	got, err := projects.GetProject(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, got.RiskScore)
	assert.InDelta(t, 6.4, *got.RiskScore, 1e-9)

	latest, err := risks.LatestAssessment(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, latest.ID)

	orphan := &model.RiskAssessment{ProjectChild: model.ProjectChild{ProjectID: uuid.New()}, AssessmentType: "automated"}
	assert.Error(t, risks.SaveAssessment(ctx, orphan, 1))
}

func TestComplianceStore(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	p := seedProject(t, NewProjectStore(database), "Metro", "Egypt", model.SectorTypeTransportation, model.ProjectStatusActive)
	checks := NewComplianceStore(database)

	require.NoError(t, checks.SaveChecks(ctx, nil))
	require.NoError(t, checks.SaveChecks(ctx, []model.ComplianceCheck{
		{ProjectChild: model.ProjectChild{ProjectID: p.ID}, Standard: "ifc_performance", Status: model.ComplianceStatusCompliant},
		{ProjectChild: model.ProjectChild{ProjectID: p.ID}, Standard: "equator_principles", Status: model.ComplianceStatusNeedsReview},
	}))

	list, err := checks.ListChecks(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	all, err := checks.AllChecks(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestStakeholderStoreEncryptsContacts(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	p := seedProject(t, NewProjectStore(database), "Hospital", "Rwanda", model.SectorTypeOther, model.ProjectStatusActive)
	s := NewStakeholderStore(database)

	sh := &model.Stakeholder{
		ProjectChild: model.ProjectChild{ProjectID: p.ID},
		Name:         "Ministry of Health",
		Role:         "Offtaker",
		ContactEmail: "moh@example.org",
	}
	require.NoError(t, s.CreateStakeholder(ctx, sh))

	var raw string
	require.NoError(t, database.Table("stakeholders").Select("contact_email").Where("id = ?", sh.ID).Scan(&raw).Error)
	assert.NotEqual(t, "moh@example.org", raw)

	sh.ContactEmail = "health@example.org"
	require.NoError(t, s.UpdateStakeholder(ctx, sh))
	assert.Equal(t, "health@example.org", sh.ContactEmail)

	list, err := s.ListStakeholders(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "health@example.org", list[0].ContactEmail)

	require.NoError(t, s.DeleteStakeholder(ctx, sh.ID))
	_, err = s.GetStakeholder(ctx, sh.ID)
	assert.ErrorIs(t, err, store.ErrStakeholderNotFound)
}

func TestReportStore(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)
	p := seedProject(t, NewProjectStore(database), "Airport", "Kenya", model.SectorTypeTransportation, model.ProjectStatusActive)
	reports := NewReportStore(database)

	r := &model.Report{
		ProjectChild: model.ProjectChild{ProjectID: p.ID},
		Title:        "Memo",
		ReportType:   "investment_memo",
		Content:      model.JSON(map[string]string{"markdown": "# Memo"}),
	}
	require.NoError(t, reports.CreateReport(ctx, r))

	got, err := reports.GetReport(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "Memo", got.Title)

	_, err = reports.GetReport(ctx, uuid.New())
	assert.ErrorIs(t, err, store.ErrReportNotFound)
}

func TestHealthStore(t *testing.T) {
	assert.NoError(t, NewHealthStore(openTestDB(t)).CheckConnectivity(context.Background()))
}
