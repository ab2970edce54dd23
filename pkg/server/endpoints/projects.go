package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"github.com/infraflow-ai/infraflow/pkg/audit"
	"github.com/infraflow-ai/infraflow/pkg/compliance"
	"github.com/infraflow-ai/infraflow/pkg/filter"
	"github.com/infraflow-ai/infraflow/pkg/finance"
	"github.com/infraflow-ai/infraflow/pkg/model"
	"github.com/infraflow-ai/infraflow/pkg/portfolio"
	"github.com/infraflow-ai/infraflow/pkg/risk"
	"github.com/infraflow-ai/infraflow/pkg/server"
	"github.com/infraflow-ai/infraflow/pkg/server/store"
	"github.com/infraflow-ai/infraflow/pkg/telemetry"
)

// RegisterProjectsEndpoints registers the project CRUD and analysis endpoints
func RegisterProjectsEndpoints(s *server.Server) {
	projects := s.Projects

	// POST /projects - Create a project owned by the caller
	s.API.HandleFunc("/projects", handleCreateProject(projects)).Methods("POST")

	// GET /projects?page=&page_size=&country=&sector=&status=&search=&sort=&filter=
	s.API.HandleFunc("/projects", handleListProjects(projects)).Methods("GET")

	// GET /projects/{id} - Project with child counts
	s.API.HandleFunc("/projects/{id}", handleGetProject(projects)).Methods("GET")

	// PATCH /projects/{id} - Partial update, owner or admin
	s.API.HandleFunc("/projects/{id}", handleUpdateProject(projects)).Methods("PATCH")

	// DELETE /projects/{id} - Soft delete, owner or admin
	s.API.HandleFunc("/projects/{id}", handleDeleteProject(projects)).Methods("DELETE")

	// POST /projects/{id}/analyze - Financial, risk and compliance analysis
	a := &analyzer{
		projects:   projects,
		documents:  s.Documents,
		models:     s.Models,
		risks:      s.Risks,
		compliance: s.Compliance,
		engine:     s.Engine,
		checker:    s.Checker,
	}
	s.API.HandleFunc("/projects/{id}/analyze", a.handleAnalyze()).Methods("POST")
}

// projectRequest is the body of create and update. Nil fields are left
// unchanged on update.
type projectRequest struct {
	Name         *string              `json:"name"`
	Sponsor      *string              `json:"sponsor"`
	Country      *string              `json:"country"`
	Sector       *model.SectorType    `json:"sector"`
	Status       *model.ProjectStatus `json:"status"`
	Description  *string              `json:"description"`
	TotalValue   *float64             `json:"total_value"`
	Currency     *string              `json:"currency"`
	DFIPartners  json.RawMessage      `json:"dfi_partners"`
	Location     json.RawMessage      `json:"location"`
	Timeline     json.RawMessage      `json:"timeline"`
	Stakeholders json.RawMessage      `json:"stakeholders"`
	Metadata     json.RawMessage      `json:"metadata"`
}

func (req projectRequest) validate(create bool) error {
	var errs *multierror.Error
	if create || req.Name != nil {
		if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
			errs = multierror.Append(errs, errors.New("name is required"))
		}
	}
	if create || req.Country != nil {
		if req.Country == nil || strings.TrimSpace(*req.Country) == "" {
			errs = multierror.Append(errs, errors.New("country is required"))
		}
	}
	if create && req.Sector == nil {
		errs = multierror.Append(errs, errors.New("sector is required"))
	}
	if req.TotalValue != nil && *req.TotalValue < 0 {
		errs = multierror.Append(errs, errors.New("total_value must not be negative"))
	}
	if req.Currency != nil && len(strings.TrimSpace(*req.Currency)) != 3 {
		errs = multierror.Append(errs, fmt.Errorf("currency %q is not a three letter code", *req.Currency))
	}
	return errs.ErrorOrNil()
}

func (req projectRequest) apply(p *model.Project) {
	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Sponsor != nil {
		p.Sponsor = *req.Sponsor
	}
	if req.Country != nil {
		p.Country = strings.TrimSpace(*req.Country)
	}
	if req.Sector != nil {
		p.Sector = *req.Sector
	}
	if req.Status != nil {
		p.Status = *req.Status
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.TotalValue != nil {
		p.TotalValue = req.TotalValue
	}
	if req.Currency != nil {
		p.Currency = strings.ToUpper(strings.TrimSpace(*req.Currency))
	}
	setJSON(&p.DFIPartners, req.DFIPartners)
	setJSON(&p.Location, req.Location)
	setJSON(&p.Timeline, req.Timeline)
	setJSON(&p.Stakeholders, req.Stakeholders)
	setJSON(&p.Metadata, req.Metadata)
}

// setJSON copies raw into col when the field was present. An explicit null clears it.
func setJSON(col *datatypes.JSON, raw json.RawMessage) {
	switch {
	case raw == nil:
	case string(raw) == "null":
		*col = nil
	default:
		*col = datatypes.JSON(raw)
	}
}

// respondWithValidationError answers 422 listing every problem in err.
func respondWithValidationError(w http.ResponseWriter, err error) {
	var merr *multierror.Error
	if errors.As(err, &merr) {
		msgs := make([]string, len(merr.Errors))
		for i, e := range merr.Errors {
			msgs[i] = e.Error()
		}
		respondWithError(w, http.StatusUnprocessableEntity, strings.Join(msgs, "; "))
		return
	}
	respondWithError(w, http.StatusUnprocessableEntity, err.Error())
}

func handleCreateProject(projects store.ProjectStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req projectRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := req.validate(true); err != nil {
			respondWithValidationError(w, err)
			return
		}

		id := caller(r)
		p := &model.Project{Status: model.ProjectStatusDraft, Currency: "USD"}
		req.apply(p)
		p.CreatedBy = &id.UserID

		if err := projects.CreateProject(r.Context(), p); err != nil {
			respondWithStoreError(w, r, err, "create project")
			return
		}

		audit.Log(r.Context(), audit.RecordEvent{
			Actor:    id.Actor(),
			Table:    "projects",
			RecordID: p.ID.String(),
			Action:   audit.ActionInsert,
			New:      p,
		})
		respondWithJSON(w, http.StatusCreated, p)
	}
}

func handleListProjects(projects store.ProjectStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		page, err := filter.ParsePage(query)
		if err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		sortKey, ok := portfolio.ParseSortKey(query.Get("sort"))
		if !ok {
			respondWithError(w, http.StatusUnprocessableEntity,
				fmt.Sprintf("sort must be one of %s, %s or %s", portfolio.SortName, portfolio.SortInvestment, portfolio.SortDate))
			return
		}

		q := store.ProjectQuery{Country: strings.TrimSpace(query.Get("country"))}
		if v := query.Get("sector"); v != "" {
			sector, err := model.SectorTypeString(v)
			if err != nil {
				respondWithError(w, http.StatusUnprocessableEntity, fmt.Sprintf("Unknown sector %q", v))
				return
			}
			q.Sector = &sector
		}
		status := query.Get("status")
		if status != "" && status != portfolio.StatusAll {
			if _, err := model.ProjectStatusString(status); err != nil {
				respondWithError(w, http.StatusUnprocessableEntity, fmt.Sprintf("Unknown status %q", status))
				return
			}
		}
		if expr := query.Get("filter"); expr != "" {
			cond, err := filter.Parse(expr, filter.ProjectSchema())
			if err != nil {
				respondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
			q.Condition = cond
		}

		all, err := projects.ListProjects(r.Context(), q)
		if err != nil {
			respondWithStoreError(w, r, err, "list projects")
			return
		}

		matched := portfolio.Apply(all, portfolio.Query{Status: status, Search: query.Get("search")}, sortKey)
		total := int64(len(matched))

		start, end := page.Bounds(len(matched))
		respondWithJSON(w, http.StatusOK, filter.NewPaged(matched[start:end], total, page))
	}
}

// ProjectDetail is a project with the number of rows hanging off it.
type ProjectDetail struct {
	*model.Project
	Counts store.ChildCounts `json:"counts"`
}

func handleGetProject(projects store.ProjectStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := loadProject(w, r, projects, "id")
		if !ok {
			return
		}
		counts, err := projects.CountChildren(r.Context(), p.ID)
		if err != nil {
			respondWithStoreError(w, r, err, "count project records")
			return
		}
		respondWithJSON(w, http.StatusOK, ProjectDetail{Project: p, Counts: counts})
	}
}

func handleUpdateProject(projects store.ProjectStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := loadOwnedProject(w, r, projects, "id")
		if !ok {
			return
		}

		var req projectRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if err := req.validate(false); err != nil {
			respondWithValidationError(w, err)
			return
		}

		id := caller(r)
		old := *p
		req.apply(p)
		p.UpdatedBy = &id.UserID

		if err := projects.UpdateProject(r.Context(), p); err != nil {
			respondWithStoreError(w, r, err, "update project")
			return
		}

		audit.Log(r.Context(), audit.RecordEvent{
			Actor:    id.Actor(),
			Table:    "projects",
			RecordID: p.ID.String(),
			Action:   audit.ActionUpdate,
			Old:      old,
			New:      p,
		})
		respondWithJSON(w, http.StatusOK, p)
	}
}

func handleDeleteProject(projects store.ProjectStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := loadOwnedProject(w, r, projects, "id")
		if !ok {
			return
		}
		if err := projects.DeleteProject(r.Context(), p.ID); err != nil {
			respondWithStoreError(w, r, err, "delete project")
			return
		}

		audit.Log(r.Context(), audit.RecordEvent{
			Actor:    caller(r).Actor(),
			Table:    "projects",
			RecordID: p.ID.String(),
			Action:   audit.ActionDelete,
			Old:      p,
		})
		w.WriteHeader(http.StatusNoContent)
	}
}

// loadProject fetches the project named by the mux variable, answering
// 400 or 404 itself.
func loadProject(w http.ResponseWriter, r *http.Request, projects store.ProjectStore, varName string) (*model.Project, bool) {
	id, ok := pathID(w, r, varName)
	if !ok {
		return nil, false
	}
	return fetchProject(w, r, projects, id)
}

func fetchProject(w http.ResponseWriter, r *http.Request, projects store.ProjectStore, id uuid.UUID) (*model.Project, bool) {
	p, err := projects.GetProject(r.Context(), id)
	if err != nil {
		respondWithStoreError(w, r, err, "fetch project")
		return nil, false
	}
	return p, true
}

// loadOwnedProject is loadProject plus the owner-or-admin check.
func loadOwnedProject(w http.ResponseWriter, r *http.Request, projects store.ProjectStore, varName string) (*model.Project, bool) {
	p, ok := loadProject(w, r, projects, varName)
	if !ok {
		return nil, false
	}
	if !authorizeProject(w, r, p) {
		return nil, false
	}
	return p, true
}

func authorizeProject(w http.ResponseWriter, r *http.Request, p *model.Project) bool {
	if !caller(r).CanModify(p.CreatedBy) {
		respondWithError(w, http.StatusForbidden, "Only the project owner or an admin may modify this project")
		return false
	}
	return true
}

// extractedData collects the extracted_data of every document that has any.
func extractedData(docs []model.Document) []map[string]any {
	out := make([]map[string]any, 0, len(docs))
	for _, d := range docs {
		if data := d.Extracted(); len(data) > 0 {
			out = append(out, data)
		}
	}
	return out
}

// AnalysisResponse is returned by POST /projects/{id}/analyze
type AnalysisResponse struct {
	ProjectID         uuid.UUID           `json:"project_id"`
	FinancialAnalysis finance.ModelResult `json:"financial_analysis"`
	RiskAssessment    risk.Assessment     `json:"risk_assessment"`
	Compliance        compliance.Result   `json:"compliance"`
	AnalyzedAt        time.Time           `json:"analyzed_at"`
}

type analyzer struct {
	projects   store.ProjectStore
	documents  store.DocumentStore
	models     store.FinancialModelStore
	risks      store.RiskStore
	compliance store.ComplianceStore
	engine     *finance.Engine
	checker    *compliance.Checker
}

// handleAnalyze reruns the DCF on the latest model's assumptions, or on
// assumptions derived from the project when it has no model, then stores a
// fresh risk assessment and compliance checks.
func (a *analyzer) handleAnalyze() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := telemetry.Tracer("endpoints").Start(r.Context(), "projects.analyze")
		defer span.End()
		r = r.WithContext(ctx)

		p, ok := loadOwnedProject(w, r, a.projects, "id")
		if !ok {
			return
		}

		var (
			docs   []model.Document
			latest *model.FinancialModel
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			docs, err = a.documents.ListDocuments(gctx, p.ID)
			return err
		})
		g.Go(func() error {
			m, err := a.models.LatestFinancialModel(gctx, p.ID)
			if errors.Is(err, store.ErrModelNotFound) {
				return nil
			}
			latest = m
			return err
		})
		if err := g.Wait(); err != nil {
			span.RecordError(err)
			respondWithStoreError(w, r, err, "load project data")
			return
		}

		extracted := extractedData(docs)
		assumptions := finance.FromData(p.Investment(), extracted)
		if latest != nil {
			var stored finance.Assumptions
			if err := model.DecodeJSON(latest.Assumptions, &stored); err == nil && len(stored) > 0 {
				assumptions = stored
			}
		}

		id := caller(r)
		financial, err := a.engine.Build(ctx, finance.ModelRequest{
			ProjectID:   p.ID,
			ModelType:   model.ModelTypeDCF,
			Assumptions: assumptions,
		})
		if err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		assessment := risk.Assess(p.ID, extracted, time.Now())
		row := assessment.RiskAssessment(id.UserID)
		row.CreatedBy = &id.UserID
		if err := a.risks.SaveAssessment(ctx, &row, assessment.ProjectScore()); err != nil {
			span.RecordError(err)
			respondWithStoreError(w, r, err, "save risk assessment")
			return
		}

		result := a.checker.CheckProject(*p, docs)
		checks := result.Checks(id.UserID)
		for i := range checks {
			checks[i].CreatedBy = &id.UserID
		}
		if err := a.compliance.SaveChecks(ctx, checks); err != nil {
			span.RecordError(err)
			respondWithStoreError(w, r, err, "save compliance checks")
			return
		}

		audit.Log(ctx, audit.AnalysisEvent{
			Actor:     id.Actor(),
			Kind:      audit.AnalysisRisk,
			ProjectID: p.ID.String(),
			RecordID:  row.ID.String(),
			Success:   true,
			Summary:   map[string]any{"overall_score": assessment.OverallScore, "risk_level": assessment.Level},
		})
		audit.Log(ctx, audit.AnalysisEvent{
			Actor:     id.Actor(),
			Kind:      audit.AnalysisCompliance,
			ProjectID: p.ID.String(),
			Success:   true,
			Summary:   map[string]any{"overall_status": result.OverallStatus, "total_issues": result.TotalIssues},
		})

		respondWithJSON(w, http.StatusOK, AnalysisResponse{
			ProjectID:         p.ID,
			FinancialAnalysis: financial,
			RiskAssessment:    assessment,
			Compliance:        result,
			AnalyzedAt:        financial.CreatedAt,
		})
	}
}
