package endpoints

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/infraflow-ai/infraflow/pkg/audit"
	"github.com/infraflow-ai/infraflow/pkg/compliance"
	"github.com/infraflow-ai/infraflow/pkg/model"
	"github.com/infraflow-ai/infraflow/pkg/report"
	"github.com/infraflow-ai/infraflow/pkg/server"
	"github.com/infraflow-ai/infraflow/pkg/server/store"
)

// RegisterReportsEndpoints registers report generation and retrieval endpoints
func RegisterReportsEndpoints(s *server.Server) {
	g := &reportGenerator{
		projects:   s.Projects,
		documents:  s.Documents,
		models:     s.Models,
		risks:      s.Risks,
		compliance: s.Compliance,
		reports:    s.Reports,
		checker:    s.Checker,
	}

	// POST /reports - {"project_id": ..., "report_type": "investment_memo"|"compliance"}
	s.API.HandleFunc("/reports", g.handleCreate()).Methods("POST")

	// GET /reports/{id}?format=markdown|html
	s.API.HandleFunc("/reports/{id}", handleGetReport(s.Reports)).Methods("GET")
}

// RenderedReport is a report in the requested format.
type RenderedReport struct {
	ID            *uuid.UUID    `json:"id,omitempty"`
	ProjectID     uuid.UUID     `json:"project_id"`
	Title         string        `json:"title"`
	ReportType    string        `json:"report_type"`
	Format        report.Format `json:"format"`
	Content       string        `json:"content"`
	OverallStatus string        `json:"overall_status,omitempty"`
	GeneratedBy   string        `json:"generated_by,omitempty"`
}

type reportRequest struct {
	ProjectID  uuid.UUID `json:"project_id"`
	ReportType string    `json:"report_type"`
	Title      string    `json:"title"`
}

type reportGenerator struct {
	projects   store.ProjectStore
	documents  store.DocumentStore
	models     store.FinancialModelStore
	risks      store.RiskStore
	compliance store.ComplianceStore
	reports    store.ReportStore
	checker    *compliance.Checker
}

func (g *reportGenerator) handleCreate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req reportRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.ProjectID == uuid.Nil {
			respondWithError(w, http.StatusUnprocessableEntity, "project_id is required")
			return
		}
		if req.ReportType == "" {
			req.ReportType = report.TypeInvestmentMemo
		}
		if req.ReportType != report.TypeInvestmentMemo && req.ReportType != report.TypeCompliance {
			respondWithError(w, http.StatusUnprocessableEntity,
				fmt.Sprintf("report_type must be %s or %s", report.TypeInvestmentMemo, report.TypeCompliance))
			return
		}

		p, ok := fetchProject(w, r, g.projects, req.ProjectID)
		if !ok || !authorizeProject(w, r, p) {
			return
		}

		var (
			markdown string
			title    string
			err      error
		)
		switch req.ReportType {
		case report.TypeCompliance:
			title = "Compliance Report: " + p.Name
			markdown, err = g.complianceMarkdown(r, p)
		default:
			title = "Investment Memo: " + p.Name
			markdown, err = g.memoMarkdown(r, p)
		}
		if err != nil {
			respondWithStoreError(w, r, err, "gather report data")
			return
		}
		if req.Title != "" {
			title = req.Title
		}

		id := caller(r)
		rep := report.New(*p, req.ReportType, title, markdown, id.UserID)
		rep.CreatedBy = &id.UserID
		if err := g.reports.CreateReport(r.Context(), &rep); err != nil {
			respondWithStoreError(w, r, err, "store report")
			return
		}

		audit.Log(r.Context(), audit.AnalysisEvent{
			Actor:     id.Actor(),
			Kind:      audit.AnalysisReport,
			ProjectID: p.ID.String(),
			RecordID:  rep.ID.String(),
			Success:   true,
			Summary:   map[string]any{"report_type": rep.ReportType},
		})
		respondWithJSON(w, http.StatusCreated, rep)
	}
}

func (g *reportGenerator) complianceMarkdown(r *http.Request, p *model.Project) (string, error) {
	docs, err := g.documents.ListDocuments(r.Context(), p.ID)
	if err != nil {
		return "", err
	}
	return compliance.Report(g.checker.CheckProject(*p, docs)), nil
}

// memoMarkdown gathers the latest model, latest assessment and stored checks
// concurrently. A project without a model or assessment still gets a memo.
func (g *reportGenerator) memoMarkdown(r *http.Request, p *model.Project) (string, error) {
	in := report.MemoInput{Project: *p, Generated: time.Now()}

	eg, ctx := errgroup.WithContext(r.Context())
	eg.Go(func() error {
		m, err := g.models.LatestFinancialModel(ctx, p.ID)
		if errors.Is(err, store.ErrModelNotFound) {
			return nil
		}
		in.Model = m
		return err
	})
	eg.Go(func() error {
		a, err := g.risks.LatestAssessment(ctx, p.ID)
		if errors.Is(err, store.ErrAssessmentNotFound) {
			return nil
		}
		in.Risk = a
		return err
	})
	eg.Go(func() error {
		checks, err := g.compliance.ListChecks(ctx, p.ID)
		in.Checks = checks
		return err
	})
	if err := eg.Wait(); err != nil {
		return "", err
	}
	return report.InvestmentMemo(in), nil
}

func handleGetReport(reports store.ReportStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format, err := report.ParseFormat(r.URL.Query().Get("format"))
		if err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		rep, err := reports.GetReport(r.Context(), id)
		if err != nil {
			respondWithStoreError(w, r, err, "fetch report")
			return
		}

		markdown, err := report.Markdown(*rep)
		if err != nil {
			respondWithStoreError(w, r, err, "decode report")
			return
		}
		content, err := report.Render(markdown, format)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondWithJSON(w, http.StatusOK, RenderedReport{
			ID:          &rep.ID,
			ProjectID:   rep.ProjectID,
			Title:       rep.Title,
			ReportType:  rep.ReportType,
			Format:      format,
			Content:     content,
			GeneratedBy: rep.GeneratedBy,
		})
	}
}
