package endpoints

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/infraflow-ai/infraflow/pkg/audit"
	"github.com/infraflow-ai/infraflow/pkg/compliance"
	"github.com/infraflow-ai/infraflow/pkg/model"
	"github.com/infraflow-ai/infraflow/pkg/report"
	"github.com/infraflow-ai/infraflow/pkg/server"
	"github.com/infraflow-ai/infraflow/pkg/server/store"
)

// RegisterComplianceEndpoints registers compliance checking and reporting endpoints
func RegisterComplianceEndpoints(s *server.Server) {
	projects := s.Projects
	documents := s.Documents
	checks := s.Compliance
	checker := s.Checker

	// POST /compliance/check - {"project_id": ..., "standards": [...]}
	s.API.HandleFunc("/compliance/check", handleComplianceCheck(projects, documents, checks, checker)).Methods("POST")

	// GET /compliance/{project_id} - Stored checks
	s.API.HandleFunc("/compliance/{project_id}", handleListComplianceChecks(projects, checks)).Methods("GET")

	// GET /compliance/{project_id}/report?format=markdown|html
	s.API.HandleFunc("/compliance/{project_id}/report", handleComplianceReport(projects, documents, checker)).Methods("GET")
}

type complianceCheckRequest struct {
	ProjectID uuid.UUID `json:"project_id"`
	Standards []string  `json:"standards"`
}

func runCompliance(checker *compliance.Checker, p model.Project, docs []model.Document, standards []string) compliance.Result {
	if len(standards) == 0 {
		return checker.CheckProject(p, docs)
	}
	return checker.CheckStandards(p, docs, standards)
}

func handleComplianceCheck(projects store.ProjectStore, documents store.DocumentStore, checks store.ComplianceStore, checker *compliance.Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req complianceCheckRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.ProjectID == uuid.Nil {
			respondWithError(w, http.StatusUnprocessableEntity, "project_id is required")
			return
		}
		p, ok := fetchProject(w, r, projects, req.ProjectID)
		if !ok || !authorizeProject(w, r, p) {
			return
		}
		docs, err := documents.ListDocuments(r.Context(), p.ID)
		if err != nil {
			respondWithStoreError(w, r, err, "list documents")
			return
		}

		id := caller(r)
		result := runCompliance(checker, *p, docs, req.Standards)
		if len(result.StandardsChecked) == 0 {
			respondWithError(w, http.StatusUnprocessableEntity, "No known standards to check")
			return
		}

		rows := result.Checks(id.UserID)
		for i := range rows {
			rows[i].CreatedBy = &id.UserID
		}
		if err := checks.SaveChecks(r.Context(), rows); err != nil {
			respondWithStoreError(w, r, err, "save compliance checks")
			return
		}

		audit.Log(r.Context(), audit.AnalysisEvent{
			Actor:     id.Actor(),
			Kind:      audit.AnalysisCompliance,
			ProjectID: p.ID.String(),
			Success:   true,
			Summary: map[string]any{
				"overall_status": result.OverallStatus,
				"standards":      result.StandardsChecked,
				"total_issues":   result.TotalIssues,
			},
		})
		respondWithJSON(w, http.StatusOK, result)
	}
}

// ComplianceChecksResponse is returned by GET /compliance/{project_id}
type ComplianceChecksResponse struct {
	ProjectID uuid.UUID               `json:"project_id"`
	Checks    []model.ComplianceCheck `json:"checks"`
	ByStatus  map[string]int          `json:"by_status"`
}

func handleListComplianceChecks(projects store.ProjectStore, checks store.ComplianceStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := loadProject(w, r, projects, "project_id")
		if !ok {
			return
		}
		list, err := checks.ListChecks(r.Context(), p.ID)
		if err != nil {
			respondWithStoreError(w, r, err, "list compliance checks")
			return
		}

		resp := ComplianceChecksResponse{ProjectID: p.ID, Checks: list, ByStatus: map[string]int{}}
		if resp.Checks == nil {
			resp.Checks = []model.ComplianceCheck{}
		}
		for _, c := range list {
			resp.ByStatus[c.Status.String()]++
		}
		respondWithJSON(w, http.StatusOK, resp)
	}
}

func handleComplianceReport(projects store.ProjectStore, documents store.DocumentStore, checker *compliance.Checker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		format, err := report.ParseFormat(r.URL.Query().Get("format"))
		if err != nil {
			respondWithError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		p, ok := loadProject(w, r, projects, "project_id")
		if !ok {
			return
		}
		docs, err := documents.ListDocuments(r.Context(), p.ID)
		if err != nil {
			respondWithStoreError(w, r, err, "list documents")
			return
		}

		result := checker.CheckProject(*p, docs)
		content, err := report.Render(compliance.Report(result), format)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondWithJSON(w, http.StatusOK, RenderedReport{
			ProjectID:     p.ID,
			Title:         "Compliance Report: " + p.Name,
			ReportType:    report.TypeCompliance,
			Format:        format,
			Content:       content,
			OverallStatus: result.OverallStatus,
		})
	}
}
