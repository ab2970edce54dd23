package endpoints

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/infraflow-ai/infraflow/pkg/audit"
	"github.com/infraflow-ai/infraflow/pkg/finance"
	"github.com/infraflow-ai/infraflow/pkg/model"
	"github.com/infraflow-ai/infraflow/pkg/server"
	"github.com/infraflow-ai/infraflow/pkg/server/store"
	"github.com/infraflow-ai/infraflow/pkg/telemetry"
)

// maxSimulations bounds num_simulations on a single request.
const maxSimulations = 100_000

// RegisterFinancialModelsEndpoints registers financial model creation, lookup and scenario endpoints
func RegisterFinancialModelsEndpoints(s *server.Server) {
	projects := s.Projects
	models := s.Models
	engine := s.Engine

	// POST /financial-models - Build and store a model
	s.API.HandleFunc("/financial-models", handleCreateFinancialModel(projects, models, engine)).Methods("POST")

	// GET /financial-models/{id}
	s.API.HandleFunc("/financial-models/{id}", handleGetFinancialModel(models)).Methods("GET")

	// POST /financial-models/{id}/run-scenarios
	s.API.HandleFunc("/financial-models/{id}/run-scenarios", handleRunScenarios(projects, models, engine)).Methods("POST")

	// GET /projects/{id}/financial-models
	s.API.HandleFunc("/projects/{id}/financial-models", handleListFinancialModels(projects, models)).Methods("GET")
}

// FinancialModelResponse is a stored model with the full engine output.
type FinancialModelResponse struct {
	*model.FinancialModel
	Results finance.ModelResult `json:"results"`
}

func handleCreateFinancialModel(projects store.ProjectStore, models store.FinancialModelStore, engine *finance.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := telemetry.Tracer("endpoints").Start(r.Context(), "financial_models.create")
		defer span.End()
		r = r.WithContext(ctx)

		var req finance.ModelRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		switch {
		case req.ProjectID == uuid.Nil:
			respondWithError(w, http.StatusUnprocessableEntity, "project_id is required")
			return
		case len(req.Assumptions) == 0:
			respondWithError(w, http.StatusUnprocessableEntity, "assumptions are required")
			return
		case req.Simulations < 0 || req.Simulations > maxSimulations:
			respondWithError(w, http.StatusUnprocessableEntity, fmt.Sprintf("num_simulations must be between 0 and %d", maxSimulations))
			return
		}

		p, ok := fetchProject(w, r, projects, req.ProjectID)
		if !ok || !authorizeProject(w, r, p) {
			return
		}

		id := caller(r)
		result, err := engine.Build(ctx, req)
		if err != nil {
			span.RecordError(err)
			audit.Log(ctx, audit.AnalysisEvent{
				Actor:        id.Actor(),
				Kind:         audit.AnalysisFinancialModel,
				ProjectID:    p.ID.String(),
				ErrorMessage: err.Error(),
			})
			if ctx.Err() != nil {
				respondWithError(w, http.StatusServiceUnavailable, "Model run interrupted")
				return
			}
			respondWithError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		m := result.FinancialModel(req.Assumptions, &id.UserID)
		if p.Currency != "" {
			m.Currency = p.Currency
		}
		if err := models.CreateFinancialModel(ctx, &m); err != nil {
			respondWithStoreError(w, r, err, "store financial model")
			return
		}

		audit.Log(ctx, audit.AnalysisEvent{
			Actor:     id.Actor(),
			Kind:      audit.AnalysisFinancialModel,
			ProjectID: p.ID.String(),
			RecordID:  m.ID.String(),
			Success:   true,
			Summary:   map[string]any{"model_type": m.ModelType, "version": m.Version, "npv": m.NPV, "irr": m.IRR},
		})
		respondWithJSON(w, http.StatusCreated, FinancialModelResponse{FinancialModel: &m, Results: result})
	}
}

func handleGetFinancialModel(models store.FinancialModelStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		m, err := models.GetFinancialModel(r.Context(), id)
		if err != nil {
			respondWithStoreError(w, r, err, "fetch financial model")
			return
		}
		respondWithJSON(w, http.StatusOK, m)
	}
}

func handleListFinancialModels(projects store.ProjectStore, models store.FinancialModelStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := loadProject(w, r, projects, "id")
		if !ok {
			return
		}
		list, err := models.ListFinancialModels(r.Context(), p.ID)
		if err != nil {
			respondWithStoreError(w, r, err, "list financial models")
			return
		}
		if list == nil {
			list = []model.FinancialModel{}
		}
		respondWithJSON(w, http.StatusOK, list)
	}
}

type scenariosRequest struct {
	Scenarios []finance.Scenario `json:"scenarios"`
}

// ScenariosResponse is returned by POST /financial-models/{id}/run-scenarios
type ScenariosResponse struct {
	ModelID   uuid.UUID                `json:"model_id"`
	Scenarios []finance.ScenarioResult `json:"scenarios"`
}

func handleRunScenarios(projects store.ProjectStore, models store.FinancialModelStore, engine *finance.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "id")
		if !ok {
			return
		}
		m, err := models.GetFinancialModel(r.Context(), id)
		if err != nil {
			respondWithStoreError(w, r, err, "fetch financial model")
			return
		}
		p, ok := fetchProject(w, r, projects, m.ProjectID)
		if !ok || !authorizeProject(w, r, p) {
			return
		}

		var req scenariosRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if len(req.Scenarios) == 0 {
			respondWithError(w, http.StatusUnprocessableEntity, "scenarios must list at least one scenario")
			return
		}

		var base finance.Assumptions
		if err := model.DecodeJSON(m.Assumptions, &base); err != nil {
			respondWithStoreError(w, r, errors.Join(errors.New("stored assumptions are not valid JSON"), err), "decode assumptions")
			return
		}

		results := engine.Scenarios(base, req.Scenarios, m.ModelType)
		m.Scenarios = model.JSON(results)
		if err := models.UpdateFinancialModel(r.Context(), m); err != nil {
			respondWithStoreError(w, r, err, "update financial model")
			return
		}

		audit.Log(r.Context(), audit.AnalysisEvent{
			Actor:     caller(r).Actor(),
			Kind:      audit.AnalysisFinancialModel,
			ProjectID: p.ID.String(),
			RecordID:  m.ID.String(),
			Success:   true,
			Summary:   map[string]any{"scenarios": len(results)},
		})
		respondWithJSON(w, http.StatusOK, ScenariosResponse{ModelID: m.ID, Scenarios: results})
	}
}
