package endpoints

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/infraflow-ai/infraflow/pkg/finance"
	"github.com/infraflow-ai/infraflow/pkg/model"
	"github.com/infraflow-ai/infraflow/pkg/server/store"
)

var windFarm = map[string]float64{
	finance.KeyInitialInvestment: 1000,
	finance.KeyAnnualRevenue:     300,
	finance.KeyAnnualCosts:       60,
	finance.KeyProjectLifetime:   10,
}

func TestHandleCreateFinancialModel(t *testing.T) {
	p := testProject("Wind Farm", owner.UserID)
	p.Currency = "EUR"

	t.Run("builds and stores a DCF model", func(t *testing.T) {
		projects := new(MockProjectStore)
		projects.On("GetProject", mock.Anything, p.ID).Return(p, nil)
		models := new(MockFinancialModelStore)
		models.On("CreateFinancialModel", mock.Anything, mock.MatchedBy(func(m *model.FinancialModel) bool {
			return m.ProjectID == p.ID && m.ModelType == model.ModelTypeDCF && m.NPV != nil
		})).Return(nil)

		w := httptest.NewRecorder()
		handleCreateFinancialModel(projects, models, finance.NewEngine(100))(w, requestWithIdentity("POST", "/",
			map[string]any{"project_id": p.ID, "model_type": "dcf", "assumptions": windFarm}, owner))

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		resp := decodeBody[map[string]any](t, w)
		assert.Equal(t, "EUR", resp["currency"])
		assert.Equal(t, 10.0, resp["project_life_years"])
		results := resp["results"].(map[string]any)
		assert.NotNil(t, results["npv"])
		assert.NotNil(t, results["irr"])
		assert.Contains(t, results["sensitivity_analysis"], finance.KeyDiscountRate)
		models.AssertExpectations(t)
	})

	t.Run("monte carlo with a seed", func(t *testing.T) {
		projects := new(MockProjectStore)
		projects.On("GetProject", mock.Anything, p.ID).Return(p, nil)
		models := new(MockFinancialModelStore)
		models.On("CreateFinancialModel", mock.Anything, mock.Anything).Return(nil)

		w := httptest.NewRecorder()
		handleCreateFinancialModel(projects, models, finance.NewEngine(100))(w, requestWithIdentity("POST", "/", map[string]any{
			"project_id": p.ID, "model_type": "monte_carlo", "assumptions": windFarm,
			"num_simulations": 50, "seed": 7,
		}, owner))

		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		resp := decodeBody[FinancialModelResponse](t, w)
		require.NotNil(t, resp.Results.MonteCarlo)
		assert.Equal(t, 50, resp.Results.MonteCarlo.NumSimulations)
	})

	badRequests := []struct {
		name string
		body map[string]any
	}{
		{"missing project", map[string]any{"assumptions": windFarm}},
		{"missing assumptions", map[string]any{"project_id": p.ID}},
		{"too many simulations", map[string]any{"project_id": p.ID, "assumptions": windFarm, "num_simulations": maxSimulations + 1}},
	}
	for _, tt := range badRequests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handleCreateFinancialModel(new(MockProjectStore), new(MockFinancialModelStore), finance.NewEngine(100))(w,
				requestWithIdentity("POST", "/", tt.body, owner))
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		})
	}

	t.Run("invalid lifetime is a 422", func(t *testing.T) {
		projects := new(MockProjectStore)
		projects.On("GetProject", mock.Anything, p.ID).Return(p, nil)
		models := new(MockFinancialModelStore)

		w := httptest.NewRecorder()
		handleCreateFinancialModel(projects, models, finance.NewEngine(100))(w, requestWithIdentity("POST", "/",
			map[string]any{"project_id": p.ID, "assumptions": map[string]float64{finance.KeyProjectLifetime: 0}}, owner))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, errorMessage(t, w).Message, "project_lifetime")
		models.AssertNotCalled(t, "CreateFinancialModel", mock.Anything, mock.Anything)
	})
}

func TestHandleGetFinancialModel(t *testing.T) {
	id := uuid.New()
	models := new(MockFinancialModelStore)
	models.On("GetFinancialModel", mock.Anything, id).Return(nil, store.ErrModelNotFound)

	w := httptest.NewRecorder()
	handleGetFinancialModel(models)(w, withMuxVars(requestWithIdentity("GET", "/", nil, owner), map[string]string{"id": id.String()}))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Financial model not found", errorMessage(t, w).Message)
}

func TestHandleListFinancialModels(t *testing.T) {
	p := testProject("Wind Farm", owner.UserID)
	projects := new(MockProjectStore)
	projects.On("GetProject", mock.Anything, p.ID).Return(p, nil)
	models := new(MockFinancialModelStore)
	models.On("ListFinancialModels", mock.Anything, p.ID).Return(nil, nil)

	w := httptest.NewRecorder()
	handleListFinancialModels(projects, models)(w, withMuxVars(requestWithIdentity("GET", "/", nil, other), map[string]string{"id": p.ID.String()}))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestHandleRunScenarios(t *testing.T) {
	p := testProject("Wind Farm", owner.UserID)
	m := &model.FinancialModel{ModelType: model.ModelTypeDCF, Assumptions: model.JSON(windFarm)}
	m.ID = uuid.New()
	m.ProjectID = p.ID

	projects := new(MockProjectStore)
	projects.On("GetProject", mock.Anything, p.ID).Return(p, nil)
	models := new(MockFinancialModelStore)
	models.On("GetFinancialModel", mock.Anything, m.ID).Return(m, nil)
	models.On("UpdateFinancialModel", mock.Anything, m).Return(nil)

	body := map[string]any{"scenarios": []map[string]any{
		{"name": "Downside", "probability": 0.25, "assumptions_override": map[string]float64{finance.KeyAnnualRevenue: 200}},
		{"probability": 0.75, "assumptions_override": map[string]float64{}},
	}}
	w := httptest.NewRecorder()
	handleRunScenarios(projects, models, finance.NewEngine(100))(w,
		withMuxVars(requestWithIdentity("POST", "/", body, owner), map[string]string{"id": m.ID.String()}))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	resp := decodeBody[ScenariosResponse](t, w)
	require.Len(t, resp.Scenarios, 2)
	assert.Equal(t, "Downside", resp.Scenarios[0].Name)
	assert.Equal(t, "Unnamed Scenario", resp.Scenarios[1].Name)
	assert.Less(t, resp.Scenarios[0].NPV, resp.Scenarios[1].NPV)
	assert.NotEmpty(t, m.Scenarios)
	models.AssertExpectations(t)
}
