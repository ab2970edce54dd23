package endpoints

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/infraflow-ai/infraflow/pkg/auth"
	"github.com/infraflow-ai/infraflow/pkg/config"
	"github.com/infraflow-ai/infraflow/pkg/model"
	"github.com/infraflow-ai/infraflow/pkg/server"
	"github.com/infraflow-ai/infraflow/pkg/server/store"
)

func newTestServer(t *testing.T, perMinute int) (*server.Server, *auth.Issuer, *MockProjectStore) {
	t.Helper()
	issuer, err := auth.NewIssuer([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.RateLimitPerMinute = perMinute
	s := server.NewServer(cfg, nil, issuer, "127.0.0.1", "0")

	projects := new(MockProjectStore)
	health := new(MockHealthStore)
	health.On("CheckConnectivity", mock.Anything).Return(nil)
	s.Projects = projects
	s.Health = health
	s.Documents = new(MockDocumentStore)
	s.Models = new(MockFinancialModelStore)
	s.Compliance = new(MockComplianceStore)
	s.Risks = new(MockRiskStore)
	s.Stakeholders = new(MockStakeholderStore)
	s.Reports = new(MockReportStore)

	RegisterAll(s)
	return s, issuer, projects
}

func bearer(t *testing.T, issuer *auth.Issuer, role string) string {
	t.Helper()
	token, _, err := issuer.Issue(auth.User{ID: "user-1", Email: "owner@example.org", Role: role})
	require.NoError(t, err)
	return "Bearer " + token
}

func TestRoutes(t *testing.T) {
	s, issuer, projects := newTestServer(t, 60)
	projects.On("ListProjects", mock.Anything, store.ProjectQuery{}).Return([]model.Project{}, nil)
	handler := s.Handler()

	t.Run("health is public", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("api requires a token", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("GET", "/api/v1/projects", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Header().Get("WWW-Authenticate"), "Bearer")
	})

	t.Run("api with a token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/projects", nil)
		req.Header.Set("Authorization", bearer(t, issuer, auth.RoleUser))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.JSONEq(t, `{"items":[],"total":0,"page":1,"page_size":10,"total_pages":0}`, w.Body.String())
	})

	t.Run("audit log needs admin", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/v1/audit-log", nil)
		req.Header.Set("Authorization", bearer(t, issuer, auth.RoleUser))
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("cors preflight from an allowed origin", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/api/v1/projects", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		req.Header.Set("Access-Control-Request-Method", "GET")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestRoutesRateLimited(t *testing.T) {
	s, issuer, projects := newTestServer(t, 2)
	projects.On("ListProjects", mock.Anything, mock.Anything).Return([]model.Project{}, nil)
	handler := s.Handler()
	token := bearer(t, issuer, auth.RoleUser)

	codes := make([]int, 3)
	for i := range codes {
		req := httptest.NewRequest("GET", "/api/v1/projects", nil)
		req.Header.Set("Authorization", token)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		codes[i] = w.Code
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
