package endpoints

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/infraflow-ai/infraflow/pkg/compliance"
	"github.com/infraflow-ai/infraflow/pkg/model"
	"github.com/infraflow-ai/infraflow/pkg/report"
)

func TestHandleComplianceCheck(t *testing.T) {
	p := testProject("Solar Park", owner.UserID)
	p.DFIPartners = model.JSON([]string{"EBRD"})

	t.Run("checks the applicable standards and stores one row each", func(t *testing.T) {
		projects := new(MockProjectStore)
		projects.On("GetProject", mock.Anything, p.ID).Return(p, nil)
		documents := new(MockDocumentStore)
		documents.On("ListDocuments", mock.Anything, p.ID).Return([]model.Document{}, nil)
		checks := new(MockComplianceStore)
		var saved []model.ComplianceCheck
		checks.On("SaveChecks", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
			saved = args.Get(1).([]model.ComplianceCheck)
		}).Return(nil)

		w := httptest.NewRecorder()
		handleComplianceCheck(projects, documents, checks, compliance.NewChecker())(w,
			requestWithIdentity("POST", "/", map[string]any{"project_id": p.ID}, owner))

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		result := decodeBody[compliance.Result](t, w)
		assert.Equal(t, []string{compliance.EBRDEnvironmental, compliance.ESGScoring, compliance.LocalContent}, result.StandardsChecked)
		require.Len(t, saved, 3)
		for _, row := range saved {
			assert.Equal(t, p.ID, row.ProjectID)
			assert.Equal(t, owner.UserID, row.Reviewer)
		}
	})

	t.Run("explicit standards, unknown ones skipped", func(t *testing.T) {
		projects := new(MockProjectStore)
		projects.On("GetProject", mock.Anything, p.ID).Return(p, nil)
		documents := new(MockDocumentStore)
		documents.On("ListDocuments", mock.Anything, p.ID).Return([]model.Document{}, nil)
		checks := new(MockComplianceStore)
		checks.On("SaveChecks", mock.Anything, mock.MatchedBy(func(rows []model.ComplianceCheck) bool {
			return len(rows) == 1 && rows[0].Standard == compliance.EUTaxonomy
		})).Return(nil)

		w := httptest.NewRecorder()
		handleComplianceCheck(projects, documents, checks, compliance.NewChecker())(w, requestWithIdentity("POST", "/",
			map[string]any{"project_id": p.ID, "standards": []string{"eu_taxonomy", "iso_9001"}}, owner))

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		checks.AssertExpectations(t)
	})

	t.Run("nothing known to check", func(t *testing.T) {
		projects := new(MockProjectStore)
		projects.On("GetProject", mock.Anything, p.ID).Return(p, nil)
		documents := new(MockDocumentStore)
		documents.On("ListDocuments", mock.Anything, p.ID).Return([]model.Document{}, nil)

		w := httptest.NewRecorder()
		handleComplianceCheck(projects, documents, new(MockComplianceStore), compliance.NewChecker())(w, requestWithIdentity("POST", "/",
			map[string]any{"project_id": p.ID, "standards": []string{"iso_9001"}}, owner))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestHandleListComplianceChecks(t *testing.T) {
	p := testProject("Solar Park", owner.UserID)
	projects := new(MockProjectStore)
	projects.On("GetProject", mock.Anything, p.ID).Return(p, nil)
	checks := new(MockComplianceStore)
	checks.On("ListChecks", mock.Anything, p.ID).Return([]model.ComplianceCheck{
		{Standard: compliance.LocalContent, Status: model.ComplianceStatusCompliant},
		{Standard: compliance.ESGScoring, Status: model.ComplianceStatusNeedsReview},
		{Standard: compliance.IFCPerformance, Status: model.ComplianceStatusNeedsReview},
	}, nil)

	w := httptest.NewRecorder()
	handleListComplianceChecks(projects, checks)(w, withMuxVars(requestWithIdentity("GET", "/", nil, other), map[string]string{"project_id": p.ID.String()}))

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeBody[ComplianceChecksResponse](t, w)
	assert.Len(t, resp.Checks, 3)
	assert.Equal(t, map[string]int{"compliant": 1, "needs_review": 2}, resp.ByStatus)
}

func TestHandleComplianceReport(t *testing.T) {
	p := testProject("Solar Park", owner.UserID)
	projects := new(MockProjectStore)
	projects.On("GetProject", mock.Anything, p.ID).Return(p, nil)
	documents := new(MockDocumentStore)
	documents.On("ListDocuments", mock.Anything, p.ID).Return([]model.Document{}, nil)

	t.Run("markdown by default", func(t *testing.T) {
		w := httptest.NewRecorder()
		handleComplianceReport(projects, documents, compliance.NewChecker())(w,
			withMuxVars(requestWithIdentity("GET", "/", nil, other), map[string]string{"project_id": p.ID.String()}))

		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeBody[RenderedReport](t, w)
		assert.Equal(t, report.FormatMarkdown, resp.Format)
		assert.Contains(t, resp.Content, "# Compliance Report")
	})

	t.Run("html on request", func(t *testing.T) {
		w := httptest.NewRecorder()
		handleComplianceReport(projects, documents, compliance.NewChecker())(w,
			withMuxVars(requestWithIdentity("GET", "/?format=html", nil, other), map[string]string{"project_id": p.ID.String()}))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, decodeBody[RenderedReport](t, w).Content, "<h1>Compliance Report")
	})

	t.Run("unknown format", func(t *testing.T) {
		w := httptest.NewRecorder()
		handleComplianceReport(projects, documents, compliance.NewChecker())(w,
			withMuxVars(requestWithIdentity("GET", "/?format=pdf", nil, other), map[string]string{"project_id": p.ID.String()}))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}
