package endpoints

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/infraflow-ai/infraflow/pkg/config"
	"github.com/infraflow-ai/infraflow/pkg/server/store"
)

func TestHandleInfo(t *testing.T) {
	handler := handleInfo(config.Default())

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	handler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")
	info := decodeBody[InfoResponse](t, w)
	assert.Equal(t, "Welcome to InfraFlow AI API", info.Message)
	assert.Equal(t, "/api/v1", info.Docs)
}

func TestHandleHealth(t *testing.T) {
	t.Run("healthy when the database answers", func(t *testing.T) {
		health := new(MockHealthStore)
		health.On("CheckConnectivity", mock.Anything).Return(nil)

		w := httptest.NewRecorder()
		handleHealth(config.Default(), health)(w, httptest.NewRequest("GET", "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decodeBody[HealthResponse](t, w)
		assert.Equal(t, "healthy", resp.Status)
		assert.Equal(t, "connected", resp.Database)
		assert.Equal(t, "0.1.0", resp.Version)
		health.AssertExpectations(t)
	})

	t.Run("unhealthy when the database is down", func(t *testing.T) {
		health := new(MockHealthStore)
		health.On("CheckConnectivity", mock.Anything).Return(errors.New("connection refused"))

		w := httptest.NewRecorder()
		handleHealth(config.Default(), health)(w, httptest.NewRequest("GET", "/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		resp := decodeBody[HealthResponse](t, w)
		assert.Equal(t, "unhealthy", resp.Status)
		assert.Equal(t, "disconnected", resp.Database)
	})

	t.Run("unhealthy without a database", func(t *testing.T) {
		w := httptest.NewRecorder()
		handleHealth(config.Default(), nil)(w, httptest.NewRequest("GET", "/health", nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestRespondWithError(t *testing.T) {
	w := httptest.NewRecorder()
	respondWithError(w, http.StatusTeapot, "short and stout")

	assert.Equal(t, http.StatusTeapot, w.Code)
	body := errorMessage(t, w)
	assert.Equal(t, "short and stout", body.Message)
	assert.Equal(t, http.StatusTeapot, body.StatusCode)
	_, err := time.Parse(time.RFC3339, body.Timestamp)
	assert.NoError(t, err)
}

func TestRespondWithStoreError(t *testing.T) {
	tests := []struct {
		err     error
		code    int
		message string
	}{
		{store.ErrProjectNotFound, http.StatusNotFound, "Project not found"},
		{store.ErrReportNotFound, http.StatusNotFound, "Report not found"},
		{errors.Join(errors.New("wrapped"), store.ErrDocumentNotFound), http.StatusNotFound, "Document not found"},
		{errors.New("disk on fire"), http.StatusInternalServerError, "Failed to do things"},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			w := httptest.NewRecorder()
			respondWithStoreError(w, requestWithIdentity("GET", "/", nil, owner), tt.err, "do things")
			assert.Equal(t, tt.code, w.Code)
			assert.Equal(t, tt.message, errorMessage(t, w).Message)
		})
	}
}
