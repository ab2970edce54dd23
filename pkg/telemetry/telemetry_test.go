package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupDisabledIsNoop(t *testing.T) {
	tests := []Options{
		{Enabled: false, Endpoint: "http://collector:4318"},
		{Enabled: true, Endpoint: ""},
	}
	for _, opts := range tests {
		shutdown, err := Setup(context.Background(), opts)
		require.NoError(t, err)
		assert.NoError(t, shutdown(context.Background()))
	}
}

func TestHandlerPassesThrough(t *testing.T) {
	h := Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}), "test")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
