package endpoints

import (
	"context"
	"net/http"
	"time"

	"github.com/infraflow-ai/infraflow/pkg/config"
	"github.com/infraflow-ai/infraflow/pkg/logging"
	"github.com/infraflow-ai/infraflow/pkg/server"
	"github.com/infraflow-ai/infraflow/pkg/server/store"
)

// InfoResponse is returned by GET /
type InfoResponse struct {
	Message     string `json:"message"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
	Docs        string `json:"docs"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Version  string `json:"version"`
	Database string `json:"database"`
}

// RegisterStatusEndpoints registers the public service info and health endpoints
func RegisterStatusEndpoints(s *server.Server) {
	// GET / - Service info (no auth required)
	s.Public.HandleFunc("/", handleInfo(s.Config)).Methods("GET")

	// GET /health - Liveness and database connectivity (no auth required)
	s.Public.HandleFunc("/health", handleHealth(s.Config, s.Health)).Methods("GET")
}

func handleInfo(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, InfoResponse{
			Message:     "Welcome to " + cfg.AppName + " API",
			Version:     cfg.AppVersion,
			Environment: cfg.Environment,
			Docs:        cfg.APIPrefix,
		})
	}
}

func handleHealth(cfg *config.Config, healthStore store.HealthStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := HealthResponse{
			Status:   "healthy",
			Service:  cfg.AppName,
			Version:  cfg.AppVersion,
			Database: "connected",
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if healthStore == nil {
			resp.Status, resp.Database = "unhealthy", "not configured"
		} else if err := healthStore.CheckConnectivity(ctx); err != nil {
			log := logging.Component("health")
			log.Warn().Err(err).Msg("database connectivity check failed")
			resp.Status, resp.Database = "unhealthy", "disconnected"
		}

		code := http.StatusOK
		if resp.Status != "healthy" {
			code = http.StatusServiceUnavailable
		}
		respondWithJSON(w, code, resp)
	}
}
