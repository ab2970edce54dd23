package endpoints

import (
	"context"
	"net/http"
	"strconv"

	"github.com/infraflow-ai/infraflow/pkg/audit"
	"github.com/infraflow-ai/infraflow/pkg/model"
	"github.com/infraflow-ai/infraflow/pkg/server"
)

// AuditReader lists audit log entries. *audit.Store satisfies it.
type AuditReader interface {
	List(ctx context.Context, q audit.Query) ([]model.AuditLog, error)
}

// RegisterAuditLogEndpoints registers the admin audit log endpoint
func RegisterAuditLogEndpoints(s *server.Server) {
	var reader AuditReader
	if s.AuditLog != nil {
		reader = s.AuditLog
	}

	// GET /audit-log?table=&record_id=&limit= - Admin only
	s.API.HandleFunc("/audit-log", handleListAuditLog(reader)).Methods("GET")
}

func handleListAuditLog(reader AuditReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !caller(r).IsAdmin() {
			respondWithError(w, http.StatusForbidden, "Admin role required")
			return
		}
		if reader == nil {
			respondWithError(w, http.StatusServiceUnavailable, "Audit log is not available")
			return
		}

		query := r.URL.Query()
		q := audit.Query{
			Table:    query.Get("table"),
			RecordID: query.Get("record_id"),
		}
		if v := query.Get("limit"); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 1 || n > 1000 {
				respondWithError(w, http.StatusUnprocessableEntity, "limit must be an integer between 1 and 1000")
				return
			}
			q.Limit = n
		}

		entries, err := reader.List(r.Context(), q)
		if err != nil {
			respondWithStoreError(w, r, err, "list audit log")
			return
		}
		if entries == nil {
			entries = []model.AuditLog{}
		}
		respondWithJSON(w, http.StatusOK, entries)
	}
}
