package endpoints

import (
	"github.com/infraflow-ai/infraflow/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterStatusEndpoints(srv)
	RegisterProjectsEndpoints(srv)
	RegisterDocumentsEndpoints(srv)
	RegisterFinancialModelsEndpoints(srv)
	RegisterComplianceEndpoints(srv)
	RegisterStakeholdersEndpoints(srv)
	RegisterReportsEndpoints(srv)
	RegisterAnalyticsEndpoints(srv)
	RegisterAuditLogEndpoints(srv)
}
