// Package store defines the persistence interfaces used by the HTTP
// endpoints, so handlers can be tested against mocks.
//
// # Available Stores
//
//   - ProjectStore: projects and their child counts
//   - DocumentStore: uploaded documents
//   - FinancialModelStore, ComplianceStore, RiskStore: analysis results
//   - StakeholderStore, ReportStore: project contacts and generated reports
//   - HealthStore: database connectivity
//
// The gorm subpackage implements every interface.
//
//	projects := gorm.NewProjectStore(db)
//	p, err := projects.GetProject(ctx, id)
//	if errors.Is(err, store.ErrProjectNotFound) {
//	    // 404
//	}
package store
