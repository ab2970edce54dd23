package model

// All lists every model in dependency order, for AutoMigrate on SQLite.
func All() []any {
	return []any{
		&Project{},
		&Document{},
		&FinancialModel{},
		&ComplianceCheck{},
		&RiskAssessment{},
		&Stakeholder{},
		&Report{},
		&AuditLog{},
	}
}
