package audit

import (
	"fmt"

	"github.com/infraflow-ai/infraflow/pkg/model"
)

// Analysis kinds, named after the table each one writes.
const (
	AnalysisFinancialModel = "financial_models"
	AnalysisCompliance     = "compliance_checks"
	AnalysisRisk           = "risk_assessments"
	AnalysisReport         = "reports"
)

// AnalysisEvent is a financial model, compliance check, risk assessment or
// report run against a project.
type AnalysisEvent struct {
	Actor
	Kind         string
	ProjectID    string
	RecordID     string
	Success      bool
	ErrorMessage string
	Summary      map[string]any
}

func (e AnalysisEvent) MessageID() string {
	return "analysis"
}

func (e AnalysisEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s ran %s for project %s", userOrSystem(e.UserID), e.Kind, e.ProjectID)
	}
	msg := fmt.Sprintf("%s failed to run %s for project %s", userOrSystem(e.UserID), e.Kind, e.ProjectID)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e AnalysisEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e AnalysisEvent) Facility() int {
	return FacilityLocal0
}

func (e AnalysisEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDActor:    {"user": userOrSystem(e.UserID)},
		SDIDAnalysis: {"kind": e.Kind, "project": e.ProjectID},
		SDIDAction:   {"result": successLabel(e.Success)},
		SDIDClient:   e.Actor.structuredData(),
	}
}

func (e AnalysisEvent) Entry() model.AuditLog {
	id := e.RecordID
	if id == "" {
		id = e.ProjectID
	}
	entry := e.Actor.entry(e.Kind, id, "ANALYZE")
	meta := map[string]any{"project_id": e.ProjectID, "success": e.Success}
	if e.ErrorMessage != "" {
		meta["error"] = e.ErrorMessage
	}
	entry.Metadata = metadata(meta)
	if len(e.Summary) > 0 {
		entry.NewData = model.JSON(e.Summary)
	}
	return entry
}
