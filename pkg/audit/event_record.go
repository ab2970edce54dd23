package audit

import (
	"fmt"
	"strings"

	"github.com/infraflow-ai/infraflow/pkg/model"
)

// Record change actions
const (
	ActionInsert = "INSERT"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// RecordEvent is a create, update or delete of a row in a business table.
type RecordEvent struct {
	Actor
	Table    string
	RecordID string
	Action   string
	Old      any
	New      any
}

func (e RecordEvent) MessageID() string {
	return "record"
}

func (e RecordEvent) Message() string {
	verb := map[string]string{
		ActionInsert: "created",
		ActionUpdate: "updated",
		ActionDelete: "deleted",
	}[e.Action]
	if verb == "" {
		verb = strings.ToLower(e.Action)
	}
	return fmt.Sprintf("%s %s %s/%s", userOrSystem(e.UserID), verb, e.Table, e.RecordID)
}

func (e RecordEvent) Severity() Severity {
	if e.Action == ActionDelete {
		return SeverityNotice
	}
	return SeverityInfo
}

func (e RecordEvent) Facility() int {
	return FacilityLocal0
}

func (e RecordEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDActor:  {"user": userOrSystem(e.UserID)},
		SDIDRecord: {"table": e.Table, "id": e.RecordID},
		SDIDAction: {"operation": strings.ToLower(e.Action)},
		SDIDClient: e.Actor.structuredData(),
	}
}

func (e RecordEvent) Entry() model.AuditLog {
	entry := e.Actor.entry(e.Table, e.RecordID, e.Action)
	if e.Old != nil {
		entry.OldData = model.JSON(e.Old)
	}
	if e.New != nil {
		entry.NewData = model.JSON(e.New)
	}
	return entry
}

func userOrSystem(id string) string {
	if id == "" {
		return "system"
	}
	return id
}
