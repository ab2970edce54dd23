package audit

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/infraflow-ai/infraflow/pkg/model"
)

// Actor identifies who triggered an event and from where.
type Actor struct {
	UserID    string
	ClientIP  string
	UserAgent string
}

func (a Actor) structuredData() map[string]string {
	sd := map[string]string{"ip": a.ClientIP}
	if a.UserAgent != "" {
		sd["user_agent"] = a.UserAgent
	}
	return sd
}

// entry fills the columns every event shares.
func (a Actor) entry(table, recordID, action string) model.AuditLog {
	return model.AuditLog{
		ID:        uuid.New(),
		Table:     table,
		RecordID:  recordID,
		Action:    action,
		ChangedBy: optional(a.UserID),
		ChangedAt: time.Now().UTC(),
		IPAddress: optional(a.ClientIP),
		UserAgent: optional(a.UserAgent),
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func successLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

func metadata(v map[string]any) datatypes.JSON {
	if len(v) == 0 {
		return nil
	}
	return model.JSON(v)
}
