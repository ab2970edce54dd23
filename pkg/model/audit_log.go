package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AuditLog is append-only and therefore has no soft-delete column.
type AuditLog struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Table     string         `gorm:"column:table_name;not null;index:idx_audit_log_record" json:"table_name"`
	RecordID  string         `gorm:"not null;index:idx_audit_log_record" json:"record_id"`
	Action    string         `gorm:"not null" json:"action"`
	ChangedBy *string        `json:"changed_by,omitempty"`
	ChangedAt time.Time      `json:"changed_at"`
	OldData   datatypes.JSON `json:"old_data,omitempty"`
	NewData   datatypes.JSON `json:"new_data,omitempty"`
	Metadata  datatypes.JSON `json:"metadata,omitempty"`
	IPAddress *string        `json:"ip_address,omitempty"`
	UserAgent *string        `json:"user_agent,omitempty"`
}

func (AuditLog) TableName() string {
	return "audit_log"
}
