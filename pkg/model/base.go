package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Base carries the identifier, audit timestamps and soft-delete marker shared by every table.
type Base struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	CreatedBy *string        `json:"created_by,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Metadata  datatypes.JSON `json:"metadata,omitempty"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// JSON marshals v into a JSON column value. A nil v yields SQL NULL.
func JSON(v any) datatypes.JSON {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(data)
}

// DecodeJSON unmarshals a JSON column into v. Empty columns leave v untouched.
func DecodeJSON(col datatypes.JSON, v any) error {
	if len(col) == 0 || string(col) == "null" {
		return nil
	}
	return json.Unmarshal(col, v)
}
