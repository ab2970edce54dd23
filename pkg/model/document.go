package model

import (
	"time"

	"gorm.io/datatypes"
)

// Processing states of a document.
const (
	ProcessingPending    = "pending"
	ProcessingProcessing = "processing"
	ProcessingCompleted  = "completed"
	ProcessingFailed     = "failed"
)

type Document struct {
	ProjectChild
	Name             string         `gorm:"not null" json:"name"`
	Type             DocumentType   `gorm:"type:text;not null" json:"type"`
	FilePath         string         `json:"file_path,omitempty"`
	FileSize         *int64         `json:"file_size,omitempty"`
	MimeType         string         `json:"mime_type,omitempty"`
	URL              string         `gorm:"column:url" json:"url,omitempty"`
	PageCount        *int           `json:"page_count,omitempty"`
	Language         string         `json:"language,omitempty"`
	Processed        bool           `gorm:"default:false" json:"processed"`
	ProcessedAt      *time.Time     `json:"processed_at,omitempty"`
	ProcessingStatus string         `gorm:"default:pending" json:"processing_status"`
	ConfidenceScore  *float64       `json:"confidence_score,omitempty"`
	ExtractedData    datatypes.JSON `json:"extracted_data,omitempty"`
	EmbeddingsID     *string        `gorm:"column:embeddings_id" json:"embeddings_id,omitempty"`
}

func (Document) TableName() string {
	return "documents"
}

// Extracted decodes extracted_data into a generic map.
func (d Document) Extracted() map[string]any {
	out := map[string]any{}
	_ = DecodeJSON(d.ExtractedData, &out)
	return out
}
