package audit

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/infraflow-ai/infraflow/pkg/model"
)

// UploadEvent is one file accepted or rejected by the upload pipeline.
type UploadEvent struct {
	Actor
	ProjectID    string
	DocumentID   string
	FileName     string
	Size         int64
	Success      bool
	ErrorMessage string
}

func (e UploadEvent) MessageID() string {
	return "upload"
}

func (e UploadEvent) Message() string {
	if e.Success {
		return fmt.Sprintf("%s uploaded %s (%s) to project %s",
			userOrSystem(e.UserID), e.FileName, humanize.IBytes(uint64(max(e.Size, 0))), e.ProjectID)
	}
	msg := fmt.Sprintf("%s failed to upload %s to project %s", userOrSystem(e.UserID), e.FileName, e.ProjectID)
	if e.ErrorMessage != "" {
		msg += ": " + e.ErrorMessage
	}
	return msg
}

func (e UploadEvent) Severity() Severity {
	if e.Success {
		return SeverityInfo
	}
	return SeverityWarning
}

func (e UploadEvent) Facility() int {
	return FacilityLocal0
}

func (e UploadEvent) StructuredData() map[string]map[string]string {
	return map[string]map[string]string{
		SDIDActor:  {"user": userOrSystem(e.UserID)},
		SDIDRecord: {"table": "documents", "id": e.DocumentID, "file": e.FileName},
		SDIDAction: {"operation": "upload", "result": successLabel(e.Success)},
		SDIDClient: e.Actor.structuredData(),
	}
}

func (e UploadEvent) Entry() model.AuditLog {
	id := e.DocumentID
	if id == "" {
		id = e.FileName
	}
	entry := e.Actor.entry("documents", id, "UPLOAD")
	meta := map[string]any{
		"project_id": e.ProjectID,
		"file_name":  e.FileName,
		"file_size":  e.Size,
		"success":    e.Success,
	}
	if e.ErrorMessage != "" {
		meta["error"] = e.ErrorMessage
	}
	entry.Metadata = metadata(meta)
	return entry
}
