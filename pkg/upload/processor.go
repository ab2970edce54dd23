package upload

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/infraflow-ai/infraflow/pkg/audit"
	"github.com/infraflow-ai/infraflow/pkg/document"
	"github.com/infraflow-ai/infraflow/pkg/logging"
	"github.com/infraflow-ai/infraflow/pkg/model"
)

// DocumentWriter persists document rows.
type DocumentWriter interface {
	CreateDocument(ctx context.Context, doc *model.Document) error
	UpdateDocument(ctx context.Context, doc *model.Document) error
}

// Incoming describes an uploaded file. Contents are not stored.
type Incoming struct {
	Name string
	Size int64
}

// Outcome is the result for one Incoming file. Err holds validation
// failures; the Document row still exists with status failed.
type Outcome struct {
	File     File            `json:"file"`
	Document *model.Document `json:"document"`
	Err      error           `json:"-"`
}

// Processor ingests uploads with the same one-at-a-time loop as Simulator.
type Processor struct {
	Store  DocumentWriter
	Limits document.Limits
}

func NewProcessor(store DocumentWriter, limits document.Limits) *Processor {
	return &Processor{Store: store, Limits: limits}
}

// Process validates, classifies and records each file of a batch. Invalid
// files are recorded as failed and the batch moves on. Store errors abort
// the batch; outcomes for files already handled are returned with the error.
func (p *Processor) Process(ctx context.Context, projectID uuid.UUID, actor audit.Actor, files []Incoming) ([]Outcome, error) {
	log := logging.Component("upload")
	batch := uuid.NewString()
	outcomes := make([]Outcome, 0, len(files))

	err := sequence(ctx, len(files), func(ctx context.Context, i int) error {
		out, err := p.ingest(ctx, projectID, actor, batch, files[i])
		if err != nil {
			return fmt.Errorf("upload %q: %w", files[i].Name, err)
		}
		outcomes = append(outcomes, out)

		event := audit.UploadEvent{
			Actor:      actor,
			ProjectID:  projectID.String(),
			DocumentID: out.Document.ID.String(),
			FileName:   files[i].Name,
			Size:       files[i].Size,
			Success:    out.Err == nil,
		}
		if out.Err != nil {
			event.ErrorMessage = out.Err.Error()
			log.Warn().Err(out.Err).Str("file", files[i].Name).Str("batch", batch).Msg("rejected upload")
		} else {
			log.Debug().Str("file", files[i].Name).Str("batch", batch).Str("type", out.Document.Type.String()).Msg("accepted upload")
		}
		audit.Log(ctx, event)
		return nil
	})
	return outcomes, err
}

func (p *Processor) ingest(ctx context.Context, projectID uuid.UUID, actor audit.Actor, batch string, in Incoming) (Outcome, error) {
	size := in.Size
	doc := &model.Document{
		ProjectChild:     model.ProjectChild{ProjectID: projectID},
		Name:             in.Name,
		Type:             document.DetectType(in.Name),
		FileSize:         &size,
		MimeType:         document.MimeType(in.Name),
		FilePath:         fmt.Sprintf("uploads/%s/%s/%s", projectID, batch, storedName(in.Name)),
		ProcessingStatus: model.ProcessingPending,
	}
	if actor.UserID != "" {
		doc.CreatedBy = &actor.UserID
	}
	doc.Metadata = model.JSON(map[string]any{"batch_id": batch})

	if err := p.Store.CreateDocument(ctx, doc); err != nil {
		return Outcome{}, err
	}

	out := Outcome{File: File{Name: in.Name, Status: StatusSuccess}, Document: doc}
	if verr := document.Validate(in.Name, in.Size, p.Limits); verr != nil {
		out.Err = verr
		out.File.Status = StatusFailed
		doc.ProcessingStatus = model.ProcessingFailed
		doc.Metadata = model.JSON(map[string]any{"batch_id": batch, "error": verr.Error()})
	} else {
		doc.ProcessingStatus = model.ProcessingCompleted
	}

	if err := p.Store.UpdateDocument(ctx, doc); err != nil {
		return Outcome{}, err
	}
	return out, nil
}

// storedName reduces a client supplied filename to its last element, so it
// can never climb out of the batch directory. Windows separators count too.
func storedName(name string) string {
	base := path.Base(strings.ReplaceAll(name, `\`, "/"))
	switch base {
	case ".", "..", "/":
		return "unnamed"
	}
	return base
}
