package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/infraflow-ai/infraflow/pkg/model"
)

// ErrDocumentNotFound is returned when a document doesn't exist
var ErrDocumentNotFound = errors.New("document not found")

// DocumentStore abstracts document persistence. It satisfies
// upload.DocumentWriter.
type DocumentStore interface {
	CreateDocument(ctx context.Context, doc *model.Document) error
	UpdateDocument(ctx context.Context, doc *model.Document) error
	GetDocument(ctx context.Context, id uuid.UUID) (*model.Document, error)

	// ListDocuments returns a project's documents, newest first.
	ListDocuments(ctx context.Context, projectID uuid.UUID) ([]model.Document, error)

	DeleteDocument(ctx context.Context, id uuid.UUID) error
}
