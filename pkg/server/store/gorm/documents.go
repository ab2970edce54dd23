package gorm

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/infraflow-ai/infraflow/pkg/model"
	"github.com/infraflow-ai/infraflow/pkg/server/store"
)

// Ensure DocumentStore implements store.DocumentStore
var _ store.DocumentStore = (*DocumentStore)(nil)

// DocumentStore implements store.DocumentStore using GORM
type DocumentStore struct {
	db *gorm.DB
}

func NewDocumentStore(db *gorm.DB) *DocumentStore {
	return &DocumentStore{db: db}
}

func (s *DocumentStore) CreateDocument(ctx context.Context, doc *model.Document) error {
	return session(s.db, ctx).Create(doc).Error
}

func (s *DocumentStore) UpdateDocument(ctx context.Context, doc *model.Document) error {
	return update(session(s.db, ctx), doc, store.ErrDocumentNotFound)
}

func (s *DocumentStore) GetDocument(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	var doc model.Document
	if err := session(s.db, ctx).First(&doc, "id = ?", id).Error; err != nil {
		return nil, notFound(err, store.ErrDocumentNotFound)
	}
	return &doc, nil
}

func (s *DocumentStore) ListDocuments(ctx context.Context, projectID uuid.UUID) ([]model.Document, error) {
	var docs []model.Document
	err := session(s.db, ctx).Where("project_id = ?", projectID).Order("created_at DESC").Find(&docs).Error
	return docs, err
}

func (s *DocumentStore) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	tx := session(s.db, ctx).Delete(&model.Document{}, "id = ?", id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return store.ErrDocumentNotFound
	}
	return nil
}
