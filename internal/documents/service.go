package documents

import (
	"context"
	"fmt"
	"strings"

	"github.com/seaboard-ops/seaboard/internal/purchasing"
)

// RepositoryPort describes repository operations used by Service.
type RepositoryPort interface {
	ListByOrder(ctx context.Context, orderID int64) ([]Document, error)
	Insert(ctx context.Context, doc Document) (int64, error)
	Delete(ctx context.Context, orderID, docID int64) error
}

// Service manages document metadata for purchase orders.
type Service struct {
	repo RepositoryPort
}

// NewService constructs the documents service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns all documents uploaded against an order.
func (s *Service) List(ctx context.Context, orderID int64) ([]Document, error) {
	return s.repo.ListByOrder(ctx, orderID)
}

// Register records the metadata of an externally stored upload.
func (s *Service) Register(ctx context.Context, doc Document) (Document, error) {
	doc.DocumentType = strings.TrimSpace(doc.DocumentType)
	if doc.DocumentType == "" {
		return Document{}, fmt.Errorf("%w: document type required", ErrValidation)
	}
	if !doc.Stage.IsValid() {
		return Document{}, fmt.Errorf("%w: unknown stage %q", ErrValidation, doc.Stage)
	}
	id, err := s.repo.Insert(ctx, doc)
	if err != nil {
		return Document{}, err
	}
	doc.ID = id
	return doc, nil
}

// Remove deletes one document's metadata.
func (s *Service) Remove(ctx context.Context, orderID, docID int64) error {
	return s.repo.Delete(ctx, orderID, docID)
}

// ListForOrder exposes the (stage, type) pairs the workflow engine gates on.
func (s *Service) ListForOrder(ctx context.Context, orderID int64) ([]purchasing.UploadedDocument, error) {
	docs, err := s.repo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	out := make([]purchasing.UploadedDocument, 0, len(docs))
	for _, d := range docs {
		out = append(out, purchasing.UploadedDocument{Stage: d.Stage, DocumentType: d.DocumentType})
	}
	return out, nil
}
