package services

import (
	"context"

	"github.com/docspace-ai/docspace/internal/core"
	"github.com/docspace-ai/docspace/internal/models"
	"github.com/docspace-ai/docspace/internal/pkg/logger"
)

// DocumentService covers the read/delete side of documents; creation only
// happens through the IngestService.
type DocumentService struct {
	store   core.Store
	storage core.ObjectClient
	guard   *Guard
	bucket  string
	log     *logger.Logger
}

func NewDocumentService(store core.Store, storage core.ObjectClient, guard *Guard, bucket string, log *logger.Logger) *DocumentService {
	return &DocumentService{store: store, storage: storage, guard: guard, bucket: bucket, log: log}
}

func (s *DocumentService) ListByWorkspace(ctx context.Context, userID int64, workspaceID string) ([]models.Document, error) {
	if _, err := s.guard.Workspace(ctx, workspaceID, userID); err != nil {
		return nil, err
	}
	return s.store.ListDocumentsByWorkspace(ctx, workspaceID)
}

func (s *DocumentService) Get(ctx context.Context, userID int64, id string) (*models.Document, error) {
	return s.guard.Document(ctx, id, userID)
}

// Delete removes the document row and, when a blob was uploaded for it, the
// blob as well. A failed blob delete is logged but does not fail the call;
// the row is the source of truth.
func (s *DocumentService) Delete(ctx context.Context, userID int64, id string) error {
	doc, err := s.guard.Document(ctx, id, userID)
	if err != nil {
		return err
	}

	if doc.FileURL != nil {
		mime := ""
		if doc.MimeType != nil {
			mime = *doc.MimeType
		}
		key := objectKey(doc.UserID, doc.ID, mime)
		if err := s.storage.DeleteFile(ctx, s.bucket, key); err != nil {
			s.log.Warn("blob delete failed, row removed anyway",
				"document_id", doc.ID, "key", key, "error", err)
		}
	}

	return s.store.DeleteDocument(ctx, id)
}
