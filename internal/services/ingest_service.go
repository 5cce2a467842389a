package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/docspace-ai/docspace/internal/core"
	"github.com/docspace-ai/docspace/internal/core/extractor"
	"github.com/docspace-ai/docspace/internal/models"
	"github.com/docspace-ai/docspace/internal/pkg/logger"
)

// IngestInput is one upload. FileData and MimeType are optional; without
// them the literal Content becomes the document body as-is.
type IngestInput struct {
	WorkspaceID string
	Name        string
	Content     string
	FileData    []byte
	MimeType    string
}

// IngestService turns an upload into a persisted document:
// blob store -> text extractor -> document row. Blob failure aborts the
// upload; extraction failure only falls back to the literal content.
type IngestService struct {
	store   core.Store
	storage core.ObjectClient
	ext     extractor.Extractor
	guard   *Guard
	bucket  string
	log     *logger.Logger
}

func NewIngestService(store core.Store, storage core.ObjectClient, ext extractor.Extractor, guard *Guard, bucket string, log *logger.Logger) *IngestService {
	return &IngestService{store: store, storage: storage, ext: ext, guard: guard, bucket: bucket, log: log}
}

func (s *IngestService) Ingest(ctx context.Context, userID int64, in IngestInput) (*models.Document, error) {
	name := strings.TrimSpace(in.Name)
	content := strings.TrimSpace(in.Content)

	if in.WorkspaceID == "" {
		return nil, core.Invalid("workspace_id", "must not be blank")
	}
	if name == "" {
		return nil, core.Invalid("name", "must not be blank")
	}
	if len(in.FileData) == 0 && content == "" {
		return nil, core.Invalid("content", "must not be blank when no file is attached")
	}

	// One id correlates the blob key, the temp file and the row.
	docID := uuid.NewString()

	var fileURL *string
	var mimeType *string
	var fileSize *int64

	if len(in.FileData) > 0 {
		size := int64(len(in.FileData))
		key := objectKey(userID, docID, in.MimeType)

		url, err := s.storage.UploadFile(ctx, s.bucket, key, in.FileData, in.MimeType)
		if err != nil {
			return nil, &core.StorageError{Err: err}
		}
		fileURL = &url
		fileSize = &size
		if in.MimeType != "" {
			mt := in.MimeType
			mimeType = &mt
		}

		if extractor.Supported(name) {
			out := s.extractFromBytes(ctx, docID, name, in.FileData, content)
			if out.Extracted {
				content = out.Text
			} else {
				s.log.Warn("extraction fell back to literal content",
					"document_id", docID, "name", name, "reason", out.Reason)
			}
		}
	}

	// Ownership must hold at the moment of commit, after the storage and
	// extraction work is done.
	if _, err := s.guard.Workspace(ctx, in.WorkspaceID, userID); err != nil {
		return nil, err
	}

	doc := &models.Document{
		ID:          docID,
		UserID:      userID,
		WorkspaceID: in.WorkspaceID,
		Name:        name,
		Content:     content,
		FileURL:     fileURL,
		MimeType:    mimeType,
		FileSize:    fileSize,
	}
	if err := s.store.CreateDocument(ctx, doc); err != nil {
		return nil, err
	}

	s.log.Info("ingested document",
		"document_id", docID, "workspace_id", in.WorkspaceID, "bytes", len(in.FileData))
	return doc, nil
}

// extractFromBytes writes the upload to a uniquely named temp file, runs the
// extractor on it and removes the file on every exit path.
func (s *IngestService) extractFromBytes(ctx context.Context, docID, name string, data []byte, literal string) extractor.Outcome {
	ext := filepath.Ext(name)
	if ext == "" {
		ext = ".bin"
	}
	tempPath := filepath.Join(os.TempDir(), docID+ext)

	if err := os.WriteFile(tempPath, data, 0o600); err != nil {
		return extractor.Outcome{Text: literal, Reason: fmt.Sprintf("write temp file: %v", err)}
	}
	defer os.Remove(tempPath)

	return extractor.Run(ctx, s.ext, tempPath, literal)
}

// objectKey derives the deterministic blob key for a document. The extension
// comes from the MIME subtype; a generic binary extension otherwise.
func objectKey(userID int64, docID, mimeType string) string {
	ext := "bin"
	if i := strings.Index(mimeType, "/"); i >= 0 && i+1 < len(mimeType) {
		ext = mimeType[i+1:]
	}
	return fmt.Sprintf("documents/%d/%s.%s", userID, docID, ext)
}
