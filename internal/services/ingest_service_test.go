package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/docspace-ai/docspace/internal/core"
	"github.com/docspace-ai/docspace/internal/models"
	"github.com/docspace-ai/docspace/internal/pkg/logger"
)

func newIngestFixture(t *testing.T, ext *fixedExtractor) (*IngestService, *fakeStore, *fakeObjectClient, *models.Workspace) {
	t.Helper()

	store := newFakeStore()
	obj := newFakeObjectClient()
	svc := NewIngestService(store, obj, ext, NewGuard(store), "test-bucket", logger.Nop())

	ws := &models.Workspace{ID: uuid.NewString(), UserID: 1, Name: "inbox"}
	if err := store.CreateWorkspace(context.Background(), ws); err != nil {
		t.Fatalf("create workspace: %v", err)
	}
	return svc, store, obj, ws
}

func TestIngest_LiteralContentRoundTrips(t *testing.T) {
	svc, store, obj, ws := newIngestFixture(t, &fixedExtractor{text: "should not be used"})

	doc, err := svc.Ingest(context.Background(), 1, IngestInput{
		WorkspaceID: ws.ID,
		Name:        "notes.txt",
		Content:     "  hello  ",
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	if doc.Content != "hello" {
		t.Fatalf("content = %q, want trimmed literal", doc.Content)
	}
	if doc.FileURL != nil {
		t.Fatal("file url must be absent for literal-only upload")
	}
	if len(obj.uploads) != 0 {
		t.Fatal("no blob should be stored for literal-only upload")
	}

	stored, _ := store.GetDocumentByID(context.Background(), doc.ID)
	if stored == nil || stored.Content != "hello" {
		t.Fatalf("stored document = %+v", stored)
	}
}

func TestIngest_SupportedExtensionUsesExtractedText(t *testing.T) {
	svc, _, obj, ws := newIngestFixture(t, &fixedExtractor{text: "extracted body"})

	doc, err := svc.Ingest(context.Background(), 1, IngestInput{
		WorkspaceID: ws.ID,
		Name:        "report.pdf",
		Content:     "literal fallback",
		FileData:    []byte("%PDF-1.4 fake"),
		MimeType:    "application/pdf",
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	if doc.Content != "extracted body" {
		t.Fatalf("content = %q, want extracted text", doc.Content)
	}
	if doc.FileURL == nil || !strings.Contains(*doc.FileURL, doc.ID+".pdf") {
		t.Fatalf("file url = %v", doc.FileURL)
	}
	if doc.MimeType == nil || *doc.MimeType != "application/pdf" {
		t.Fatalf("mime type = %v", doc.MimeType)
	}
	if doc.FileSize == nil || *doc.FileSize != int64(len("%PDF-1.4 fake")) {
		t.Fatalf("file size = %v", doc.FileSize)
	}
	if len(obj.uploads) != 1 {
		t.Fatalf("blob count = %d", len(obj.uploads))
	}
}

func TestIngest_ExtractionFailureFallsBackToLiteral(t *testing.T) {
	svc, store, _, ws := newIngestFixture(t, &fixedExtractor{err: errors.New("converter crashed")})

	doc, err := svc.Ingest(context.Background(), 1, IngestInput{
		WorkspaceID: ws.ID,
		Name:        "broken.docx",
		Content:     "the literal text",
		FileData:    []byte("not really a docx"),
		MimeType:    "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	})
	if err != nil {
		t.Fatalf("extraction failure must not fail the upload: %v", err)
	}

	if doc.Content != "the literal text" {
		t.Fatalf("content = %q, want literal fallback", doc.Content)
	}
	if doc.FileURL == nil {
		t.Fatal("blob must still be stored when extraction fails")
	}
	if stored, _ := store.GetDocumentByID(context.Background(), doc.ID); stored == nil {
		t.Fatal("document row missing")
	}
}

func TestIngest_UnsupportedExtensionSkipsExtraction(t *testing.T) {
	// An extractor that would fail loudly if it were ever invoked.
	svc, _, _, ws := newIngestFixture(t, &fixedExtractor{err: errors.New("must not run")})

	doc, err := svc.Ingest(context.Background(), 1, IngestInput{
		WorkspaceID: ws.ID,
		Name:        "photo.png",
		Content:     "caption text",
		FileData:    []byte{0x89, 0x50, 0x4e, 0x47},
		MimeType:    "image/png",
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if doc.Content != "caption text" {
		t.Fatalf("content = %q, want the literal content, never raw bytes", doc.Content)
	}
}

func TestIngest_EmptyExtractionIsValidContent(t *testing.T) {
	svc, _, _, ws := newIngestFixture(t, &fixedExtractor{text: ""})

	doc, err := svc.Ingest(context.Background(), 1, IngestInput{
		WorkspaceID: ws.ID,
		Name:        "blank.pdf",
		Content:     "literal",
		FileData:    []byte("x"),
		MimeType:    "application/pdf",
	})
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if doc.Content != "" {
		t.Fatalf("content = %q, want empty extracted text", doc.Content)
	}
}

func TestIngest_StorageFailureAbortsUpload(t *testing.T) {
	svc, store, obj, ws := newIngestFixture(t, &fixedExtractor{text: "x"})
	obj.fail = true

	_, err := svc.Ingest(context.Background(), 1, IngestInput{
		WorkspaceID: ws.ID,
		Name:        "doc.pdf",
		Content:     "literal",
		FileData:    []byte("data"),
		MimeType:    "application/pdf",
	})
	var se *core.StorageError
	if !errors.As(err, &se) {
		t.Fatalf("want StorageError, got %v", err)
	}

	docs, _ := store.ListDocumentsByWorkspace(context.Background(), ws.ID)
	if len(docs) != 0 {
		t.Fatal("no document row may exist after a storage failure")
	}
}

func TestIngest_ForeignWorkspaceIsNotFound(t *testing.T) {
	svc, store, _, ws := newIngestFixture(t, &fixedExtractor{text: "x"})

	_, err := svc.Ingest(context.Background(), 42, IngestInput{
		WorkspaceID: ws.ID,
		Name:        "notes.txt",
		Content:     "hello",
	})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	docs, _ := store.ListDocumentsByWorkspace(context.Background(), ws.ID)
	if len(docs) != 0 {
		t.Fatal("foreign upload must not persist")
	}
}

func TestIngest_ValidatesRequiredFields(t *testing.T) {
	svc, _, _, ws := newIngestFixture(t, &fixedExtractor{text: "x"})

	cases := []struct {
		name string
		in   IngestInput
	}{
		{"blank workspace", IngestInput{Name: "a.txt", Content: "x"}},
		{"blank name", IngestInput{WorkspaceID: ws.ID, Name: "  ", Content: "x"}},
		{"blank literal without file", IngestInput{WorkspaceID: ws.ID, Name: "a.txt", Content: " "}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Ingest(context.Background(), 1, tc.in)
			var ve *core.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("want ValidationError, got %v", err)
			}
		})
	}
}

func TestObjectKey_DerivedFromMimeSubtype(t *testing.T) {
	if got := objectKey(7, "abc", "application/pdf"); got != "documents/7/abc.pdf" {
		t.Fatalf("key = %q", got)
	}
	if got := objectKey(7, "abc", ""); got != "documents/7/abc.bin" {
		t.Fatalf("key without mime = %q", got)
	}
}
