package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/docspace-ai/docspace/internal/core"
	"github.com/docspace-ai/docspace/internal/models"
	"github.com/docspace-ai/docspace/internal/pkg/logger"
)

func newWorkspaceFixture(t *testing.T) (*WorkspaceService, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	return NewWorkspaceService(store, NewGuard(store), logger.Nop()), store
}

func TestEnsureDefault_IsIdempotent(t *testing.T) {
	svc, store := newWorkspaceFixture(t)

	for i := 0; i < 3; i++ {
		if err := svc.EnsureDefault(context.Background(), 1); err != nil {
			t.Fatalf("ensure default: %v", err)
		}
	}

	workspaces, _ := store.ListWorkspacesByUser(context.Background(), 1)
	if len(workspaces) != 1 {
		t.Fatalf("want exactly one default workspace, got %d", len(workspaces))
	}
	if workspaces[0].Name != defaultWorkspaceName {
		t.Fatalf("default workspace name = %q", workspaces[0].Name)
	}
}

func TestEnsureDefault_SkipsWhenWorkspaceExists(t *testing.T) {
	svc, store := newWorkspaceFixture(t)

	if _, err := svc.Create(context.Background(), 1, "mine", nil); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.EnsureDefault(context.Background(), 1); err != nil {
		t.Fatalf("ensure default: %v", err)
	}

	workspaces, _ := store.ListWorkspacesByUser(context.Background(), 1)
	if len(workspaces) != 1 {
		t.Fatalf("no extra workspace expected, got %d", len(workspaces))
	}
}

func TestDelete_CascadesDocumentsConversationsMessages(t *testing.T) {
	svc, store := newWorkspaceFixture(t)
	ctx := context.Background()

	ws, err := svc.Create(ctx, 1, "to delete", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	doc := &models.Document{ID: uuid.NewString(), UserID: 1, WorkspaceID: ws.ID, Name: "d", Content: "c"}
	if err := store.CreateDocument(ctx, doc); err != nil {
		t.Fatalf("seed document: %v", err)
	}
	conv := &models.Conversation{ID: uuid.NewString(), UserID: 1, WorkspaceID: ws.ID, Title: "t"}
	if err := store.CreateConversation(ctx, conv); err != nil {
		t.Fatalf("seed conversation: %v", err)
	}
	msg := &models.Message{ID: uuid.NewString(), ConversationID: conv.ID, Role: models.RoleUser, Content: "hi"}
	if err := store.CreateMessage(ctx, msg); err != nil {
		t.Fatalf("seed message: %v", err)
	}

	if err := svc.Delete(ctx, 1, ws.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if got, _ := store.GetWorkspaceByID(ctx, ws.ID); got != nil {
		t.Fatal("workspace still present")
	}
	if docs, _ := store.ListDocumentsByWorkspace(ctx, ws.ID); len(docs) != 0 {
		t.Fatalf("orphan documents: %d", len(docs))
	}
	if convs, _ := store.ListConversationsByWorkspace(ctx, ws.ID); len(convs) != 0 {
		t.Fatalf("orphan conversations: %d", len(convs))
	}
	if msgs, _ := store.ListMessagesByConversation(ctx, conv.ID); len(msgs) != 0 {
		t.Fatalf("orphan messages: %d", len(msgs))
	}
}

func TestDelete_ForeignWorkspaceIsNotFound(t *testing.T) {
	svc, _ := newWorkspaceFixture(t)

	ws, err := svc.Create(context.Background(), 1, "mine", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(context.Background(), 2, ws.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestUpdate_GuardsOwnershipAndBlankName(t *testing.T) {
	svc, store := newWorkspaceFixture(t)
	ctx := context.Background()

	ws, err := svc.Create(ctx, 1, "original", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	blank := "  "
	var ve *core.ValidationError
	if err := svc.Update(ctx, 1, ws.ID, &blank, nil); !errors.As(err, &ve) {
		t.Fatalf("want ValidationError for blank name, got %v", err)
	}

	newName := "renamed"
	if err := svc.Update(ctx, 2, ws.ID, &newName, nil); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("want ErrNotFound for foreign update, got %v", err)
	}

	if err := svc.Update(ctx, 1, ws.ID, &newName, nil); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := store.GetWorkspaceByID(ctx, ws.ID)
	if got.Name != "renamed" {
		t.Fatalf("name = %q", got.Name)
	}
}
