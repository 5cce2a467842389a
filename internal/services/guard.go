package services

import (
	"context"

	"github.com/docspace-ai/docspace/internal/core"
	"github.com/docspace-ai/docspace/internal/models"
)

// Guard resolves a resource id to its owner and fails closed. A missing
// resource and a resource owned by someone else both come back as
// core.ErrNotFound so callers cannot probe for other users' ids.
type Guard struct {
	store core.Store
}

func NewGuard(store core.Store) *Guard {
	return &Guard{store: store}
}

func (g *Guard) Workspace(ctx context.Context, id string, userID int64) (*models.Workspace, error) {
	ws, err := g.store.GetWorkspaceByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if ws == nil || ws.UserID != userID {
		return nil, core.ErrNotFound
	}
	return ws, nil
}

func (g *Guard) Document(ctx context.Context, id string, userID int64) (*models.Document, error) {
	doc, err := g.store.GetDocumentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if doc == nil || doc.UserID != userID {
		return nil, core.ErrNotFound
	}
	return doc, nil
}

func (g *Guard) Conversation(ctx context.Context, id string, userID int64) (*models.Conversation, error) {
	conv, err := g.store.GetConversationByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if conv == nil || conv.UserID != userID {
		return nil, core.ErrNotFound
	}
	return conv, nil
}
