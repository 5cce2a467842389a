package services

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/docspace-ai/docspace/internal/core"
	"github.com/docspace-ai/docspace/internal/models"
	"github.com/docspace-ai/docspace/internal/pkg/logger"
)

const defaultWorkspaceName = "Default Workspace"

type WorkspaceService struct {
	store core.Store
	guard *Guard
	log   *logger.Logger
}

func NewWorkspaceService(store core.Store, guard *Guard, log *logger.Logger) *WorkspaceService {
	return &WorkspaceService{store: store, guard: guard, log: log}
}

func (s *WorkspaceService) Create(ctx context.Context, userID int64, name string, description *string) (*models.Workspace, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, core.Invalid("name", "must not be blank")
	}

	ws := &models.Workspace{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        name,
		Description: description,
	}
	if err := s.store.CreateWorkspace(ctx, ws); err != nil {
		return nil, err
	}
	return ws, nil
}

// EnsureDefault creates the user's default workspace if they have none yet.
// Idempotent; invoked from the auth boundary on every "me" lookup.
func (s *WorkspaceService) EnsureDefault(ctx context.Context, userID int64) error {
	existing, err := s.store.ListWorkspacesByUser(ctx, userID)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	desc := "Automatically created workspace"
	ws := &models.Workspace{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        defaultWorkspaceName,
		Description: &desc,
	}
	if err := s.store.CreateWorkspace(ctx, ws); err != nil {
		return err
	}
	s.log.Info("created default workspace", "user_id", userID, "workspace_id", ws.ID)
	return nil
}

func (s *WorkspaceService) List(ctx context.Context, userID int64) ([]models.Workspace, error) {
	return s.store.ListWorkspacesByUser(ctx, userID)
}

func (s *WorkspaceService) Get(ctx context.Context, userID int64, id string) (*models.Workspace, error) {
	return s.guard.Workspace(ctx, id, userID)
}

func (s *WorkspaceService) Update(ctx context.Context, userID int64, id string, name, description *string) error {
	if _, err := s.guard.Workspace(ctx, id, userID); err != nil {
		return err
	}
	if name != nil && strings.TrimSpace(*name) == "" {
		return core.Invalid("name", "must not be blank")
	}
	return s.store.UpdateWorkspace(ctx, id, name, description)
}

// Delete removes the workspace and everything it owns: documents, the
// messages of each of its conversations, then the conversations themselves.
func (s *WorkspaceService) Delete(ctx context.Context, userID int64, id string) error {
	if _, err := s.guard.Workspace(ctx, id, userID); err != nil {
		return err
	}
	if err := s.store.DeleteWorkspaceCascade(ctx, id); err != nil {
		return err
	}
	s.log.Info("deleted workspace", "user_id", userID, "workspace_id", id)
	return nil
}
