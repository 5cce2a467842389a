package core

import (
	"context"

	"github.com/docspace-ai/docspace/internal/models"
)

// Store defines all persistence operations the services need. It abstracts
// Postgres so higher layers never depend on a specific DB, and so tests can
// substitute an in-memory double.
type Store interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)

	CreateWorkspace(ctx context.Context, ws *models.Workspace) error
	GetWorkspaceByID(ctx context.Context, id string) (*models.Workspace, error)
	ListWorkspacesByUser(ctx context.Context, userID int64) ([]models.Workspace, error)
	UpdateWorkspace(ctx context.Context, id string, name, description *string) error
	// DeleteWorkspaceCascade removes the workspace's documents, the messages
	// of each of its conversations, the conversations, then the workspace
	// itself. No orphan row may remain.
	DeleteWorkspaceCascade(ctx context.Context, id string) error

	CreateDocument(ctx context.Context, doc *models.Document) error
	GetDocumentByID(ctx context.Context, id string) (*models.Document, error)
	ListDocumentsByWorkspace(ctx context.Context, workspaceID string) ([]models.Document, error)
	DeleteDocument(ctx context.Context, id string) error

	CreateConversation(ctx context.Context, conv *models.Conversation) error
	GetConversationByID(ctx context.Context, id string) (*models.Conversation, error)
	ListConversationsByWorkspace(ctx context.Context, workspaceID string) ([]models.Conversation, error)
	// TouchConversation advances updated_at with no other field change.
	TouchConversation(ctx context.Context, id string) error
	DeleteConversationCascade(ctx context.Context, id string) error

	CreateMessage(ctx context.Context, msg *models.Message) error
	ListMessagesByConversation(ctx context.Context, conversationID string) ([]models.Message, error)

	Close() error
}

// ObjectClient defines interactions with S3 or any object storage.
type ObjectClient interface {
	UploadFile(ctx context.Context, bucket, key string, data []byte, contentType string) (url string, err error)
	DeleteFile(ctx context.Context, bucket, key string) error
}

// ChatMessage is one entry of an inference request.
type ChatMessage struct {
	Role    string `json:"role"` // system | user | assistant
	Content string `json:"content"`
}

// LLMProvider answers a chat exchange. An empty reply with a nil error means
// the model produced no usable payload; callers decide the substitute text.
type LLMProvider interface {
	Invoke(ctx context.Context, messages []ChatMessage) (string, error)
}
