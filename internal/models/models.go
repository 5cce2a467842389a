package models

import (
	"time"
)

// User represents an authenticated user of the system.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
	LastSignedIn time.Time `db:"last_signed_in" json:"last_signed_in"`
}

// Workspace is the top-level container scoping a user's documents and
// conversations.
type Workspace struct {
	ID          string    `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Document is one unit of grounding text, optionally backed by the original
// uploaded file in object storage. Content always holds the extracted plain
// text; when extraction was skipped or failed it holds the literal text the
// client supplied.
type Document struct {
	ID          string    `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	WorkspaceID string    `db:"workspace_id" json:"workspace_id"`
	Name        string    `db:"name" json:"name"`
	Content     string    `db:"content" json:"content"`
	FileURL     *string   `db:"file_url" json:"file_url,omitempty"`
	MimeType    *string   `db:"mime_type" json:"mime_type,omitempty"`
	FileSize    *int64    `db:"file_size" json:"file_size,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Conversation is an ordered thread of messages within a workspace.
// UpdatedAt advances on every message write so listings order by recency.
type Conversation struct {
	ID          string    `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	WorkspaceID string    `db:"workspace_id" json:"workspace_id"`
	Title       string    `db:"title" json:"title"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn's content. Messages are append-only and ordered by
// CreatedAt ascending within a conversation.
type Message struct {
	ID             string    `db:"id" json:"id"`
	ConversationID string    `db:"conversation_id" json:"conversation_id"`
	Role           string    `db:"role" json:"role"`
	Content        string    `db:"content" json:"content"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}
