package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/docspace-ai/docspace/internal/config"
	"github.com/docspace-ai/docspace/internal/core"
	"github.com/docspace-ai/docspace/internal/models"
)

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(ctx context.Context, cfg *config.Config) (core.Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("database client configuration is nil")
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is empty")
	}

	db, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Sensible pool settings for an API service; adjust as needed.
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(10 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if err := EnsureBootstrapped(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

func (c *DatabaseClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}

// Users

func (c *DatabaseClient) CreateUser(ctx context.Context, user *models.User) error {
	if user == nil {
		return errors.New("nil user")
	}
	const q = `
		INSERT INTO users (name, email, password_hash, created_at, updated_at, last_signed_in)
		VALUES ($1, $2, $3, now(), now(), now())
		RETURNING id, created_at, updated_at, last_signed_in
	`
	return c.db.QueryRowContext(ctx, q, user.Name, user.Email, user.PasswordHash).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt, &user.LastSignedIn)
}

func (c *DatabaseClient) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const q = `
		SELECT id, name, email, password_hash, created_at, updated_at, last_signed_in
		FROM users WHERE email = $1
	`
	var u models.User
	err := c.db.QueryRowContext(ctx, q, email).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt, &u.LastSignedIn,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *DatabaseClient) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	const q = `
		SELECT id, name, email, password_hash, created_at, updated_at, last_signed_in
		FROM users WHERE id = $1
	`
	var u models.User
	err := c.db.QueryRowContext(ctx, q, id).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt, &u.LastSignedIn,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Workspaces

func (c *DatabaseClient) CreateWorkspace(ctx context.Context, ws *models.Workspace) error {
	if ws == nil {
		return errors.New("nil workspace")
	}
	const q = `
		INSERT INTO workspaces (id, user_id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		RETURNING created_at, updated_at
	`
	return c.db.QueryRowContext(ctx, q, ws.ID, ws.UserID, ws.Name, ws.Description).
		Scan(&ws.CreatedAt, &ws.UpdatedAt)
}

func (c *DatabaseClient) GetWorkspaceByID(ctx context.Context, id string) (*models.Workspace, error) {
	const q = `
		SELECT id, user_id, name, description, created_at, updated_at
		FROM workspaces WHERE id = $1
	`
	var w models.Workspace
	err := c.db.QueryRowContext(ctx, q, id).Scan(
		&w.ID, &w.UserID, &w.Name, &w.Description, &w.CreatedAt, &w.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

func (c *DatabaseClient) ListWorkspacesByUser(ctx context.Context, userID int64) ([]models.Workspace, error) {
	const q = `
		SELECT id, user_id, name, description, created_at, updated_at
		FROM workspaces
		WHERE user_id = $1
		ORDER BY updated_at DESC
	`
	rows, err := c.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Workspace
	for rows.Next() {
		var w models.Workspace
		if err := rows.Scan(&w.ID, &w.UserID, &w.Name, &w.Description, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (c *DatabaseClient) UpdateWorkspace(ctx context.Context, id string, name, description *string) error {
	const q = `
		UPDATE workspaces
		SET name = COALESCE($2, name),
		    description = COALESCE($3, description),
		    updated_at = now()
		WHERE id = $1
	`
	res, err := c.db.ExecContext(ctx, q, id, name, description)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("workspace not found: %s", id)
	}
	return nil
}

// DeleteWorkspaceCascade removes everything the workspace owns before the
// workspace itself: documents, then messages of its conversations, then the
// conversations. Runs in one transaction so no orphan survives a failure.
func (c *DatabaseClient) DeleteWorkspaceCascade(ctx context.Context, id string) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	steps := []string{
		`DELETE FROM documents WHERE workspace_id = $1`,
		`DELETE FROM messages WHERE conversation_id IN (SELECT id FROM conversations WHERE workspace_id = $1)`,
		`DELETE FROM conversations WHERE workspace_id = $1`,
		`DELETE FROM workspaces WHERE id = $1`,
	}
	for _, q := range steps {
		if _, err := tx.ExecContext(ctx, q, id); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Documents

func (c *DatabaseClient) CreateDocument(ctx context.Context, doc *models.Document) error {
	if doc == nil {
		return errors.New("nil document")
	}
	const q = `
		INSERT INTO documents
			(id, user_id, workspace_id, name, content, file_url, mime_type, file_size, created_at)
		VALUES
			($1, $2, $3, $4, $5, $6, $7, $8, now())
		RETURNING created_at
	`
	return c.db.QueryRowContext(ctx, q,
		doc.ID, doc.UserID, doc.WorkspaceID, doc.Name, doc.Content, doc.FileURL, doc.MimeType, doc.FileSize,
	).Scan(&doc.CreatedAt)
}

func (c *DatabaseClient) GetDocumentByID(ctx context.Context, id string) (*models.Document, error) {
	const q = `
		SELECT id, user_id, workspace_id, name, content, file_url, mime_type, file_size, created_at
		FROM documents
		WHERE id = $1
	`
	var d models.Document
	err := c.db.QueryRowContext(ctx, q, id).Scan(
		&d.ID, &d.UserID, &d.WorkspaceID, &d.Name, &d.Content, &d.FileURL, &d.MimeType, &d.FileSize, &d.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (c *DatabaseClient) ListDocumentsByWorkspace(ctx context.Context, workspaceID string) ([]models.Document, error) {
	const q = `
		SELECT id, user_id, workspace_id, name, content, file_url, mime_type, file_size, created_at
		FROM documents
		WHERE workspace_id = $1
		ORDER BY created_at DESC
	`
	rows, err := c.db.QueryContext(ctx, q, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Document
	for rows.Next() {
		var d models.Document
		if err := rows.Scan(
			&d.ID, &d.UserID, &d.WorkspaceID, &d.Name, &d.Content, &d.FileURL, &d.MimeType, &d.FileSize, &d.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (c *DatabaseClient) DeleteDocument(ctx context.Context, id string) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM documents WHERE id = $1`, id)
	return err
}

// Conversations

func (c *DatabaseClient) CreateConversation(ctx context.Context, conv *models.Conversation) error {
	if conv == nil {
		return errors.New("nil conversation")
	}
	const q = `
		INSERT INTO conversations (id, user_id, workspace_id, title, created_at, updated_at)
		VALUES ($1, $2, $3, $4, now(), now())
		RETURNING created_at, updated_at
	`
	return c.db.QueryRowContext(ctx, q, conv.ID, conv.UserID, conv.WorkspaceID, conv.Title).
		Scan(&conv.CreatedAt, &conv.UpdatedAt)
}

func (c *DatabaseClient) GetConversationByID(ctx context.Context, id string) (*models.Conversation, error) {
	const q = `
		SELECT id, user_id, workspace_id, title, created_at, updated_at
		FROM conversations WHERE id = $1
	`
	var cv models.Conversation
	err := c.db.QueryRowContext(ctx, q, id).Scan(
		&cv.ID, &cv.UserID, &cv.WorkspaceID, &cv.Title, &cv.CreatedAt, &cv.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cv, nil
}

func (c *DatabaseClient) ListConversationsByWorkspace(ctx context.Context, workspaceID string) ([]models.Conversation, error) {
	const q = `
		SELECT id, user_id, workspace_id, title, created_at, updated_at
		FROM conversations
		WHERE workspace_id = $1
		ORDER BY updated_at DESC
	`
	rows, err := c.db.QueryContext(ctx, q, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Conversation
	for rows.Next() {
		var cv models.Conversation
		if err := rows.Scan(&cv.ID, &cv.UserID, &cv.WorkspaceID, &cv.Title, &cv.CreatedAt, &cv.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, cv)
	}
	return out, rows.Err()
}

func (c *DatabaseClient) TouchConversation(ctx context.Context, id string) error {
	const q = `UPDATE conversations SET updated_at = now() WHERE id = $1`
	res, err := c.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fmt.Errorf("conversation not found: %s", id)
	}
	return nil
}

// DeleteConversationCascade deletes the conversation's messages, then the
// conversation, inside one transaction.
func (c *DatabaseClient) DeleteConversationCascade(ctx context.Context, id string) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE conversation_id = $1`, id); err != nil {
		_ = tx.Rollback()
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM conversations WHERE id = $1`, id); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// Messages

func (c *DatabaseClient) CreateMessage(ctx context.Context, msg *models.Message) error {
	if msg == nil {
		return errors.New("nil message")
	}
	const q = `
		INSERT INTO messages (id, conversation_id, role, content, created_at)
		VALUES ($1, $2, $3, $4, now())
		RETURNING created_at
	`
	return c.db.QueryRowContext(ctx, q, msg.ID, msg.ConversationID, msg.Role, msg.Content).
		Scan(&msg.CreatedAt)
}

func (c *DatabaseClient) ListMessagesByConversation(ctx context.Context, conversationID string) ([]models.Message, error) {
	const q = `
		SELECT id, conversation_id, role, content, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at ASC
	`
	rows, err := c.db.QueryContext(ctx, q, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Message
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
