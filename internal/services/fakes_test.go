package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/docspace-ai/docspace/internal/core"
	"github.com/docspace-ai/docspace/internal/models"
)

// fakeStore is an in-memory core.Store for service tests.
type fakeStore struct {
	mu            sync.Mutex
	users         map[int64]*models.User
	workspaces    map[string]*models.Workspace
	documents     map[string]*models.Document
	conversations map[string]*models.Conversation
	messages      map[string]*models.Message
	clock         time.Time
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:         map[int64]*models.User{},
		workspaces:    map[string]*models.Workspace{},
		documents:     map[string]*models.Document{},
		conversations: map[string]*models.Conversation{},
		messages:      map[string]*models.Message{},
		clock:         time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick returns a strictly increasing timestamp so createdAt ordering is
// deterministic in tests.
func (s *fakeStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

func (s *fakeStore) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	user.ID = int64(len(s.users) + 1)
	now := s.tick()
	user.CreatedAt, user.UpdatedAt, user.LastSignedIn = now, now, now
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *fakeStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *fakeStore) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (s *fakeStore) CreateWorkspace(ctx context.Context, ws *models.Workspace) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.tick()
	ws.CreatedAt, ws.UpdatedAt = now, now
	cp := *ws
	s.workspaces[ws.ID] = &cp
	return nil
}

func (s *fakeStore) GetWorkspaceByID(ctx context.Context, id string) (*models.Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws, ok := s.workspaces[id]
	if !ok {
		return nil, nil
	}
	cp := *ws
	return &cp, nil
}

func (s *fakeStore) ListWorkspacesByUser(ctx context.Context, userID int64) ([]models.Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Workspace
	for _, ws := range s.workspaces {
		if ws.UserID == userID {
			out = append(out, *ws)
		}
	}
	sortByTimeDesc(out, func(w models.Workspace) time.Time { return w.UpdatedAt })
	return out, nil
}

func (s *fakeStore) UpdateWorkspace(ctx context.Context, id string, name, description *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws, ok := s.workspaces[id]
	if !ok {
		return fmt.Errorf("workspace not found: %s", id)
	}
	if name != nil {
		ws.Name = *name
	}
	if description != nil {
		ws.Description = description
	}
	ws.UpdatedAt = s.tick()
	return nil
}

func (s *fakeStore) DeleteWorkspaceCascade(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for docID, d := range s.documents {
		if d.WorkspaceID == id {
			delete(s.documents, docID)
		}
	}
	for convID, c := range s.conversations {
		if c.WorkspaceID != id {
			continue
		}
		for msgID, m := range s.messages {
			if m.ConversationID == convID {
				delete(s.messages, msgID)
			}
		}
		delete(s.conversations, convID)
	}
	delete(s.workspaces, id)
	return nil
}

func (s *fakeStore) CreateDocument(ctx context.Context, doc *models.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc.CreatedAt = s.tick()
	cp := *doc
	s.documents[doc.ID] = &cp
	return nil
}

func (s *fakeStore) GetDocumentByID(ctx context.Context, id string) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.documents[id]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (s *fakeStore) ListDocumentsByWorkspace(ctx context.Context, workspaceID string) ([]models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Document
	for _, d := range s.documents {
		if d.WorkspaceID == workspaceID {
			out = append(out, *d)
		}
	}
	sortByTimeDesc(out, func(d models.Document) time.Time { return d.CreatedAt })
	return out, nil
}

func (s *fakeStore) DeleteDocument(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.documents, id)
	return nil
}

func (s *fakeStore) CreateConversation(ctx context.Context, conv *models.Conversation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.tick()
	conv.CreatedAt, conv.UpdatedAt = now, now
	cp := *conv
	s.conversations[conv.ID] = &cp
	return nil
}

func (s *fakeStore) GetConversationByID(ctx context.Context, id string) (*models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.conversations[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (s *fakeStore) ListConversationsByWorkspace(ctx context.Context, workspaceID string) ([]models.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Conversation
	for _, c := range s.conversations {
		if c.WorkspaceID == workspaceID {
			out = append(out, *c)
		}
	}
	sortByTimeDesc(out, func(c models.Conversation) time.Time { return c.UpdatedAt })
	return out, nil
}

func (s *fakeStore) TouchConversation(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.conversations[id]
	if !ok {
		return fmt.Errorf("conversation not found: %s", id)
	}
	c.UpdatedAt = s.tick()
	return nil
}

func (s *fakeStore) DeleteConversationCascade(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for msgID, m := range s.messages {
		if m.ConversationID == id {
			delete(s.messages, msgID)
		}
	}
	delete(s.conversations, id)
	return nil
}

func (s *fakeStore) CreateMessage(ctx context.Context, msg *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg.CreatedAt = s.tick()
	cp := *msg
	s.messages[msg.ID] = &cp
	return nil
}

func (s *fakeStore) ListMessagesByConversation(ctx context.Context, conversationID string) ([]models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Message
	for _, m := range s.messages {
		if m.ConversationID == conversationID {
			out = append(out, *m)
		}
	}
	sortByTimeAsc(out, func(m models.Message) time.Time { return m.CreatedAt })
	return out, nil
}

func (s *fakeStore) Close() error { return nil }

var _ core.Store = (*fakeStore)(nil)

func sortByTimeDesc[T any](items []T, key func(T) time.Time) {
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && key(items[j]).After(key(items[j-1])); j-- {
			items[j], items[j-1] = items[j-1], items[j]
		}
	}
}

func sortByTimeAsc[T any](items []T, key func(T) time.Time) {
	for i := 1; i < len(items); i++ {
		for j := i; j > 0 && key(items[j]).Before(key(items[j-1])); j-- {
			items[j], items[j-1] = items[j-1], items[j]
		}
	}
}

// fakeObjectClient records uploads; set fail to reject them.
type fakeObjectClient struct {
	mu      sync.Mutex
	uploads map[string][]byte
	fail    bool
}

func newFakeObjectClient() *fakeObjectClient {
	return &fakeObjectClient{uploads: map[string][]byte{}}
}

func (c *fakeObjectClient) UploadFile(ctx context.Context, bucket, key string, data []byte, contentType string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail {
		return "", errors.New("backend unavailable")
	}
	c.uploads[key] = append([]byte(nil), data...)
	return fmt.Sprintf("https://%s.s3.us-east-2.amazonaws.com/%s", bucket, key), nil
}

func (c *fakeObjectClient) DeleteFile(ctx context.Context, bucket, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.uploads, key)
	return nil
}

var _ core.ObjectClient = (*fakeObjectClient)(nil)

// recordingProvider captures the last prompt and answers with a fixed reply.
type recordingProvider struct {
	mu    sync.Mutex
	last  []core.ChatMessage
	reply string
	err   error
}

func (p *recordingProvider) Invoke(ctx context.Context, messages []core.ChatMessage) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.last = append([]core.ChatMessage(nil), messages...)
	if p.err != nil {
		return "", p.err
	}
	return p.reply, nil
}

// fixedExtractor returns a constant text; set err to simulate converter
// failure.
type fixedExtractor struct {
	text string
	err  error
}

func (e *fixedExtractor) Extract(ctx context.Context, filePath string) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	return e.text, nil
}
