package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/docspace-ai/docspace/internal/core"
	"github.com/docspace-ai/docspace/internal/models"
	"github.com/docspace-ai/docspace/internal/pkg/logger"
)

// historyWindow is the sliding context window: at most this many prior
// messages accompany a turn. Older turns stay in storage but leave the prompt.
const historyWindow = 10

const apologyReply = "I apologize, but I couldn't generate a response."

const systemPromptFormat = `You are a helpful assistant that answers questions based on the provided documents. Use the following documents as context to answer the user's questions. If the answer cannot be found in the documents, say so.

Documents:
%s`

// TurnResult is the persisted pair produced by one chat turn.
type TurnResult struct {
	UserMessage      *models.Message `json:"user_message"`
	AssistantMessage *models.Message `json:"assistant_message"`
}

type ChatService struct {
	store      core.Store
	llm        core.LLMProvider
	guard      *Guard
	charBudget int
	log        *logger.Logger
}

func NewChatService(store core.Store, llm core.LLMProvider, guard *Guard, charBudget int, log *logger.Logger) *ChatService {
	if charBudget <= 0 {
		charBudget = 100000
	}
	return &ChatService{store: store, llm: llm, guard: guard, charBudget: charBudget, log: log}
}

// Conversation CRUD

func (s *ChatService) CreateConversation(ctx context.Context, userID int64, workspaceID, title string) (*models.Conversation, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, core.Invalid("title", "must not be blank")
	}
	if _, err := s.guard.Workspace(ctx, workspaceID, userID); err != nil {
		return nil, err
	}

	conv := &models.Conversation{
		ID:          uuid.NewString(),
		UserID:      userID,
		WorkspaceID: workspaceID,
		Title:       title,
	}
	if err := s.store.CreateConversation(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *ChatService) ListConversations(ctx context.Context, userID int64, workspaceID string) ([]models.Conversation, error) {
	if _, err := s.guard.Workspace(ctx, workspaceID, userID); err != nil {
		return nil, err
	}
	return s.store.ListConversationsByWorkspace(ctx, workspaceID)
}

func (s *ChatService) GetConversation(ctx context.Context, userID int64, id string) (*models.Conversation, error) {
	return s.guard.Conversation(ctx, id, userID)
}

func (s *ChatService) DeleteConversation(ctx context.Context, userID int64, id string) error {
	if _, err := s.guard.Conversation(ctx, id, userID); err != nil {
		return err
	}
	return s.store.DeleteConversationCascade(ctx, id)
}

func (s *ChatService) ListMessages(ctx context.Context, userID int64, conversationID string) ([]models.Message, error) {
	if _, err := s.guard.Conversation(ctx, conversationID, userID); err != nil {
		return nil, err
	}
	return s.store.ListMessagesByConversation(ctx, conversationID)
}

// SendTurn runs one chat turn: persist the user message, assemble workspace
// documents and bounded history, invoke the model, persist the assistant
// reply and touch the conversation. The user message is written before the
// inference call so it survives an inference failure; that partial state is
// accepted and not rolled back.
func (s *ChatService) SendTurn(ctx context.Context, userID int64, conversationID, text string) (*TurnResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, core.Invalid("content", "must not be blank")
	}

	conv, err := s.guard.Conversation(ctx, conversationID, userID)
	if err != nil {
		return nil, err
	}

	userMsg := &models.Message{
		ID:             uuid.NewString(),
		ConversationID: conv.ID,
		Role:           models.RoleUser,
		Content:        text,
	}
	if err := s.store.CreateMessage(ctx, userMsg); err != nil {
		return nil, err
	}

	docs, err := s.store.ListDocumentsByWorkspace(ctx, conv.WorkspaceID)
	if err != nil {
		return nil, err
	}
	docContext := s.assembleContext(docs)

	history, err := s.boundedHistory(ctx, conv.ID, userMsg.ID)
	if err != nil {
		return nil, err
	}

	prompt := make([]core.ChatMessage, 0, len(history)+2)
	prompt = append(prompt, core.ChatMessage{
		Role:    "system",
		Content: fmt.Sprintf(systemPromptFormat, docContext),
	})
	prompt = append(prompt, history...)
	// The just-persisted user turn closes the prompt rather than being
	// re-read from history.
	prompt = append(prompt, core.ChatMessage{Role: models.RoleUser, Content: text})

	reply, err := s.llm.Invoke(ctx, prompt)
	if err != nil {
		s.log.Error("inference call failed", "conversation_id", conv.ID, "error", err)
		return nil, &core.InferenceError{Err: err}
	}
	// Never persist an empty assistant message.
	if strings.TrimSpace(reply) == "" {
		reply = apologyReply
	}

	assistantMsg := &models.Message{
		ID:             uuid.NewString(),
		ConversationID: conv.ID,
		Role:           models.RoleAssistant,
		Content:        reply,
	}
	if err := s.store.CreateMessage(ctx, assistantMsg); err != nil {
		return nil, err
	}

	if err := s.store.TouchConversation(ctx, conv.ID); err != nil {
		return nil, err
	}

	return &TurnResult{UserMessage: userMsg, AssistantMessage: assistantMsg}, nil
}

// assembleContext concatenates the workspace's documents, newest first, as
// the grounding block of the system prompt, truncated to the rune budget.
func (s *ChatService) assembleContext(docs []models.Document) string {
	blocks := make([]string, 0, len(docs))
	for _, d := range docs {
		blocks = append(blocks, fmt.Sprintf("Document: %s\n%s", d.Name, d.Content))
	}
	joined := strings.Join(blocks, "\n\n---\n\n")

	if runes := []rune(joined); len(runes) > s.charBudget {
		s.log.Warn("document context truncated", "budget", s.charBudget, "size", len(runes))
		joined = string(runes[:s.charBudget])
	}
	return joined
}

// boundedHistory returns the last historyWindow prior messages of the
// conversation in chronological order, excluding the just-persisted user turn.
func (s *ChatService) boundedHistory(ctx context.Context, conversationID, excludeID string) ([]core.ChatMessage, error) {
	all, err := s.store.ListMessagesByConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	prior := make([]models.Message, 0, len(all))
	for _, m := range all {
		if m.ID != excludeID {
			prior = append(prior, m)
		}
	}
	if len(prior) > historyWindow {
		prior = prior[len(prior)-historyWindow:]
	}

	out := make([]core.ChatMessage, 0, len(prior))
	for _, m := range prior {
		out = append(out, core.ChatMessage{Role: m.Role, Content: m.Content})
	}
	return out, nil
}
