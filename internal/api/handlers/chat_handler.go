package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/docspace-ai/docspace/internal/api/middlewares"
	"github.com/docspace-ai/docspace/internal/services"
)

type ChatHandler struct {
	chat *services.ChatService
}

func NewChatHandler(chat *services.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

type createConversationRequest struct {
	WorkspaceID string `json:"workspace_id"`
	Title       string `json:"title"`
}

func (h *ChatHandler) CreateConversation(w http.ResponseWriter, r *http.Request) {
	userID, _ := middlewares.UserID(r.Context())

	var req createConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	conv, err := h.chat.CreateConversation(r.Context(), userID, req.WorkspaceID, req.Title)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

func (h *ChatHandler) ListConversations(w http.ResponseWriter, r *http.Request) {
	userID, _ := middlewares.UserID(r.Context())

	workspaceID := r.URL.Query().Get("workspace_id")
	convs, err := h.chat.ListConversations(r.Context(), userID, workspaceID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, convs)
}

func (h *ChatHandler) GetConversation(w http.ResponseWriter, r *http.Request) {
	userID, _ := middlewares.UserID(r.Context())

	conv, err := h.chat.GetConversation(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

func (h *ChatHandler) DeleteConversation(w http.ResponseWriter, r *http.Request) {
	userID, _ := middlewares.UserID(r.Context())

	if err := h.chat.DeleteConversation(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *ChatHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	userID, _ := middlewares.UserID(r.Context())

	msgs, err := h.chat.ListMessages(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msgs)
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

// SendMessage runs one chat turn and returns the persisted user/assistant
// message pair.
func (h *ChatHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	userID, _ := middlewares.UserID(r.Context())

	var req sendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	result, err := h.chat.SendTurn(r.Context(), userID, chi.URLParam(r, "id"), req.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
