package handlers

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/docspace-ai/docspace/internal/api/middlewares"
	"github.com/docspace-ai/docspace/internal/services"
)

type DocumentHandler struct {
	documents *services.DocumentService
	ingest    *services.IngestService
}

func NewDocumentHandler(documents *services.DocumentService, ingest *services.IngestService) *DocumentHandler {
	return &DocumentHandler{documents: documents, ingest: ingest}
}

type uploadRequest struct {
	WorkspaceID string `json:"workspace_id"`
	Name        string `json:"name"`
	Content     string `json:"content"`
	FileData    string `json:"file_data,omitempty"` // base64 encoded
	MimeType    string `json:"mime_type,omitempty"`
}

// Upload accepts a literal-content document or a base64 file payload and
// hands it to the ingestion pipeline.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, _ := middlewares.UserID(r.Context())

	var req uploadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	var fileData []byte
	if req.FileData != "" {
		decoded, err := base64.StdEncoding.DecodeString(req.FileData)
		if err != nil {
			http.Error(w, "file_data is not valid base64", http.StatusBadRequest)
			return
		}
		fileData = decoded
	}

	doc, err := h.ingest.Ingest(r.Context(), userID, services.IngestInput{
		WorkspaceID: req.WorkspaceID,
		Name:        req.Name,
		Content:     req.Content,
		FileData:    fileData,
		MimeType:    req.MimeType,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middlewares.UserID(r.Context())

	workspaceID := r.URL.Query().Get("workspace_id")
	docs, err := h.documents.ListByWorkspace(r.Context(), userID, workspaceID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := middlewares.UserID(r.Context())

	doc, err := h.documents.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middlewares.UserID(r.Context())

	if err := h.documents.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
