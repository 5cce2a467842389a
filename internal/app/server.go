package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/docspace-ai/docspace/internal/api/handlers"
	"github.com/docspace-ai/docspace/internal/api/middlewares"
	"github.com/docspace-ai/docspace/internal/config"
	"github.com/docspace-ai/docspace/internal/core"
	"github.com/docspace-ai/docspace/internal/pkg/logger"
	"github.com/docspace-ai/docspace/internal/services"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
	log        *logger.Logger
}

// NewServer builds and wires all routes.
func NewServer(
	cfg *config.Config,
	store core.Store,
	workspaceSvc *services.WorkspaceService,
	documentSvc *services.DocumentService,
	ingestSvc *services.IngestService,
	chatSvc *services.ChatService,
	log *logger.Logger,
) *Server {
	authHandler := handlers.NewAuthHandler(store, workspaceSvc, cfg.JWTSecret)
	workspaceHandler := handlers.NewWorkspaceHandler(workspaceSvc)
	docHandler := handlers.NewDocumentHandler(documentSvc, ingestSvc)
	chatHandler := handlers.NewChatHandler(chatSvc)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(120 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(api chi.Router) {
		// public endpoints
		api.Post("/signup", authHandler.Signup)
		api.Post("/login", authHandler.Login)

		// protected endpoints
		api.Group(func(protected chi.Router) {
			protected.Use(middlewares.JWT(cfg.JWTSecret))

			protected.Get("/auth/me", authHandler.Me)

			protected.Get("/workspaces", workspaceHandler.List)
			protected.Post("/workspaces", workspaceHandler.Create)
			protected.Get("/workspaces/{id}", workspaceHandler.Get)
			protected.Patch("/workspaces/{id}", workspaceHandler.Update)
			protected.Delete("/workspaces/{id}", workspaceHandler.Delete)

			protected.Get("/documents", docHandler.List)
			protected.Post("/documents/upload", docHandler.Upload)
			protected.Get("/documents/{id}", docHandler.Get)
			protected.Delete("/documents/{id}", docHandler.Delete)

			protected.Get("/conversations", chatHandler.ListConversations)
			protected.Post("/conversations", chatHandler.CreateConversation)
			protected.Get("/conversations/{id}", chatHandler.GetConversation)
			protected.Delete("/conversations/{id}", chatHandler.DeleteConversation)
			protected.Get("/conversations/{id}/messages", chatHandler.ListMessages)
			protected.Post("/conversations/{id}/messages", chatHandler.SendMessage)
		})
	})

	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	return &Server{httpServer: httpSrv, log: log}
}

// Start runs the HTTP server until it is shut down.
func (s *Server) Start() error {
	s.log.Info("HTTP server listening", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
