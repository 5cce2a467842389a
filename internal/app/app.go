package app

import (
	"context"
	"fmt"
	"time"

	"github.com/docspace-ai/docspace/internal/config"
	"github.com/docspace-ai/docspace/internal/core"
	db "github.com/docspace-ai/docspace/internal/core/database"
	"github.com/docspace-ai/docspace/internal/core/extractor"
	"github.com/docspace-ai/docspace/internal/core/llm"
	objectclient "github.com/docspace-ai/docspace/internal/core/object-client"
	"github.com/docspace-ai/docspace/internal/pkg/logger"
	"github.com/docspace-ai/docspace/internal/services"
)

// App owns every long-lived dependency. All wiring is explicit: the store,
// object client, model provider and extractor are built once here and passed
// into the services that need them.
type App struct {
	Store  core.Store
	Server *Server
	Log    *logger.Logger
}

func NewApp(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	initCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	store, err := db.NewDatabaseClient(initCtx, cfg)
	if err != nil {
		return nil, err
	}
	log.Info("database initialized and ready")

	objClient, err := objectclient.NewS3Client(initCtx, cfg, log)
	if err != nil {
		return nil, err
	}

	provider, err := buildProvider(initCtx, cfg)
	if err != nil {
		return nil, err
	}

	ext := buildExtractor(cfg)

	guard := services.NewGuard(store)
	workspaceSvc := services.NewWorkspaceService(store, guard, log)
	documentSvc := services.NewDocumentService(store, objClient, guard, cfg.BucketName, log)
	ingestSvc := services.NewIngestService(store, objClient, ext, guard, cfg.BucketName, log)
	chatSvc := services.NewChatService(store, provider, guard, cfg.ContextCharBudget, log)

	server := NewServer(cfg, store, workspaceSvc, documentSvc, ingestSvc, chatSvc, log)

	return &App{Store: store, Server: server, Log: log}, nil
}

func buildProvider(ctx context.Context, cfg *config.Config) (core.LLMProvider, error) {
	switch cfg.LLMProvider {
	case "gemini":
		return llm.NewGeminiLLM(ctx, cfg.LLMAPIKey, cfg.LLMModel)
	case "openai":
		return llm.NewOpenAICompatibleClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
	}
}

func buildExtractor(cfg *config.Config) extractor.Extractor {
	if cfg.ExtractorKind == "docconv" {
		return extractor.NewDocconvExtractor()
	}
	return extractor.NewExecExtractor(cfg.ConverterCommand, time.Duration(cfg.ConverterTimeout)*time.Second)
}

func (a *App) Close() {
	if a.Store != nil {
		_ = a.Store.Close()
	}
}
