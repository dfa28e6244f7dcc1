package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/csg-hackathon/dilbot/internal/config"
	"github.com/csg-hackathon/dilbot/internal/core"
	"github.com/csg-hackathon/dilbot/internal/core/llm"
	"github.com/csg-hackathon/dilbot/internal/core/objectstore"
	"github.com/csg-hackathon/dilbot/internal/core/quotes"
	"github.com/csg-hackathon/dilbot/internal/core/speech"
	"github.com/csg-hackathon/dilbot/internal/core/storage/filestore"
	"github.com/csg-hackathon/dilbot/internal/core/storage/pgstore"
	"github.com/csg-hackathon/dilbot/internal/services"
)

type App struct {
	Store  core.Store
	Server *Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	store, err := newStore(appCtx, cfg)
	if err != nil {
		return nil, err
	}
	log.Printf("Storage backend %q initialized and ready.", cfg.StorageBackend)

	embedder, classifier, generator, translator, err := newAIProviders(appCtx, cfg)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	log.Printf("AI provider %q initialized and ready.", cfg.AIProvider)

	var archive core.ObjectClient
	if cfg.AwsAccessKey != "" && cfg.AwsSecretKey != "" && cfg.BucketName != "" {
		archive, err = objectstore.NewS3Client(appCtx, cfg.AwsAccessKey, cfg.AwsSecretKey, cfg.AwsRegion, cfg.BucketName)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
	}

	var (
		transcriber core.Transcriber
		speaker     core.Speaker
	)
	if cfg.OpenAIAPIKey != "" {
		voice := speech.NewOpenAISpeech(cfg.OpenAIAPIKey)
		transcriber, speaker = voice, voice
	}

	journal := services.NewJournalService(store)
	users := services.NewUserService(store, cfg.AdminUsername, cfg.AdminPassword)
	chat := services.NewChatService(store, embedder, classifier, generator, translator, journal)
	admin := services.NewAdminService(store, journal)
	extractor := quotes.NewExtractor()

	server := NewServer(cfg, users, journal, chat, admin, extractor, transcriber, speaker, archive)

	return &App{Store: store, Server: server}, nil
}

func newStore(ctx context.Context, cfg *config.Config) (core.Store, error) {
	switch cfg.StorageBackend {
	case "file", "":
		return filestore.New(cfg.DataDir)
	case "postgres":
		return pgstore.New(ctx, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

func newAIProviders(ctx context.Context, cfg *config.Config) (core.EmbeddingProvider, core.Classifier, core.Generator, core.Translator, error) {
	switch strings.ToLower(cfg.AIProvider) {
	case "gemini", "":
		embedder, err := llm.NewGeminiEmbedder(ctx, cfg.GeminiAPIKey, cfg.EmbedModel)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("couldn't initialize the embedder, %w", err)
		}
		gem, err := llm.NewGeminiLLM(ctx, cfg.GeminiAPIKey, cfg.GenModel)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("couldn't initialize the llm, %w", err)
		}
		// Translation rides on OpenAI when its key is present.
		var translator core.Translator
		if cfg.OpenAIAPIKey != "" {
			translator = llm.NewOpenAILLM(cfg.OpenAIAPIKey, "", "")
		}
		return embedder, gem, gem, translator, nil
	case "openai":
		oa := llm.NewOpenAILLM(cfg.OpenAIAPIKey, cfg.GenModel, cfg.EmbedModel)
		return oa, oa, oa, oa, nil
	default:
		return nil, nil, nil, nil, fmt.Errorf("unknown AI provider %q", cfg.AIProvider)
	}
}

func (a *App) Close() {
	if a.Store != nil {
		_ = a.Store.Close()
	}
}
