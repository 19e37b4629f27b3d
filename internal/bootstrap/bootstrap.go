package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/pixilib/pixi/internal/config"
	"github.com/pixilib/pixi/internal/core/ports"
	"github.com/pixilib/pixi/internal/core/usecase"
	"github.com/pixilib/pixi/internal/infrastructure/chatbot"
	"github.com/pixilib/pixi/internal/infrastructure/chunking"
	"github.com/pixilib/pixi/internal/infrastructure/export"
	"github.com/pixilib/pixi/internal/infrastructure/extractor"
	"github.com/pixilib/pixi/internal/infrastructure/llm/gemini"
	"github.com/pixilib/pixi/internal/infrastructure/queue/nats"
	"github.com/pixilib/pixi/internal/infrastructure/repository/postgres"
	"github.com/pixilib/pixi/internal/infrastructure/resilience"
	"github.com/pixilib/pixi/internal/infrastructure/storage/localfs"
)

type App struct {
	Config config.Config

	Queue       ports.MessageQueue
	Documents   ports.DocumentRepository
	Tickets     ports.TicketRepository
	Discussions ports.DiscussionRepository
	Storage     ports.ObjectStorage
	Chat        ports.ChatAssistant
	Exporter    ports.CatalogExporter
	Genres      []string

	IngestUC  ports.DocumentIngestor
	ProcessUC ports.DocumentProcessor

	summarizer *usecase.SummarizeUseCase
	classifier *usecase.ClassifyGenreUseCase
	processor  *usecase.ProcessDocumentUseCase

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	documents := postgres.NewDocumentRepository(db)
	tickets := postgres.NewTicketRepository(db)
	discussions := postgres.NewDiscussionRepository(db)

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: resilience.NewExecutor(resilience.DefaultConfig()),
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	genres, err := cfg.Genres()
	if err != nil {
		queue.Close()
		_ = db.Close()
		return nil, fmt.Errorf("load genre taxonomy: %w", err)
	}

	rcfg := resilience.SingleAttempt()
	if cfg.LLMRetryMaxAttempts > 1 {
		rcfg.RetryMaxAttempts = cfg.LLMRetryMaxAttempts
	}
	generator := gemini.New(cfg.GeminiURL, cfg.GeminiModel, cfg.GeminiAPIKey, gemini.Options{
		Timeout:            time.Duration(cfg.LLMTimeoutSeconds) * time.Second,
		RequestsPerSec:     cfg.LLMRequestsPerSec,
		ResilienceExecutor: resilience.NewExecutor(rcfg),
	})

	chunker := chunking.NewSplitter(cfg.ChunkSize)
	textExtractor := extractor.New(storage)
	summarizer := usecase.NewSummarizeUseCase(generator, chunker)
	classifier := usecase.NewClassifyGenreUseCase(generator, genres)

	ingestUC := usecase.NewIngestDocumentUseCase(documents, storage, queue, cfg.AllowedExtensions)
	processUC := usecase.NewProcessDocumentUseCase(documents, storage, textExtractor, summarizer, classifier)

	return &App{
		Config: cfg,

		Queue:       queue,
		Documents:   documents,
		Tickets:     tickets,
		Discussions: discussions,
		Storage:     storage,
		Chat:        chatbot.New(cfg.ChatbotURL, time.Duration(cfg.ChatbotTimeoutSeconds)*time.Second),
		Exporter:    export.NewExcelExporter(),
		Genres:      genres,

		IngestUC:  ingestUC,
		ProcessUC: processUC,

		summarizer: summarizer,
		classifier: classifier,
		processor:  processUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

// AttachPipelineObserver feeds processing telemetry to the given sink. The
// worker calls this with its prometheus metrics.
func (a *App) AttachPipelineObserver(observer ports.PipelineObserver) {
	a.summarizer.SetObserver(observer)
	a.classifier.SetObserver(observer)
	a.processor.SetObserver(observer)
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
