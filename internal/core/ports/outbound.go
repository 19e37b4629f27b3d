package ports

import (
	"context"
	"io"

	"github.com/pixilib/pixi/internal/core/domain"
)

// DocumentRepository persists and reads document state.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	GetByID(ctx context.Context, id string) (*domain.Document, error)
	List(ctx context.Context, genre string) ([]domain.Document, error)
	Search(ctx context.Context, query string) ([]domain.Document, error)
	UpdateStatus(ctx context.Context, id string, status domain.DocumentStatus, errMessage string) error
	SaveEnrichment(ctx context.Context, id string, enrichment domain.Enrichment) error
	Vote(ctx context.Context, id string, direction domain.VoteDirection) (*domain.Document, error)
}

// TicketRepository persists community material requests.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	List(ctx context.Context) ([]domain.Ticket, error)
	Upvote(ctx context.Context, id string) (int, error)
}

// DiscussionRepository persists per-document comment threads.
type DiscussionRepository interface {
	Create(ctx context.Context, discussion *domain.Discussion) error
	ListByDocument(ctx context.Context, documentID string) ([]domain.Discussion, error)
	Vote(ctx context.Context, id string, direction domain.VoteDirection) (*domain.Discussion, error)
}

// ObjectStorage stores source documents.
type ObjectStorage interface {
	Save(ctx context.Context, key string, data io.Reader) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
}

// MessageQueue publishes/consumes ingestion events.
type MessageQueue interface {
	PublishDocumentIngested(ctx context.Context, documentID string) error
	SubscribeDocumentIngested(ctx context.Context, handler func(context.Context, string) error) error
}

// TextExtractor extracts plain text from a stored document.
type TextExtractor interface {
	Extract(ctx context.Context, doc *domain.Document) (string, error)
}

// TextGenerator is the single remote-model capability the pipeline consumes.
// The summarizer and the genre classifier share one injected implementation.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Chunker splits long text into bounded contiguous pieces.
type Chunker interface {
	Split(text string) []string
	Size() int
}

// Summarizer produces a natural-language summary for extracted text.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

// GenreClassifier picks one label from a candidate taxonomy. A nil candidates
// slice selects the implementation's configured default set.
type GenreClassifier interface {
	Classify(ctx context.Context, summary string, candidates []string) (string, error)
}

// ChatAssistant forwards library questions to the external chatbot service.
type ChatAssistant interface {
	Ask(ctx context.Context, question string) (string, error)
}

// CatalogExporter renders the document catalog into a downloadable report.
type CatalogExporter interface {
	Export(docs []domain.Document, w io.Writer) error
}

// PipelineObserver receives processing telemetry. Implementations must not
// block; a nil observer disables recording.
type PipelineObserver interface {
	ObserveChunks(count int)
	RecordModelCall(operation string, err error)
	RecordGenreFallback(genre string)
}
