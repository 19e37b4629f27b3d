package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pixilib/pixi/internal/core/domain"
	"github.com/pixilib/pixi/internal/core/ports"
)

// ProcessDocumentUseCase runs the enrichment pipeline for one uploaded
// document: extract text, summarize, classify a genre, persist the result.
//
// Extraction failures are fatal to the upload: the record is marked failed
// and the stored bytes are removed. Model failures past that point degrade
// instead of aborting, so the document is never lost to a flaky remote API.
type ProcessDocumentUseCase struct {
	repo       ports.DocumentRepository
	storage    ports.ObjectStorage
	extractor  ports.TextExtractor
	summarizer ports.Summarizer
	classifier ports.GenreClassifier
	observer   ports.PipelineObserver
}

// SetObserver enables telemetry recording. Safe to leave unset.
func (uc *ProcessDocumentUseCase) SetObserver(observer ports.PipelineObserver) {
	uc.observer = observer
}

func NewProcessDocumentUseCase(
	repo ports.DocumentRepository,
	storage ports.ObjectStorage,
	extractor ports.TextExtractor,
	summarizer ports.Summarizer,
	classifier ports.GenreClassifier,
) *ProcessDocumentUseCase {
	return &ProcessDocumentUseCase{
		repo:       repo,
		storage:    storage,
		extractor:  extractor,
		summarizer: summarizer,
		classifier: classifier,
	}
}

func (uc *ProcessDocumentUseCase) ProcessByID(ctx context.Context, documentID string) error {
	if err := uc.repo.UpdateStatus(ctx, documentID, domain.StatusProcessing, ""); err != nil {
		return fmt.Errorf("set status=processing: %w", err)
	}

	doc, err := uc.repo.GetByID(ctx, documentID)
	if err != nil {
		return fmt.Errorf("fetch document by id: %w", err)
	}

	text, err := uc.extractor.Extract(ctx, doc)
	if err != nil {
		return uc.failUpload(ctx, doc, fmt.Errorf("extract text: %w", err))
	}

	enrichment := uc.enrich(ctx, doc.ID, text)

	if err := uc.repo.SaveEnrichment(ctx, doc.ID, enrichment); err != nil {
		if failErr := uc.repo.UpdateStatus(ctx, doc.ID, domain.StatusFailed, err.Error()); failErr != nil {
			return fmt.Errorf("save enrichment: %w; mark failed status: %v", err, failErr)
		}
		return fmt.Errorf("save enrichment: %w", err)
	}

	if err := uc.repo.UpdateStatus(ctx, doc.ID, domain.StatusReady, ""); err != nil {
		return fmt.Errorf("set status=ready: %w", err)
	}
	return nil
}

// enrich always produces a value: summarization or classification trouble is
// folded into the stored genre/summary rather than propagated.
func (uc *ProcessDocumentUseCase) enrich(ctx context.Context, documentID, text string) domain.Enrichment {
	summary, err := uc.summarizer.Summarize(ctx, text)
	if err != nil {
		slog.Warn("summarization_degraded", "document_id", documentID, "error", err)
		uc.recordFallback(domain.GenreGeneral)
		return domain.Enrichment{
			Genre:   domain.GenreGeneral,
			Summary: "Summary unavailable: the language model could not process this document.",
		}
	}

	genre, err := uc.classifier.Classify(ctx, summary, nil)
	if err != nil {
		slog.Warn("genre_classification_degraded", "document_id", documentID, "error", err)
		if domain.IsKind(err, domain.ErrInvalidInput) {
			genre = domain.GenreGeneral
		} else {
			genre = domain.GenrePredictionError
		}
		uc.recordFallback(genre)
	}

	return domain.Enrichment{Genre: genre, Summary: summary}
}

func (uc *ProcessDocumentUseCase) recordFallback(genre string) {
	if uc.observer != nil {
		uc.observer.RecordGenreFallback(genre)
	}
}

func (uc *ProcessDocumentUseCase) failUpload(ctx context.Context, doc *domain.Document, cause error) error {
	if err := uc.storage.Remove(ctx, doc.StoragePath); err != nil {
		slog.Warn("failed_upload_cleanup", "document_id", doc.ID, "storage_path", doc.StoragePath, "error", err)
	}
	if err := uc.repo.UpdateStatus(ctx, doc.ID, domain.StatusFailed, cause.Error()); err != nil {
		return fmt.Errorf("%w; mark failed status: %v", cause, err)
	}
	return cause
}
