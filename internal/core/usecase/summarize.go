package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/pixilib/pixi/internal/core/domain"
	"github.com/pixilib/pixi/internal/core/ports"
)

// NoTextMessage is returned for empty input without contacting the model.
const NoTextMessage = "No text provided to summarize."

// SummarizeUseCase turns extracted document text into one summary. Text that
// fits in a single chunk goes to the model directly; longer text is split,
// each chunk summarized in order, and the partial summaries consolidated with
// a final request (map-reduce).
type SummarizeUseCase struct {
	generator ports.TextGenerator
	chunker   ports.Chunker
	observer  ports.PipelineObserver
}

func NewSummarizeUseCase(generator ports.TextGenerator, chunker ports.Chunker) *SummarizeUseCase {
	return &SummarizeUseCase{
		generator: generator,
		chunker:   chunker,
	}
}

// SetObserver enables telemetry recording. Safe to leave unset.
func (uc *SummarizeUseCase) SetObserver(observer ports.PipelineObserver) {
	uc.observer = observer
}

func (uc *SummarizeUseCase) recordCall(operation string, err error) {
	if uc.observer != nil {
		uc.observer.RecordModelCall(operation, err)
	}
}

func (uc *SummarizeUseCase) Summarize(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return NoTextMessage, nil
	}

	if len([]rune(text)) < uc.chunker.Size() {
		return uc.summarizeDirect(ctx, text)
	}
	return uc.summarizeChunked(ctx, text)
}

func (uc *SummarizeUseCase) summarizeDirect(ctx context.Context, text string) (string, error) {
	if uc.observer != nil {
		uc.observer.ObserveChunks(1)
	}

	prompt := "Please provide a detailed summary of the following text:\n" + text
	summary, err := uc.generator.Generate(ctx, prompt)
	uc.recordCall("summarize", err)
	if err != nil {
		return "", domain.WrapError(domain.ErrRemoteCall, "summarize text", err)
	}
	return requireSummary(summary, "summarize text")
}

// requireSummary rejects a blank model response. A successful summary is
// never empty; an all-whitespace completion is a model failure.
func requireSummary(summary, operation string) (string, error) {
	trimmed := strings.TrimSpace(summary)
	if trimmed == "" {
		return "", domain.WrapError(domain.ErrRemoteCall, operation, fmt.Errorf("model returned an empty response"))
	}
	return trimmed, nil
}

func (uc *SummarizeUseCase) summarizeChunked(ctx context.Context, text string) (string, error) {
	chunks := uc.chunker.Split(text)
	partials := make([]string, 0, len(chunks))
	if uc.observer != nil {
		uc.observer.ObserveChunks(len(chunks))
	}

	// One bad chunk must not void the work done on the others; failures are
	// replaced by a placeholder and the loop moves on. Cancellation is the
	// only way out early.
	for i, chunk := range chunks {
		if err := ctx.Err(); err != nil {
			return "", domain.WrapError(domain.ErrRemoteCall, "summarize chunks", err)
		}

		prompt := fmt.Sprintf(
			"Summarize this portion of a document. This is part %d of %d:\n%s",
			i+1, len(chunks), chunk,
		)
		partial, err := uc.generator.Generate(ctx, prompt)
		uc.recordCall("summarize", err)
		if err != nil || strings.TrimSpace(partial) == "" {
			partials = append(partials, fmt.Sprintf("[could not summarize part %d of %d]", i+1, len(chunks)))
			continue
		}
		partials = append(partials, strings.TrimSpace(partial))
	}

	prompt := "The following are summaries of sequential parts of a long document. " +
		"Consolidate them into a single, cohesive, and detailed final summary:\n" +
		strings.Join(partials, "\n")
	summary, err := uc.generator.Generate(ctx, prompt)
	uc.recordCall("consolidate", err)
	if err != nil {
		return "", domain.WrapError(domain.ErrRemoteCall, "consolidate summaries", err)
	}
	return requireSummary(summary, "consolidate summaries")
}
