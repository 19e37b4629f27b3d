package usecase

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"github.com/pixilib/pixi/internal/core/domain"
	"github.com/pixilib/pixi/internal/core/ports"
)

// ClassifyGenreUseCase asks the model to pick exactly one label from a closed
// taxonomy. The default set is injected at construction so deployments can
// swap vocabularies; a non-nil candidates argument overrides it per call.
type ClassifyGenreUseCase struct {
	generator     ports.TextGenerator
	defaultGenres []string
	observer      ports.PipelineObserver
}

// SetObserver enables telemetry recording. Safe to leave unset.
func (uc *ClassifyGenreUseCase) SetObserver(observer ports.PipelineObserver) {
	uc.observer = observer
}

func NewClassifyGenreUseCase(generator ports.TextGenerator, defaultGenres []string) *ClassifyGenreUseCase {
	if len(defaultGenres) == 0 {
		defaultGenres = domain.DefaultGenres()
	}
	return &ClassifyGenreUseCase{
		generator:     generator,
		defaultGenres: defaultGenres,
	}
}

func (uc *ClassifyGenreUseCase) Classify(ctx context.Context, summary string, candidates []string) (string, error) {
	if strings.TrimSpace(summary) == "" {
		return "", domain.WrapError(domain.ErrInvalidInput, "classify genre", errors.New("empty summary"))
	}

	genres := candidates
	if len(genres) == 0 {
		genres = uc.defaultGenres
	}

	raw, err := uc.generator.Generate(ctx, buildGenrePrompt(summary, genres))
	if uc.observer != nil {
		uc.observer.RecordModelCall("classify", err)
	}
	if err != nil {
		return "", domain.WrapError(domain.ErrRemoteCall, "classify genre", err)
	}

	predicted := capitalize(strings.TrimSpace(raw))
	for _, genre := range genres {
		if predicted == genre {
			return genre, nil
		}
	}
	// Genre is advisory metadata; a label outside the taxonomy degrades to
	// the catch-all instead of failing the upload.
	if uc.observer != nil {
		uc.observer.RecordGenreFallback(domain.GenreGeneral)
	}
	return domain.GenreGeneral, nil
}

func buildGenrePrompt(summary string, genres []string) string {
	var b strings.Builder
	b.WriteString("Analyze the following text summary and determine the most appropriate genre from the provided list.\n")
	b.WriteString("Please only return the single best genre from the list. Do not explain your choice.\n\n")
	b.WriteString("AVAILABLE GENRES:\n")
	b.WriteString(strings.Join(genres, ", "))
	b.WriteString("\n\nTEXT SUMMARY:\n\"")
	b.WriteString(summary)
	b.WriteString("\"\n\nTHE SINGLE BEST GENRE IS:")
	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
