package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pixilib/pixi/internal/core/domain"
)

func TestClassifyEmptySummarySkipsModel(t *testing.T) {
	gen := &generatorFake{}
	uc := NewClassifyGenreUseCase(gen, nil)

	_, err := uc.Classify(context.Background(), "   ", nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if len(gen.prompts) != 0 {
		t.Fatalf("expected zero remote calls, got %d", len(gen.prompts))
	}
}

func TestClassifyReturnsTaxonomyMember(t *testing.T) {
	gen := &generatorFake{respond: func(int, string) (string, error) {
		return "  Science Fiction \n", nil
	}}
	uc := NewClassifyGenreUseCase(gen, nil)

	got, err := uc.Classify(context.Background(), "robots conquer the moon", nil)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if got != "Science Fiction" {
		t.Fatalf("expected Science Fiction, got %q", got)
	}
}

func TestClassifyCapitalizesBeforeMatching(t *testing.T) {
	gen := &generatorFake{respond: func(int, string) (string, error) {
		return "cooking", nil
	}}
	uc := NewClassifyGenreUseCase(gen, nil)

	got, err := uc.Classify(context.Background(), "pasta recipes from Italy", nil)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if got != "Cooking" {
		t.Fatalf("expected Cooking, got %q", got)
	}
}

func TestClassifyUnknownLabelFallsBackToGeneral(t *testing.T) {
	gen := &generatorFake{respond: func(int, string) (string, error) {
		return "Sci-Fi Stuff", nil
	}}
	uc := NewClassifyGenreUseCase(gen, nil)

	got, err := uc.Classify(context.Background(), "robots again", nil)
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if got != domain.GenreGeneral {
		t.Fatalf("expected catch-all fallback, got %q", got)
	}
}

func TestClassifyRemoteFailureIsTyped(t *testing.T) {
	gen := &generatorFake{fixedErr: errors.New("network down")}
	uc := NewClassifyGenreUseCase(gen, nil)

	_, err := uc.Classify(context.Background(), "some summary", nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrRemoteCall) {
		t.Fatalf("expected ErrRemoteCall, got %v", err)
	}
}

func TestClassifyPerCallCandidateOverride(t *testing.T) {
	gen := &generatorFake{respond: func(int, string) (string, error) {
		return "Medical", nil
	}}
	uc := NewClassifyGenreUseCase(gen, nil)

	got, err := uc.Classify(context.Background(), "a clinical trial report", []string{"Legal", "Medical"})
	if err != nil {
		t.Fatalf("Classify() error = %v", err)
	}
	if got != "Medical" {
		t.Fatalf("expected Medical, got %q", got)
	}
	if !strings.Contains(gen.prompts[0], "Legal, Medical") {
		t.Fatalf("prompt should list the override candidates: %s", gen.prompts[0])
	}
	if strings.Contains(gen.prompts[0], "Photography") {
		t.Fatalf("prompt should not list default genres when overridden")
	}
}

func TestClassifyClosureOverArbitraryResponses(t *testing.T) {
	responses := []string{"Fiction", "fiction", "FICTION", "banana", "", "General"}
	allowed := map[string]bool{domain.GenreGeneral: true}
	for _, g := range domain.DefaultGenres() {
		allowed[g] = true
	}

	for _, resp := range responses {
		gen := &generatorFake{respond: func(int, string) (string, error) {
			return resp, nil
		}}
		uc := NewClassifyGenreUseCase(gen, nil)
		got, err := uc.Classify(context.Background(), "anything", nil)
		if err != nil {
			t.Fatalf("Classify(%q) error = %v", resp, err)
		}
		if !allowed[got] {
			t.Fatalf("label %q escaped the candidate set for response %q", got, resp)
		}
	}
}
