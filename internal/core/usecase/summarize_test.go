package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/pixilib/pixi/internal/core/domain"
	"github.com/pixilib/pixi/internal/infrastructure/chunking"
)

type generatorFake struct {
	prompts  []string
	respond  func(call int, prompt string) (string, error)
	fixedErr error
}

func (f *generatorFake) Generate(_ context.Context, prompt string) (string, error) {
	call := len(f.prompts)
	f.prompts = append(f.prompts, prompt)
	if f.fixedErr != nil {
		return "", f.fixedErr
	}
	if f.respond != nil {
		return f.respond(call, prompt)
	}
	return "summary " + fmt.Sprint(call), nil
}

func TestSummarizeEmptyTextSkipsModel(t *testing.T) {
	gen := &generatorFake{}
	uc := NewSummarizeUseCase(gen, chunking.NewSplitter(100))

	got, err := uc.Summarize(context.Background(), "   \n\t")
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if got != NoTextMessage {
		t.Fatalf("expected fixed no-text message, got %q", got)
	}
	if len(gen.prompts) != 0 {
		t.Fatalf("expected zero remote calls, got %d", len(gen.prompts))
	}
}

func TestSummarizeDirectPathSingleCall(t *testing.T) {
	gen := &generatorFake{respond: func(int, string) (string, error) {
		return "  a tidy summary  ", nil
	}}
	uc := NewSummarizeUseCase(gen, chunking.NewSplitter(500000))

	text := strings.Repeat("w", 1200)
	got, err := uc.Summarize(context.Background(), text)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if got != "a tidy summary" {
		t.Fatalf("expected trimmed model response, got %q", got)
	}
	if len(gen.prompts) != 1 {
		t.Fatalf("expected exactly one call on the direct path, got %d", len(gen.prompts))
	}
	if !strings.Contains(gen.prompts[0], text) {
		t.Fatalf("direct prompt should carry the full text")
	}
}

func TestSummarizeDirectPathFailureIsTyped(t *testing.T) {
	gen := &generatorFake{fixedErr: errors.New("quota exceeded")}
	uc := NewSummarizeUseCase(gen, chunking.NewSplitter(100))

	_, err := uc.Summarize(context.Background(), "short text")
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrRemoteCall) {
		t.Fatalf("expected ErrRemoteCall kind, got %v", err)
	}
}

func TestSummarizeBlankModelResponseIsFailure(t *testing.T) {
	gen := &generatorFake{respond: func(int, string) (string, error) {
		return "  \n\t ", nil
	}}
	uc := NewSummarizeUseCase(gen, chunking.NewSplitter(500000))

	_, err := uc.Summarize(context.Background(), strings.Repeat("w", 1200))
	if err == nil {
		t.Fatalf("expected error for blank model response")
	}
	if !domain.IsKind(err, domain.ErrRemoteCall) {
		t.Fatalf("expected ErrRemoteCall, got %v", err)
	}
}

func TestSummarizeBlankConsolidationIsFailure(t *testing.T) {
	gen := &generatorFake{respond: func(call int, prompt string) (string, error) {
		if strings.Contains(prompt, "Consolidate") {
			return "   ", nil
		}
		return "partial " + fmt.Sprint(call), nil
	}}
	uc := NewSummarizeUseCase(gen, chunking.NewSplitter(100))

	_, err := uc.Summarize(context.Background(), strings.Repeat("w", 350))
	if err == nil {
		t.Fatalf("expected error for blank consolidated summary")
	}
	if !domain.IsKind(err, domain.ErrRemoteCall) {
		t.Fatalf("expected ErrRemoteCall, got %v", err)
	}
}

func TestSummarizeBlankChunkResponseBecomesPlaceholder(t *testing.T) {
	gen := &generatorFake{respond: func(call int, prompt string) (string, error) {
		if strings.Contains(prompt, "part 2 of") && !strings.Contains(prompt, "Consolidate") {
			return "", nil
		}
		if strings.Contains(prompt, "Consolidate") {
			if !strings.Contains(prompt, "[could not summarize part 2 of") {
				return "", errors.New("placeholder missing from consolidation prompt")
			}
			return "final summary", nil
		}
		return "partial " + fmt.Sprint(call), nil
	}}
	uc := NewSummarizeUseCase(gen, chunking.NewSplitter(100))

	got, err := uc.Summarize(context.Background(), strings.Repeat("w", 350))
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if got != "final summary" {
		t.Fatalf("unexpected summary %q", got)
	}
}

func TestSummarizeChunkedCallCount(t *testing.T) {
	gen := &generatorFake{}
	uc := NewSummarizeUseCase(gen, chunking.NewSplitter(10))

	// 25 runes with chunk size 10: 3 chunk calls plus 1 consolidation.
	_, err := uc.Summarize(context.Background(), strings.Repeat("z", 25))
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if len(gen.prompts) != 4 {
		t.Fatalf("expected 3 chunk calls + 1 consolidation, got %d", len(gen.prompts))
	}
	for i := 0; i < 3; i++ {
		marker := fmt.Sprintf("part %d of 3", i+1)
		if !strings.Contains(gen.prompts[i], marker) {
			t.Fatalf("chunk prompt %d missing %q: %s", i, marker, gen.prompts[i])
		}
	}
	if !strings.Contains(gen.prompts[3], "Consolidate") {
		t.Fatalf("final prompt should consolidate partials: %s", gen.prompts[3])
	}
}

func TestSummarizeChunkFailureProducesPlaceholderAndContinues(t *testing.T) {
	gen := &generatorFake{respond: func(call int, _ string) (string, error) {
		if call == 1 {
			return "", errors.New("transient")
		}
		return fmt.Sprintf("partial %d", call), nil
	}}
	uc := NewSummarizeUseCase(gen, chunking.NewSplitter(10))

	got, err := uc.Summarize(context.Background(), strings.Repeat("z", 30))
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if got == "" {
		t.Fatalf("expected consolidated summary despite one bad chunk")
	}
	if len(gen.prompts) != 4 {
		t.Fatalf("expected all chunks plus consolidation attempted, got %d calls", len(gen.prompts))
	}
	if !strings.Contains(gen.prompts[3], "[could not summarize part 2 of 3]") {
		t.Fatalf("consolidation input should carry the placeholder: %s", gen.prompts[3])
	}
}

func TestSummarizeConsolidationFailureIsTyped(t *testing.T) {
	gen := &generatorFake{respond: func(call int, _ string) (string, error) {
		if call == 2 {
			return "", errors.New("boom")
		}
		return "partial", nil
	}}
	uc := NewSummarizeUseCase(gen, chunking.NewSplitter(10))

	_, err := uc.Summarize(context.Background(), strings.Repeat("z", 15))
	if err == nil {
		t.Fatalf("expected error")
	}
	if !domain.IsKind(err, domain.ErrRemoteCall) {
		t.Fatalf("expected ErrRemoteCall kind, got %v", err)
	}
}

func TestSummarizeChunkLoopHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	gen := &generatorFake{respond: func(call int, _ string) (string, error) {
		cancel()
		return "partial", nil
	}}
	uc := NewSummarizeUseCase(gen, chunking.NewSplitter(10))

	_, err := uc.Summarize(ctx, strings.Repeat("z", 40))
	if err == nil {
		t.Fatalf("expected cancellation error")
	}
	if len(gen.prompts) != 1 {
		t.Fatalf("expected the loop to stop after cancellation, got %d calls", len(gen.prompts))
	}
}
