package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pixilib/pixi/internal/infrastructure/resilience"
)

// Client talks to the Google Generative Language API. It is the single
// remote-model capability behind the summarizer and the genre classifier.
type Client struct {
	baseURL    string
	model      string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	executor   *resilience.Executor
}

type Options struct {
	Timeout            time.Duration
	RequestsPerSec     float64
	ResilienceExecutor *resilience.Executor
}

func New(baseURL, model, apiKey string, options Options) *Client {
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	var limiter *rate.Limiter
	if options.RequestsPerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(options.RequestsPerSec), 1)
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
		executor:   options.ResilienceExecutor,
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limit wait: %w", err)
		}
	}

	path := fmt.Sprintf("/v1beta/models/%s:generateContent", c.model)
	payload := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}

	var response generateResponse
	call := func(callCtx context.Context) error {
		return c.postJSON(callCtx, path, payload, &response, "generate")
	}

	var err error
	if c.executor != nil {
		err = c.executor.Do(ctx, "gemini.generate", call, classifyGeminiError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return "", err
	}

	text, err := firstCandidateText(response)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func firstCandidateText(response generateResponse) (string, error) {
	if len(response.Candidates) == 0 {
		return "", errors.New("gemini generate: empty candidate list")
	}
	parts := response.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return "", errors.New("gemini generate: candidate has no parts")
	}

	var b strings.Builder
	for _, p := range parts {
		b.WriteString(p.Text)
	}
	return b.String(), nil
}
