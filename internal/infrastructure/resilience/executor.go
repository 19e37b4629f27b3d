package resilience

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
)

// Verdict is how a Classifier judges a failed attempt.
type Verdict int

const (
	// Fatal ends the attempt loop and counts against the breaker. Bad
	// requests and auth failures land here: retrying cannot help, but the
	// dependency did answer.
	Fatal Verdict = iota
	// Transient is worth another attempt and counts against the breaker.
	// Model-API 5xx/429 responses and dropped NATS connections are the
	// two producers.
	Transient
	// Benign ends the loop without touching the breaker, for failures that
	// say nothing about the dependency's health (context cancellation,
	// a worker shutting down mid-document).
	Benign
)

// Classifier maps a dependency error to a Verdict. Each adapter ships its
// own: the gemini client reads HTTP status codes, the queue reads nats
// connection states.
type Classifier func(err error) Verdict

// Executor guards the two flaky dependencies of the pipeline, the language
// model API and the message queue, with bounded retries and one circuit
// breaker per named operation.
type Executor struct {
	cfg Config

	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker[struct{}]
}

func NewExecutor(cfg Config) *Executor {
	return &Executor{
		cfg:      cfg.normalize(),
		breakers: make(map[string]*gobreaker.CircuitBreaker[struct{}]),
	}
}

// Do runs call under the operation's breaker and retry budget. A nil
// classify treats every failure as Fatal.
func (e *Executor) Do(
	ctx context.Context,
	operation string,
	call func(context.Context) error,
	classify Classifier,
) error {
	if call == nil {
		return errors.New("resilience: nil call")
	}
	op := strings.TrimSpace(operation)
	if op == "" {
		op = "unknown"
	}
	if classify == nil {
		classify = func(error) Verdict { return Fatal }
	}

	if !e.cfg.BreakerEnabled {
		return e.attempt(ctx, op, call, classify)
	}

	_, err := e.breakerFor(op, classify).Execute(func() (struct{}, error) {
		return struct{}{}, e.attempt(ctx, op, call, classify)
	})
	return err
}

func (e *Executor) attempt(
	ctx context.Context,
	operation string,
	call func(context.Context) error,
	classify Classifier,
) error {
	wait := min(e.cfg.RetryInitialBackoff, e.cfg.RetryMaxBackoff)

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := call(ctx)
		if err == nil {
			return nil
		}
		if classify(err) != Transient || attempt >= e.cfg.RetryMaxAttempts {
			return err
		}

		slog.Warn("transient_failure",
			"operation", operation,
			"attempt", attempt,
			"budget", e.cfg.RetryMaxAttempts,
			"wait", wait.String(),
			"error", err,
		)
		if !sleepUnlessDone(ctx, wait) {
			return err
		}
		wait = min(time.Duration(float64(wait)*e.cfg.RetryMultiplier), e.cfg.RetryMaxBackoff)
	}
}

func sleepUnlessDone(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (e *Executor) breakerFor(operation string, classify Classifier) *gobreaker.CircuitBreaker[struct{}] {
	e.mu.Lock()
	defer e.mu.Unlock()

	if breaker, ok := e.breakers[operation]; ok {
		return breaker
	}

	breaker := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        operation,
		MaxRequests: e.cfg.BreakerHalfOpenMaxCalls,
		Timeout:     e.cfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < e.cfg.BreakerMinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= e.cfg.BreakerFailureRatio
		},
		IsSuccessful: func(err error) bool {
			return err == nil || classify(err) == Benign
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			slog.Warn("breaker_state_change", "operation", name, "from", from.String(), "to", to.String())
		},
	})
	e.breakers[operation] = breaker
	return breaker
}

// IsCircuitOpen reports whether err came from an open or saturated breaker
// rather than from the dependency itself.
func IsCircuitOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
