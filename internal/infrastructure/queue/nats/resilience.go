package nats

import (
	"context"
	"errors"

	"github.com/nats-io/nats.go"

	"github.com/pixilib/pixi/internal/core/domain"
	"github.com/pixilib/pixi/internal/infrastructure/resilience"
)

// classifyNATSError treats connection trouble as transient: the client
// reconnects on its own, so a publish that failed mid-reconnect is worth
// retrying. Anything else is a programming error and fatal.
func classifyNATSError(err error) resilience.Verdict {
	switch {
	case err == nil:
		return resilience.Benign
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return resilience.Benign
	case resilience.IsCircuitOpen(err):
		return resilience.Transient
	case errors.Is(err, nats.ErrNoServers),
		errors.Is(err, nats.ErrTimeout),
		errors.Is(err, nats.ErrConnectionClosed),
		errors.Is(err, nats.ErrDisconnected):
		return resilience.Transient
	}
	return resilience.Fatal
}

// wrapTemporaryIfNeeded marks retry-worthy publish failures so the HTTP
// layer can answer 503 instead of 500.
func wrapTemporaryIfNeeded(err error) error {
	if err == nil || domain.IsKind(err, domain.ErrTemporary) {
		return err
	}
	if classifyNATSError(err) == resilience.Transient {
		return domain.WrapError(domain.ErrTemporary, "nats publish", err)
	}
	return err
}
