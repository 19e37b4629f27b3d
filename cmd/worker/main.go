package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pixilib/pixi/internal/bootstrap"
	"github.com/pixilib/pixi/internal/config"
	"github.com/pixilib/pixi/internal/observability/logging"
	"github.com/pixilib/pixi/internal/observability/metrics"
)

const processTimeout = 5 * time.Minute

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.New(logging.Options{Service: "worker", Level: cfg.LogLevel}))

	// run owns all the defers so that Close and the metrics shutdown still
	// happen on the error paths.
	if err := run(cfg); err != nil {
		slog.Error("worker exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}
	defer app.Close()

	workerMetrics := metrics.NewWorkerMetrics("worker")
	app.AttachPipelineObserver(workerMetrics)

	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: workerMetrics.Handler(),
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server error", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	slog.Info("worker subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeDocumentIngested(ctx, func(handlerCtx context.Context, documentID string) error {
		processCtx, cancel := context.WithTimeout(handlerCtx, processTimeout)
		defer cancel()

		workerMetrics.StartDocument()
		start := time.Now()
		processErr := app.ProcessUC.ProcessByID(processCtx, documentID)
		workerMetrics.FinishDocument(time.Since(start), processErr)
		return processErr
	})
	if err != nil {
		return fmt.Errorf("subscribe: %w", err)
	}
	return nil
}
