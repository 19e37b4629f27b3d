package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/net/netutil"

	httpadapter "github.com/pixilib/pixi/internal/adapters/http"
	"github.com/pixilib/pixi/internal/bootstrap"
	"github.com/pixilib/pixi/internal/config"
	"github.com/pixilib/pixi/internal/observability/logging"
	"github.com/pixilib/pixi/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.New(logging.Options{Service: "api", Level: cfg.LogLevel}))

	// run owns all the defers so that Close still happens on the error paths.
	if err := run(cfg); err != nil {
		slog.Error("api exited", "error", err)
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

	openAPIDoc, err := httpadapter.LoadOpenAPIDocument()
	if err != nil {
		return fmt.Errorf("api description failed validation: %w", err)
	}

	handler := httpadapter.NewRouter(httpadapter.Deps{
		Ingestor:       app.IngestUC,
		Documents:      app.Documents,
		Tickets:        app.Tickets,
		Discussions:    app.Discussions,
		Storage:        app.Storage,
		Chat:           app.Chat,
		Exporter:       app.Exporter,
		Genres:         app.Genres,
		MaxUploadBytes: cfg.MaxUploadBytes,
		OpenAPIDoc:     openAPIDoc,
	}).Handler()

	mux := http.NewServeMux()
	if cfg.APIMetricsEnabled {
		serverMetrics := metrics.NewHTTPServerMetrics("api")
		mux.Handle("/metrics", serverMetrics.Handler())
		handler = serverMetrics.Middleware("api", handler)
	}
	mux.Handle("/", handler)

	server := &http.Server{
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	listener, err := net.Listen("tcp", ":"+cfg.APIPort)
	if err != nil {
		return fmt.Errorf("listen on port %s: %w", cfg.APIPort, err)
	}
	if cfg.MaxConcurrentConns > 0 {
		listener = netutil.LimitListener(listener, cfg.MaxConcurrentConns)
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("api listening", "port", cfg.APIPort, "max_conns", cfg.MaxConcurrentConns)
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
