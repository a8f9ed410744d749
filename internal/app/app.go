package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"pagelens/features/health"
	"pagelens/features/query"
	"pagelens/internal/answer"
	"pagelens/internal/config"
	"pagelens/internal/fetch"
	"pagelens/internal/middleware"
	"pagelens/internal/retrieval"
	"pagelens/internal/structured"
)

type App struct {
	Handler http.Handler
	port    int
}

func New(cfg *config.Config, caps *Capabilities) *App {
	fetcher := fetch.NewFetcher(time.Duration(cfg.FetchTimeoutSeconds)*time.Second, cfg.MaxDocumentBytes)

	var synthesizer query.Synthesizer
	var reformatter query.Reformatter
	if caps.Generator != nil {
		synthesizer = answer.NewSynthesizer(caps.Generator, cfg.RetrievalTopK)
		reformatter = structured.NewReformatter(caps.Generator, structured.DefaultSchema())
	}

	queryLogger, err := retrieval.NewFileQueryLogger(cfg.QueryLogPath)
	if err != nil {
		slog.Warn("failed to create query logger, falling back to stdout", "error", err)
		queryLogger = retrieval.NewQueryLogger(os.Stdout)
	}

	queryService := query.NewService(
		fetcher,
		caps.Embedder,
		synthesizer,
		reformatter,
		cfg.ChunkSize,
		cfg.ChunkOverlap,
		queryLogger,
	)
	queryHandler := query.NewHandler(queryService)
	healthHandler := health.NewHandler(caps.Generator != nil, caps.Embedder != nil)

	// Middleware: CORS, so browser extensions can call the service directly.
	enableCORS := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}
			next(w, r)
		}
	}

	mux := http.NewServeMux()
	mux.Handle("POST /query", middleware.CorrelationID(enableCORS(queryHandler.Query)))
	mux.Handle("OPTIONS /query", middleware.CorrelationID(enableCORS(queryHandler.Query)))
	mux.Handle("GET /health", middleware.CorrelationID(enableCORS(healthHandler.Health)))
	mux.Handle("GET /ping", middleware.CorrelationID(enableCORS(healthHandler.Ping)))

	return &App{Handler: mux, port: cfg.ServerPort}
}

func (a *App) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", a.port),
		Handler: a.Handler,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutting down server...")
		if err := srv.Shutdown(context.Background()); err != nil {
			slog.Error("server shutdown failed", "error", err)
		}
	}()

	slog.Info("server starting", "port", a.port)
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}
