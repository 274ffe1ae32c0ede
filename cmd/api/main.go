package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/avosseler/vendormind/internal/adapters/http"
	"github.com/avosseler/vendormind/internal/bootstrap"
	"github.com/avosseler/vendormind/internal/config"
	"github.com/avosseler/vendormind/internal/core/domain"
	"github.com/avosseler/vendormind/internal/core/ports"
	"github.com/avosseler/vendormind/internal/observability/logging"
	"github.com/avosseler/vendormind/internal/observability/metrics"
)

const serviceName = "vendormind-api"

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger(serviceName, cfg.LogLevel, slog.String("memory_backend", cfg.MemoryBackend)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg)
	if err != nil {
		slog.Error("bootstrap failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	serverMetrics := metrics.NewHTTPServerMetrics(serviceName)
	learnUC := &meteredTrainer{inner: app.LearnUC, metrics: serverMetrics}

	mux := http.NewServeMux()
	mux.Handle("/metrics", serverMetrics.Handler())
	router := httpadapter.NewRouter(app.IngestUC, app.ProcessUC, learnUC, app.Repo, cfg).Handler()
	mux.Handle("/", serverMetrics.Middleware(serviceName, router))

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("api listening", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("api server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("api shutdown error", "error", err)
	}
}

// meteredTrainer counts accepted corrections that reached vendor memory.
type meteredTrainer struct {
	inner   ports.CorrectionTrainer
	metrics *metrics.HTTPServerMetrics
}

func (t *meteredTrainer) Learn(ctx context.Context, inv *domain.Invoice, log domain.HumanCorrectionLog) error {
	if err := t.inner.Learn(ctx, inv, log); err != nil {
		return err
	}
	if log.FinalDecision == domain.DecisionApproved {
		t.metrics.RecordLearnedRules(serviceName, len(log.Corrections))
	}
	return nil
}
