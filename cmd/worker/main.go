package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/avosseler/vendormind/internal/adapters/report"
	"github.com/avosseler/vendormind/internal/bootstrap"
	"github.com/avosseler/vendormind/internal/config"
	"github.com/avosseler/vendormind/internal/core/domain"
	"github.com/avosseler/vendormind/internal/observability/logging"
	"github.com/avosseler/vendormind/internal/observability/metrics"
)

const serviceName = "vendormind-worker"

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

	workerMetrics := metrics.NewWorkerMetrics(serviceName)
	metricsServer := &http.Server{
		Addr:    ":" + cfg.WorkerMetricsPort,
		Handler: metricsHandler(workerMetrics),
	}
	go func() {
		slog.Info("worker metrics listening", "port", cfg.WorkerMetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server error", "error", err)
		}
	}()

	collector := newResultCollector()

	slog.Info("worker subscribed", "subject", cfg.NATSSubject)
	err = app.Queue.SubscribeInvoiceReceived(ctx, func(handlerCtx context.Context, invoiceID string) error {
		processCtx, cancel := context.WithTimeout(handlerCtx, time.Duration(cfg.WorkerTimeoutSecs)*time.Second)
		defer cancel()

		start := time.Now()
		if inv, getErr := app.Repo.GetByID(processCtx, invoiceID); getErr == nil {
			workerMetrics.ObserveQueueLag(serviceName, start.Sub(inv.CreatedAt))
		}

		workerMetrics.StartInvoice()
		result, processErr := app.ProcessUC.ProcessByID(processCtx, invoiceID)
		workerMetrics.FinishInvoice(serviceName, outcomeLabel(result, processErr), time.Since(start))
		if processErr != nil {
			return processErr
		}

		workerMetrics.ObserveConfidence(serviceName, result.ConfidenceScore)
		collector.add(*result)
		return nil
	})
	if err != nil {
		slog.Error("worker subscribe error", "error", err)
	}

	if cfg.ReviewReportEnabled {
		writeReviewReport(cfg.ReviewReportPath, collector.snapshot())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = metricsServer.Shutdown(shutdownCtx)
}

func metricsHandler(m *metrics.WorkerMetrics) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	return mux
}

func outcomeLabel(result *domain.ProcessResult, err error) string {
	switch {
	case err != nil:
		return string(domain.StatusFailed)
	case result.RequiresHumanReview:
		return string(domain.StatusNeedsReview)
	default:
		return string(domain.StatusProcessed)
	}
}

func writeReviewReport(path string, results []domain.ProcessResult) {
	if len(results) == 0 {
		return
	}
	if err := report.NewReviewReportWriter(path).Write(results); err != nil {
		slog.Error("write review report", "error", err, "path", path)
		return
	}
	slog.Info("review report written", "path", path, "summary", report.SummaryLine(results))
}

// resultCollector accumulates this run's results for the shutdown report.
type resultCollector struct {
	mu      sync.Mutex
	results []domain.ProcessResult
}

func newResultCollector() *resultCollector {
	return &resultCollector{}
}

func (c *resultCollector) add(result domain.ProcessResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, result)
}

func (c *resultCollector) snapshot() []domain.ProcessResult {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.ProcessResult, len(c.results))
	copy(out, c.results)
	return out
}
