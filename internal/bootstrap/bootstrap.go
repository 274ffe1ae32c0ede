package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avosseler/vendormind/internal/config"
	"github.com/avosseler/vendormind/internal/core/ports"
	"github.com/avosseler/vendormind/internal/core/usecase"
	"github.com/avosseler/vendormind/internal/infrastructure/extractor/pdftext"
	"github.com/avosseler/vendormind/internal/infrastructure/queue/nats"
	"github.com/avosseler/vendormind/internal/infrastructure/reference/yamlref"
	"github.com/avosseler/vendormind/internal/infrastructure/repository/filestore"
	"github.com/avosseler/vendormind/internal/infrastructure/repository/postgres"
	"github.com/avosseler/vendormind/internal/infrastructure/resilience"
	"github.com/avosseler/vendormind/internal/infrastructure/storage/localfs"
)

type App struct {
	Config config.Config

	Queue  ports.MessageQueue
	Repo   ports.InvoiceRepository
	Memory ports.MemoryStore

	IngestUC  ports.InvoiceIngestor
	ProcessUC ports.InvoiceJobProcessor
	LearnUC   ports.CorrectionTrainer

	closeFn func()
}

func New(ctx context.Context, cfg config.Config) (*App, error) {
	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewInvoiceRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure invoice schema: %w", err)
	}

	memory, err := newMemoryStore(ctx, cfg, db)
	if err != nil {
		return nil, fmt.Errorf("init memory store: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init object storage: %w", err)
	}

	queue, err := nats.NewWithOptions(cfg.NATSURL, cfg.NATSSubject, nats.Options{
		ResilienceExecutor: resilience.NewExecutor(resilience.DefaultConfig()),
	})
	if err != nil {
		return nil, fmt.Errorf("init message queue: %w", err)
	}

	extractor := pdftext.New()
	refs := yamlref.New(cfg.ReferenceDataPath)

	engine := usecase.NewProcessInvoiceUseCase(memory)
	ingestUC := usecase.NewIngestInvoiceUseCase(repo, storage, extractor, queue)
	processUC := usecase.NewProcessQueuedInvoiceUseCase(repo, refs, engine)
	learnUC := usecase.NewLearnUseCase(memory)

	return &App{
		Config: cfg,
		Queue:  queue,
		Repo:   repo,
		Memory: memory,

		IngestUC:  ingestUC,
		ProcessUC: processUC,
		LearnUC:   learnUC,

		closeFn: func() {
			queue.Close()
			_ = db.Close()
		},
	}, nil
}

func newMemoryStore(ctx context.Context, cfg config.Config, db *sql.DB) (ports.MemoryStore, error) {
	switch cfg.MemoryBackend {
	case "file":
		store, err := filestore.New(cfg.MemoryStorePath)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		store := postgres.NewMemoryRepository(db)
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("ensure memory schema: %w", err)
		}
		return store, nil
	}
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
