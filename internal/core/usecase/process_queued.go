package usecase

import (
	"context"
	"fmt"

	"github.com/avosseler/vendormind/internal/core/domain"
	"github.com/avosseler/vendormind/internal/core/ports"
)

// ProcessQueuedInvoiceUseCase drives the engine for one queued invoice:
// load, normalize, persist the result, settle the status.
type ProcessQueuedInvoiceUseCase struct {
	repo   ports.InvoiceRepository
	refs   ports.ReferenceSource
	engine *ProcessInvoiceUseCase
}

func NewProcessQueuedInvoiceUseCase(
	repo ports.InvoiceRepository,
	refs ports.ReferenceSource,
	engine *ProcessInvoiceUseCase,
) *ProcessQueuedInvoiceUseCase {
	return &ProcessQueuedInvoiceUseCase{
		repo:   repo,
		refs:   refs,
		engine: engine,
	}
}

func (uc *ProcessQueuedInvoiceUseCase) ProcessByID(ctx context.Context, invoiceID string) (*domain.ProcessResult, error) {
	if err := uc.repo.UpdateStatus(ctx, invoiceID, domain.StatusProcessing, ""); err != nil {
		return nil, fmt.Errorf("set status=processing: %w", err)
	}

	result, err := uc.runPipeline(ctx, invoiceID)
	if err != nil {
		if failErr := uc.repo.UpdateStatus(ctx, invoiceID, domain.StatusFailed, err.Error()); failErr != nil {
			return nil, fmt.Errorf("%w; mark failed status: %v", err, failErr)
		}
		return nil, err
	}

	status := domain.StatusProcessed
	if result.RequiresHumanReview {
		status = domain.StatusNeedsReview
	}
	if err := uc.repo.UpdateStatus(ctx, invoiceID, status, ""); err != nil {
		return nil, fmt.Errorf("set status=%s: %w", status, err)
	}
	return result, nil
}

func (uc *ProcessQueuedInvoiceUseCase) runPipeline(ctx context.Context, invoiceID string) (*domain.ProcessResult, error) {
	inv, err := uc.repo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("fetch invoice by id: %w", err)
	}

	refs, err := uc.refs.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load reference data: %w", err)
	}

	prior, err := uc.repo.ListProcessed(ctx)
	if err != nil {
		return nil, fmt.Errorf("list processed invoices: %w", err)
	}

	result, err := uc.engine.Process(ctx, inv, refs, prior)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.SaveResult(ctx, result); err != nil {
		return nil, fmt.Errorf("save process result: %w", err)
	}
	return result, nil
}
