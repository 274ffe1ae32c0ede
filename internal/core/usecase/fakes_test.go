package usecase

import (
	"context"

	"github.com/avosseler/vendormind/internal/core/domain"
)

// memoryStoreFake implements the store contract in memory, including the
// upsert-and-reinforce semantics, so learn/process tests can run the real
// loop: learn on one invoice, process the next.
type memoryStoreFake struct {
	memories map[string]*domain.VendorMemory

	getErr     error
	patternErr error
	corrErr    error
}

func newMemoryStoreFake() *memoryStoreFake {
	return &memoryStoreFake{memories: map[string]*domain.VendorMemory{}}
}

func (f *memoryStoreFake) vendor(vendor string) *domain.VendorMemory {
	mem, ok := f.memories[vendor]
	if !ok {
		mem = &domain.VendorMemory{Vendor: vendor}
		f.memories[vendor] = mem
	}
	return mem
}

func (f *memoryStoreFake) GetVendorMemory(_ context.Context, vendor string) (domain.VendorMemory, error) {
	if f.getErr != nil {
		return domain.VendorMemory{}, f.getErr
	}
	return *f.vendor(vendor), nil
}

func (f *memoryStoreFake) AddPattern(_ context.Context, vendor string, pattern domain.ExtractionPattern) error {
	if f.patternErr != nil {
		return f.patternErr
	}
	mem := f.vendor(vendor)
	for i := range mem.Patterns {
		p := &mem.Patterns[i]
		if p.Field == pattern.Field && p.Regex == pattern.Regex {
			p.UsageCount++
			p.LastUsed = pattern.LastUsed
			p.Confidence = domain.Reinforce(p.Confidence)
			return nil
		}
	}
	mem.Patterns = append(mem.Patterns, pattern)
	return nil
}

func (f *memoryStoreFake) AddStaticCorrection(_ context.Context, vendor string, corr domain.ValueCorrection) error {
	if f.corrErr != nil {
		return f.corrErr
	}
	mem := f.vendor(vendor)
	for i := range mem.Corrections {
		c := &mem.Corrections[i]
		if c.Field == corr.Field && c.TriggerValue == corr.TriggerValue && c.CorrectedValue == corr.CorrectedValue {
			c.UsageCount++
			c.Confidence = domain.Reinforce(c.Confidence)
			return nil
		}
	}
	mem.Corrections = append(mem.Corrections, corr)
	return nil
}

func (f *memoryStoreFake) Reset(context.Context) error {
	f.memories = map[string]*domain.VendorMemory{}
	return nil
}
