package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/avosseler/vendormind/internal/core/domain"
)

// Store is the file-backed vendor memory store: one YAML document holding
// every vendor's rules, rewritten atomically on each upsert. Suited to
// single-node deployments without a database; the postgres repository is
// the concurrent alternative.
type Store struct {
	path string

	mu sync.Mutex
}

type fileDocument struct {
	Vendors map[string]domain.VendorMemory `yaml:"vendors"`
}

func New(path string) (*Store, error) {
	if path == "" {
		path = "./data/vendor_memory.yaml"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create memory store dir: %w", err)
	}
	return &Store{path: path}, nil
}

func (s *Store) GetVendorMemory(_ context.Context, vendor string) (domain.VendorMemory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return domain.VendorMemory{}, err
	}
	mem, ok := doc.Vendors[vendor]
	if !ok {
		return domain.VendorMemory{Vendor: vendor}, nil
	}
	return mem, nil
}

func (s *Store) AddPattern(_ context.Context, vendor string, pattern domain.ExtractionPattern) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mutate(vendor, func(mem *domain.VendorMemory) {
		for i := range mem.Patterns {
			p := &mem.Patterns[i]
			if p.Field == pattern.Field && p.Regex == pattern.Regex {
				p.UsageCount++
				p.LastUsed = pattern.LastUsed
				p.Confidence = domain.Reinforce(p.Confidence)
				return
			}
		}
		mem.Patterns = append(mem.Patterns, pattern)
	})
}

func (s *Store) AddStaticCorrection(_ context.Context, vendor string, corr domain.ValueCorrection) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.mutate(vendor, func(mem *domain.VendorMemory) {
		for i := range mem.Corrections {
			c := &mem.Corrections[i]
			if c.Field == corr.Field && c.TriggerValue == corr.TriggerValue && c.CorrectedValue == corr.CorrectedValue {
				c.UsageCount++
				c.Confidence = domain.Reinforce(c.Confidence)
				return
			}
		}
		mem.Corrections = append(mem.Corrections, corr)
	})
}

func (s *Store) Reset(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("reset memory store: %w", err)
	}
	return nil
}

func (s *Store) mutate(vendor string, apply func(*domain.VendorMemory)) error {
	doc, err := s.load()
	if err != nil {
		return err
	}

	mem := doc.Vendors[vendor]
	mem.Vendor = vendor
	apply(&mem)
	doc.Vendors[vendor] = mem

	return s.save(doc)
}

func (s *Store) load() (fileDocument, error) {
	doc := fileDocument{Vendors: map[string]domain.VendorMemory{}}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return doc, nil
		}
		return doc, fmt.Errorf("read memory store: %w", err)
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("decode memory store: %w", err)
	}
	if doc.Vendors == nil {
		doc.Vendors = map[string]domain.VendorMemory{}
	}
	return doc, nil
}

// save writes via a temp file and rename so a crash mid-write cannot
// leave a truncated store behind.
func (s *Store) save(doc fileDocument) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode memory store: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write memory store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace memory store: %w", err)
	}
	return nil
}
