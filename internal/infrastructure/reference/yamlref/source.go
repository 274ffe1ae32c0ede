package yamlref

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/avosseler/vendormind/internal/core/domain"
)

// Source reads purchase orders and delivery notes from a YAML file
// maintained outside the system (typically exported from the ERP).
// A missing file just means there is nothing to match against.
type Source struct {
	path string
}

func New(path string) *Source {
	return &Source{path: path}
}

func (s *Source) Load(_ context.Context) (domain.ReferenceData, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.ReferenceData{}, nil
		}
		return domain.ReferenceData{}, fmt.Errorf("read reference data: %w", err)
	}

	var refs domain.ReferenceData
	if err := yaml.Unmarshal(data, &refs); err != nil {
		return domain.ReferenceData{}, fmt.Errorf("decode reference data: %w", err)
	}
	return refs, nil
}
