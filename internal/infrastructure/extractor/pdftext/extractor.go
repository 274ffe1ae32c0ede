package pdftext

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Extractor pulls the raw text layer out of a PDF invoice. This is the
// upstream side of the pipeline: the engine itself only ever sees the
// resulting text, never the document bytes.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(_ context.Context, data io.Reader) (string, error) {
	// The pdf reader needs random access and the total size.
	buf := new(bytes.Buffer)
	size, err := buf.ReadFrom(data)
	if err != nil {
		return "", fmt.Errorf("buffer pdf: %w", err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(buf.Bytes()), size)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var text strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return "", fmt.Errorf("read pdf page %d: %w", pageNum, err)
		}
		for _, row := range rows {
			for i, word := range row.Content {
				if i > 0 {
					text.WriteString(" ")
				}
				text.WriteString(word.S)
			}
			text.WriteString("\n")
		}
	}
	return text.String(), nil
}
