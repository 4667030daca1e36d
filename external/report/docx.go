package report

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/foxseedlab/mensetsu/internal/report"
	"github.com/fumiama/go-docx"
)

// Font sizes in half-points.
const (
	titleSize   = 32
	headingSize = 28
	normalSize  = 22
)

type DocxWriter struct{}

func NewDocxWriter() report.Writer {
	return &DocxWriter{}
}

func (w *DocxWriter) Write(ctx context.Context, doc report.Document, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	file := render(doc)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create docx: %w", err)
	}
	if _, err := file.WriteTo(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write docx: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close docx: %w", err)
	}
	return nil
}

func render(doc report.Document) *docx.Docx {
	file := docx.New().WithDefaultTheme()
	for _, block := range doc.Blocks {
		p := file.AddParagraph()
		run := p.AddText(block.Text)
		switch block.Kind {
		case report.BlockTitle:
			p.Justification("center")
			run.Bold().Size(strconv.Itoa(titleSize))
		case report.BlockHeading:
			run.Bold().Size(strconv.Itoa(headingSize))
		default:
			run.Size(strconv.Itoa(normalSize))
		}
	}
	return file
}
