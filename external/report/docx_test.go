package report

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/foxseedlab/mensetsu/internal/interview"
	"github.com/foxseedlab/mensetsu/internal/report"
	"github.com/nguyenthenguyen/docx"
)

func TestDocxWriter_WritesReadableDocument(t *testing.T) {
	w := NewDocxWriter()
	now := time.Date(2025, 4, 1, 15, 0, 0, 0, time.UTC)
	var transcript interview.Transcript
	transcript = transcript.Append("Расскажите о <Python> & SQL", true, now)
	doc := report.Build("555", transcript, "1. Итог\nХороший кандидат", now, time.UTC)

	path := filepath.Join(t.TempDir(), report.FileName("555", now))
	if err := w.Write(context.Background(), doc, path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r, err := docx.ReadDocxFile(path)
	if err != nil {
		t.Fatalf("failed to read written docx: %v", err)
	}
	defer func() {
		_ = r.Close()
	}()
	content := r.Editable().GetContent()
	for _, want := range []string{
		"Отчет по собеседованию",
		"<w:br>",
		`<w:jc w:val="center">`,
		`<w:sz w:val="32">`,
		`<w:sz w:val="28">`,
		`<w:sz w:val="22">`,
		"Информация о кандидате",
		"ID пользователя: 555",
		"Расскажите о &lt;Python&gt; &amp; SQL",
		"1. Итог",
		"Хороший кандидат",
	} {
		if !strings.Contains(content, want) {
			t.Fatalf("document missing %q:\n%s", want, content)
		}
	}
	if strings.Count(content, `<w:jc w:val="center">`) != 1 {
		t.Fatal("only the title should be centred")
	}
}

func TestDocxWriter_CanceledContext(t *testing.T) {
	w := NewDocxWriter()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := w.Write(ctx, report.Document{}, filepath.Join(t.TempDir(), "x.docx")); err == nil {
		t.Fatal("expected error for canceled context")
	}
}
