// Package report lays out interview reports and saves them through a document writer.
package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/foxseedlab/mensetsu/internal/interview"
)

type Writer interface {
	Write(ctx context.Context, doc Document, path string) error
}

type Request struct {
	UserID     string
	Transcript interview.Transcript
	Analytics  string
	Now        time.Time
}

type Generator struct {
	writer Writer
	dir    string
	loc    *time.Location
}

func NewGenerator(writer Writer, dir string, loc *time.Location) *Generator {
	return &Generator{writer: writer, dir: dir, loc: loc}
}

// Generate saves the report under the report directory and returns its path.
func (g *Generator) Generate(ctx context.Context, req Request) (string, error) {
	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}
	doc := Build(req.UserID, req.Transcript, req.Analytics, req.Now, g.loc)
	path := filepath.Join(g.dir, FileName(req.UserID, req.Now.In(g.loc)))
	if err := g.writer.Write(ctx, doc, path); err != nil {
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			slog.Warn("failed to remove partial report", "error", rmErr, "path", path)
		}
		return "", fmt.Errorf("write report %s: %w", path, err)
	}
	slog.Info("interview report saved", "user_id", req.UserID, "path", path, "entries", len(req.Transcript))
	return path, nil
}
