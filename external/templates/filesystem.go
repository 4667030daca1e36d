package templates

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/foxseedlab/mensetsu/internal/prompt"
)

type FilesystemStore struct {
	dir string
}

func NewFilesystemStore(dir string) prompt.TemplateStore {
	return &FilesystemStore{dir: dir}
}

func (s *FilesystemStore) Load(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if name != filepath.Base(name) {
		return "", fmt.Errorf("invalid template name %q", name)
	}
	b, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%s: %w", name, prompt.ErrTemplateNotFound)
		}
		return "", fmt.Errorf("read template %s: %w", name, err)
	}
	return string(b), nil
}
