package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	reportapp "github.com/erp/reporting/internal/application/report"
	"go.uber.org/zap"
)

var (
	_ reportapp.Emitter = (*LocalEmitter)(nil)
	_ reportapp.Emitter = (*WriterEmitter)(nil)
)

// LocalEmitter writes exports into a directory on disk.
type LocalEmitter struct {
	dir    string
	logger *zap.Logger
}

// NewLocalEmitter creates the directory if needed and returns an emitter writing into it.
func NewLocalEmitter(dir string, logger *zap.Logger) (*LocalEmitter, error) {
	if dir == "" {
		return nil, errors.New("export directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export directory: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalEmitter{dir: dir, logger: logger}, nil
}

// Dir returns the target directory.
func (e *LocalEmitter) Dir() string { return e.dir }

// Emit writes data to dir/filename. Only the base name of filename is used,
// so an export can never escape the directory.
func (e *LocalEmitter) Emit(ctx context.Context, data []byte, filename string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	name := filepath.Base(filepath.Clean(filename))
	if name == "." || name == string(filepath.Separator) || name == ".." {
		return fmt.Errorf("invalid export filename %q", filename)
	}

	target := filepath.Join(e.dir, name)
	tmp, err := os.CreateTemp(e.dir, "."+name+".*")
	if err != nil {
		return fmt.Errorf("failed to create export file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write export file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write export file: %w", err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to move export file: %w", err)
	}

	e.logger.Info("Export written", zap.String("path", target), zap.Int("size", len(data)))
	return nil
}

// WriterEmitter copies exports to a writer such as stdout.
type WriterEmitter struct {
	W io.Writer
}

// Emit writes data followed by a newline; filename is ignored.
func (e *WriterEmitter) Emit(_ context.Context, data []byte, _ string) error {
	if _, err := e.W.Write(data); err != nil {
		return err
	}
	_, err := io.WriteString(e.W, "\n")
	return err
}
