package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalDestination writes files into a directory on local disk.
type LocalDestination struct {
	dir string
}

// NewLocalDestination creates a LocalDestination for dir.
// Nothing is created until the first Write.
func NewLocalDestination(dir string) *LocalDestination {
	return &LocalDestination{dir: filepath.Clean(dir)}
}

// Dir returns the destination directory.
func (d *LocalDestination) Dir() string {
	return d.dir
}

// Target returns the path filename is written to.
func (d *LocalDestination) Target(filename string) string {
	return filepath.Join(d.dir, filename)
}

// Write creates the directory and any missing parents, then writes content
// to a temporary file in the same directory and renames it over filename.
func (d *LocalDestination) Write(ctx context.Context, filename string, content []byte) error {
	select {
	case <-ctx.Done():
		return fmt.Errorf("context cancelled: %w", ctx.Err())
	default:
	}

	if err := os.MkdirAll(d.dir, 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	f, err := os.CreateTemp(d.dir, "."+filename+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	tmpName := f.Name()
	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	// CreateTemp uses 0600; the file is a build resource meant to be read by others.
	if err := os.Chmod(tmpName, 0o644); err != nil { //nolint:gosec // build output is not sensitive
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if err := os.Rename(tmpName, d.Target(filename)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}
