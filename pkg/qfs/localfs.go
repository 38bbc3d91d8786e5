package qfs

import (
	"context"
	"os"
	"path/filepath"
)

// LocalFS implements FileSystem against the local disk. It exists purely
// as a reference/test implementation: a real deployment would instead
// speak to whatever distributed filesystem the cluster uses, exercised
// here as the FileSystem interface rather than a concrete client.
type LocalFS struct{}

type notFoundError struct{ error }

func (notFoundError) NotFound() bool { return true }

func wrapNotFound(err error) error {
	if err == nil {
		return nil
	}
	if os.IsNotExist(err) {
		return notFoundError{err}
	}
	return err
}

func (LocalFS) ListDir(_ context.Context, dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, wrapNotFound(err)
	}
	out := make([]FileInfo, 0, len(entries))
	for _, e := range entries {
		out = append(out, FileInfo{Name: e.Name(), IsDir: e.IsDir()})
	}
	return out, nil
}

func (LocalFS) CreateDirectory(_ context.Context, dir string) error {
	return os.MkdirAll(dir, 0o755)
}

func (LocalFS) Delete(_ context.Context, path string) error {
	err := os.RemoveAll(path)
	if err != nil {
		return wrapNotFound(err)
	}
	return nil
}

func (LocalFS) Rename(_ context.Context, oldPath, newPath string) error {
	if err := os.MkdirAll(filepath.Dir(newPath), 0o755); err != nil {
		return err
	}
	if err := os.Rename(oldPath, newPath); err != nil {
		return wrapNotFound(err)
	}
	return nil
}

var _ FileSystem = LocalFS{}
