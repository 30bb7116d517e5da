package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// writeFileAtomic writes data next to path under a unique temporary name
// and renames it into place, so readers see either the old file or the
// complete new one.
func writeFileAtomic(path string, data []byte) (err error) {
	path = filepath.Clean(path)
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("%w: create database directory: %w", ErrIO, err)
	}

	tmp := filepath.Join(dir, "."+filepath.Base(path)+"."+uuid.NewString()+".tmp")

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return fmt.Errorf("%w: create temp file: %w", ErrIO, err)
	}

	defer func() {
		if err == nil {
			return
		}
		if rerr := os.Remove(tmp); rerr != nil && !os.IsNotExist(rerr) {
			slog.Warn("failed to remove temp file", "path", tmp, "error", rerr)
		}
	}()

	if _, err = f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: write temp file: %w", ErrIO, err)
	}
	if err = f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("%w: sync temp file: %w", ErrIO, err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("%w: close temp file: %w", ErrIO, err)
	}

	if err = os.Rename(tmp, path); err != nil {
		return fmt.Errorf("%w: replace %s: %w", ErrIO, path, err)
	}

	return nil
}
