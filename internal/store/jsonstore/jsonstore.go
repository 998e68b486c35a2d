package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// JSON-backed storage for small local state files (credentials, UI
// preferences). Single file, human-readable. Writes go through a sibling
// .lock file so two cusrr processes never interleave.

const (
	lockTimeout   = 3 * time.Second
	lockRetry     = 50 * time.Millisecond
	lockSuffix    = ".lock"
	dirPermission = 0o700
)

func withLock(path string, fn func() error) error {
	if err := os.MkdirAll(filepath.Dir(path), dirPermission); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()

	lock := flock.New(path + lockSuffix)
	locked, err := lock.TryLockContext(ctx, lockRetry)
	if err != nil {
		return fmt.Errorf("lock %s: %w", filepath.Base(path), err)
	}
	if !locked {
		return fmt.Errorf("lock %s: busy", filepath.Base(path))
	}
	defer func() { _ = lock.Unlock() }()
	return fn()
}

// Load decodes path into v. It reports false when the file does not exist.
func Load(path string, v any) (bool, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("read file: %w", err)
	}
	if len(b) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(b, v); err != nil {
		return false, fmt.Errorf("json unmarshal: %w", err)
	}
	return true, nil
}

// Save writes v to path with the given permissions. The file is replaced
// atomically.
func Save(path string, v any, perm os.FileMode) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}
	return withLock(path, func() error {
		tmp := path + ".tmp"
		if err := os.WriteFile(tmp, b, perm); err != nil {
			return fmt.Errorf("write file: %w", err)
		}
		if err := os.Rename(tmp, path); err != nil {
			_ = os.Remove(tmp)
			return fmt.Errorf("rename: %w", err)
		}
		return nil
	})
}

// Remove deletes path. A missing file is not an error.
func Remove(path string) error {
	return withLock(path, func() error {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove: %w", err)
		}
		return nil
	})
}
