package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileBackend keeps counters in a JSON file:
//
//	{"transaction-id": 12, "submission-id": 3}
//
// The whole file is rewritten on every Save.
type FileBackend struct {
	path string
}

// NewFileBackend creates a file backend for path
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// Path returns the counter file location
func (b *FileBackend) Path() string {
	return b.path
}

// Load reads the counter file
func (b *FileBackend) Load(ctx context.Context) (Counters, error) {
	data, err := os.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Counters{}, fmt.Errorf("%w: %s", ErrStateNotFound, b.path)
	}
	if err != nil {
		return Counters{}, fmt.Errorf("reading state file: %w", err)
	}

	var c Counters
	if err := json.Unmarshal(data, &c); err != nil {
		return Counters{}, fmt.Errorf("%w: %s: %v", ErrStateCorrupt, b.path, err)
	}
	return c, nil
}

// Save writes the counters to a temporary file next to the target, syncs
// it and renames it into place
func (b *FileBackend) Save(ctx context.Context, c Counters) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}

	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(b.path)+".*")
	if err != nil {
		return fmt.Errorf("creating temporary state file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing state file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing state file: %w", err)
	}
	if err := os.Rename(tmpName, b.path); err != nil {
		return fmt.Errorf("replacing state file: %w", err)
	}
	return nil
}
