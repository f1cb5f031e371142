package kvstore

import (
	"os"
	"path/filepath"
	"sync"

	"go.yaml.in/yaml/v3"

	vgriderrors "github.com/chenjieyouge/vgrid/internal/errors"
)

var _ Store = (*FileStore)(nil)

// FileStore is a YAML-file-backed Store: the whole key space lives in one
// file, read once at construction and rewritten on every Set. Per spec
// §4.12, storage being unavailable or corrupt must never be fatal — a
// failed load leaves the store starting empty, and callers are expected
// to log the returned error as a warning and continue.
type FileStore struct {
	mu   sync.Mutex
	path string
	data map[string]any
}

// NewFileStore opens (or prepares to create) path as a YAML document. If
// the file exists but cannot be parsed, NewFileStore still returns a
// usable empty store alongside the parse error, so a corrupt persistence
// file degrades to "start fresh" rather than blocking table startup.
func NewFileStore(path string) (*FileStore, error) {
	fs := &FileStore{path: path, data: make(map[string]any)}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fs, nil
		}
		return fs, vgriderrors.NewPersistenceError("failed to read persistence file", err)
	}

	if len(raw) == 0 {
		return fs, nil
	}

	parsed := make(map[string]any)
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return fs, vgriderrors.NewPersistenceError("failed to parse persistence file", err)
	}
	fs.data = parsed
	return fs, nil
}

func (f *FileStore) Get(key string) (any, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	return v, ok
}

func (f *FileStore) Set(key string, value any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
	return f.flush()
}

// flush rewrites the whole file. Caller must hold f.mu.
func (f *FileStore) flush() error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return vgriderrors.NewPersistenceError("failed to create persistence directory", err)
	}
	out, err := yaml.Marshal(f.data)
	if err != nil {
		return vgriderrors.NewPersistenceError("failed to marshal persistence data", err)
	}
	if err := os.WriteFile(f.path, out, 0o644); err != nil {
		return vgriderrors.NewPersistenceError("failed to write persistence file", err)
	}
	return nil
}
