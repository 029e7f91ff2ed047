package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/temple/pkg/types"
)

const fileExt = ".json"

// Files is a Backend that keeps each key in its own JSON file inside a data
// directory. Writes go through a temp file that is fsynced and renamed into
// place, so other processes never observe a partial value.
type Files struct {
	mu     sync.RWMutex
	closed bool
	dir    string
	log    zerolog.Logger
}

// OpenFiles creates dir if needed and returns a Files backend rooted there.
func OpenFiles(dir string, logger zerolog.Logger) (*Files, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &Files{
		dir: dir,
		log: logger.With().Str("component", "storage").Str("backend", types.BackendFiles).Logger(),
	}, nil
}

// Dir returns the data directory.
func (f *Files) Dir() string { return f.dir }

func (f *Files) path(key string) string {
	return filepath.Join(f.dir, key+fileExt)
}

func (f *Files) Get(key string) ([]byte, bool, error) {
	if err := ValidateKey(key); err != nil {
		return nil, false, err
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		return nil, false, types.ErrStoreClosed
	}
	data, err := os.ReadFile(f.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading %s: %w", key, err)
	}
	return data, true, nil
}

func (f *Files) Set(key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return types.ErrStoreClosed
	}
	if err := writeFileAtomic(f.path(key), value); err != nil {
		return fmt.Errorf("writing %s: %w", key, err)
	}
	return nil
}

func (f *Files) Remove(key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return types.ErrStoreClosed
	}
	if err := os.Remove(f.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", key, err)
	}
	return nil
}

func (f *Files) Keys() ([]string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		return nil, types.ErrStoreClosed
	}
	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", f.dir, err)
	}
	var keys []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if key, ok := keyFromFile(e.Name()); ok {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)
	return keys, nil
}

func (f *Files) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// keyFromFile maps a file name in the data directory back to its key.
// Temp files and foreign files are rejected.
func keyFromFile(name string) (string, bool) {
	if !strings.HasSuffix(name, fileExt) {
		return "", false
	}
	key := strings.TrimSuffix(name, fileExt)
	if ValidateKey(key) != nil {
		return "", false
	}
	return key, true
}

// writeFileAtomic writes data to path using the temp-file, fsync, rename
// pattern.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".partition-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
