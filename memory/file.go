package memory

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// DefaultFile is the backing document used when no path is configured.
const DefaultFile = "data/memory.json"

// FileStore is a core.KVStore backed by a single JSON object document.
//
// Every Set reads the whole document, merges the entry and writes the whole
// document back. Writers inside one process are serialized; writers in
// different processes race with last-writer-wins semantics.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore returns a store for path, creating the file (and its parent
// directory) holding an empty document when it does not exist yet.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		path = DefaultFile
	}

	s := &FileStore{path: path}
	if err := s.ensure(); err != nil {
		return nil, err
	}

	return s, nil
}

// Path returns the backing file.
func (s *FileStore) Path() string { return s.path }

func (s *FileStore) ensure() error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat memory file: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create memory dir: %w", err)
		}
	}

	return s.write(map[string]any{})
}

// LoadAll reads the whole document.
func (s *FileStore) LoadAll() (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.read()
}

// Get reads the document and returns the value under key.
func (s *FileStore) Get(key string) (any, bool, error) {
	doc, err := s.LoadAll()
	if err != nil {
		return nil, false, err
	}

	v, ok := doc[key]
	if v == nil {
		return nil, false, nil
	}

	return v, ok, nil
}

// Set merges key into the document and rewrites it.
func (s *FileStore) Set(key string, value any) (string, error) {
	if key == "" {
		return "", fmt.Errorf("key must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.read()
	if err != nil {
		return "", err
	}

	doc[key] = value

	if err := s.write(doc); err != nil {
		return "", err
	}

	return confirmation(key, value), nil
}

func (s *FileStore) read() (map[string]any, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]any{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read memory file: %w", err)
	}

	doc := map[string]any{}
	if len(raw) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode memory file %s: %w", s.path, err)
	}
	if doc == nil {
		doc = map[string]any{}
	}

	return doc, nil
}

// fileMode is applied to the temp file, which os.CreateTemp opens as 0600.
const fileMode = 0o644

// write replaces the document through a temp file rename so readers never
// observe a partial document.
func (s *FileStore) write(doc map[string]any) error {
	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode memory file: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".memory-*.json")
	if err != nil {
		return fmt.Errorf("write memory file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if err := tmp.Chmod(fileMode); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("write memory file: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("write memory file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write memory file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("write memory file: %w", err)
	}

	return nil
}
