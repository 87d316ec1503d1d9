// Package storage persists the field between runs: a small key/value store
// and the flat record list kept under one key.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

var ErrNotFound = errors.New("storage: key not found")

// KV is the minimal store the field needs.
type KV interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
}

// FileKV keeps every key in one JSON object on disk, so values must be JSON. Writes go through a
// temp file and a rename so a crash never leaves a torn file.
type FileKV struct {
	mu   sync.Mutex
	path string
}

func NewFileKV(dir, file string) *FileKV {
	return &FileKV{path: filepath.Join(dir, file)}
}

func (s *FileKV) Path() string { return s.path }

func (s *FileKV) Init() error {
	return os.MkdirAll(filepath.Dir(s.path), 0755)
}

func (s *FileKV) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.readAll()
	if err != nil {
		return nil, err
	}
	v, ok := all[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return v, nil
}

func (s *FileKV) Put(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !json.Valid(value) {
		return fmt.Errorf("storage: value for %q is not JSON", key)
	}
	all, err := s.readAll()
	if err != nil {
		// A corrupt file is replaced rather than blocking every later write.
		all = map[string]json.RawMessage{}
	}
	all[key] = value

	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".skyfloat-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

func (s *FileKV) readAll() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, err
	}
	all := map[string]json.RawMessage{}
	if len(data) == 0 {
		return all, nil
	}
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("storage: parse %s: %w", s.path, err)
	}
	return all, nil
}

// MemoryKV is an in-process store for tests and dry runs.
type MemoryKV struct {
	mu     sync.Mutex
	values map[string][]byte
	puts   int
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: map[string][]byte{}}
}

func (m *MemoryKV) Get(key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryKV) Put(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = append([]byte(nil), value...)
	m.puts++
	return nil
}

// Puts counts writes, so callers can check nothing persists per frame.
func (m *MemoryKV) Puts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.puts
}
