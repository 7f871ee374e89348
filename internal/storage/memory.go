package storage

import (
	"io"
	"path"
	"sync"
)

// Memory is an in-memory Storage used as a substitute for Disk in tests.
type Memory struct {
	mu      sync.Mutex
	files   map[string][]byte
	deleted []string
}

func NewMemory() *Memory {
	return &Memory{files: make(map[string][]byte)}
}

func (m *Memory) Store(dir, name string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	rel := path.Join(dir, name)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[rel] = data
	return rel, nil
}

func (m *Memory) Delete(p string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.files[p]; !ok {
		return nil
	}
	delete(m.files, p)
	m.deleted = append(m.deleted, p)
	return nil
}

func (m *Memory) Exists(p string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[p]
	return ok
}

// Paths returns the relative paths of all stored files.
func (m *Memory) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	paths := make([]string, 0, len(m.files))
	for p := range m.files {
		paths = append(paths, p)
	}
	return paths
}

// Deleted returns the paths removed so far, in deletion order.
func (m *Memory) Deleted() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deleted...)
}
