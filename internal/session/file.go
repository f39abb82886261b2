package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"
)

// FileStore keeps the token as an oauth2 token document on disk.
// The file is read once when the store is opened and rewritten on every
// SetToken; the in-memory copy is what requests read.
type FileStore struct {
	path string

	mu    sync.RWMutex
	token string
}

// OpenFile opens the store at path. A missing file yields an empty store;
// an unreadable or corrupt file is an error.
func OpenFile(path string) (*FileStore, error) {
	s := &FileStore{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", filepath.Base(path), err)
	}
	s.token = tok.AccessToken
	return s, nil
}

// Path returns the file backing the store.
func (s *FileStore) Path() string {
	return s.path
}

// Token implements Store.
func (s *FileStore) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// SetToken implements Store. The directory is created with mode 0700 and
// the file with mode 0600.
func (s *FileStore) SetToken(token string) error {
	if token == "" {
		return s.Clear()
	}

	data, err := json.MarshalIndent(newToken(token), "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

// Clear implements Store.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.token = ""
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	return nil
}

// MemoryStore is a Store that lives only as long as the process.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryStore returns a store holding token ("" for empty).
func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

// Token implements Store.
func (m *MemoryStore) Token() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token, m.token != ""
}

// SetToken implements Store.
func (m *MemoryStore) SetToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

// Clear implements Store.
func (m *MemoryStore) Clear() error {
	return m.SetToken("")
}
