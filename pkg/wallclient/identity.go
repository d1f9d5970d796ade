package wallclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var ErrNoIdentity = errors.New("no stored identity")

// Identity is what survives a client restart
type Identity struct {
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Token     string    `json:"token"`
	LastLogin time.Time `json:"lastLogin"`
}

type IdentityStore interface {
	Load() (*Identity, error)
	Save(id *Identity) error
	Clear() error
}

// FileIdentityStore keeps the identity as a JSON file
type FileIdentityStore struct {
	path string
	mu   sync.Mutex
}

func NewFileIdentityStore(path string) *FileIdentityStore {
	return &FileIdentityStore{path: path}
}

func (s *FileIdentityStore) Load() (*Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoIdentity
	}
	if err != nil {
		return nil, fmt.Errorf("read identity: %w", err)
	}

	var id Identity
	if err := json.Unmarshal(data, &id); err != nil {
		return nil, fmt.Errorf("decode identity: %w", err)
	}
	if id.UserID == "" {
		return nil, ErrNoIdentity
	}
	return &id, nil
}

func (s *FileIdentityStore) Save(id *Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(id, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create identity dir: %w", err)
	}
	return os.WriteFile(s.path, data, 0o600)
}

func (s *FileIdentityStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

type MemoryIdentityStore struct {
	mu sync.Mutex
	id *Identity
}

func NewMemoryIdentityStore() *MemoryIdentityStore {
	return &MemoryIdentityStore{}
}

func (s *MemoryIdentityStore) Load() (*Identity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.id == nil {
		return nil, ErrNoIdentity
	}
	id := *s.id
	return &id, nil
}

func (s *MemoryIdentityStore) Save(id *Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *id
	s.id = &cp
	return nil
}

func (s *MemoryIdentityStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = nil
	return nil
}
