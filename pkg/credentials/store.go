package credentials

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// StoreVersion is the current version of the profile file format.
const StoreVersion = 1

// Store provides durable persistence of the single cached station profile.
type Store interface {
	// Get returns the stored profile, or nil if none has been saved.
	Get() (*Credentials, error)

	// Set persists the profile. The profile is durable once Set returns
	// nil.
	Set(creds Credentials) error
}

// storedProfile is the on-disk layout of the station profile.
type storedProfile struct {
	// Version is the file format version.
	Version int `json:"version"`

	// SavedAt is when the profile was last saved.
	SavedAt time.Time `json:"saved_at"`

	// Credentials is the station profile.
	Credentials Credentials `json:"credentials"`
}

// FileStore persists the station profile to a JSON file.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a file-backed credential store.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Get reads the stored profile. Returns nil, nil if the file doesn't exist.
func (s *FileStore) Get() (*Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	profile := &storedProfile{}
	if err := json.Unmarshal(data, profile); err != nil {
		return nil, fmt.Errorf("corrupt credential file %s: %w", s.path, err)
	}
	if profile.Credentials.SSID == "" {
		return nil, nil
	}

	creds := profile.Credentials
	return &creds, nil
}

// Set persists the profile to disk. The file is written with 0600
// permissions since it holds a network secret.
func (s *FileStore) Set(creds Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Ensure parent directory exists
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	profile := storedProfile{
		Version:     StoreVersion,
		SavedAt:     time.Now(),
		Credentials: creds,
	}

	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, data, 0600)
}

// Clear removes the profile file.
func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// CachedStore wraps a Store with an in-memory copy of the last
// loaded/saved profile to avoid redundant store round-trips. The cache is
// populated lazily on first load and follows last-write-wins; it is never
// explicitly invalidated.
type CachedStore struct {
	mu     sync.Mutex
	inner  Store
	cached *Credentials
}

// NewCachedStore wraps inner with a lazy cache.
func NewCachedStore(inner Store) *CachedStore {
	return &CachedStore{inner: inner}
}

// Get returns the cached profile, falling back to the inner store.
func (s *CachedStore) Get() (*Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cached != nil {
		creds := *s.cached
		return &creds, nil
	}

	creds, err := s.inner.Get()
	if err != nil || creds == nil {
		return nil, err
	}

	c := *creds
	s.cached = &c
	out := c
	return &out, nil
}

// Set persists the profile and updates the cache on success.
func (s *CachedStore) Set(creds Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.inner.Set(creds); err != nil {
		return err
	}

	c := creds
	s.cached = &c
	return nil
}

// Compile-time interface satisfaction checks.
var (
	_ Store = (*FileStore)(nil)
	_ Store = (*CachedStore)(nil)
)
