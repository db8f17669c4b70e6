package credentials

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreRoundtrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.json")

	store := NewFileStore(path)

	saved := Credentials{SSID: "HomeNet", Passphrase: "password123"}
	if err := store.Set(saved); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// File must not be world-readable, it holds a secret.
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat failed: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file mode = %o, want 0600", perm)
	}

	got, err := store.Get()
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil {
		t.Fatal("Get returned nil after Set")
	}
	if *got != saved {
		t.Errorf("Get = %+v, want %+v", *got, saved)
	}
}

func TestFileStoreAbsent(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "missing.json"))

	got, err := store.Get()
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got != nil {
		t.Errorf("Get = %+v, want nil for missing file", got)
	}
}

func TestFileStoreCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "profile.json")
	store := NewFileStore(path)

	if err := store.Set(Credentials{SSID: "HomeNet", Passphrase: "password123"}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("profile file not created: %v", err)
	}
}

func TestFileStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	store := NewFileStore(path)
	if _, err := store.Get(); err == nil {
		t.Error("Get on corrupt file succeeded, want error")
	}
}

func TestFileStoreClear(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.json")
	store := NewFileStore(path)

	if err := store.Set(Credentials{SSID: "HomeNet", Passphrase: "password123"}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if got, err := store.Get(); err != nil || got != nil {
		t.Errorf("Get after Clear = %+v, %v, want nil, nil", got, err)
	}

	// Clearing again is a no-op.
	if err := store.Clear(); err != nil {
		t.Errorf("second Clear failed: %v", err)
	}
}

// countingStore tracks inner store accesses for cache verification.
type countingStore struct {
	inner Store
	gets  int
	sets  int
	err   error
}

func (s *countingStore) Get() (*Credentials, error) {
	s.gets++
	if s.err != nil {
		return nil, s.err
	}
	return s.inner.Get()
}

func (s *countingStore) Set(creds Credentials) error {
	s.sets++
	if s.err != nil {
		return s.err
	}
	return s.inner.Set(creds)
}

func TestCachedStoreAvoidsRereads(t *testing.T) {
	inner := &countingStore{inner: NewFileStore(filepath.Join(t.TempDir(), "p.json"))}
	store := NewCachedStore(inner)

	if err := store.Set(Credentials{SSID: "HomeNet", Passphrase: "password123"}); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		got, err := store.Get()
		if err != nil || got == nil {
			t.Fatalf("Get = %v, %v", got, err)
		}
	}
	if inner.gets != 0 {
		t.Errorf("inner Get called %d times after Set, want 0 (cache hit)", inner.gets)
	}
}

func TestCachedStoreLazyLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "p.json")
	if err := NewFileStore(path).Set(Credentials{SSID: "HomeNet", Passphrase: "password123"}); err != nil {
		t.Fatal(err)
	}

	inner := &countingStore{inner: NewFileStore(path)}
	store := NewCachedStore(inner)

	for i := 0; i < 3; i++ {
		got, err := store.Get()
		if err != nil || got == nil || got.SSID != "HomeNet" {
			t.Fatalf("Get = %v, %v", got, err)
		}
	}
	if inner.gets != 1 {
		t.Errorf("inner Get called %d times, want 1 (lazy load then cache)", inner.gets)
	}
}

func TestCachedStoreSetFailureLeavesCache(t *testing.T) {
	inner := &countingStore{inner: NewFileStore(filepath.Join(t.TempDir(), "p.json"))}
	store := NewCachedStore(inner)

	if err := store.Set(Credentials{SSID: "First", Passphrase: "password123"}); err != nil {
		t.Fatal(err)
	}

	inner.err = errors.New("disk full")
	if err := store.Set(Credentials{SSID: "Second", Passphrase: "password123"}); err == nil {
		t.Fatal("Set with failing inner store succeeded, want error")
	}
	inner.err = nil

	got, err := store.Get()
	if err != nil || got == nil {
		t.Fatalf("Get = %v, %v", got, err)
	}
	if got.SSID != "First" {
		t.Errorf("cached SSID = %q after failed Set, want %q", got.SSID, "First")
	}
}
