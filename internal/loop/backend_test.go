package loop

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileBackend_RoundTrip(t *testing.T) {
	dir := t.TempDir()

	backend, err := NewFileBackend(dir)
	if err != nil {
		t.Fatalf("NewFileBackend failed: %v", err)
	}

	if _, err := backend.Load(); !errors.Is(err, ErrBackendNotFound) {
		t.Errorf("expected ErrBackendNotFound before first save, got %v", err)
	}

	payload := []byte(`{"active":true}`)
	if err := backend.Save(payload); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := backend.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if string(got) != string(payload) {
		t.Errorf("Load returned %q, want %q", got, payload)
	}

	if backend.Path() != filepath.Join(dir, StateFileName) {
		t.Errorf("unexpected state path %q", backend.Path())
	}
}

func TestFileBackend_SaveLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()

	backend, err := NewFileBackend(dir)
	if err != nil {
		t.Fatalf("NewFileBackend failed: %v", err)
	}
	if err := backend.Save([]byte("{}")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := os.Stat(backend.Path() + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind after save")
	}
}

func TestFileBackend_CreatesStateDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "state")

	backend, err := NewFileBackend(dir)
	if err != nil {
		t.Fatalf("NewFileBackend failed: %v", err)
	}
	if err := backend.Save([]byte("{}")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("state directory not created: %v", err)
	}
}

func TestMemoryBackend_CopySemantics(t *testing.T) {
	backend := NewMemoryBackend()

	if _, err := backend.Load(); !errors.Is(err, ErrBackendNotFound) {
		t.Errorf("expected ErrBackendNotFound on empty backend, got %v", err)
	}

	payload := []byte("original")
	if err := backend.Save(payload); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	payload[0] = 'X' // mutating the caller's slice must not affect the store

	got, err := backend.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if string(got) != "original" {
		t.Errorf("backend shares memory with caller: got %q", got)
	}

	got[0] = 'Y'
	again, _ := backend.Load()
	if string(again) != "original" {
		t.Errorf("backend shares memory with reader: got %q", again)
	}
}

func TestFileLock_Exclusion(t *testing.T) {
	dir := t.TempDir()

	lock := NewFileLock(dir)
	if err := lock.Lock(); err != nil {
		t.Fatalf("Lock failed: %v", err)
	}

	other := NewFileLock(dir)
	acquired, err := other.TryLock()
	if err != nil {
		t.Fatalf("TryLock failed: %v", err)
	}
	if acquired {
		t.Error("second lock acquired while first still held")
	}

	if err := lock.Unlock(); err != nil {
		t.Fatalf("Unlock failed: %v", err)
	}

	acquired, err = other.TryLock()
	if err != nil {
		t.Fatalf("TryLock after unlock failed: %v", err)
	}
	if !acquired {
		t.Error("lock not acquirable after release")
	}
	_ = other.Unlock()
}
