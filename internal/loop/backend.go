package loop

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// StateFileName is the well-known file the loop record is persisted to
// inside the state directory.
const StateFileName = "ralph_state.json"

// Backend is the storage abstraction behind the Store. Implementations hold
// at most one record. Load returns ErrBackendNotFound when nothing was ever
// saved.
type Backend interface {
	Load() ([]byte, error)
	Save(data []byte) error
}

// FileBackend persists the record as a JSON file. Writes are atomic
// (temp file + rename) and the whole read/write is guarded by flock(2) so
// that a driver and a status check in separate processes never observe a
// partial write.
type FileBackend struct {
	path string
	lock *FileLock
}

// NewFileBackend creates a FileBackend storing the record at
// {dir}/ralph_state.json. The directory is created if needed.
func NewFileBackend(dir string) (*FileBackend, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}
	return &FileBackend{
		path: filepath.Join(dir, StateFileName),
		lock: NewFileLock(dir),
	}, nil
}

// Path returns the location of the state file.
func (fb *FileBackend) Path() string {
	return fb.path
}

// Load reads the persisted record.
func (fb *FileBackend) Load() ([]byte, error) {
	if err := fb.lock.Lock(); err != nil {
		return nil, fmt.Errorf("acquire state lock: %w", err)
	}
	defer func() { _ = fb.lock.Unlock() }()

	data, err := os.ReadFile(fb.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrBackendNotFound
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}
	return data, nil
}

// Save atomically replaces the persisted record.
func (fb *FileBackend) Save(data []byte) error {
	if err := fb.lock.Lock(); err != nil {
		return fmt.Errorf("acquire state lock: %w", err)
	}
	defer func() { _ = fb.lock.Unlock() }()

	tmp := fb.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := os.Rename(tmp, fb.path); err != nil {
		_ = os.Remove(tmp) // best-effort cleanup
		return fmt.Errorf("rename temp state file: %w", err)
	}
	return nil
}

// MemoryBackend keeps the record in memory. Used by tests and anywhere
// durability is not wanted.
type MemoryBackend struct {
	mu   sync.Mutex
	data []byte
}

// NewMemoryBackend creates an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

// Load returns the stored record.
func (mb *MemoryBackend) Load() ([]byte, error) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	if mb.data == nil {
		return nil, ErrBackendNotFound
	}
	out := make([]byte, len(mb.data))
	copy(out, mb.data)
	return out, nil
}

// Save replaces the stored record.
func (mb *MemoryBackend) Save(data []byte) error {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.data = make([]byte, len(data))
	copy(mb.data, data)
	return nil
}
