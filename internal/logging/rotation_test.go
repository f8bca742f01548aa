package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestRotatingWriter_AppendsWithoutRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")

	rw, err := NewRotatingWriter(path, RotationConfig{MaxSizeMB: 10, MaxBackups: 3})
	if err != nil {
		t.Fatalf("NewRotatingWriter failed: %v", err)
	}

	if _, err := rw.Write([]byte("line one\n")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if _, err := rw.Write([]byte("line two\n")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := rw.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if string(data) != "line one\nline two\n" {
		t.Errorf("unexpected log content: %q", data)
	}
}

func TestRotatingWriter_ReopensAppending(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.log")

	rw, err := NewRotatingWriter(path, DefaultRotationConfig())
	if err != nil {
		t.Fatalf("NewRotatingWriter failed: %v", err)
	}
	if _, err := rw.Write([]byte("first\n")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	_ = rw.Close()

	rw2, err := NewRotatingWriter(path, DefaultRotationConfig())
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if _, err := rw2.Write([]byte("second\n")); err != nil {
		t.Fatalf("Write after reopen failed: %v", err)
	}
	_ = rw2.Close()

	data, _ := os.ReadFile(path)
	if string(data) != "first\nsecond\n" {
		t.Errorf("reopen must append, got %q", data)
	}
}

func TestRotatingWriter_RotatesAtSizeLimit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.log")

	// 1 MB cap; two writes of ~0.6 MB force one rotation.
	rw, err := NewRotatingWriter(path, RotationConfig{MaxSizeMB: 1, MaxBackups: 2})
	if err != nil {
		t.Fatalf("NewRotatingWriter failed: %v", err)
	}

	chunk := bytes.Repeat([]byte("x"), 600*1024)
	if _, err := rw.Write(chunk); err != nil {
		t.Fatalf("first write failed: %v", err)
	}
	if _, err := rw.Write(chunk); err != nil {
		t.Fatalf("second write failed: %v", err)
	}
	_ = rw.Close()

	backup, err := os.Stat(path + ".1")
	if err != nil {
		t.Fatalf("expected backup file after rotation: %v", err)
	}
	if backup.Size() != int64(len(chunk)) {
		t.Errorf("backup size = %d, want %d", backup.Size(), len(chunk))
	}

	current, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat current log: %v", err)
	}
	if current.Size() != int64(len(chunk)) {
		t.Errorf("current log size = %d, want %d", current.Size(), len(chunk))
	}
}

func TestRotatingWriter_DropsOldestBackup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.log")

	rw, err := NewRotatingWriter(path, RotationConfig{MaxSizeMB: 1, MaxBackups: 1})
	if err != nil {
		t.Fatalf("NewRotatingWriter failed: %v", err)
	}

	chunk := bytes.Repeat([]byte("y"), 700*1024)
	for i := 0; i < 4; i++ {
		if _, err := rw.Write(chunk); err != nil {
			t.Fatalf("write %d failed: %v", i, err)
		}
	}
	_ = rw.Close()

	if _, err := os.Stat(path + ".1"); err != nil {
		t.Errorf("expected one backup: %v", err)
	}
	if _, err := os.Stat(path + ".2"); !os.IsNotExist(err) {
		t.Error("backup beyond MaxBackups must not exist")
	}
}
