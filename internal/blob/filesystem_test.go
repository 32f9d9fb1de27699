package blob

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileSystemStore(t *testing.T) {
	t.Run("round trips content", func(t *testing.T) {
		store, err := NewFileSystemStore(t.TempDir())
		if err != nil {
			t.Fatalf("NewFileSystemStore() error = %v", err)
		}

		content := []byte("hello blobs")
		if err := store.Put("7/abc_v0", bytes.NewReader(content), int64(len(content))); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		var buf bytes.Buffer
		if err := store.Get("7/abc_v0", &buf); err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if !bytes.Equal(buf.Bytes(), content) {
			t.Errorf("Get() = %q, want %q", buf.Bytes(), content)
		}
	})

	t.Run("creates nested key directories", func(t *testing.T) {
		root := t.TempDir()
		store, err := NewFileSystemStore(root)
		if err != nil {
			t.Fatalf("NewFileSystemStore() error = %v", err)
		}

		if err := store.Put("42/deep_v3", strings.NewReader("x"), 1); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		if _, err := os.Stat(filepath.Join(root, "42", "deep_v3")); err != nil {
			t.Errorf("blob file missing: %v", err)
		}
	})

	t.Run("rejects size mismatch", func(t *testing.T) {
		store, err := NewFileSystemStore(t.TempDir())
		if err != nil {
			t.Fatalf("NewFileSystemStore() error = %v", err)
		}

		err = store.Put("1/short_v0", strings.NewReader("abc"), 10)
		if err == nil || !strings.Contains(err.Error(), "size mismatch") {
			t.Errorf("Put() error = %v, want size mismatch", err)
		}
	})

	t.Run("failed put leaves no temp files", func(t *testing.T) {
		root := t.TempDir()
		store, err := NewFileSystemStore(root)
		if err != nil {
			t.Fatalf("NewFileSystemStore() error = %v", err)
		}

		if err := store.Put("1/bad_v0", strings.NewReader("abc"), 10); err == nil {
			t.Fatal("Put() error = nil, want size mismatch")
		}

		entries, err := os.ReadDir(filepath.Join(root, "1"))
		if err != nil {
			t.Fatalf("ReadDir() error = %v", err)
		}
		for _, e := range entries {
			t.Errorf("leftover file %s after failed put", e.Name())
		}
	})

	t.Run("missing key reports blob not found", func(t *testing.T) {
		store, err := NewFileSystemStore(t.TempDir())
		if err != nil {
			t.Fatalf("NewFileSystemStore() error = %v", err)
		}

		var buf bytes.Buffer
		err = store.Get("1/nope_v0", &buf)
		if err == nil || !strings.Contains(err.Error(), "blob not found") {
			t.Errorf("Get() error = %v, want blob not found", err)
		}
	})

	t.Run("validate setup checks the root", func(t *testing.T) {
		root := t.TempDir()
		store, err := NewFileSystemStore(root)
		if err != nil {
			t.Fatalf("NewFileSystemStore() error = %v", err)
		}

		if err := store.ValidateSetup(); err != nil {
			t.Errorf("ValidateSetup() error = %v", err)
		}

		if err := os.RemoveAll(root); err != nil {
			t.Fatalf("RemoveAll() error = %v", err)
		}
		if err := store.ValidateSetup(); err == nil {
			t.Error("ValidateSetup() error = nil after root removed")
		}
	})
}
