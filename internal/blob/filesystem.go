package blob

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fv-go/internal/fv"
)

// FileSystemStore is a filesystem-based implementation of the BlobStore
// interface. Keys map directly onto paths under the root, e.g. key
// "7/ab12..._v0" lands at <root>/7/ab12..._v0, giving each owner its
// own subdirectory.
type FileSystemStore struct {
	root string
}

// NewFileSystemStore creates a filesystem store rooted at the given
// path, creating the root once up front.
func NewFileSystemStore(root string) (*FileSystemStore, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create blob root: %w", err)
	}
	return &FileSystemStore{root: root}, nil
}

// Put stores the bytes read from r under key. Keys are unique per
// upload, so an existing file at the destination indicates a bug
// upstream; the atomic rename simply replaces it.
func (s *FileSystemStore) Put(key string, r io.Reader, size int64) error {
	destPath := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("failed to create blob directory: %w", err)
	}
	return s.writeFile(destPath, r, size)
}

// Get retrieves the bytes stored under key and writes them to w.
func (s *FileSystemStore) Get(key string, w io.Writer) error {
	srcPath := filepath.Join(s.root, filepath.FromSlash(key))

	f, err := os.Open(srcPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("blob not found: %s", key)
		}
		return fmt.Errorf("failed to open blob: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to read blob: %w", err)
	}

	return nil
}

// ValidateSetup verifies that the blob root is accessible.
func (s *FileSystemStore) ValidateSetup() error {
	info, err := os.Stat(s.root)
	if err != nil {
		return fmt.Errorf("blob root not accessible: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("blob root is not a directory: %s", s.root)
	}
	return nil
}

// writeFile writes data from r to the specified path using atomic write (temp file + rename).
func (s *FileSystemStore) writeFile(destPath string, r io.Reader, expectedSize int64) error {
	// Create temp file in the same directory to ensure atomic rename works
	dir := filepath.Dir(destPath)
	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	// Clean up temp file on failure
	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	written, err := io.Copy(tmpFile, r)
	if err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write data: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if written != expectedSize {
		return fmt.Errorf("size mismatch: expected %d bytes, got %d", expectedSize, written)
	}

	if err := os.Rename(tmpPath, destPath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	success = true
	return nil
}

// Compile-time check that FileSystemStore implements fv.BlobStore
var _ fv.BlobStore = (*FileSystemStore)(nil)
