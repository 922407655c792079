// SPDX-FileCopyrightText: 2025 The Lian Authors
// SPDX-License-Identifier: EUPL-1.2

package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ErrMockFileNotFound is returned by MockFileManager for unknown paths.
var ErrMockFileNotFound = errors.New("mock file not found")

// FileManager implements the FileManager port for real file operations.
type FileManager struct{}

// NewFileManager creates a new file manager.
func NewFileManager() *FileManager {
	return &FileManager{}
}

// FileExists checks if a file exists.
func (f *FileManager) FileExists(path string) bool {
	_, err := os.Stat(path)

	return err == nil
}

// EnsureDir creates a directory and all parent directories if they don't exist.
func (f *FileManager) EnsureDir(path string) error {
	// #nosec G301 - Standard directory permissions for application directories
	return os.MkdirAll(path, 0o755)
}

// WriteFile writes data through a temporary file in the same directory and
// renames it into place, so readers never see a partial file.
func (f *FileManager) WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := f.EnsureDir(dir); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}

	tmpName := tmp.Name()

	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()

		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	// #nosec G302 - Reports and config are user files
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}

	return nil
}

// ReadFile reads data from a file.
func (f *FileManager) ReadFile(path string) ([]byte, error) {
	// #nosec G304 - File path comes from trusted application code
	return os.ReadFile(path)
}

// MockFileManager implements the FileManager port for testing.
type MockFileManager struct {
	mu    sync.Mutex
	files map[string][]byte // path -> content
}

// NewMockFileManager creates a new mock file manager for testing.
func NewMockFileManager() *MockFileManager {
	return &MockFileManager{files: make(map[string][]byte)}
}

// SetMockFile sets the content of a mock file.
func (f *MockFileManager) SetMockFile(path string, content []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.files[path] = content
}

// FileExists checks if a mock file exists.
func (f *MockFileManager) FileExists(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	_, exists := f.files[path]

	return exists
}

// EnsureDir does nothing in mock mode.
func (f *MockFileManager) EnsureDir(string) error {
	return nil
}

// WriteFile writes to a mock file.
func (f *MockFileManager) WriteFile(path string, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.files[path] = data

	return nil
}

// ReadFile reads from a mock file.
func (f *MockFileManager) ReadFile(path string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	content, exists := f.files[path]
	if !exists {
		return nil, ErrMockFileNotFound
	}

	return content, nil
}
