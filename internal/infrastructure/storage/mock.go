package storage

import (
	"context"
	"fmt"
	"sync"
)

// MockBlobStore is an in-memory BlobStore for tests and local runs
type MockBlobStore struct {
	files map[string][]byte
	mu    sync.RWMutex
}

func NewMockBlobStore() *MockBlobStore {
	return &MockBlobStore{files: make(map[string][]byte)}
}

func (m *MockBlobStore) Upload(ctx context.Context, path, contentType string, content []byte) (string, error) {
	m.mu.Lock()
	m.files[path] = content
	m.mu.Unlock()
	return path, nil
}

func (m *MockBlobStore) GetURL(ctx context.Context, ref string) (string, error) {
	if ref == "" {
		return "", nil
	}

	m.mu.RLock()
	_, exists := m.files[ref]
	m.mu.RUnlock()

	if !exists {
		return "", fmt.Errorf("file not found in mock store: %s", ref)
	}
	return fmt.Sprintf("https://blobs.test/%s?mock=true", ref), nil
}

func (m *MockBlobStore) Delete(ctx context.Context, ref string) error {
	m.mu.Lock()
	delete(m.files, ref)
	m.mu.Unlock()
	return nil
}

// FileExists checks if a file exists in mock storage
func (m *MockBlobStore) FileExists(ref string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, exists := m.files[ref]
	return exists
}
