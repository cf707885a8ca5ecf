package storage

import (
	"context"
	"errors"
	"sync"

	localisationapp "github.com/localisation/backend/internal/application/localisation"
	"github.com/localisation/backend/internal/domain/shared"
)

var _ localisationapp.DocumentStorage = (*MemoryDocumentStorage)(nil)

// MemoryDocumentStorage keeps documents in process memory. Contents are lost on restart.
type MemoryDocumentStorage struct {
	mu      sync.RWMutex
	objects map[string]localisationapp.StoredDocument
}

// NewMemoryDocumentStorage creates an empty store
func NewMemoryDocumentStorage() *MemoryDocumentStorage {
	return &MemoryDocumentStorage{objects: make(map[string]localisationapp.StoredDocument)}
}

// Put stores a copy of data under key
func (m *MemoryDocumentStorage) Put(_ context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = localisationapp.StoredDocument{
		Key:         key,
		Data:        append([]byte(nil), data...),
		ContentType: contentType,
	}
	return nil
}

// Get returns a copy of the stored object
func (m *MemoryDocumentStorage) Get(_ context.Context, key string) (*localisationapp.StoredDocument, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[key]
	if !ok {
		return nil, shared.NewNotFoundError("object", key)
	}
	obj.Data = append([]byte(nil), obj.Data...)
	return &obj, nil
}

// Len returns the number of stored objects
func (m *MemoryDocumentStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
