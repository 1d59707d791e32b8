package storage

import (
	"sync"

	"snapptale/internal/model"
)

type MemoryStorage struct {
	previews map[string]*model.Photo
	mu       sync.RWMutex
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		previews: make(map[string]*model.Photo),
	}
}

func (m *MemoryStorage) Put(ref string, photo *model.Photo) error {
	if ref == "" || photo == nil {
		return ErrInvalidData
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.previews[ref] = photo
	return nil
}

func (m *MemoryStorage) Get(ref string) (*model.Photo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	photo, exists := m.previews[ref]
	if !exists {
		return nil, ErrPreviewNotFound
	}

	return photo, nil
}

func (m *MemoryStorage) Delete(ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.previews[ref]; !exists {
		return ErrPreviewNotFound
	}

	delete(m.previews, ref)
	return nil
}

func (m *MemoryStorage) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.previews)
}
