package application

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/example/running-order/internal/persistence"
)

type memoryStore struct {
	mu   sync.Mutex
	docs map[string][]byte

	gets int
	puts int

	getErr  error
	putErr  error
	listErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{docs: make(map[string][]byte)}
}

func (m *memoryStore) GetDocument(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.getErr != nil {
		return nil, m.getErr
	}
	body, ok := m.docs[key]
	if !ok {
		return nil, persistence.ErrNotFound
	}
	return slices.Clone(body), nil
}

func (m *memoryStore) PutDocument(ctx context.Context, key string, raw []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.putErr != nil {
		return m.putErr
	}
	if err := persistence.ValidateKey(key); err != nil {
		return err
	}
	m.puts++
	m.docs[key] = slices.Clone(raw)
	return nil
}

func (m *memoryStore) DeleteDocument(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[key]; !ok {
		return persistence.ErrNotFound
	}
	delete(m.docs, key)
	return nil
}

func (m *memoryStore) ListDocuments(ctx context.Context) ([]persistence.DocumentInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	infos := []persistence.DocumentInfo{}
	for _, key := range slices.Sorted(maps.Keys(m.docs)) {
		infos = append(infos, persistence.DocumentInfo{Key: key, Size: len(m.docs[key]), UpdatedAt: time.Time{}})
	}
	return infos, nil
}

func (m *memoryStore) raw(key string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.docs[key])
}
