package blob

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryStore is an in-memory Store used by tests and local development.
// The mutex only protects the map itself; like the S3 backend, concurrent
// writers to the same key race and the last write wins.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]Object
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]Object)}
}

func (m *MemoryStore) Put(ctx context.Context, key string, obj Object) error {
	stored := Object{
		Content:     append([]byte(nil), obj.Content...),
		ContentType: obj.ContentType,
	}
	if obj.Metadata != nil {
		stored.Metadata = make(map[string]string, len(obj.Metadata))
		for k, v := range obj.Metadata {
			stored.Metadata[k] = v
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = stored
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, key string) (*Object, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, ok := m.objects[key]
	if !ok {
		return nil, nil
	}
	copied := Object{
		Content:     append([]byte(nil), obj.Content...),
		ContentType: obj.ContentType,
		Metadata:    obj.Metadata,
	}
	return &copied, nil
}

func (m *MemoryStore) Delete(ctx context.Context, keys []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, k := range keys {
		delete(m.objects, k)
	}
	return nil
}

func (m *MemoryStore) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var keys []string
	for k := range m.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
