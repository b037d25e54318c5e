package sheet

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// MemoryStore is an ObjectStore held in process memory. It honours the same
// conditional-write rules as S3 and backs local runs and tests.
type MemoryStore struct {
	mu      sync.Mutex
	objects map[string]Object
	version int
}

var _ ObjectStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string]Object)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[key]
	if !ok {
		return Object{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return Object{Body: append([]byte(nil), obj.Body...), ETag: obj.ETag}, nil
}

func (m *MemoryStore) Put(_ context.Context, key string, body []byte, opts PutOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	current, exists := m.objects[key]
	if opts.IfNoneMatch == "*" && exists {
		return "", fmt.Errorf("%w: %s already exists", ErrPreconditionFailed, key)
	}
	if opts.IfMatch != "" && (!exists || current.ETag != opts.IfMatch) {
		return "", fmt.Errorf("%w: %s", ErrPreconditionFailed, key)
	}
	m.version++
	etag := fmt.Sprintf("%q", fmt.Sprintf("v%d", m.version))
	m.objects[key] = Object{Body: append([]byte(nil), body...), ETag: etag}
	return etag, nil
}

// Keys lists stored keys with the given prefix, sorted.
func (m *MemoryStore) Keys(prefix string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var keys []string
	for k := range m.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}
