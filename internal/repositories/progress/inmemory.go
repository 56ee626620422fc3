package progress

import (
	"context"
	"sync"

	"github.com/KirkDiggler/pokedex/internal/entities"
)

type memoryStore struct {
	mu   sync.RWMutex
	data []byte
}

// NewInMemoryRepository creates a repository that lives as long as the process
func NewInMemoryRepository() Repository {
	return &blobRepository{store: &memoryStore{}}
}

// NewInMemoryRepositoryWithBlob seeds the repository with an encoded blob
func NewInMemoryRepositoryWithBlob(data []byte) Repository {
	buf := make([]byte, len(data))
	copy(buf, data)
	return &blobRepository{store: &memoryStore{data: buf}}
}

func (m *memoryStore) read(_ context.Context) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.data == nil {
		return nil, false, nil
	}
	out := make([]byte, len(m.data))
	copy(out, m.data)
	return out, true, nil
}

func (m *memoryStore) write(_ context.Context, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.data = make([]byte, len(data))
	copy(m.data, data)
	return nil
}

func (m *memoryStore) describe() string {
	return "memory"
}

func newDefaultState() *entities.ProgressState {
	return entities.NewProgressState()
}
