package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	values    map[string]string
	updatedAt time.Time
}

// MemoryStore keeps sessions in process memory. Used for local runs and tests.
type MemoryStore struct {
	mu   sync.Mutex
	data map[string]*memoryEntry
	now  func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]*memoryEntry), now: time.Now}
}

func (m *MemoryStore) Load(ctx context.Context, sessionID string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(Keys))
	if e, ok := m.data[sessionID]; ok {
		for k, v := range e.values {
			out[k] = v
		}
	}
	return out, nil
}

func (m *MemoryStore) Save(ctx context.Context, sessionID string, values map[string]string) error {
	if sessionID == "" {
		return ErrNoSessionID
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.data[sessionID]
	if !ok {
		e = &memoryEntry{values: make(map[string]string, len(Keys))}
		m.data[sessionID] = e
	}
	m.write(e, values)
	return nil
}

func (m *MemoryStore) Update(ctx context.Context, sessionID string, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.data[sessionID]
	if !ok {
		return ErrNotStored
	}
	m.write(e, values)
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, sessionID)
	return nil
}

// DeleteExpired drops sessions last written before the cutoff.
func (m *MemoryStore) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, e := range m.data {
		if e.updatedAt.Before(before) {
			delete(m.data, id)
			n++
		}
	}
	return n, nil
}

func (m *MemoryStore) write(e *memoryEntry, values map[string]string) {
	for k, v := range values {
		e.values[k] = v
	}
	e.updatedAt = m.now()
}
