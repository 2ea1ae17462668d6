package save

import (
	"context"
	"sync"

	"idlerpg/internal/progression"
)

// MemoryStore holds the encoded save in memory. It backs ephemeral sessions
// and tests; FailNext makes the next Save return an error.
type MemoryStore struct {
	mu      sync.Mutex
	payload []byte
	saves   int
	failErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(ctx context.Context) (*progression.GameState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.payload == nil {
		return nil, ErrNoSave
	}
	s, err := decode(m.payload)
	if err != nil && rejected(err) {
		m.payload = nil
	}
	return s, err
}

func (m *MemoryStore) Save(ctx context.Context, s *progression.GameState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		err := m.failErr
		m.failErr = nil
		return err
	}
	b, err := encode(s)
	if err != nil {
		return err
	}
	m.payload = b
	m.saves++
	return nil
}

func (m *MemoryStore) Discard(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.payload == nil {
		return "", ErrNoSave
	}
	m.payload = nil
	return "memory", nil
}

func (m *MemoryStore) Close() error { return nil }

// Put stores raw bytes as the save, bypassing encoding.
func (m *MemoryStore) Put(b []byte) {
	m.mu.Lock()
	m.payload = append([]byte(nil), b...)
	m.mu.Unlock()
}

// Saves counts successful Save calls.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *MemoryStore) FailNext(err error) {
	m.mu.Lock()
	m.failErr = err
	m.mu.Unlock()
}

var _ Store = (*MemoryStore)(nil)
