package session

import (
	"context"
	"sync"
)

// MemoryStore keeps the session in process memory. Used in tests and as
// the fallback when no persistent backend is configured.
type MemoryStore struct {
	mu            sync.Mutex
	session       *Session
	accountNumber string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(ctx context.Context) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil, nil
	}
	s := *m.session
	return &s, nil
}

func (m *MemoryStore) Save(ctx context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = &s
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	m.accountNumber = ""
	return nil
}

func (m *MemoryStore) AccountNumber(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.accountNumber, nil
}

func (m *MemoryStore) SetAccountNumber(ctx context.Context, accountNumber string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accountNumber = accountNumber
	return nil
}
