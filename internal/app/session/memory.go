package session

import "sync"

// Memory is an in-process Store. It is the fake used across the test suite.
type Memory struct {
	mu      sync.RWMutex
	current Session
	gen     uint64
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Read() (Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.current.Valid() {
		return Session{}, false
	}
	return m.current, true
}

func (m *Memory) Write(s Session) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = s
	m.gen++
}

func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == (Session{}) {
		return
	}
	m.current = Session{}
	m.gen++
}

func (m *Memory) Generation() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.gen
}
