package game

import "sync"

// LockManager serializes operations per user and per promo code so a
// double-tap cannot slip two mutations inside one cooldown window. Lock
// entries are reference-counted and dropped on last release, so the map
// only holds keys with an operation in flight.
//
// Lock ordering is user before code everywhere to keep the manager
// deadlock-free.
type LockManager struct {
	mu      sync.Mutex
	entries map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func NewLockManager() *LockManager {
	return &LockManager{entries: make(map[string]*lockEntry)}
}

func (m *LockManager) Lock(key string) {
	m.mu.Lock()
	e, ok := m.entries[key]
	if !ok {
		e = &lockEntry{}
		m.entries[key] = e
	}
	e.refs++
	m.mu.Unlock()

	e.mu.Lock()
}

func (m *LockManager) Unlock(key string) {
	m.mu.Lock()
	e, ok := m.entries[key]
	if !ok {
		m.mu.Unlock()
		return
	}
	e.refs--
	if e.refs == 0 {
		delete(m.entries, key)
	}
	m.mu.Unlock()

	e.mu.Unlock()
}

func userLockKey(externalID string) string {
	return "user:" + externalID
}

func codeLockKey(code string) string {
	return "code:" + code
}
