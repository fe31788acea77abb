// Package keyedmutex provides a mutex per string key. The counter
// service uses it to serialize read-modify-write cycles per slug, so
// two concurrent bumps of the same slug in one process cannot lose an
// increment or append a duplicate row.
package keyedmutex

import "sync"

// M is a set of named mutexes. The zero value is not usable; call New.
// Mutexes are created on first use and never released, which is fine
// for a bounded slug population.
type M struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// New returns an empty keyed mutex set.
func New() *M {
	return &M{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for key and returns its unlock function.
//
//	defer m.Lock(slug)()
func (m *M) Lock(key string) func() {
	m.mu.Lock()
	l, ok := m.locks[key]
	if !ok {
		l = &sync.Mutex{}
		m.locks[key] = l
	}
	m.mu.Unlock()

	l.Lock()
	return l.Unlock
}
