package turns

import "sync"

// lockRegistry hands out one mutex per turn id. Entries are created on
// first use and kept for the life of the process; the per-turn footprint
// is a single mutex.
type lockRegistry struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newLockRegistry() *lockRegistry {
	return &lockRegistry{locks: make(map[string]*sync.Mutex)}
}

// acquire blocks until the turn's lock is held and returns the release
// function. The wait is unbounded.
func (r *lockRegistry) acquire(turnID string) func() {
	r.mu.Lock()
	l, ok := r.locks[turnID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[turnID] = l
	}
	r.mu.Unlock()

	l.Lock()
	return l.Unlock
}
