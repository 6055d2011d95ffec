package reservation

import "sync"

// listingLocks serializes "read confirmed set -> overlap check -> conditional
// write" per listing. Without it, two overlapping confirmations can both pass
// their overlap checks before either write is visible to the other. The lock
// is in-process; a horizontally scaled deployment would need a shared lock in
// its place.
type listingLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (l *listingLocks) acquire(listingID string) *sync.Mutex {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*sync.Mutex)
	}
	m, ok := l.locks[listingID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[listingID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m
}
