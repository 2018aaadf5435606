package cart

import "sync"

// UserLocks serializes mutations per user. Cart writes and order placement
// share one instance, so "snapshot cart, then clear cart" is observed
// atomically by every other writer for the same user.
type UserLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewUserLocks() *UserLocks {
	return &UserLocks{locks: make(map[string]*sync.Mutex)}
}

// Lock acquires the mutex for userID and returns the unlock func.
func (l *UserLocks) Lock(userID string) func() {
	l.mu.Lock()
	m, ok := l.locks[userID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[userID] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
