package syncer

import "sync"

// AccountLocker serializes syncs of the same account inside one process so
// that two runs cannot both pass the dedup check before either inserts.
type AccountLocker struct {
	mu    sync.Mutex
	locks map[string]*accountLock
}

type accountLock struct {
	mu      sync.Mutex
	waiters int
}

// NewAccountLocker creates an empty locker.
func NewAccountLocker() *AccountLocker {
	return &AccountLocker{locks: make(map[string]*accountLock)}
}

// Lock blocks until accountID is free and returns the matching unlock func.
func (l *AccountLocker) Lock(accountID string) func() {
	l.mu.Lock()
	lock, ok := l.locks[accountID]
	if !ok {
		lock = &accountLock{}
		l.locks[accountID] = lock
	}
	lock.waiters++
	l.mu.Unlock()

	lock.mu.Lock()

	return func() {
		lock.mu.Unlock()

		l.mu.Lock()
		lock.waiters--
		if lock.waiters == 0 {
			delete(l.locks, accountID)
		}
		l.mu.Unlock()
	}
}

// Len returns the number of accounts currently locked or awaited.
func (l *AccountLocker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
