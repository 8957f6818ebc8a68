package ledger

import "sync"

// usernameLocks serializes read-modify-write cycles per username. Entries are dropped
// once nobody holds or waits for them.
type usernameLocks struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

func newUsernameLocks() *usernameLocks {
	return &usernameLocks{locks: make(map[string]*refMutex)}
}

func (l *usernameLocks) lock(username string) (unlock func()) {
	l.mu.Lock()
	m, ok := l.locks[username]
	if !ok {
		m = &refMutex{}
		l.locks[username] = m
	}
	m.refs++
	l.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()

		l.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(l.locks, username)
		}
		l.mu.Unlock()
	}
}

func (l *usernameLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
