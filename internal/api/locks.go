package api

import "sync"

// sessionLocks serializes pipeline runs per session id. The pipeline itself
// does not define behavior for concurrent runs on one session, so the HTTP
// layer takes a session-scoped lock around each chat request.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sessionLock
}

type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sessionLock)}
}

// acquire blocks until the lock for id is held. The returned function
// releases it; entries are dropped once no request holds or waits on them.
func (l *sessionLocks) acquire(id string) func() {
	l.mu.Lock()
	entry, ok := l.locks[id]
	if !ok {
		entry = &sessionLock{}
		l.locks[id] = entry
	}
	entry.refs++
	l.mu.Unlock()

	entry.mu.Lock()
	return func() {
		entry.mu.Unlock()
		l.mu.Lock()
		entry.refs--
		if entry.refs == 0 {
			delete(l.locks, id)
		}
		l.mu.Unlock()
	}
}
