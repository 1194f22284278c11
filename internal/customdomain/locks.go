package customdomain

import "sync"

// teamLocks serializes set-default calls per team inside one process
type teamLocks struct {
	mu    sync.Mutex
	locks map[string]*teamLock
}

type teamLock struct {
	mu   sync.Mutex
	refs int
}

func (l *teamLocks) lock(teamID string) func() {
	l.mu.Lock()
	if l.locks == nil {
		l.locks = make(map[string]*teamLock)
	}
	tl, ok := l.locks[teamID]
	if !ok {
		tl = &teamLock{}
		l.locks[teamID] = tl
	}
	tl.refs++
	l.mu.Unlock()

	tl.mu.Lock()
	return func() {
		tl.mu.Unlock()
		l.mu.Lock()
		tl.refs--
		if tl.refs == 0 {
			delete(l.locks, teamID)
		}
		l.mu.Unlock()
	}
}
