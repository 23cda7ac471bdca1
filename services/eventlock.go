package services

import "sync"

// eventLocks serializes destructive tournament sequences per event, so two
// concurrent regenerations cannot interleave their delete/insert steps.
type eventLocks struct {
	mu sync.Mutex
	m  map[int]*sync.Mutex
}

func newEventLocks() *eventLocks {
	return &eventLocks{m: make(map[int]*sync.Mutex)}
}

func (l *eventLocks) Lock(eventID int) (unlock func()) {
	l.mu.Lock()
	em, ok := l.m[eventID]
	if !ok {
		em = &sync.Mutex{}
		l.m[eventID] = em
	}
	l.mu.Unlock()

	em.Lock()
	return em.Unlock
}
