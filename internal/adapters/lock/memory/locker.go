package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type entry struct {
	sem  chan struct{}
	refs int
}

// Locker hands out one lock per task id. Entries live only while someone
// holds or waits for them, so idle tasks cost nothing.
type Locker struct {
	mu      sync.Mutex
	entries map[uuid.UUID]*entry
}

// NewLocker returns an in-process Locker
func NewLocker() *Locker {
	return &Locker{entries: make(map[uuid.UUID]*entry)}
}

// Lock blocks until the task lock is held or ctx is done
func (l *Locker) Lock(ctx context.Context, taskID uuid.UUID) (func(), error) {
	l.mu.Lock()
	e, ok := l.entries[taskID]
	if !ok {
		e = &entry{sem: make(chan struct{}, 1)}
		l.entries[taskID] = e
	}
	e.refs++
	l.mu.Unlock()

	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		l.release(taskID, e)
		return nil, ctx.Err()
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-e.sem
			l.release(taskID, e)
		})
	}, nil
}

func (l *Locker) release(taskID uuid.UUID, e *entry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e.refs--
	if e.refs == 0 {
		delete(l.entries, taskID)
	}
}

// Len reports how many task ids currently have holders or waiters
func (l *Locker) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
