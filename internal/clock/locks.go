package clock

import (
	"context"
	"sync"
)

// workerLocks serializes clock transitions per worker. Waiting for a lock
// is bounded by the caller's context.
type workerLocks struct {
	mu    sync.Mutex
	slots map[uint]*lockSlot
}

type lockSlot struct {
	ch   chan struct{}
	refs int
}

func newWorkerLocks() *workerLocks {
	return &workerLocks{slots: make(map[uint]*lockSlot)}
}

// lock blocks until the worker's lock is held or ctx is done
func (l *workerLocks) lock(ctx context.Context, workerID uint) (func(), error) {
	l.mu.Lock()
	slot, ok := l.slots[workerID]
	if !ok {
		slot = &lockSlot{ch: make(chan struct{}, 1)}
		l.slots[workerID] = slot
	}
	slot.refs++
	l.mu.Unlock()

	select {
	case slot.ch <- struct{}{}:
		var once sync.Once
		return func() {
			once.Do(func() {
				<-slot.ch
				l.release(workerID, slot)
			})
		}, nil
	case <-ctx.Done():
		l.release(workerID, slot)
		return nil, ctx.Err()
	}
}

func (l *workerLocks) release(workerID uint, slot *lockSlot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	slot.refs--
	if slot.refs == 0 {
		delete(l.slots, workerID)
	}
}

// size is the number of workers with a held or awaited lock
func (l *workerLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.slots)
}
