package booking

import (
	"fmt"
	"sync"
)

// SlotLock serialises the check-then-create sequence of booking creation
// per (restaurant, date, time) key.  Without it two concurrent requests
// for the same slot can both pass the availability check before either
// insert commits and overbook the slot.  The lock is in-process; a
// deployment with multiple replicas additionally needs the database
// transaction it is combined with to run at an isolation level that
// detects the conflicting writes.
type SlotLock struct {
	mu    sync.Mutex
	slots map[string]*slotEntry
}

type slotEntry struct {
	mu   sync.Mutex
	refs int
}

// NewSlotLock returns an empty SlotLock ready for use.
func NewSlotLock() *SlotLock {
	return &SlotLock{slots: make(map[string]*slotEntry)}
}

// SlotKey builds the lock key for a restaurant's slot.  The date must be
// the normalized "YYYY-MM-DD" form and the time the normalized "HH:MM"
// form so that equivalent requests always map to the same key.
func SlotKey(restaurantID uint64, date, at string) string {
	return fmt.Sprintf("%d:%s:%s", restaurantID, date, at)
}

// Acquire blocks until the caller holds the slot's mutex and returns the
// release function.  Entries are reference-counted and removed once the
// last holder releases, so the map never grows past the number of slots
// currently being booked.
func (l *SlotLock) Acquire(key string) (release func()) {
	l.mu.Lock()
	e, ok := l.slots[key]
	if !ok {
		e = &slotEntry{}
		l.slots[key] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.slots, key)
		}
		l.mu.Unlock()
	}
}
