package grid

import "sync"

// Locks hands out one read-write lock per room. Rooms never block each other.
type Locks struct {
	mu    sync.Mutex
	rooms map[string]*sync.RWMutex
}

// NewLocks creates an empty registry.
func NewLocks() *Locks {
	return &Locks{rooms: make(map[string]*sync.RWMutex)}
}

func (l *Locks) get(roomID string) *sync.RWMutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.rooms[roomID]
	if !ok {
		m = &sync.RWMutex{}
		l.rooms[roomID] = m
	}
	return m
}

// Lock takes the room exclusively. Call the returned func to release it.
func (l *Locks) Lock(roomID string) func() {
	m := l.get(roomID)
	m.Lock()
	return m.Unlock
}

// RLock takes the room for reading. Call the returned func to release it.
func (l *Locks) RLock(roomID string) func() {
	m := l.get(roomID)
	m.RLock()
	return m.RUnlock
}
