package service

import (
	"sync"

	"github.com/digkill/contos-diarios/internal/repository"
)

// UserLocks serialises read-modify-write cycles on one user's records.
type UserLocks struct {
	mu    sync.Mutex
	locks map[string]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

func NewUserLocks() *UserLocks {
	return &UserLocks{locks: make(map[string]*userLock)}
}

// Lock blocks until the user's lock is held and returns its release func.
func (l *UserLocks) Lock(userID string) func() {
	key := repository.Scope(userID)

	l.mu.Lock()
	lock, ok := l.locks[key]
	if !ok {
		lock = &userLock{}
		l.locks[key] = lock
	}
	lock.refs++
	l.mu.Unlock()

	lock.mu.Lock()
	return func() {
		lock.mu.Unlock()
		l.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}

// InFlight admits at most one generation per user at a time.
type InFlight struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func NewInFlight() *InFlight {
	return &InFlight{active: make(map[string]struct{})}
}

// TryAcquire reports false when a generation is already running for the user.
func (f *InFlight) TryAcquire(userID string) (release func(), ok bool) {
	key := repository.Scope(userID)
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, busy := f.active[key]; busy {
		return nil, false
	}
	f.active[key] = struct{}{}
	return func() {
		f.mu.Lock()
		delete(f.active, key)
		f.mu.Unlock()
	}, true
}

// Busy reports whether a generation is running for the user.
func (f *InFlight) Busy(userID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, busy := f.active[repository.Scope(userID)]
	return busy
}
