// Package lock provides per-claim-id locking so that at most one settlement
// is in flight for any unclaimed score at a time.
package lock

import "sync"

// idMutex wraps a mutex stored per claim id.
type idMutex struct {
	mu sync.Mutex
}

// ClaimLock provides per-id exclusive locking. Two settlements for distinct
// ids proceed fully in parallel; two for the same id are serialized.
type ClaimLock struct {
	locks sync.Map // map[string]*idMutex
	pool  sync.Pool
}

// New creates a new ClaimLock instance.
func New() *ClaimLock {
	return &ClaimLock{
		pool: sync.Pool{
			New: func() any {
				return &idMutex{}
			},
		},
	}
}

// getLock retrieves or creates the mutex for the given id.
func (cl *ClaimLock) getLock(id string) *idMutex {
	if v, ok := cl.locks.Load(id); ok {
		return v.(*idMutex)
	}

	newLock := cl.pool.Get().(*idMutex)

	// Store or load existing (handles race condition)
	actual, loaded := cl.locks.LoadOrStore(id, newLock)
	if loaded {
		// Another goroutine created the lock first, return ours to pool
		cl.pool.Put(newLock)
	}
	return actual.(*idMutex)
}

// Lock acquires the lock for an id.
func (cl *ClaimLock) Lock(id string) {
	cl.getLock(id).mu.Lock()
}

// Unlock releases the lock for an id.
func (cl *ClaimLock) Unlock(id string) {
	if v, ok := cl.locks.Load(id); ok {
		v.(*idMutex).mu.Unlock()
	}
}

// TryLock attempts to acquire the lock without blocking.
// Returns true if the lock was acquired, false otherwise.
func (cl *ClaimLock) TryLock(id string) bool {
	return cl.getLock(id).mu.TryLock()
}

// WithLock executes a function while holding the id's lock.
func (cl *ClaimLock) WithLock(id string, fn func() error) error {
	cl.Lock(id)
	defer cl.Unlock(id)
	return fn()
}
