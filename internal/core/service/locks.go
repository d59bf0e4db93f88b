package service

import "sync"

// keyedLocks is the in-process confirmation guard: at most one confirm click
// per order may be in flight in this process. It only covers the round trip
// to the record store; cross-replica exclusion is the durable predicate's
// job (plus the optional lease guard).
type keyedLocks struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{held: make(map[string]struct{})}
}

// tryAcquire returns false when the key is already held.
func (k *keyedLocks) tryAcquire(key string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	if _, ok := k.held[key]; ok {
		return false
	}
	k.held[key] = struct{}{}
	return true
}

func (k *keyedLocks) release(key string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.held, key)
}
