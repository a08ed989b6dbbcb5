// Package kmutex provides a mutex arena keyed by int64 id, used to serialize
// mutations per document without a global lock.
package kmutex

import "sync"

type KeyedMutex struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func New() *KeyedMutex {
	return &KeyedMutex{
		locks: make(map[int64]*sync.Mutex),
	}
}

// Lock acquires the mutex for key, creating it on first use. Entries are
// never evicted; the map is bounded by the number of documents ever touched
// by this process.
func (k *KeyedMutex) Lock(key int64) {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
}

func (k *KeyedMutex) Unlock(key int64) {
	k.mu.Lock()
	m := k.locks[key]
	k.mu.Unlock()

	if m != nil {
		m.Unlock()
	}
}
