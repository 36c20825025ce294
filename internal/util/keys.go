package util

import (
	"sync"

	"github.com/cespare/xxhash/v2"
)

// StorageKey scopes a user key to a cache name: "<cache>:<key>".
func StorageKey(cacheName, key string) string {
	return cacheName + ":" + key
}

// KeyLocks is a fixed set of mutexes selected by key hash. Two keys may share
// a stripe; the same key always maps to the same stripe.
type KeyLocks struct {
	stripes []sync.Mutex
}

// NewKeyLocks returns n stripes; n <= 0 => 256.
func NewKeyLocks(n int) *KeyLocks {
	if n <= 0 {
		n = 256
	}
	return &KeyLocks{stripes: make([]sync.Mutex, n)}
}

// Lock locks the stripe for key and returns its unlock func.
func (l *KeyLocks) Lock(key string) (unlock func()) {
	m := &l.stripes[xxhash.Sum64String(key)%uint64(len(l.stripes))]
	m.Lock()
	return m.Unlock
}
