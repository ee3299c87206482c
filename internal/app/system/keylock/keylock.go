// Package keylock provides per-key mutual exclusion for cascade
// execution. Two concurrent cascades touching the same club or the same
// user race on membership read-modify-write sequences; serializing on
// the affected entity keys keeps the tier invariant intact without a
// global lock.
package keylock

import (
	"sort"
	"sync"
)

// Keeper hands out one mutex per key. Mutexes are created on first use
// and retained for the life of the Keeper; the key space here (club
// names, user emails) is small and bounded.
type Keeper struct {
	locks sync.Map // key string -> *sync.Mutex
}

// New creates an empty Keeper.
func New() *Keeper {
	return &Keeper{}
}

func (k *Keeper) mutex(key string) *sync.Mutex {
	if m, ok := k.locks.Load(key); ok {
		return m.(*sync.Mutex)
	}
	m, _ := k.locks.LoadOrStore(key, &sync.Mutex{})
	return m.(*sync.Mutex)
}

// Lock acquires the mutexes for every distinct non-empty key and returns
// a release function. Keys are locked in sorted order so overlapping
// multi-key acquisitions cannot deadlock.
func (k *Keeper) Lock(keys ...string) (release func()) {
	distinct := make([]string, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, key := range keys {
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		distinct = append(distinct, key)
	}
	sort.Strings(distinct)

	held := make([]*sync.Mutex, 0, len(distinct))
	for _, key := range distinct {
		m := k.mutex(key)
		m.Lock()
		held = append(held, m)
	}

	return func() {
		// Unlock in reverse acquisition order.
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
		}
	}
}
