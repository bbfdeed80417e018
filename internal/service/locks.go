package service

import "sync"

// keyedMutex serializes work per key. The schedule service locks per
// classroom so a conflict scan and the following insert cannot interleave
// with another create for the same classroom.
type keyedMutex struct {
	mus sync.Map // key -> *sync.Mutex
}

// Lock acquires the mutex for key and returns the unlock func.
func (k *keyedMutex) Lock(key int64) func() {
	v, _ := k.mus.LoadOrStore(key, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}
