// Package spinlock provides a busy-wait lock for very short critical sections.
package spinlock

import (
	"runtime"
	"sync/atomic"
)

// SpinLock is a non-reentrant busy-wait lock. The zero value is unlocked.
//
// A holder that locks again deadlocks. Unlock must only be called by the
// holder.
type SpinLock struct {
	state atomic.Bool
}

// Lock spins until the lock is acquired.
func (l *SpinLock) Lock() {
	for !l.state.CompareAndSwap(false, true) {
		runtime.Gosched()
	}
}

// TryLock acquires the lock if it is free and reports whether it did.
func (l *SpinLock) TryLock() bool {
	return l.state.CompareAndSwap(false, true)
}

// Unlock releases the lock.
func (l *SpinLock) Unlock() {
	l.state.Store(false)
}

// Locked reports whether the lock is currently held. Only useful for
// assertions; the answer may be stale by the time it is read.
func (l *SpinLock) Locked() bool {
	return l.state.Load()
}

// Scoped acquires l and returns the matching release, for use with defer:
//
//	defer spinlock.Scoped(&mu)()
func Scoped(l *SpinLock) (unlock func()) {
	l.Lock()
	return l.Unlock
}

// ScopedPair acquires a then b and returns a release for both. a and b must
// be distinct, and callers must agree on the order to avoid deadlock.
func ScopedPair(a, b *SpinLock) (unlock func()) {
	a.Lock()
	b.Lock()
	return func() {
		a.Unlock()
		b.Unlock()
	}
}
