package scan

import "sync/atomic"

// Latch allows at most one in-flight validation. The check and the set are a
// single compare-and-swap so concurrent frames cannot both pass.
type Latch struct {
	held atomic.Bool
}

// TryAcquire sets the latch and reports whether this caller won it.
func (l *Latch) TryAcquire() bool {
	return l.held.CompareAndSwap(false, true)
}

// Release clears the latch.
func (l *Latch) Release() {
	l.held.Store(false)
}

// Held reports whether a validation currently owns the latch.
func (l *Latch) Held() bool {
	return l.held.Load()
}
