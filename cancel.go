package cavif

import "sync/atomic"

// CancellationToken is a thread-safe cancel flag that can be shared across
// goroutines. Copies of a token are cheap and share the same underlying
// flag, so a token handed to an Encoder can be cancelled from anywhere.
//
// The flag is a liveness hint, not a synchronization point: no other shared
// data is protected by it, so relaxed atomic reads are sufficient.
type CancellationToken struct {
	cancelled *atomic.Bool
}

// NewCancellationToken returns a fresh, non-cancelled token.
func NewCancellationToken() CancellationToken {
	return CancellationToken{cancelled: new(atomic.Bool)}
}

// Cancel requests cancellation. It is idempotent, never blocks, and is safe
// to call concurrently with reads from any goroutine. Encoding operations
// holding this token check the flag periodically and return ErrCancelled.
func (t CancellationToken) Cancel() {
	if t.cancelled != nil {
		t.cancelled.Store(true)
	}
}

// IsCancelled reports whether Cancel has been called.
func (t CancellationToken) IsCancelled() bool {
	return t.cancelled != nil && t.cancelled.Load()
}

// Reset clears the flag so the token can be reused for a later encode call.
// It is only meant for sequential reuse: resetting while an encode holding
// this token is in flight races with the in-flight checks, and either
// outcome may be observed.
func (t CancellationToken) Reset() {
	if t.cancelled != nil {
		t.cancelled.Store(false)
	}
}
