package cavif

import (
	"sync"
	"testing"
)

func TestCancellationToken(t *testing.T) {
	token := NewCancellationToken()
	if token.IsCancelled() {
		t.Error("fresh token reports cancelled")
	}

	token.Cancel()
	if !token.IsCancelled() {
		t.Error("token not cancelled after Cancel")
	}

	token.Cancel() // idempotent
	if !token.IsCancelled() {
		t.Error("token lost cancellation after repeated Cancel")
	}

	token.Reset()
	if token.IsCancelled() {
		t.Error("token still cancelled after Reset")
	}
}

func TestCancellationTokenCopiesShareFlag(t *testing.T) {
	token := NewCancellationToken()
	copied := token

	if token.IsCancelled() || copied.IsCancelled() {
		t.Fatal("fresh token or copy reports cancelled")
	}

	copied.Cancel()
	if !token.IsCancelled() {
		t.Error("original did not observe Cancel through copy")
	}
	if !copied.IsCancelled() {
		t.Error("copy did not observe its own Cancel")
	}

	token.Reset()
	if copied.IsCancelled() {
		t.Error("copy did not observe Reset through original")
	}
}

func TestCancellationTokenZeroValue(t *testing.T) {
	var token CancellationToken
	if token.IsCancelled() {
		t.Error("zero-value token reports cancelled")
	}
	// Must not panic.
	token.Cancel()
	token.Reset()
	if token.IsCancelled() {
		t.Error("zero-value token became cancelled")
	}
}

func TestCancellationTokenConcurrent(t *testing.T) {
	token := NewCancellationToken()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			copied := token
			for j := 0; j < 1000; j++ {
				if n%2 == 0 {
					copied.Cancel()
				} else {
					copied.IsCancelled()
				}
			}
		}(i)
	}
	wg.Wait()

	if !token.IsCancelled() {
		t.Error("token not cancelled after concurrent Cancel calls")
	}
}
