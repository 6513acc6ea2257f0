// Package cancel provides the per-request cancellation flag shared by the
// orchestrator and every stage.
//
// A Token is level-triggered: once Set, every later poll observes it and it
// never resets. Stages poll IsSet at their safe points; code that blocks can
// select on Done or derive a context with Context.
package cancel

import (
	"context"
	"sync"
	"sync/atomic"
)

// Token is a monotonic false-to-true flag. Use New to construct one.
type Token struct {
	set  atomic.Bool
	once sync.Once
	done chan struct{}
}

// New returns an unset token.
func New() *Token {
	return &Token{done: make(chan struct{})}
}

// Set raises the flag. It reports whether this call changed the state; later
// calls are no-ops.
func (t *Token) Set() bool {
	if t == nil {
		return false
	}
	changed := false
	t.once.Do(func() {
		t.set.Store(true)
		close(t.done)
		changed = true
	})
	return changed
}

// IsSet reports whether cancellation was requested. A nil token is never set.
func (t *Token) IsSet() bool {
	return t != nil && t.set.Load()
}

// Done returns a channel closed when the token is set. A nil token returns a
// nil channel, which never becomes ready.
func (t *Token) Done() <-chan struct{} {
	if t == nil {
		return nil
	}
	return t.done
}

// Context derives a context cancelled when either parent ends or the token is
// set. Call the returned CancelFunc to release the watcher goroutine.
func (t *Token) Context(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	if t == nil {
		return ctx, cancel
	}
	go func() {
		select {
		case <-t.done:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
