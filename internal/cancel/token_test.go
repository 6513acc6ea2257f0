package cancel

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestTokenIsMonotonic(t *testing.T) {
	tok := New()
	if tok.IsSet() {
		t.Fatal("new token must be unset")
	}
	if !tok.Set() {
		t.Fatal("first Set should report a change")
	}
	if tok.Set() {
		t.Fatal("second Set must be a no-op")
	}
	for i := 0; i < 3; i++ {
		if !tok.IsSet() {
			t.Fatal("token must stay set")
		}
	}
	select {
	case <-tok.Done():
	default:
		t.Fatal("Done must be closed after Set")
	}
}

func TestTokenConcurrentSet(t *testing.T) {
	tok := New()
	var wg sync.WaitGroup
	changes := make(chan bool, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			changes <- tok.Set()
		}()
	}
	wg.Wait()
	close(changes)
	count := 0
	for changed := range changes {
		if changed {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one state change, got %d", count)
	}
}

func TestNilToken(t *testing.T) {
	var tok *Token
	if tok.IsSet() || tok.Set() {
		t.Fatal("nil token must never be set")
	}
	if tok.Done() != nil {
		t.Fatal("nil token Done should be nil")
	}
	ctx, cancel := tok.Context(context.Background())
	defer cancel()
	if ctx.Err() != nil {
		t.Fatal("context from nil token should be live")
	}
}

func TestContextFollowsToken(t *testing.T) {
	tok := New()
	ctx, cancel := tok.Context(context.Background())
	defer cancel()

	tok.Set()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context was not cancelled by token")
	}
}

func TestContextFollowsParent(t *testing.T) {
	tok := New()
	parent, parentCancel := context.WithCancel(context.Background())
	ctx, cancel := tok.Context(parent)
	defer cancel()

	parentCancel()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context did not follow parent")
	}
	if tok.IsSet() {
		t.Fatal("parent cancellation must not set the token")
	}
}
