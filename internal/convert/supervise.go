package convert

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"deckflow/internal/cancel"
	"deckflow/internal/stage"
)

const (
	defaultTick = 100 * time.Millisecond
	defaultPoll = 100 * time.Millisecond

	// simulatedCeiling is the highest percent reported before the supervised
	// call returns.
	simulatedCeiling = 99
)

var errInterrupted = errors.New("interrupted by cancellation")

// Timing controls simulated progress. Tick is the interval between one
// percent steps; Poll is how often the cancellation token is checked.
type Timing struct {
	Tick time.Duration
	Poll time.Duration
}

func (t Timing) tick() time.Duration {
	if t.Tick <= 0 {
		return defaultTick
	}
	return t.Tick
}

func (t Timing) poll() time.Duration {
	if t.Poll <= 0 {
		return defaultPoll
	}
	return t.Poll
}

// supervise runs call on its own goroutine and, until it returns, reports one
// percent per tick up to simulatedCeiling and polls token. When the token is
// observed set or ctx is cancelled, the context passed to call is cancelled,
// supervise waits for call to return and reports errInterrupted. The caller
// reports 100 itself.
func supervise(ctx context.Context, token *cancel.Token, timing Timing, progress stage.ProgressFunc, call func(context.Context) error) error {
	if token.IsSet() || ctx.Err() != nil {
		return errInterrupted
	}

	group, groupCtx := errgroup.WithContext(ctx)
	finished := make(chan struct{})

	group.Go(func() error {
		defer close(finished)
		return call(groupCtx)
	})

	group.Go(func() error {
		ticker := time.NewTicker(timing.tick())
		defer ticker.Stop()
		poller := time.NewTicker(timing.poll())
		defer poller.Stop()

		percent := 0
		for {
			select {
			case <-finished:
				return nil
			case <-groupCtx.Done():
				return nil
			case <-poller.C:
				if token.IsSet() {
					return errInterrupted
				}
			case <-ticker.C:
				if percent < simulatedCeiling {
					percent++
					stage.Report(progress, percent, "")
				}
			}
		}
	})

	err := group.Wait()
	if errors.Is(err, errInterrupted) || (err != nil && (token.IsSet() || ctx.Err() != nil)) {
		return errInterrupted
	}
	return err
}
