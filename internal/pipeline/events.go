package pipeline

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"deckflow/internal/services"
)

// Status is the terminal outcome of a run.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusAborted   Status = "aborted"
	StatusFailed    Status = "failed"
)

// State is a position in the run state machine:
// idle -> staging_input -> stage_1 [-> stage_2 [-> stage_3]] -> finalizing
// -> completed | aborted | failed.
type State string

const (
	StateIdle         State = "idle"
	StateStagingInput State = "staging_input"
	StateFinalizing   State = "finalizing"
	StateCompleted    State = "completed"
	StateAborted      State = "aborted"
	StateFailed       State = "failed"
)

// StageState is the state while the 1-based stage n runs.
func StageState(n int) State {
	return State(fmt.Sprintf("stage_%d", n))
}

// Terminal reports whether s ends a run.
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateAborted || s == StateFailed
}

// ProgressEvent reports a stage's percent complete. StageIndex is 1-based.
type ProgressEvent struct {
	StageIndex int
	StageCount int
	Stage      string
	Percent    int
}

// LogEvent is a human-readable milestone.
type LogEvent struct {
	Level   slog.Level
	Message string
}

// Artifacts lists the final paths a completed run produced beside the source.
type Artifacts struct {
	Document string
	ImageDir string
	Deck     string
}

// CompletionEvent is the single terminal event of a run.
type CompletionEvent struct {
	Status Status
	// Stage names the failing stage; empty unless Status is failed.
	Stage     string
	Kind      services.ErrorKind
	Reason    string
	Err       error
	Artifacts Artifacts
	Elapsed   time.Duration
}

// Event is one entry of a run's event stream. Exactly one of Progress, Log
// and Completion is set.
type Event struct {
	RequestID  string
	Time       time.Time
	Progress   *ProgressEvent
	Log        *LogEvent
	Completion *CompletionEvent
}

// eventQueue decouples the run from its consumer: pushes never block, and a
// forwarder goroutine delivers events in order to the consumer channel.
type eventQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []Event
	closed bool
}

func newEventQueue() *eventQueue {
	q := &eventQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *eventQueue) push(e Event) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.items = append(q.items, e)
	q.cond.Signal()
}

func (q *eventQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.cond.Signal()
}

// forward sends queued events to out and closes out after the queue is
// closed and drained.
func (q *eventQueue) forward(out chan<- Event) {
	for {
		q.mu.Lock()
		for len(q.items) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.items) == 0 {
			q.mu.Unlock()
			close(out)
			return
		}
		e := q.items[0]
		q.items[0] = Event{}
		q.items = q.items[1:]
		q.mu.Unlock()
		out <- e
	}
}
