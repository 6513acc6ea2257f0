package stage

import (
	"context"

	"deckflow/internal/cancel"
)

// Job names what one stage reads and where it writes.
type Job struct {
	// Input is the file or folder the stage consumes.
	Input string
	// Output is the destination folder, or the destination file for stages
	// that produce a single file.
	Output string
	// DPI is the rasterization resolution; stages that do not rasterize
	// ignore it.
	DPI int
}

// Update is one progress report from a running stage. Percent is 0-100 and
// non-decreasing within a stage. Message, when set, is a milestone worth a
// log line.
type Update struct {
	Percent int
	Message string
}

// ProgressFunc receives updates from a stage. It is called from the stage's
// goroutine, never concurrently.
type ProgressFunc func(Update)

// Handler describes the contract the orchestrator needs from each stage.
// Execute returns the path of what it produced. A stage stopped by token
// returns an error wrapping services.ErrAborted.
type Handler interface {
	Execute(ctx context.Context, token *cancel.Token, job Job, progress ProgressFunc) (string, error)
	HealthCheck(context.Context) Health
}

// Report sends an update to progress when progress is non-nil.
func Report(progress ProgressFunc, percent int, message string) {
	if progress == nil {
		return
	}
	progress(Update{Percent: percent, Message: message})
}

// Health is a stage's answer to whether it could run a job right now, such
// as whether its external renderer resolves.
type Health struct {
	Name   string
	Ready  bool
	Detail string
}

// Ready reports stage name as able to run.
func Ready(name string) Health {
	return Health{Name: name, Ready: true}
}

// NotReady reports stage name as unable to run; detail says what is missing.
func NotReady(name, detail string) Health {
	return Health{Name: name, Detail: detail}
}
