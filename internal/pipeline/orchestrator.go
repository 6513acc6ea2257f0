package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"deckflow/internal/cancel"
	"deckflow/internal/convert"
	"deckflow/internal/logging"
	"deckflow/internal/services"
	"deckflow/internal/stage"
	"deckflow/internal/stageexec"
	"deckflow/internal/workspace"
)

// DefaultDeckPrefix is prepended to the source base name to name image decks.
const DefaultDeckPrefix = "images-"

// passthroughStage names the progress event of a run that needs no stages.
const passthroughStage = "passthrough"

// Stages bundles the concrete handlers the orchestrator sequences.
type Stages struct {
	DeckToDocument   stage.Handler
	DocumentToImages stage.Handler
	ImagesToDeck     stage.Handler
}

// Options configures an Orchestrator.
type Options struct {
	// WorkspaceName is the scratch directory name beside the source.
	WorkspaceName string
	// DeckPrefix names the image deck: <prefix><base>.pptx.
	DeckPrefix string
	Logger     *slog.Logger
	// SampleBucket is the progress log granularity in percent.
	SampleBucket int
}

// Orchestrator runs conversion requests. It holds no per-request state and
// may start any number of runs; runs on the same source directory exclude
// each other through the workspace lock.
type Orchestrator struct {
	stages Stages
	opts   Options
	logger *slog.Logger
	newID  func() string
}

// New constructs an orchestrator over the given stage handlers.
func New(stages Stages, opts Options) *Orchestrator {
	if strings.TrimSpace(opts.WorkspaceName) == "" {
		opts.WorkspaceName = workspace.DefaultName
	}
	if opts.DeckPrefix == "" {
		opts.DeckPrefix = DefaultDeckPrefix
	}
	return &Orchestrator{
		stages: stages,
		opts:   opts,
		logger: logging.NewComponentLogger(opts.Logger, "pipeline"),
		newID:  uuid.NewString,
	}
}

// Health reports the readiness of every configured stage.
func (o *Orchestrator) Health(ctx context.Context) []stage.Health {
	named := []struct {
		name    string
		handler stage.Handler
	}{
		{convert.StageDeckToDocument, o.stages.DeckToDocument},
		{convert.StageDocumentToImages, o.stages.DocumentToImages},
		{convert.StageImagesToDeck, o.stages.ImagesToDeck},
	}
	results := make([]stage.Health, 0, len(named))
	for _, n := range named {
		if n.handler == nil {
			results = append(results, stage.NotReady(n.name, "not configured"))
			continue
		}
		results = append(results, n.handler.HealthCheck(ctx))
	}
	return results
}

// Run is the handle of one in-flight request.
type Run struct {
	id     string
	events chan Event
	queue  *eventQueue
	done   chan struct{}

	mu     sync.Mutex
	state  State
	result CompletionEvent
}

// ID is the request correlation identifier.
func (r *Run) ID() string {
	return r.id
}

// Events returns the ordered event stream. It ends with one CompletionEvent
// and is then closed. Drain it; events are buffered until read.
func (r *Run) Events() <-chan Event {
	return r.events
}

// Done is closed when the run has reached a terminal state.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the run ends and returns its completion.
func (r *Run) Wait() CompletionEvent {
	<-r.done
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.result
}

// State returns the current state machine position.
func (r *Run) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

func (r *Run) setState(s State) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

func (r *Run) emit(e Event) {
	e.RequestID = r.id
	e.Time = time.Now()
	r.queue.push(e)
}

func (r *Run) progress(index, count int, name string, percent int) {
	r.emit(Event{Progress: &ProgressEvent{StageIndex: index, StageCount: count, Stage: name, Percent: percent}})
}

func (r *Run) log(level slog.Level, format string, args ...any) {
	r.emit(Event{Log: &LogEvent{Level: level, Message: fmt.Sprintf(format, args...)}})
}

// Start submits req and returns immediately. The request is copied; token
// may be set at any time to abort the run.
func (o *Orchestrator) Start(ctx context.Context, req Request, token *cancel.Token) *Run {
	run := &Run{
		id:     o.newID(),
		events: make(chan Event),
		queue:  newEventQueue(),
		done:   make(chan struct{}),
		state:  StateIdle,
	}
	go run.queue.forward(run.events)
	go func() {
		result := o.execute(ctx, run, req, token)
		run.mu.Lock()
		run.result = result
		run.mu.Unlock()
		run.emit(Event{Completion: &result})
		run.queue.close()
		close(run.done)
	}()
	return run
}

// Execute runs req to completion, calling onEvent for every event in order.
func (o *Orchestrator) Execute(ctx context.Context, req Request, token *cancel.Token, onEvent func(Event)) CompletionEvent {
	run := o.Start(ctx, req, token)
	for e := range run.Events() {
		if onEvent != nil {
			onEvent(e)
		}
	}
	return run.Wait()
}

func (o *Orchestrator) execute(ctx context.Context, run *Run, req Request, token *cancel.Token) CompletionEvent {
	started := time.Now()
	ctx = services.WithRequestID(ctx, run.id)
	ctx = services.WithSource(ctx, req.SourcePath)
	logger := logging.WithContext(ctx, o.logger)

	finish := func(c CompletionEvent) CompletionEvent {
		c.Elapsed = time.Since(started)
		o.conclude(run, logger, c)
		return c
	}

	run.setState(StateStagingInput)
	logger.Info("conversion requested",
		logging.String(logging.FieldEventType, "request_start"),
		logging.String("source_kind", string(req.SourceKind)),
		logging.String("target_kind", string(req.TargetKind)),
		logging.Int("dpi", req.DPI),
	)
	if err := req.Validate(); err != nil {
		return finish(failure("", err))
	}
	// A cancelled caller context stops the run the same way the token does.
	stopRequested := func() bool {
		return token.IsSet() || ctx.Err() != nil
	}
	if stopRequested() {
		return finish(CompletionEvent{Status: StatusAborted, Kind: services.ErrorKindAborted, Reason: "cancelled before start"})
	}

	layout, err := workspace.NewLayout(req.SourcePath, o.opts.WorkspaceName)
	if err != nil {
		return finish(failure("", services.Wrap(services.ErrInvalidRequest, "request", "resolve paths", "", err)))
	}
	steps := o.steps(req, layout)
	for _, st := range steps {
		if st.handler == nil {
			return finish(failure(st.name, fmt.Errorf("stage %s is not configured", st.name)))
		}
	}

	if len(steps) == 0 {
		run.log(slog.LevelInfo, "no conversion needed: %s is already a document", layout.BaseName)
		run.progress(1, 1, passthroughStage, 100)
		run.setState(StateFinalizing)
		return finish(CompletionEvent{Status: StatusCompleted, Artifacts: Artifacts{Document: layout.SourcePath}})
	}

	ws, err := workspace.Acquire(layout, logger)
	if err != nil {
		return finish(failure("", err))
	}
	defer func() {
		if err := ws.Release(); err != nil {
			logger.Warn("workspace lock release failed",
				logging.Error(err),
				logging.String(logging.FieldEventType, "workspace_unlock_failed"),
				logging.String(logging.FieldErrorHint, "remove "+layout.LockPath()+" if no run is active"),
				logging.String(logging.FieldImpact, "later runs may report the workspace busy"),
			)
		}
	}()
	run.log(slog.LevelInfo, "workspace ready: %s", ws.Dir())

	out := outputs{}
	if req.SourceKind == SourceDocument {
		out.document = req.SourcePath
	}

	for i, st := range steps {
		if stopRequested() {
			return finish(o.abort(run, ws, "cancelled before "+st.name))
		}
		index := i + 1
		run.setState(StageState(index))
		job := st.job
		if st.name == convert.StageDocumentToImages {
			job.Input = out.document
		}
		name := st.name
		path, err := stageexec.Run(ctx, stageexec.Options{
			Logger:       logger,
			Handler:      st.handler,
			StageName:    name,
			Token:        token,
			Job:          job,
			SampleBucket: o.opts.SampleBucket,
			Progress: func(u stage.Update) {
				run.progress(index, len(steps), name, u.Percent)
				if u.Message != "" {
					run.log(slog.LevelInfo, "%s", u.Message)
				}
			},
		})
		if err != nil {
			if services.IsAborted(err) {
				return finish(o.abort(run, ws, services.Details(err).Message))
			}
			if ctx.Err() != nil {
				return finish(o.abort(run, ws, "cancelled during "+name))
			}
			return finish(failure(name, err))
		}
		out.record(name, path)
	}

	if stopRequested() {
		return finish(o.abort(run, ws, "cancelled before finalizing"))
	}
	run.setState(StateFinalizing)
	artifacts, err := o.finalize(req, layout, out, run)
	if err != nil {
		return finish(failure("finalize", err))
	}
	if err := ws.Teardown(); err != nil {
		return finish(failure("finalize", err))
	}
	run.log(slog.LevelInfo, "workspace removed")
	return finish(CompletionEvent{Status: StatusCompleted, Artifacts: artifacts})
}

// abort tears the workspace down. A teardown failure turns the abort into a
// failure so a leftover workspace is never reported as clean.
func (o *Orchestrator) abort(run *Run, ws *workspace.Workspace, reason string) CompletionEvent {
	run.setState(StateFinalizing)
	if err := ws.Teardown(); err != nil {
		return failure("finalize", err)
	}
	run.log(slog.LevelInfo, "workspace removed")
	if strings.TrimSpace(reason) == "" {
		reason = "cancelled"
	}
	return CompletionEvent{Status: StatusAborted, Kind: services.ErrorKindAborted, Reason: reason}
}

func failure(stageName string, err error) CompletionEvent {
	details := services.Details(err)
	if stageName == "" {
		stageName = details.Stage
	}
	return CompletionEvent{
		Status: StatusFailed,
		Stage:  stageName,
		Kind:   details.Kind,
		Reason: details.Message,
		Err:    err,
	}
}

func (o *Orchestrator) conclude(run *Run, logger *slog.Logger, c CompletionEvent) {
	switch c.Status {
	case StatusCompleted:
		run.setState(StateCompleted)
		run.log(slog.LevelInfo, "conversion finished in %s", c.Elapsed.Round(time.Millisecond))
		logger.Info("conversion finished",
			logging.String(logging.FieldEventType, "request_complete"),
			logging.Duration("elapsed", c.Elapsed),
			logging.String("document", c.Artifacts.Document),
			logging.String("image_dir", c.Artifacts.ImageDir),
			logging.String("deck", c.Artifacts.Deck),
		)
	case StatusAborted:
		run.setState(StateAborted)
		run.log(slog.LevelWarn, "conversion aborted: %s", c.Reason)
		logger.Info("conversion aborted",
			logging.String(logging.FieldEventType, "request_abort"),
			logging.String("reason", c.Reason),
		)
	default:
		run.setState(StateFailed)
		run.log(slog.LevelError, "conversion failed: %s", c.Reason)
		logger.Error("conversion failed",
			logging.String(logging.FieldEventType, "request_failure"),
			logging.String(logging.FieldStage, c.Stage),
			logging.String(logging.FieldErrorKind, string(c.Kind)),
			logging.String(logging.FieldErrorHint, hintFor(c.Kind)),
			logging.Error(c.Err),
		)
	}
}

func hintFor(kind services.ErrorKind) string {
	switch kind {
	case services.ErrorKindInvalidRequest:
		return "check the source path, formats and resolution"
	case services.ErrorKindWorkspace:
		return "check the source directory permissions and that no other run is active"
	case services.ErrorKindExternalConversion:
		return "run deckflow deps and try opening the deck in LibreOffice"
	case services.ErrorKindDocumentOpen:
		return "confirm the PDF opens in a viewer"
	case services.ErrorKindEmptyImageSet:
		return "the document produced no page images"
	default:
		return "check logs for details"
	}
}
