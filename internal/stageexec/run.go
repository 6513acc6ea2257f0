package stageexec

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"deckflow/internal/cancel"
	"deckflow/internal/logging"
	"deckflow/internal/services"
	"deckflow/internal/stage"
)

// Options controls a single stage execution.
type Options struct {
	Logger    *slog.Logger
	Handler   stage.Handler
	StageName string
	Token     *cancel.Token
	Job       stage.Job
	// Progress receives the stage's updates after they pass the monotonic
	// filter. It may be nil.
	Progress stage.ProgressFunc
	// SampleBucket is the progress log granularity in percent; zero uses 5.
	SampleBucket int
}

// Run executes one stage with stage-scoped logging. Progress forwarded to
// opts.Progress never decreases, and a stage that succeeds always ends with a
// 100 percent update. Errors are returned unchanged.
func Run(ctx context.Context, opts Options) (string, error) {
	if opts.Handler == nil {
		return "", fmt.Errorf("stage handler unavailable: %s", opts.StageName)
	}

	stageCtx := services.WithStage(ctx, opts.StageName)
	stageLogger := logging.WithContext(stageCtx, opts.Logger)

	stageLogger.Info(
		"stage started",
		logging.String(logging.FieldEventType, "stage_start"),
		logging.String("input", strings.TrimSpace(opts.Job.Input)),
		logging.String("output", strings.TrimSpace(opts.Job.Output)),
	)
	started := time.Now()

	tracker := newProgressTracker(stageLogger, opts.StageName, opts.SampleBucket, opts.Progress)
	out, err := opts.Handler.Execute(stageCtx, opts.Token, opts.Job, tracker.report)
	if err != nil {
		return "", handleFailure(stageLogger, err)
	}
	tracker.finish()

	stageLogger.Info(
		"stage completed",
		logging.String(logging.FieldEventType, "stage_complete"),
		logging.String("output", out),
		logging.Duration("elapsed", time.Since(started)),
	)
	return out, nil
}

func handleFailure(logger *slog.Logger, stageErr error) error {
	details := services.Details(stageErr)
	if details.Kind == services.ErrorKindAborted {
		logger.Info(
			"stage aborted",
			logging.String(logging.FieldEventType, "stage_abort"),
			logging.String("reason", details.Message),
		)
		return stageErr
	}

	message := strings.TrimSpace(details.Message)
	if message == "" {
		message = "stage failed"
	}
	logger.Error(
		"stage failed",
		logging.String(logging.FieldEventType, "stage_failure"),
		logging.String(logging.FieldErrorKind, string(details.Kind)),
		logging.String("error_message", message),
		logging.Error(stageErr),
	)
	return stageErr
}

type progressTracker struct {
	logger  *slog.Logger
	stage   string
	sampler *logging.ProgressSampler
	forward stage.ProgressFunc
	last    int
	sent    bool
}

func newProgressTracker(logger *slog.Logger, stageName string, bucket int, forward stage.ProgressFunc) *progressTracker {
	if bucket <= 0 {
		bucket = 5
	}
	return &progressTracker{
		logger:  logger,
		stage:   stageName,
		sampler: logging.NewProgressSampler(bucket),
		forward: forward,
	}
}

func (t *progressTracker) report(u stage.Update) {
	percent := min(max(u.Percent, 0), 100)
	if t.sent && percent < t.last {
		percent = t.last
	}
	if t.sampler.ShouldLog(percent, t.stage) {
		t.logger.Debug("stage progress",
			logging.Int("percent", percent),
			logging.String(logging.FieldEventType, "stage_progress"),
		)
	}
	if t.sent && percent == t.last && u.Message == "" {
		return
	}
	t.last = percent
	t.sent = true
	if t.forward != nil {
		t.forward(stage.Update{Percent: percent, Message: u.Message})
	}
}

func (t *progressTracker) finish() {
	if !t.sent || t.last < 100 {
		t.report(stage.Update{Percent: 100})
	}
}
