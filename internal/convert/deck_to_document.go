package convert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"deckflow/internal/cancel"
	"deckflow/internal/fileutil"
	"deckflow/internal/logging"
	"deckflow/internal/services"
	"deckflow/internal/stage"
)

// DeckToDocument renders a slide deck to PDF.
type DeckToDocument struct {
	renderer DeckRenderer
	verifier DocumentVerifier
	timing   Timing
	logger   *slog.Logger
}

// NewDeckToDocument wires the stage. A nil verifier skips output
// verification.
func NewDeckToDocument(renderer DeckRenderer, verifier DocumentVerifier, timing Timing, logger *slog.Logger) *DeckToDocument {
	return &DeckToDocument{
		renderer: renderer,
		verifier: verifier,
		timing:   timing,
		logger:   logging.NewComponentLogger(logger, StageDeckToDocument),
	}
}

// Execute renders job.Input into the folder job.Output and returns the
// document path. Cancellation kills the renderer and deletes whatever it left
// behind; a failed render keeps its output for diagnosis.
func (s *DeckToDocument) Execute(ctx context.Context, token *cancel.Token, job stage.Job, progress stage.ProgressFunc) (string, error) {
	if s.renderer == nil {
		return "", services.Wrap(services.ErrExternalConversion, StageDeckToDocument, "render", "no renderer configured", nil)
	}
	if !fileutil.Exists(job.Input) {
		return "", services.Wrap(services.ErrDocumentOpen, StageDeckToDocument, "open deck", job.Input, os.ErrNotExist)
	}
	if err := os.MkdirAll(job.Output, 0o755); err != nil {
		return "", services.Wrap(services.ErrWorkspace, StageDeckToDocument, "prepare output", job.Output, err)
	}

	expected := documentPathFor(job.Input, job.Output)
	if err := os.Remove(expected); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", services.Wrap(services.ErrWorkspace, StageDeckToDocument, "remove stale document", expected, err)
	}

	stage.Report(progress, 0, fmt.Sprintf("rendering %s", filepath.Base(job.Input)))
	var produced string
	err := supervise(ctx, token, s.timing, progress, func(callCtx context.Context) error {
		out, err := s.renderer.Render(callCtx, job.Input, job.Output)
		produced = out
		return err
	})
	if errors.Is(err, errInterrupted) {
		s.discard(expected, produced)
		return "", services.Wrap(services.ErrAborted, StageDeckToDocument, "render", "cancelled while rendering", nil)
	}
	if err != nil {
		return "", services.Wrap(services.ErrExternalConversion, StageDeckToDocument, "render", filepath.Base(job.Input), err)
	}
	if produced == "" {
		produced = expected
	}
	if !fileutil.Exists(produced) {
		return "", services.Wrap(services.ErrExternalConversion, StageDeckToDocument, "render", "renderer produced no document", nil)
	}

	if s.verifier != nil {
		pages, err := s.verifier.PageCount(produced)
		if err != nil {
			return "", services.Wrap(services.ErrExternalConversion, StageDeckToDocument, "verify", "produced document is unreadable", err)
		}
		if pages <= 0 {
			return "", services.Wrap(services.ErrExternalConversion, StageDeckToDocument, "verify", "produced document has no pages", nil)
		}
		s.logger.Debug("document verified", logging.Int("pages", pages))
	}

	s.logger.Info("document produced", logging.String("path", produced))
	stage.Report(progress, 100, fmt.Sprintf("document produced: %s", filepath.Base(produced)))
	return produced, nil
}

// discard removes partial renderer output. Paths may repeat or be empty.
func (s *DeckToDocument) discard(paths ...string) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := os.Remove(path); err == nil {
			s.logger.Debug("discarded partial document", logging.String("path", path))
		}
	}
}

// HealthCheck delegates to the renderer when it can report readiness.
func (s *DeckToDocument) HealthCheck(ctx context.Context) stage.Health {
	if s.renderer == nil {
		return stage.NotReady(StageDeckToDocument, "no renderer configured")
	}
	if checker, ok := s.renderer.(interface {
		HealthCheck(context.Context) stage.Health
	}); ok {
		return checker.HealthCheck(ctx)
	}
	return stage.Ready(StageDeckToDocument)
}
