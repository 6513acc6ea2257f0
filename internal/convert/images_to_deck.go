package convert

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"deckflow/internal/cancel"
	"deckflow/internal/logging"
	"deckflow/internal/natsort"
	"deckflow/internal/pptx"
	"deckflow/internal/services"
	"deckflow/internal/stage"
)

// DeckAuthor writes a deck at path with one full-slide picture per image, in
// the order given. It should stop between slides once ctx is done.
type DeckAuthor interface {
	Write(ctx context.Context, path string, images []string) error
}

// ImagesToDeck assembles a folder of page images into a deck.
type ImagesToDeck struct {
	author   DeckAuthor
	verifier DeckVerifier
	timing   Timing
	logger   *slog.Logger
}

// NewImagesToDeck wires the stage. A nil verifier skips the slide count
// check.
func NewImagesToDeck(author DeckAuthor, verifier DeckVerifier, timing Timing, logger *slog.Logger) *ImagesToDeck {
	return &ImagesToDeck{
		author:   author,
		verifier: verifier,
		timing:   timing,
		logger:   logging.NewComponentLogger(logger, StageImagesToDeck),
	}
}

// CollectImages returns every embeddable image under dir, recursively, in
// natural sort order of their paths. A missing dir yields no images.
func CollectImages(dir string) ([]string, error) {
	var images []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && pptx.IsImage(path) {
			images = append(images, path)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	natsort.SortPaths(images)
	return images, nil
}

// Execute builds the deck job.Output from the images under job.Input.
func (s *ImagesToDeck) Execute(ctx context.Context, token *cancel.Token, job stage.Job, progress stage.ProgressFunc) (string, error) {
	if s.author == nil {
		return "", services.Wrap(services.ErrWorkspace, StageImagesToDeck, "assemble", "no deck author configured", nil)
	}
	images, err := CollectImages(job.Input)
	if err != nil {
		return "", services.Wrap(services.ErrWorkspace, StageImagesToDeck, "collect images", job.Input, err)
	}
	if len(images) == 0 {
		return "", services.Wrap(services.ErrEmptyImageSet, StageImagesToDeck, "collect images", "no images found in "+job.Input, nil)
	}

	stage.Report(progress, 0, fmt.Sprintf("assembling %d slides", len(images)))
	err = supervise(ctx, token, s.timing, progress, func(callCtx context.Context) error {
		return s.author.Write(callCtx, job.Output, images)
	})
	if errors.Is(err, errInterrupted) {
		if rmErr := os.Remove(job.Output); rmErr == nil {
			s.logger.Debug("discarded partial deck", logging.String("path", job.Output))
		}
		return "", services.Wrap(services.ErrAborted, StageImagesToDeck, "assemble", "cancelled while assembling", nil)
	}
	if err != nil {
		return "", services.Wrap(services.ErrWorkspace, StageImagesToDeck, "write deck", filepath.Base(job.Output), err)
	}

	if s.verifier != nil {
		slides, err := s.verifier.SlideCount(job.Output)
		switch {
		case err != nil:
			logging.WarnWithContext(s.logger, "deck verification skipped", "deck_verify_failed",
				logging.String("path", job.Output),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "open the deck to confirm it is intact"),
				logging.String(logging.FieldImpact, "slide count not confirmed"),
			)
		case slides != len(images):
			return "", services.Wrap(services.ErrExternalConversion, StageImagesToDeck, "verify",
				fmt.Sprintf("deck has %d slides, expected %d", slides, len(images)), nil)
		}
	}

	s.logger.Info("deck assembled", logging.String("path", job.Output), logging.Int("slides", len(images)))
	stage.Report(progress, 100, fmt.Sprintf("deck assembled with %d slides", len(images)))
	return job.Output, nil
}

// HealthCheck reports ready when an author is configured.
func (s *ImagesToDeck) HealthCheck(context.Context) stage.Health {
	if s.author == nil {
		return stage.NotReady(StageImagesToDeck, "no deck author configured")
	}
	return stage.Ready(StageImagesToDeck)
}
