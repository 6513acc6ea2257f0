package pipeline

import (
	"log/slog"
	"path/filepath"

	"deckflow/internal/fileutil"
	"deckflow/internal/services"
	"deckflow/internal/workspace"
)

// finalize copies the requested artifacts out of the workspace. It runs
// before teardown so every retained artifact exists in both places until the
// workspace is removed.
func (o *Orchestrator) finalize(req Request, layout workspace.Layout, out outputs, run *Run) (Artifacts, error) {
	var artifacts Artifacts

	copyDocument := func() error {
		dst := layout.FinalDocumentPath()
		if err := fileutil.CopyFileVerified(out.document, dst); err != nil {
			return services.Wrap(services.ErrWorkspace, "finalize", "copy document", filepath.Base(dst), err)
		}
		artifacts.Document = dst
		run.log(slog.LevelInfo, "document saved: %s", dst)
		return nil
	}
	copyImages := func() error {
		dst := layout.FinalImageDir(req.DPI)
		if err := fileutil.ReplaceDir(out.imageDir, dst); err != nil {
			return services.Wrap(services.ErrWorkspace, "finalize", "copy images", filepath.Base(dst), err)
		}
		artifacts.ImageDir = dst
		run.log(slog.LevelInfo, "images saved: %s", dst)
		return nil
	}

	fromDeck := req.SourceKind == SourceDeck
	if fromDeck && (req.TargetKind == TargetDocument || req.RetainDocument) {
		if err := copyDocument(); err != nil {
			return artifacts, err
		}
	}

	switch req.TargetKind {
	case TargetImageSet:
		if err := copyImages(); err != nil {
			return artifacts, err
		}
	case TargetImageDeck:
		if req.RetainImages {
			if err := copyImages(); err != nil {
				return artifacts, err
			}
		}
		dst := layout.FinalDeckPath(o.opts.DeckPrefix)
		if err := fileutil.CopyFileVerified(out.deck, dst); err != nil {
			return artifacts, services.Wrap(services.ErrWorkspace, "finalize", "copy deck", filepath.Base(dst), err)
		}
		artifacts.Deck = dst
		run.log(slog.LevelInfo, "deck saved: %s", dst)
	}
	return artifacts, nil
}
