package pipeline

import (
	"fmt"
	"log/slog"

	"deckflow/internal/config"
	"deckflow/internal/convert"
	"deckflow/internal/logging"
	"deckflow/internal/pptx"
)

// NewFromConfig builds an orchestrator with the production stages: LibreOffice
// for rendering, MuPDF for rasterizing and the built-in deck writer.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) (*Orchestrator, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	renderer, err := convert.NewSofficeRenderer(
		cfg.RendererBinary(),
		cfg.RendererTimeout(),
		cfg.Renderer.ExtraArgs,
		convert.WithRendererLogger(logging.NewComponentLogger(logger, "soffice")),
	)
	if err != nil {
		return nil, err
	}

	var (
		documentVerifier convert.DocumentVerifier
		deckVerifier     convert.DeckVerifier
	)
	if cfg.Conversion.VerifyOutput {
		documentVerifier = convert.PDFVerifier{}
		deckVerifier = convert.DeckVerifierFunc(pptx.SlideCount)
	}

	stages := Stages{
		DeckToDocument: convert.NewDeckToDocument(renderer, documentVerifier,
			convert.Timing{Tick: cfg.RenderTick(), Poll: cfg.PollInterval()}, logger),
		DocumentToImages: convert.NewDocumentToImages(convert.FitzRasterizer{}, logger),
		ImagesToDeck: convert.NewImagesToDeck(
			pptx.NewWriter(cfg.Conversion.SlideWidthInches, cfg.Conversion.SlideHeightInches),
			deckVerifier,
			convert.Timing{Tick: cfg.AssembleTick(), Poll: cfg.PollInterval()},
			logger,
		),
	}
	return New(stages, Options{
		WorkspaceName: cfg.Conversion.WorkspaceName,
		DeckPrefix:    cfg.Conversion.ImageDeckPrefix,
		Logger:        logger,
	}), nil
}
