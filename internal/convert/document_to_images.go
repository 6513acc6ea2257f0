package convert

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	"deckflow/internal/cancel"
	"deckflow/internal/logging"
	"deckflow/internal/services"
	"deckflow/internal/stage"
)

// PageImageName is the file name of the 1-based page n.
func PageImageName(n int) string {
	return fmt.Sprintf("page_%d.png", n)
}

// DocumentToImages rasterizes every page of a document to PNG.
type DocumentToImages struct {
	rasterizer Rasterizer
	logger     *slog.Logger
}

// NewDocumentToImages wires the stage.
func NewDocumentToImages(rasterizer Rasterizer, logger *slog.Logger) *DocumentToImages {
	return &DocumentToImages{
		rasterizer: rasterizer,
		logger:     logging.NewComponentLogger(logger, StageDocumentToImages),
	}
}

// Execute clears the folder job.Output and writes page_1.png..page_N.png into
// it at job.DPI, in page order. The token is checked before every page.
func (s *DocumentToImages) Execute(ctx context.Context, token *cancel.Token, job stage.Job, progress stage.ProgressFunc) (string, error) {
	if job.DPI <= 0 {
		return "", services.Wrap(services.ErrInvalidRequest, StageDocumentToImages, "validate", fmt.Sprintf("resolution must be positive, got %d", job.DPI), nil)
	}
	if s.rasterizer == nil {
		return "", services.Wrap(services.ErrDocumentOpen, StageDocumentToImages, "open", "no rasterizer configured", nil)
	}
	if info, err := os.Stat(job.Input); err != nil {
		return "", services.Wrap(services.ErrDocumentOpen, StageDocumentToImages, "open", job.Input, err)
	} else if info.IsDir() {
		return "", services.Wrap(services.ErrDocumentOpen, StageDocumentToImages, "open", job.Input+" is a directory", nil)
	}

	if err := os.RemoveAll(job.Output); err != nil {
		return "", services.Wrap(services.ErrWorkspace, StageDocumentToImages, "clear output", job.Output, err)
	}
	if err := os.MkdirAll(job.Output, 0o755); err != nil {
		return "", services.Wrap(services.ErrWorkspace, StageDocumentToImages, "create output", job.Output, err)
	}

	doc, err := s.rasterizer.Open(job.Input)
	if err != nil {
		return "", services.Wrap(services.ErrDocumentOpen, StageDocumentToImages, "open", filepath.Base(job.Input), err)
	}
	defer func() {
		if err := doc.Close(); err != nil {
			s.logger.Debug("close document failed", logging.Error(err))
		}
	}()

	total := doc.PageCount()
	if total <= 0 {
		return "", services.Wrap(services.ErrDocumentOpen, StageDocumentToImages, "open", "document has no pages", nil)
	}
	scale := float64(job.DPI) / PointsPerInch
	s.logger.Info("rasterizing document",
		logging.String("path", job.Input),
		logging.Int("pages", total),
		logging.Int("dpi", job.DPI),
	)
	stage.Report(progress, 0, fmt.Sprintf("converting %d pages at %d dpi", total, job.DPI))

	for i := 0; i < total; i++ {
		if token.IsSet() || ctx.Err() != nil {
			return "", services.Wrap(services.ErrAborted, StageDocumentToImages, "rasterize", fmt.Sprintf("cancelled before page %d of %d", i+1, total), nil)
		}
		img, err := doc.RenderPage(i, scale)
		if err != nil {
			return "", services.Wrap(services.ErrDocumentOpen, StageDocumentToImages, "rasterize", fmt.Sprintf("page %d", i+1), err)
		}
		name := PageImageName(i + 1)
		if err := writePNG(filepath.Join(job.Output, name), img); err != nil {
			return "", services.Wrap(services.ErrWorkspace, StageDocumentToImages, "write image", name, err)
		}
		percent := int(math.Round(float64(i+1) / float64(total) * 100))
		stage.Report(progress, percent, fmt.Sprintf("page %d of %d saved as %s", i+1, total, name))
	}

	s.logger.Info("images written", logging.String("path", job.Output), logging.Int("pages", total))
	return job.Output, nil
}

// HealthCheck reports ready; the rasterizer is linked in.
func (s *DocumentToImages) HealthCheck(context.Context) stage.Health {
	if s.rasterizer == nil {
		return stage.NotReady(StageDocumentToImages, "no rasterizer configured")
	}
	return stage.Ready(StageDocumentToImages)
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}
