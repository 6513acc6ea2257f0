package convert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"deckflow/internal/deps"
	"deckflow/internal/logging"
	"deckflow/internal/stage"
)

// DeckRenderer turns a slide deck into a paginated document inside outDir and
// returns the document path. It offers no progress callback.
type DeckRenderer interface {
	Render(ctx context.Context, deckPath, outDir string) (string, error)
}

// RendererOption configures a SofficeRenderer.
type RendererOption func(*SofficeRenderer)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) RendererOption {
	return func(r *SofficeRenderer) {
		if exec != nil {
			r.exec = exec
		}
	}
}

// WithRendererLogger routes renderer output lines to logger at debug level.
func WithRendererLogger(logger *slog.Logger) RendererOption {
	return func(r *SofficeRenderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// SofficeRenderer renders decks with LibreOffice in headless mode.
type SofficeRenderer struct {
	binary    string
	timeout   time.Duration
	extraArgs []string
	exec      Executor
	logger    *slog.Logger
}

// NewSofficeRenderer constructs a renderer for the given soffice binary. A
// zero timeout means the render may run until cancelled.
func NewSofficeRenderer(binary string, timeout time.Duration, extraArgs []string, opts ...RendererOption) (*SofficeRenderer, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("renderer binary required")
	}
	r := &SofficeRenderer{
		binary:    binary,
		timeout:   timeout,
		extraArgs: append([]string(nil), extraArgs...),
		exec:      commandExecutor{},
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Binary returns the configured executable.
func (r *SofficeRenderer) Binary() string {
	return r.binary
}

// Render runs soffice --convert-to pdf and returns <outDir>/<deck base>.pdf.
// It does not check that the file exists; the caller verifies output.
func (r *SofficeRenderer) Render(ctx context.Context, deckPath, outDir string) (string, error) {
	if strings.TrimSpace(deckPath) == "" || strings.TrimSpace(outDir) == "" {
		return "", errors.New("deck path and output directory required")
	}
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	if err := r.exec.Run(ctx, r.binary, r.args(deckPath, outDir), func(line string) {
		r.logger.Debug("renderer output", logging.String("line", line))
	}); err != nil {
		return "", fmt.Errorf("soffice convert: %w", err)
	}
	return documentPathFor(deckPath, outDir), nil
}

func (r *SofficeRenderer) args(deckPath, outDir string) []string {
	// A private profile keeps this instance from attaching to a running
	// LibreOffice and lands inside the workspace, which is removed later.
	profile := url.URL{Scheme: "file", Path: filepath.ToSlash(filepath.Join(outDir, ".soffice-profile"))}
	args := []string{"--headless", "--norestore", "-env:UserInstallation=" + profile.String()}
	args = append(args, r.extraArgs...)
	return append(args, "--convert-to", "pdf", "--outdir", outDir, deckPath)
}

// HealthCheck reports whether the renderer binary resolves on PATH.
func (r *SofficeRenderer) HealthCheck(context.Context) stage.Health {
	l := deps.Resolve([]deps.Program{{Name: "LibreOffice", Command: r.binary}})[0]
	if !l.Found() {
		return stage.NotReady(StageDeckToDocument, l.Detail)
	}
	return stage.Ready(StageDeckToDocument)
}

func documentPathFor(deckPath, outDir string) string {
	base := filepath.Base(deckPath)
	return filepath.Join(outDir, strings.TrimSuffix(base, filepath.Ext(base))+".pdf")
}
