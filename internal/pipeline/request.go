package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"deckflow/internal/services"
)

// SourceKind is the format of the input file.
type SourceKind string

const (
	SourceDeck     SourceKind = "deck"
	SourceDocument SourceKind = "document"
)

// TargetKind is the requested output format.
type TargetKind string

const (
	TargetDocument  TargetKind = "document"
	TargetImageDeck TargetKind = "imagedeck"
	TargetImageSet  TargetKind = "imageset"
)

var sourceExtensions = map[SourceKind][]string{
	SourceDeck:     {".ppt", ".pptx"},
	SourceDocument: {".pdf"},
}

// ParseSourceKind maps a user-supplied name to a SourceKind.
func ParseSourceKind(value string) (SourceKind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "deck", "ppt", "pptx":
		return SourceDeck, nil
	case "document", "pdf":
		return SourceDocument, nil
	default:
		return "", services.Wrap(services.ErrInvalidRequest, "request", "parse source kind", fmt.Sprintf("unknown source kind %q", value), nil)
	}
}

// ParseTargetKind maps a user-supplied name to a TargetKind.
func ParseTargetKind(value string) (TargetKind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "document", "pdf":
		return TargetDocument, nil
	case "imagedeck", "image-deck", "images-deck":
		return TargetImageDeck, nil
	case "imageset", "image-set", "images", "png":
		return TargetImageSet, nil
	default:
		return "", services.Wrap(services.ErrInvalidRequest, "request", "parse target kind", fmt.Sprintf("unknown target kind %q", value), nil)
	}
}

// InferSourceKind guesses the source kind from the file extension.
func InferSourceKind(path string) (SourceKind, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for kind, exts := range sourceExtensions {
		for _, candidate := range exts {
			if ext == candidate {
				return kind, nil
			}
		}
	}
	return "", services.Wrap(services.ErrInvalidRequest, "request", "infer source kind", fmt.Sprintf("unsupported file type %q", ext), nil)
}

// Request describes one conversion. The orchestrator copies it on submit.
type Request struct {
	SourcePath string
	SourceKind SourceKind
	TargetKind TargetKind
	// DPI is the rasterization resolution. It must be positive for every
	// target so a request is valid independent of the plan.
	DPI int
	// RetainDocument keeps the intermediate PDF when a deck is converted to
	// images or an image deck.
	RetainDocument bool
	// RetainImages keeps the page images when building an image deck.
	RetainImages bool
}

// Validate checks the request before anything on disk is touched.
func (r Request) Validate() error {
	invalid := func(format string, args ...any) error {
		return services.Wrap(services.ErrInvalidRequest, "request", "validate", fmt.Sprintf(format, args...), nil)
	}
	if r.DPI <= 0 {
		return invalid("resolution must be a positive integer, got %d", r.DPI)
	}
	exts, ok := sourceExtensions[r.SourceKind]
	if !ok {
		return invalid("unsupported source kind %q", r.SourceKind)
	}
	switch r.TargetKind {
	case TargetDocument, TargetImageDeck, TargetImageSet:
	default:
		return invalid("unsupported target kind %q", r.TargetKind)
	}
	if strings.TrimSpace(r.SourcePath) == "" {
		return invalid("source path is required")
	}
	ext := strings.ToLower(filepath.Ext(r.SourcePath))
	matched := false
	for _, candidate := range exts {
		if ext == candidate {
			matched = true
			break
		}
	}
	if !matched {
		return invalid("%s does not look like a %s (expected %s)", filepath.Base(r.SourcePath), r.SourceKind, strings.Join(exts, ", "))
	}
	info, err := os.Stat(r.SourcePath)
	if err != nil {
		return services.Wrap(services.ErrInvalidRequest, "request", "validate", "source file not accessible", err)
	}
	if !info.Mode().IsRegular() {
		return invalid("%s is not a regular file", r.SourcePath)
	}
	return nil
}
