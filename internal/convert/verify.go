package convert

import (
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// DocumentVerifier confirms a produced document is readable.
type DocumentVerifier interface {
	PageCount(path string) (int, error)
}

// PDFVerifier reads page counts with pdfcpu.
type PDFVerifier struct{}

// PageCount returns the number of pages pdfcpu finds in path.
func (PDFVerifier) PageCount(path string) (int, error) {
	return api.PageCountFile(path)
}

// DeckVerifier confirms an assembled deck holds the expected slides.
type DeckVerifier interface {
	SlideCount(path string) (int, error)
}

// DeckVerifierFunc adapts a plain function to DeckVerifier.
type DeckVerifierFunc func(path string) (int, error)

// SlideCount calls f(path).
func (f DeckVerifierFunc) SlideCount(path string) (int, error) {
	return f(path)
}
