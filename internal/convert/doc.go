// Package convert implements the three conversion stages.
//
// DeckToDocument renders a slide deck to PDF through an external renderer
// (LibreOffice by default). DocumentToImages rasterizes every page of a PDF
// to page_{n}.png. ImagesToDeck assembles a folder of images into a new deck
// with one full-slide picture per image.
//
// Each stage implements stage.Handler. Stages wrapping a call that cannot
// report progress run it on its own goroutine and emit simulated progress
// from a supervising goroutine that also polls the cancellation token. The
// external capabilities (renderer, rasterizer, deck author, verifiers) sit
// behind small interfaces so tests can substitute fakes.
package convert

// Stage names, as reported in progress events, logs and errors.
const (
	StageDeckToDocument   = "deck-to-document"
	StageDocumentToImages = "document-to-images"
	StageImagesToDeck     = "images-to-deck"
)
