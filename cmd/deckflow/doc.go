// Command deckflow converts slide decks and PDF documents between a deck, a
// PDF, a folder of page images and an image-only deck.
//
// Each conversion runs in a scratch directory beside the source file, which
// is removed when the run completes or is cancelled and left in place for
// inspection when it fails. `deckflow workspace` lists and cleans leftovers.
package main
