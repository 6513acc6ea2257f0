// Package pptx authors and inspects PowerPoint 2007+ decks.
//
// Writer produces image decks: one slide per image, each image stretched over
// the whole slide. SlideCount and RenderSlides read existing decks through
// GoPPT.
package pptx
