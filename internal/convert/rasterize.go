package convert

import (
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
)

// PointsPerInch converts a resolution to a render scale: scale = dpi / 72.
const PointsPerInch = 72.0

// Rasterizer opens paginated documents for page rendering.
type Rasterizer interface {
	Open(path string) (RasterDocument, error)
}

// RasterDocument is an open document. Close must be called once.
type RasterDocument interface {
	PageCount() int
	// RenderPage renders the zero-based page at scale, where 1.0 maps one
	// typographic point to one pixel.
	RenderPage(index int, scale float64) (image.Image, error)
	Close() error
}

// FitzRasterizer renders with MuPDF.
type FitzRasterizer struct{}

// Open loads path with MuPDF.
func (FitzRasterizer) Open(path string) (RasterDocument, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &fitzDocument{doc: doc}, nil
}

type fitzDocument struct {
	doc *fitz.Document
}

func (d *fitzDocument) PageCount() int {
	return d.doc.NumPage()
}

func (d *fitzDocument) RenderPage(index int, scale float64) (image.Image, error) {
	img, err := d.doc.ImageDPI(index, scale*PointsPerInch)
	if err != nil {
		return nil, err
	}
	return img, nil
}

func (d *fitzDocument) Close() error {
	return d.doc.Close()
}
