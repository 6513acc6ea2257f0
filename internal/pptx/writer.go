package pptx

import (
	"archive/zip"
	"bytes"
	"context"
	"embed"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/template"
	"time"
)

// EMUPerInch is the number of English Metric Units in one inch.
const EMUPerInch = 914400

//go:embed parts/*
var parts embed.FS

var templates = template.Must(template.New("pptx").Funcs(template.FuncMap{
	"xml": escapeXML,
}).ParseFS(parts, "parts/*.tmpl"))

// static parts copied into every deck verbatim, keyed by archive name.
var staticParts = []struct{ name, file string }{
	{"_rels/.rels", "parts/rels.xml"},
	{"ppt/slideMasters/slideMaster1.xml", "parts/slideMaster1.xml"},
	{"ppt/slideMasters/_rels/slideMaster1.xml.rels", "parts/slideMaster1.xml.rels"},
	{"ppt/slideLayouts/slideLayout1.xml", "parts/slideLayout1.xml"},
	{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", "parts/slideLayout1.xml.rels"},
	{"ppt/theme/theme1.xml", "parts/theme1.xml"},
	{"ppt/presProps.xml", "parts/presProps.xml"},
	{"ppt/viewProps.xml", "parts/viewProps.xml"},
	{"ppt/tableStyles.xml", "parts/tableStyles.xml"},
}

// ErrNoImages is returned when Write is given an empty image list.
var ErrNoImages = errors.New("no images to place")

// Writer builds image decks on a fixed canvas.
type Writer struct {
	width  int64
	height int64
	now    func() time.Time
}

// NewWriter returns a writer whose slides measure widthInches by heightInches.
func NewWriter(widthInches, heightInches float64) *Writer {
	return &Writer{
		width:  int64(widthInches * EMUPerInch),
		height: int64(heightInches * EMUPerInch),
		now:    time.Now,
	}
}

// Canvas returns the slide size in EMU.
func (w *Writer) Canvas() (width, height int64) {
	return w.width, w.height
}

type slidePart struct {
	Number int
	ID     int
	RelID  string
	Name   string
	Media  string
	Source string
}

type deckData struct {
	Slides  []slidePart
	Width   int64
	Height  int64
	Title   string
	Created string
}

type slideData struct {
	Slide  slidePart
	Width  int64
	Height int64
}

// Write assembles a deck at path with one slide per image, in the order
// given. The deck is written to a sibling temporary file and renamed into
// place, so path never holds a partial deck. ctx is checked between slides.
func (w *Writer) Write(ctx context.Context, path string, images []string) (err error) {
	if len(images) == 0 {
		return ErrNoImages
	}
	slides := make([]slidePart, 0, len(images))
	for i, img := range images {
		ext, err := mediaExtension(img)
		if err != nil {
			return err
		}
		n := i + 1
		slides = append(slides, slidePart{
			Number: n,
			ID:     255 + n,
			RelID:  fmt.Sprintf("rId%d", 5+n),
			Name:   filepath.Base(img),
			Media:  fmt.Sprintf("image%d.%s", n, ext),
			Source: img,
		})
	}

	partial := path + ".partial"
	file, err := os.Create(partial)
	if err != nil {
		return fmt.Errorf("create deck: %w", err)
	}
	defer func() {
		if err != nil {
			_ = file.Close()
			_ = os.Remove(partial)
		}
	}()

	zw := zip.NewWriter(file)
	for _, part := range staticParts {
		data, err := parts.ReadFile(part.file)
		if err != nil {
			return err
		}
		if err := writeEntry(zw, part.name, data); err != nil {
			return err
		}
	}

	for _, slide := range slides {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("deck assembly interrupted at slide %d: %w", slide.Number, err)
		}
		data := slideData{Slide: slide, Width: w.width, Height: w.height}
		if err := writeTemplate(zw, fmt.Sprintf("ppt/slides/slide%d.xml", slide.Number), "slide.xml.tmpl", data); err != nil {
			return err
		}
		if err := writeTemplate(zw, fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", slide.Number), "slide.xml.rels.tmpl", data); err != nil {
			return err
		}
		if err := copyMedia(zw, "ppt/media/"+slide.Media, slide.Source); err != nil {
			return err
		}
	}

	deck := deckData{
		Slides:  slides,
		Width:   w.width,
		Height:  w.height,
		Title:   strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Created: w.now().UTC().Format(time.RFC3339),
	}
	for _, part := range []struct{ name, tmpl string }{
		{"[Content_Types].xml", "content_types.xml.tmpl"},
		{"ppt/presentation.xml", "presentation.xml.tmpl"},
		{"ppt/_rels/presentation.xml.rels", "presentation.xml.rels.tmpl"},
		{"docProps/app.xml", "app.xml.tmpl"},
		{"docProps/core.xml", "core.xml.tmpl"},
	} {
		if err := writeTemplate(zw, part.name, part.tmpl, deck); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finish deck archive: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close deck: %w", err)
	}
	if err := os.Rename(partial, path); err != nil {
		return fmt.Errorf("move deck into place: %w", err)
	}
	return nil
}

func writeEntry(zw *zip.Writer, name string, data []byte) error {
	entry, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("add %s: %w", name, err)
	}
	if _, err := entry.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func writeTemplate(zw *zip.Writer, name, tmpl string, data any) error {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, tmpl, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return writeEntry(zw, name, buf.Bytes())
}

func copyMedia(zw *zip.Writer, name, source string) error {
	in, err := os.Open(source)
	if err != nil {
		return fmt.Errorf("open image: %w", err)
	}
	defer in.Close()
	// Images are already compressed.
	entry, err := zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Store})
	if err != nil {
		return fmt.Errorf("add %s: %w", name, err)
	}
	if _, err := io.Copy(entry, in); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// IsImage reports whether path has an extension the writer can embed.
func IsImage(path string) bool {
	_, err := mediaExtension(path)
	return err == nil
}

func mediaExtension(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png", nil
	case ".jpg", ".jpeg":
		return "jpeg", nil
	default:
		return "", fmt.Errorf("unsupported image type %q", filepath.Ext(path))
	}
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
