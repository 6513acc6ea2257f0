package pptx

import (
	"fmt"
	"os"
	"path/filepath"

	gopresentation "github.com/VantageDataChat/GoPPT"
)

const renderWidth = 1920

// SlideCount returns the number of slides in the deck at path.
func SlideCount(path string) (int, error) {
	reader, err := gopresentation.NewReader(gopresentation.ReaderPowerPoint2007)
	if err != nil {
		return 0, fmt.Errorf("new reader: %w", err)
	}
	pres, err := reader.Read(path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}
	return pres.GetSlideCount(), nil
}

// RenderSlides saves a preview image of every slide into dir as
// slide01.png, slide02.png, ... and returns the written paths. Slides that
// fail to render are reported in the returned error after the rest are
// written.
func RenderSlides(path, dir string) ([]string, error) {
	reader, err := gopresentation.NewReader(gopresentation.ReaderPowerPoint2007)
	if err != nil {
		return nil, fmt.Errorf("new reader: %w", err)
	}
	pres, err := reader.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create preview dir: %w", err)
	}
	opts := gopresentation.DefaultRenderOptions()
	opts.Width = renderWidth

	var written []string
	var failed []int
	for i := 0; i < pres.GetSlideCount(); i++ {
		out := filepath.Join(dir, fmt.Sprintf("slide%02d.png", i+1))
		if err := pres.SaveSlideAsImage(i, out, opts); err != nil {
			failed = append(failed, i+1)
			continue
		}
		written = append(written, out)
	}
	if len(failed) > 0 {
		return written, fmt.Errorf("render slides %v failed", failed)
	}
	return written, nil
}
