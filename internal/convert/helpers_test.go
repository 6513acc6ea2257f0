package convert

import (
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"deckflow/internal/stage"
)

type progressRecorder struct {
	mu      sync.Mutex
	updates []stage.Update
}

func (r *progressRecorder) record(u stage.Update) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updates = append(r.updates, u)
}

func (r *progressRecorder) percents() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, 0, len(r.updates))
	for _, u := range r.updates {
		out = append(out, u.Percent)
	}
	return out
}

func (r *progressRecorder) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, u := range r.updates {
		if u.Message != "" {
			out = append(out, u.Message)
		}
	}
	return out
}

func assertMonotonicToHundred(t *testing.T, percents []int) {
	t.Helper()
	if len(percents) == 0 {
		t.Fatal("no progress reported")
	}
	for i := 1; i < len(percents); i++ {
		if percents[i] < percents[i-1] {
			t.Fatalf("progress went backwards: %v", percents)
		}
	}
	if last := percents[len(percents)-1]; last != 100 {
		t.Fatalf("progress ended at %d, want 100: %v", last, percents)
	}
}

type renderFunc func(ctx context.Context, deckPath, outDir string) (string, error)

func (f renderFunc) Render(ctx context.Context, deckPath, outDir string) (string, error) {
	return f(ctx, deckPath, outDir)
}

type pageCounter struct {
	pages int
	err   error
}

func (p pageCounter) PageCount(string) (int, error) {
	return p.pages, p.err
}

type fakeRasterizer struct {
	pages   int
	openErr error
	onPage  func(index int)

	mu     sync.Mutex
	scales []float64
	closed bool
}

func (f *fakeRasterizer) Open(string) (RasterDocument, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	return &fakeDocument{parent: f}, nil
}

func (f *fakeRasterizer) wasClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

type fakeDocument struct {
	parent *fakeRasterizer
}

func (d *fakeDocument) PageCount() int {
	return d.parent.pages
}

func (d *fakeDocument) RenderPage(index int, scale float64) (image.Image, error) {
	d.parent.mu.Lock()
	d.parent.scales = append(d.parent.scales, scale)
	d.parent.mu.Unlock()
	if d.parent.onPage != nil {
		d.parent.onPage(index)
	}
	img := image.NewRGBA(image.Rect(0, 0, 8, 6))
	img.Set(0, 0, color.RGBA{R: uint8(index), A: 255})
	return img, nil
}

func (d *fakeDocument) Close() error {
	d.parent.mu.Lock()
	defer d.parent.mu.Unlock()
	d.parent.closed = true
	return nil
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func listNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

var fastTiming = Timing{Tick: time.Millisecond, Poll: 2 * time.Millisecond}
