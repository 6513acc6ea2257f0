package testsupport

import (
	"archive/zip"
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

const contentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/></Types>`

// WriteDeck writes a zip container shaped like a .pptx package. It is enough
// for path and extension checks; it holds no slides.
func WriteDeck(t testing.TB, path string) {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range map[string]string{
		"[Content_Types].xml":  contentTypes,
		"ppt/presentation.xml": `<p:presentation xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"/>`,
	} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("deck entry %s: %v", name, err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("deck entry %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close deck %s: %v", path, err)
	}
	write(t, path, buf.Bytes())
}

// WriteDocument writes a file that starts with a PDF header and is padded to
// size bytes, for tests that care about on-disk size rather than pages.
func WriteDocument(t testing.TB, path string, size int) {
	t.Helper()
	data := []byte("%PDF-1.7\n")
	if size > len(data) {
		data = append(data, bytes.Repeat([]byte{'%'}, size-len(data))...)
	}
	write(t, path, data)
}

func write(t testing.TB, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
