package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"deckflow/internal/services"
)

func TestParseKinds(t *testing.T) {
	sources := map[string]SourceKind{"deck": SourceDeck, "PPTX": SourceDeck, "pdf": SourceDocument, " document ": SourceDocument}
	for in, want := range sources {
		got, err := ParseSourceKind(in)
		if err != nil || got != want {
			t.Errorf("ParseSourceKind(%q) = %q, %v", in, got, err)
		}
	}
	targets := map[string]TargetKind{"pdf": TargetDocument, "imagedeck": TargetImageDeck, "images": TargetImageSet, "image-set": TargetImageSet}
	for in, want := range targets {
		got, err := ParseTargetKind(in)
		if err != nil || got != want {
			t.Errorf("ParseTargetKind(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseSourceKind("docx"); services.Kind(err) != services.ErrorKindInvalidRequest {
		t.Fatalf("unknown source kind: %v", err)
	}
	if _, err := ParseTargetKind("gif"); services.Kind(err) != services.ErrorKindInvalidRequest {
		t.Fatalf("unknown target kind: %v", err)
	}
}

func TestInferSourceKind(t *testing.T) {
	cases := map[string]SourceKind{"a.ppt": SourceDeck, "b.PPTX": SourceDeck, "c.pdf": SourceDocument}
	for in, want := range cases {
		got, err := InferSourceKind(in)
		if err != nil || got != want {
			t.Errorf("InferSourceKind(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := InferSourceKind("notes.txt"); err == nil {
		t.Fatal("expected error for .txt")
	}
}

func TestRequestValidate(t *testing.T) {
	dir := t.TempDir()
	deck := filepath.Join(dir, "deck.pptx")
	if err := os.WriteFile(deck, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	valid := Request{SourcePath: deck, SourceKind: SourceDeck, TargetKind: TargetImageSet, DPI: 150}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	cases := map[string]func(r *Request){
		"zero dpi":        func(r *Request) { r.DPI = 0 },
		"negative dpi":    func(r *Request) { r.DPI = -1 },
		"bad source kind": func(r *Request) { r.SourceKind = "spreadsheet" },
		"bad target kind": func(r *Request) { r.TargetKind = "gif" },
		"empty path":      func(r *Request) { r.SourcePath = " " },
		"kind mismatch":   func(r *Request) { r.SourceKind = SourceDocument },
		"missing file":    func(r *Request) { r.SourcePath = filepath.Join(dir, "gone.pptx") },
		"directory":       func(r *Request) { r.SourcePath = dir + ".pptx" },
	}
	if err := os.Mkdir(dir+".pptx", 0o755); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Remove(dir + ".pptx") })

	for name, mutate := range cases {
		req := valid
		mutate(&req)
		err := req.Validate()
		if services.Kind(err) != services.ErrorKindInvalidRequest {
			t.Errorf("%s: got %v, want InvalidRequest", name, err)
		}
	}
}
