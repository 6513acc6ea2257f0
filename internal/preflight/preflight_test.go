package preflight

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"deckflow/internal/config"
	"deckflow/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckSourceFile(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "deck.pptx")
	if err := os.WriteFile(f, []byte("deck"), 0o644); err != nil {
		t.Fatal(err)
	}
	if r := CheckSourceFile("source", f); !r.Passed {
		t.Fatalf("expected pass, got %s", r.Detail)
	}
	if r := CheckSourceFile("source", dir); r.Passed {
		t.Fatal("expected failure for directory")
	}
	if r := CheckSourceFile("source", filepath.Join(dir, "missing.pptx")); r.Passed {
		t.Fatal("expected failure for missing file")
	}
}

func TestRunAllSkipsRendererWhenNotNeeded(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = ""
	cfg.Renderer.Command = "clearly-not-present-soffice"
	dir := t.TempDir()
	src := filepath.Join(dir, "doc.pdf")
	if err := os.WriteFile(src, []byte("%PDF"), 0o644); err != nil {
		t.Fatal(err)
	}

	results := RunAll(context.Background(), &cfg, Options{SourcePath: src})
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("unexpected failures: %+v", failed)
	}

	results = RunAll(context.Background(), &cfg, Options{SourcePath: src, NeedsRenderer: true})
	failed := Failed(results)
	if len(failed) != 1 || failed[0].Name != "LibreOffice" {
		t.Fatalf("expected renderer failure, got %+v", failed)
	}
}

func TestRunAllNilConfig(t *testing.T) {
	if results := RunAll(context.Background(), nil, Options{}); results != nil {
		t.Fatalf("expected nil results, got %+v", results)
	}
}

func TestRunAllWithStubbedRenderer(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedRenderer(""))
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}
	src := filepath.Join(testsupport.BaseDir(cfg), "deck.pptx")
	testsupport.WriteDeck(t, src)

	results := RunAll(context.Background(), cfg, Options{SourcePath: src, NeedsRenderer: true})
	if failed := Failed(results); len(failed) != 0 {
		t.Fatalf("unexpected failures: %+v", failed)
	}
	if len(results) != 4 {
		t.Fatalf("expected source, directory, log and renderer checks, got %d", len(results))
	}
}
