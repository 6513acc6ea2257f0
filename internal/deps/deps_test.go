package deps

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeStub(t *testing.T, path string, mode os.FileMode) {
	t.Helper()
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), mode); err != nil {
		t.Fatalf("write stub: %v", err)
	}
}

func TestResolve(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "soffice")
	writeStub(t, present, 0o755)
	plain := filepath.Join(binDir, "soffice.txt")
	writeStub(t, plain, 0o644)

	programs := []Program{
		{Name: "LibreOffice", Command: present, Purpose: " render decks "},
		{Name: "Missing", Command: "clearly-not-present-binary", Optional: true},
		{Name: "Unset", Command: "  "},
		{Name: "NotExecutable", Command: plain},
		{Name: "Gone", Command: filepath.Join(binDir, "gone")},
	}

	results := Resolve(programs)
	if len(results) != len(programs) {
		t.Fatalf("expected %d results, got %d", len(programs), len(results))
	}
	if !results[0].Found() || results[0].Path != present || results[0].Purpose != "render decks" {
		t.Fatalf("expected first program to resolve, got %#v", results[0])
	}
	if results[1].Found() || !strings.Contains(results[1].Detail, "not found on PATH") || !results[1].Optional {
		t.Fatalf("expected optional missing program, got %#v", results[1])
	}
	if results[2].Found() || results[2].Detail != "command not configured" {
		t.Fatalf("expected unconfigured command, got %#v", results[2])
	}
	if results[3].Found() || !strings.HasSuffix(results[3].Detail, "is not executable") {
		t.Fatalf("expected non-executable file to be rejected, got %#v", results[3])
	}
	if results[4].Found() || !strings.HasSuffix(results[4].Detail, "does not exist") {
		t.Fatalf("expected missing path, got %#v", results[4])
	}

	missing := MissingRequired(results)
	var names []string
	for _, m := range missing {
		names = append(names, m.Name)
	}
	if strings.Join(names, ",") != "Unset,NotExecutable,Gone" {
		t.Fatalf("unexpected required misses %v", names)
	}
}

func TestResolveSearchesPath(t *testing.T) {
	binDir := t.TempDir()
	writeStub(t, filepath.Join(binDir, "deckflow-fake-renderer"), 0o755)
	t.Setenv("PATH", binDir)

	l := Resolve([]Program{{Name: "Renderer", Command: "deckflow-fake-renderer"}})[0]
	if !l.Found() || l.Path != filepath.Join(binDir, "deckflow-fake-renderer") {
		t.Fatalf("expected binary on PATH to resolve, got %#v", l)
	}
}
