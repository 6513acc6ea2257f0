package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"deckflow/internal/pipeline"
	"deckflow/internal/services"
	"deckflow/internal/testsupport"
)

type cliEnv struct {
	dir        string
	configPath string
}

func setupCLIEnv(t *testing.T) cliEnv {
	t.Helper()
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedRenderer(""))
	cfg.Logging.Level = "error"
	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("DECKFLOW_SOFFICE", "")

	work := filepath.Join(base, "work")
	if err := os.MkdirAll(work, 0o755); err != nil {
		t.Fatalf("mkdir work: %v", err)
	}
	configPath := filepath.Join(base, "deckflow.toml")
	testsupport.WriteConfig(t, configPath, cfg)
	return cliEnv{dir: work, configPath: configPath}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(""))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestConvertDocumentToDocument(t *testing.T) {
	env := setupCLIEnv(t)
	source := filepath.Join(env.dir, "doc.pdf")
	if err := os.WriteFile(source, []byte("%PDF-1.7"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, []string{"convert", source, "--to", "document"}, env.configPath)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	requireContains(t, out, "no conversion needed")
	requireContains(t, out, string(pipeline.StatusCompleted))
	if _, err := os.Stat(filepath.Join(env.dir, "process")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("workspace should be removed, stat err = %v", err)
	}
}

func TestConvertRejectsZeroDPI(t *testing.T) {
	env := setupCLIEnv(t)
	source := filepath.Join(env.dir, "doc.pdf")
	if err := os.WriteFile(source, []byte("%PDF-1.7"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err := runCLI(t, []string{"convert", source, "--to", "imageset", "--dpi", "0"}, env.configPath)
	if services.Kind(err) != services.ErrorKindInvalidRequest {
		t.Fatalf("expected InvalidRequest, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(env.dir, "process")); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("no workspace may be created for an invalid request")
	}
}

func TestConvertRejectsUnknownTarget(t *testing.T) {
	env := setupCLIEnv(t)
	source := filepath.Join(env.dir, "doc.pdf")
	if err := os.WriteFile(source, []byte("%PDF-1.7"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, _, err := runCLI(t, []string{"convert", source, "--to", "gif"}, env.configPath)
	if services.Kind(err) != services.ErrorKindInvalidRequest {
		t.Fatalf("expected InvalidRequest, got %v", err)
	}
}

func TestWorkspaceListAndClean(t *testing.T) {
	env := setupCLIEnv(t)
	leftover := filepath.Join(env.dir, "talk", "process")
	if err := os.MkdirAll(leftover, 0o755); err != nil {
		t.Fatal(err)
	}
	testsupport.WriteDocument(t, filepath.Join(leftover, "talk.pdf"), 2048)
	old := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(leftover, old, old); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, []string{"workspace", "list", env.dir}, env.configPath)
	if err != nil {
		t.Fatalf("workspace list: %v", err)
	}
	requireContains(t, out, leftover)
	requireContains(t, out, "1 workspace(s)")

	out, _, err = runCLI(t, []string{"workspace", "clean", env.dir, "--older-than", "24h"}, env.configPath)
	if err != nil {
		t.Fatalf("workspace clean: %v", err)
	}
	requireContains(t, out, "1 removed")
	if _, err := os.Stat(leftover); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("leftover should be removed, stat err = %v", err)
	}
}

func TestWorkspaceListEmpty(t *testing.T) {
	env := setupCLIEnv(t)
	out, _, err := runCLI(t, []string{"workspace", "list", env.dir}, env.configPath)
	if err != nil {
		t.Fatalf("workspace list: %v", err)
	}
	requireContains(t, out, "No workspaces found")
}

func TestConfigInitAndShow(t *testing.T) {
	env := setupCLIEnv(t)
	target := filepath.Join(t.TempDir(), "config.toml")

	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("second init without --overwrite should fail")
	}

	out, _, err = runCLI(t, []string{"config", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "workspace_name")
	requireContains(t, out, "soffice")
}

func TestInspectRejectsNonPPTX(t *testing.T) {
	_, _, err := runCLI(t, []string{"inspect", "slides.ppt"}, "")
	if err == nil || !strings.Contains(err.Error(), ".pptx") {
		t.Fatalf("expected .pptx error, got %v", err)
	}
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{errors.New("boom"), 1},
		{&exitError{code: exitAborted}, 130},
		{resultError(pipeline.CompletionEvent{Status: pipeline.StatusFailed}), 1},
		{resultError(pipeline.CompletionEvent{Status: pipeline.StatusAborted}), 130},
		{resultError(pipeline.CompletionEvent{Status: pipeline.StatusCompleted}), 0},
	}
	for _, tc := range cases {
		if got := exitCode(tc.err); got != tc.want {
			t.Errorf("exitCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestConfirm(t *testing.T) {
	cases := map[string]bool{"y\n": true, "YES\n": true, "n\n": false, "\n": false, "": false}
	for input, want := range cases {
		var prompt bytes.Buffer
		got, err := confirm(strings.NewReader(input), &prompt, "Continue?")
		if err != nil {
			t.Fatalf("confirm(%q): %v", input, err)
		}
		if got != want {
			t.Errorf("confirm(%q) = %v, want %v", input, got, want)
		}
		requireContains(t, prompt.String(), "[y/N]")
	}
}

func TestRenderResultShowsFailure(t *testing.T) {
	out := renderResult(pipeline.CompletionEvent{
		Status: pipeline.StatusFailed,
		Stage:  "deck-to-document",
		Kind:   services.ErrorKindExternalConversion,
		Reason: "renderer exited with status 1",
	})
	requireContains(t, out, "deck-to-document")
	requireContains(t, out, "ExternalConversionFailed")
	requireContains(t, out, "renderer exited with status 1")
}

func TestLinePrinter(t *testing.T) {
	var buf bytes.Buffer
	p := newLinePrinter(&buf)
	p.handle(pipeline.Event{Progress: &pipeline.ProgressEvent{StageIndex: 1, StageCount: 2, Stage: "deck-to-document", Percent: 10}})
	p.handle(pipeline.Event{Progress: &pipeline.ProgressEvent{StageIndex: 1, StageCount: 2, Stage: "deck-to-document", Percent: 50}})
	p.handle(pipeline.Event{Log: &pipeline.LogEvent{Message: "document produced: talk.pdf"}})
	p.finish()
	got := buf.String()
	if strings.Count(got, "[1/2]") != 1 {
		t.Fatalf("stage header should print once: %q", got)
	}
	requireContains(t, got, "document produced: talk.pdf")
}
