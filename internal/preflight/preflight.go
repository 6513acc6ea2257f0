package preflight

import (
	"context"
	"path/filepath"

	"deckflow/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Options selects the checks RunAll performs for one request.
type Options struct {
	SourcePath string
	// NeedsRenderer is true when the plan renders a deck.
	NeedsRenderer bool
}

// RunAll executes the checks that apply to a request.
func RunAll(ctx context.Context, cfg *config.Config, opts Options) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	if opts.SourcePath != "" {
		results = append(results,
			CheckSourceFile("Source file", opts.SourcePath),
			CheckDirectoryAccess("Source directory", filepath.Dir(opts.SourcePath)),
		)
	}
	if cfg.Paths.LogDir != "" {
		results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	}
	if opts.NeedsRenderer {
		results = append(results, CheckRenderer(ctx, cfg))
	}
	return results
}

// Failed returns the results that did not pass.
func Failed(results []Result) []Result {
	var failed []Result
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}
