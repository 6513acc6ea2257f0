package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"deckflow/internal/cancel"
	"deckflow/internal/config"
	"deckflow/internal/convert"
	"deckflow/internal/pipeline"
	"deckflow/internal/preflight"
)

const (
	exitFailed  = 1
	exitAborted = 130
)

type convertOptions struct {
	from         string
	to           string
	dpi          int
	dpiSet       bool
	keepDocument bool
	keepImages   bool
	yes          bool
}

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var opts convertOptions

	cmd := &cobra.Command{
		Use:   "convert SOURCE",
		Short: "Convert a deck or PDF to a PDF, page images or an image deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.dpiSet = cmd.Flags().Changed("dpi")
			return runConvert(cmd, ctx, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.to, "to", "", "Target format: document, imagedeck or imageset")
	cmd.Flags().StringVar(&opts.from, "from", "", "Source format: deck or document (default: from extension)")
	cmd.Flags().IntVar(&opts.dpi, "dpi", 0, "Rasterization resolution (default from config)")
	cmd.Flags().BoolVar(&opts.keepDocument, "keep-document", false, "Keep the intermediate PDF when converting a deck to images")
	cmd.Flags().BoolVar(&opts.keepImages, "keep-images", false, "Keep the page images when building an image deck")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Do not ask for confirmation")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func buildRequest(cfg *config.Config, source string, opts convertOptions) (pipeline.Request, error) {
	path, err := config.ExpandPath(strings.TrimSpace(source))
	if err != nil {
		return pipeline.Request{}, err
	}
	var kind pipeline.SourceKind
	if strings.TrimSpace(opts.from) != "" {
		kind, err = pipeline.ParseSourceKind(opts.from)
	} else {
		kind, err = pipeline.InferSourceKind(path)
	}
	if err != nil {
		return pipeline.Request{}, err
	}
	target, err := pipeline.ParseTargetKind(opts.to)
	if err != nil {
		return pipeline.Request{}, err
	}
	dpi := opts.dpi
	if !opts.dpiSet && cfg != nil {
		dpi = cfg.Conversion.DefaultDPI
	}
	return pipeline.Request{
		SourcePath:     path,
		SourceKind:     kind,
		TargetKind:     target,
		DPI:            dpi,
		RetainDocument: opts.keepDocument,
		RetainImages:   opts.keepImages,
	}, nil
}

func runConvert(cmd *cobra.Command, ctx *commandContext, source string, opts convertOptions) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	req, err := buildRequest(cfg, source, opts)
	if err != nil {
		return err
	}
	if err := req.Validate(); err != nil {
		return err
	}

	plan := pipeline.Plan(req)
	if warning := cfg.DPIWarning(req.DPI); warning != "" && usesDPI(plan) {
		interactive := isTerminal(cmd.InOrStdin())
		if !opts.yes && interactive {
			ok, err := confirm(cmd.InOrStdin(), errOut, warning+". Continue?")
			if err != nil {
				return err
			}
			if !ok {
				return &exitError{code: exitAborted, err: fmt.Errorf("conversion not started")}
			}
		} else {
			fmt.Fprintf(errOut, "warning: %s\n", warning)
		}
	}

	checks := preflight.RunAll(cmd.Context(), cfg, preflight.Options{
		SourcePath:    req.SourcePath,
		NeedsRenderer: slices.Contains(plan, convert.StageDeckToDocument),
	})
	if failed := preflight.Failed(checks); len(failed) > 0 {
		fmt.Fprintln(errOut, renderPreflight(failed))
		return &exitError{code: exitFailed, err: fmt.Errorf("preflight failed: %d check(s) did not pass", len(failed))}
	}

	interactive := isTerminal(out)
	logger, err := ctx.logger(interactive)
	if err != nil {
		return err
	}
	orchestrator, err := pipeline.NewFromConfig(cfg, logger)
	if err != nil {
		return err
	}

	token := cancel.New()
	stop := watchSignals(token, errOut)
	defer stop()

	var printer eventPrinter = newLinePrinter(out)
	if interactive {
		printer = newBarPrinter(errOut)
	}

	runCtx := cmd.Context()
	if runCtx == nil {
		runCtx = context.Background()
	}
	run := orchestrator.Start(runCtx, req, token)
	for event := range run.Events() {
		printer.handle(event)
	}
	result := run.Wait()
	printer.finish()

	fmt.Fprintln(out, renderResult(result))
	return resultError(result)
}

func usesDPI(plan []string) bool {
	return slices.Contains(plan, convert.StageDocumentToImages)
}

// watchSignals sets token on SIGINT or SIGTERM. The run then stops at its
// next checkpoint and reports Aborted.
func watchSignals(token *cancel.Token, errOut io.Writer) func() {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		select {
		case <-signals:
			if token.Set() {
				fmt.Fprintln(errOut, "\ncancelling, waiting for the current step to stop...")
			}
		case <-done:
		}
	}()
	return func() {
		signal.Stop(signals)
		close(done)
	}
}

func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		if err == io.EOF {
			return false, nil
		}
		return false, fmt.Errorf("read answer: %w", err)
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func resultError(result pipeline.CompletionEvent) error {
	switch result.Status {
	case pipeline.StatusCompleted:
		return nil
	case pipeline.StatusAborted:
		return &exitError{code: exitAborted}
	default:
		return &exitError{code: exitFailed}
	}
}

func renderResult(result pipeline.CompletionEvent) string {
	rows := [][]string{{"Status", string(result.Status)}}
	if result.Status != pipeline.StatusCompleted {
		if result.Stage != "" {
			rows = append(rows, []string{"Stage", result.Stage})
		}
		if result.Kind != "" {
			rows = append(rows, []string{"Error", string(result.Kind)})
		}
		if result.Reason != "" {
			rows = append(rows, []string{"Reason", result.Reason})
		}
	}
	for _, artifact := range []struct {
		label string
		path  string
	}{
		{"Document", result.Artifacts.Document},
		{"Images", result.Artifacts.ImageDir},
		{"Deck", result.Artifacts.Deck},
	} {
		if artifact.path == "" {
			continue
		}
		rows = append(rows, []string{artifact.label, fmt.Sprintf("%s (%s)", artifact.path, humanize.Bytes(uint64(pathSize(artifact.path))))})
	}
	rows = append(rows, []string{"Elapsed", result.Elapsed.Round(time.Millisecond).String()})
	return renderTable([]string{"Field", "Value"}, rows, []columnAlignment{alignLeft, alignLeft})
}

func renderPreflight(results []preflight.Result) string {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{r.Name, yesNo(r.Passed), r.Detail})
	}
	return renderTable([]string{"Check", "Passed", "Detail"}, rows, nil)
}

// pathSize is the size of a file or the total of a directory tree.
func pathSize(path string) int64 {
	var total int64
	_ = filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if info, err := d.Info(); err == nil {
			total += info.Size()
		}
		return nil
	})
	return total
}
