package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/schollz/progressbar/v3"

	"deckflow/internal/pipeline"
)

// eventPrinter renders a run's event stream.
type eventPrinter interface {
	handle(pipeline.Event)
	finish()
}

// barPrinter draws one bar per stage.
type barPrinter struct {
	out   io.Writer
	bar   *progressbar.ProgressBar
	stage int
}

func newBarPrinter(out io.Writer) *barPrinter {
	return &barPrinter{out: out}
}

func (p *barPrinter) handle(e pipeline.Event) {
	switch {
	case e.Progress != nil:
		if p.bar == nil || e.Progress.StageIndex != p.stage {
			p.finish()
			p.stage = e.Progress.StageIndex
			p.bar = progressbar.NewOptions(100,
				progressbar.OptionSetWriter(p.out),
				progressbar.OptionSetDescription(fmt.Sprintf("[%d/%d] %s", e.Progress.StageIndex, e.Progress.StageCount, e.Progress.Stage)),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetTheme(progressbar.Theme{
					Saucer:        "█",
					SaucerHead:    "█",
					SaucerPadding: "░",
					BarStart:      "│",
					BarEnd:        "│",
				}),
				progressbar.OptionSetRenderBlankState(true),
			)
		}
		_ = p.bar.Set(e.Progress.Percent)
	case e.Log != nil:
		if e.Log.Level < slog.LevelWarn {
			return
		}
		if p.bar != nil {
			_ = p.bar.Clear()
		}
		fmt.Fprintln(p.out, e.Log.Message)
	}
}

func (p *barPrinter) finish() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Finish()
	fmt.Fprintln(p.out)
	p.bar = nil
}

// linePrinter writes one line per milestone for non-interactive output.
type linePrinter struct {
	out   io.Writer
	stage int
}

func newLinePrinter(out io.Writer) *linePrinter {
	return &linePrinter{out: out}
}

func (p *linePrinter) handle(e pipeline.Event) {
	switch {
	case e.Progress != nil:
		if e.Progress.StageIndex != p.stage {
			p.stage = e.Progress.StageIndex
			fmt.Fprintf(p.out, "[%d/%d] %s\n", e.Progress.StageIndex, e.Progress.StageCount, e.Progress.Stage)
		}
	case e.Log != nil:
		fmt.Fprintf(p.out, "  %s\n", e.Log.Message)
	}
}

func (p *linePrinter) finish() {}
