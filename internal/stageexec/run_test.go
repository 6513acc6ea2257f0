package stageexec

import (
	"context"
	"errors"
	"slices"
	"testing"

	"deckflow/internal/cancel"
	"deckflow/internal/logging"
	"deckflow/internal/services"
	"deckflow/internal/stage"
)

type scriptedHandler struct {
	updates  []stage.Update
	out      string
	err      error
	sawStage string
}

func (h *scriptedHandler) Execute(ctx context.Context, _ *cancel.Token, _ stage.Job, progress stage.ProgressFunc) (string, error) {
	h.sawStage, _ = services.StageFromContext(ctx)
	for _, u := range h.updates {
		progress(u)
	}
	return h.out, h.err
}

func (h *scriptedHandler) HealthCheck(context.Context) stage.Health {
	return stage.Ready("scripted")
}

func collect(dst *[]stage.Update) stage.ProgressFunc {
	return func(u stage.Update) { *dst = append(*dst, u) }
}

func TestRunForcesMonotonicProgressEndingAtHundred(t *testing.T) {
	h := &scriptedHandler{
		out: "/tmp/out.pdf",
		updates: []stage.Update{
			{Percent: 0, Message: "start"},
			{Percent: 10},
			{Percent: 5},
			{Percent: 10},
			{Percent: 40, Message: "page 2"},
			{Percent: 150},
		},
	}
	var got []stage.Update
	out, err := Run(context.Background(), Options{
		Logger:    logging.NewNop(),
		Handler:   h,
		StageName: "deck-to-document",
		Token:     cancel.New(),
		Progress:  collect(&got),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out != "/tmp/out.pdf" {
		t.Fatalf("unexpected output %q", out)
	}
	if h.sawStage != "deck-to-document" {
		t.Fatalf("stage not attached to context, got %q", h.sawStage)
	}
	var percents []int
	for _, u := range got {
		percents = append(percents, u.Percent)
	}
	if !slices.Equal(percents, []int{0, 10, 40, 100}) {
		t.Fatalf("unexpected percents %v", percents)
	}
}

func TestRunAddsFinalHundred(t *testing.T) {
	h := &scriptedHandler{updates: []stage.Update{{Percent: 50}}}
	var got []stage.Update
	if _, err := Run(context.Background(), Options{Handler: h, StageName: "x", Progress: collect(&got)}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got[len(got)-1].Percent != 100 {
		t.Fatalf("expected final 100, got %+v", got)
	}
}

func TestRunReturnsStageErrorWithoutHundred(t *testing.T) {
	h := &scriptedHandler{
		updates: []stage.Update{{Percent: 30}},
		err:     services.Wrap(services.ErrAborted, "x", "render", "cancelled", nil),
	}
	var got []stage.Update
	_, err := Run(context.Background(), Options{Handler: h, StageName: "x", Progress: collect(&got)})
	if !services.IsAborted(err) {
		t.Fatalf("expected aborted error, got %v", err)
	}
	for _, u := range got {
		if u.Percent == 100 {
			t.Fatal("failed stage must not report 100")
		}
	}
}

func TestRunRequiresHandler(t *testing.T) {
	if _, err := Run(context.Background(), Options{StageName: "x"}); err == nil {
		t.Fatal("expected error without handler")
	}
}

func TestRunFailurePassesErrorThrough(t *testing.T) {
	want := services.Wrap(services.ErrDocumentOpen, "x", "open", "corrupt", errors.New("eof"))
	_, err := Run(context.Background(), Options{Handler: &scriptedHandler{err: want}, StageName: "x"})
	if !errors.Is(err, want) {
		t.Fatalf("expected original error, got %v", err)
	}
}
