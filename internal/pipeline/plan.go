package pipeline

import (
	"deckflow/internal/convert"
	"deckflow/internal/stage"
	"deckflow/internal/workspace"
)

// Plan returns the stage names a request runs, in order. A document already
// in the target format needs no stages.
func Plan(req Request) []string {
	var names []string
	if req.SourceKind == SourceDeck {
		names = append(names, convert.StageDeckToDocument)
	}
	switch req.TargetKind {
	case TargetImageSet:
		names = append(names, convert.StageDocumentToImages)
	case TargetImageDeck:
		names = append(names, convert.StageDocumentToImages, convert.StageImagesToDeck)
	}
	return names
}

type step struct {
	name    string
	handler stage.Handler
	job     stage.Job
}

// outputs records what each stage produced.
type outputs struct {
	document string
	imageDir string
	deck     string
}

// steps binds the plan to handlers and workspace paths. The document input
// of later stages is filled in as earlier stages finish.
func (o *Orchestrator) steps(req Request, layout workspace.Layout) []step {
	var steps []step
	for _, name := range Plan(req) {
		switch name {
		case convert.StageDeckToDocument:
			steps = append(steps, step{
				name:    name,
				handler: o.stages.DeckToDocument,
				job:     stage.Job{Input: req.SourcePath, Output: layout.Dir()},
			})
		case convert.StageDocumentToImages:
			steps = append(steps, step{
				name:    name,
				handler: o.stages.DocumentToImages,
				job:     stage.Job{Output: layout.ImageDir(), DPI: req.DPI},
			})
		case convert.StageImagesToDeck:
			steps = append(steps, step{
				name:    name,
				handler: o.stages.ImagesToDeck,
				job:     stage.Job{Input: layout.ImageDir(), Output: layout.DeckPath(o.opts.DeckPrefix)},
			})
		}
	}
	return steps
}

func (out *outputs) record(name, path string) {
	switch name {
	case convert.StageDeckToDocument:
		out.document = path
	case convert.StageDocumentToImages:
		out.imageDir = path
	case convert.StageImagesToDeck:
		out.deck = path
	}
}
