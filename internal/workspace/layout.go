package workspace

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultName is the scratch directory name used when none is configured.
const DefaultName = "process"

// Layout resolves every path for one request from the source file location.
// All paths are absolute; nothing depends on the process working directory.
type Layout struct {
	SourcePath string
	SourceDir  string
	BaseName   string
	Name       string
}

// NewLayout builds a layout for sourcePath using the scratch directory name.
func NewLayout(sourcePath, name string) (Layout, error) {
	sourcePath = strings.TrimSpace(sourcePath)
	if sourcePath == "" {
		return Layout{}, fmt.Errorf("source path is required")
	}
	abs, err := filepath.Abs(sourcePath)
	if err != nil {
		return Layout{}, fmt.Errorf("resolve source path: %w", err)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultName
	}
	base := filepath.Base(abs)
	return Layout{
		SourcePath: abs,
		SourceDir:  filepath.Dir(abs),
		BaseName:   strings.TrimSuffix(base, filepath.Ext(base)),
		Name:       name,
	}, nil
}

// Dir is the scratch directory, <source_dir>/<name>.
func (l Layout) Dir() string {
	return filepath.Join(l.SourceDir, l.Name)
}

// LockPath is the advisory lock guarding the scratch directory. It lives
// beside the scratch directory so teardown never removes a held lock file.
func (l Layout) LockPath() string {
	return filepath.Join(l.SourceDir, "."+l.Name+".lock")
}

// DocumentName is the document file name derived from the source base name.
func (l Layout) DocumentName() string {
	return l.BaseName + ".pdf"
}

// DocumentPath is where a rendered document lands inside the workspace.
func (l Layout) DocumentPath() string {
	return filepath.Join(l.Dir(), l.DocumentName())
}

// ImageDir is the page image folder inside the workspace.
func (l Layout) ImageDir() string {
	return filepath.Join(l.Dir(), l.BaseName+"_to_png")
}

// DeckPath is where the assembled image deck is written inside the workspace.
func (l Layout) DeckPath(prefix string) string {
	return filepath.Join(l.Dir(), l.deckName(prefix))
}

// FinalDocumentPath is the retained document beside the source.
func (l Layout) FinalDocumentPath() string {
	return filepath.Join(l.SourceDir, l.DocumentName())
}

// FinalImageDir is the retained image folder beside the source; its name
// carries the resolution so runs at different DPI do not collide.
func (l Layout) FinalImageDir(dpi int) string {
	return filepath.Join(l.SourceDir, fmt.Sprintf("%s_to_png_dpi%d", l.BaseName, dpi))
}

// FinalDeckPath is the assembled image deck beside the source.
func (l Layout) FinalDeckPath(prefix string) string {
	return filepath.Join(l.SourceDir, l.deckName(prefix))
}

func (l Layout) deckName(prefix string) string {
	return prefix + l.BaseName + ".pptx"
}
