package preflight

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"deckflow/internal/config"
	"deckflow/internal/deps"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSourceFile verifies that path is a readable regular file.
func CheckSourceFile(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.Mode().IsRegular() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not a regular file)", path)}
	}
	if err := unix.Access(path, unix.R_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not readable: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%d bytes)", path, info.Size())}
}

// CheckRenderer verifies the deck renderer resolves on PATH.
func CheckRenderer(_ context.Context, cfg *config.Config) Result {
	l := CheckSystemDeps(cfg)[0]
	if !l.Found() {
		return Result{Name: l.Name, Detail: l.Detail}
	}
	return Result{Name: l.Name, Passed: true, Detail: l.Path}
}

// CheckSystemDeps evaluates the external programs deckflow can use. The deps
// command and RunAll share this list.
func CheckSystemDeps(cfg *config.Config) []deps.Lookup {
	return deps.Resolve([]deps.Program{
		{
			Name:    "LibreOffice",
			Command: cfg.RendererBinary(),
			Purpose: "renders decks to PDF",
		},
	})
}
