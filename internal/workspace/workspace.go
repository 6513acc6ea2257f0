package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/gofrs/flock"

	"deckflow/internal/logging"
	"deckflow/internal/services"
)

const stageName = "workspace"

// Workspace is an acquired scratch directory. Only one Workspace per source
// directory may be held at a time, across processes.
type Workspace struct {
	layout Layout
	lock   *flock.Flock
	logger *slog.Logger
}

// Acquire takes the advisory lock for layout and creates a fresh scratch
// directory. A directory left behind by an interrupted run is removed first.
// If another request holds the lock nothing on disk is touched.
func Acquire(layout Layout, logger *slog.Logger) (*Workspace, error) {
	logger = logging.NewComponentLogger(logger, stageName)

	info, err := os.Stat(layout.SourceDir)
	if err != nil {
		return nil, services.Wrap(services.ErrWorkspace, stageName, "stat source dir", layout.SourceDir, err)
	}
	if !info.IsDir() {
		return nil, services.Wrap(services.ErrWorkspace, stageName, "stat source dir", layout.SourceDir+" is not a directory", nil)
	}

	lock := flock.New(layout.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrWorkspace, stageName, "lock", layout.LockPath(), err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrWorkspace, stageName, "lock", "workspace "+layout.Dir()+" is in use by another request", nil)
	}

	ws := &Workspace{layout: layout, lock: lock, logger: logger}
	if err := ws.create(); err != nil {
		_ = lock.Unlock()
		return nil, err
	}
	return ws, nil
}

func (w *Workspace) create() error {
	dir := w.layout.Dir()
	if _, err := os.Lstat(dir); err == nil {
		w.logger.Warn("removing leftover workspace",
			logging.String("path", dir),
			logging.String(logging.FieldEventType, "workspace_leftover"),
			logging.String(logging.FieldErrorHint, "a previous run did not finish cleanly"),
			logging.String(logging.FieldImpact, "stale intermediate files discarded"),
		)
		if err := os.RemoveAll(dir); err != nil {
			return services.Wrap(services.ErrWorkspace, stageName, "remove leftover", dir, err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return services.Wrap(services.ErrWorkspace, stageName, "stat", dir, err)
	}
	if err := os.Mkdir(dir, 0o755); err != nil {
		return services.Wrap(services.ErrWorkspace, stageName, "create", dir, err)
	}
	w.logger.Debug("workspace created", logging.String("path", dir))
	return nil
}

// Layout returns the path layout this workspace was acquired for.
func (w *Workspace) Layout() Layout {
	return w.layout
}

// Dir is the scratch directory.
func (w *Workspace) Dir() string {
	return w.layout.Dir()
}

// Teardown removes the scratch directory and everything in it. A directory
// that vanished underneath the request is reported as an error, as is any
// entry that could not be removed.
func (w *Workspace) Teardown() error {
	dir := w.layout.Dir()
	if _, err := os.Lstat(dir); err != nil {
		return services.Wrap(services.ErrWorkspace, stageName, "teardown", dir, err)
	}
	if err := os.RemoveAll(dir); err != nil {
		return services.Wrap(services.ErrWorkspace, stageName, "teardown", dir, err)
	}
	if _, err := os.Lstat(dir); !errors.Is(err, fs.ErrNotExist) {
		return services.Wrap(services.ErrWorkspace, stageName, "teardown", fmt.Sprintf("%s still present", dir), err)
	}
	w.logger.Debug("workspace removed", logging.String("path", dir))
	return nil
}

// Release drops the advisory lock. It is safe to call more than once. The
// lock file itself stays on disk.
func (w *Workspace) Release() error {
	if w == nil || w.lock == nil {
		return nil
	}
	if err := w.lock.Unlock(); err != nil {
		return services.Wrap(services.ErrWorkspace, stageName, "unlock", w.layout.LockPath(), err)
	}
	return nil
}
