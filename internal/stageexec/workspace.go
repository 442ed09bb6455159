package stageexec

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Workspace is the process-scoped temporary directory used for intermediate
// frame extraction. One run owns exactly one workspace; callers must remove
// it on every exit path.
type Workspace struct {
	Dir string
}

// NewWorkspace creates the run's temporary directory.
func NewWorkspace() (*Workspace, error) {
	dir := filepath.Join(os.TempDir(), "termview-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	return &Workspace{Dir: dir}, nil
}

// Remove deletes the workspace and everything in it. Safe to call more than
// once.
func (w *Workspace) Remove() {
	if w == nil || w.Dir == "" {
		return
	}
	_ = os.RemoveAll(w.Dir)
}
