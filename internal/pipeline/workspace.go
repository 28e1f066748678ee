package pipeline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kunalaneja/assetforge/internal/runid"
)

// Workspace is a run-scoped temporary directory. Every intermediate file a
// pipeline produces lives here, and Close removes the whole tree. Drivers
// defer Close immediately after creation so cleanup happens on every exit
// path, including fallback exhaustion and early aborts.
type Workspace struct {
	dir string
}

// NewWorkspace creates a uniquely named workspace under root.
// Empty root means the system temp directory.
func NewWorkspace(root string) (*Workspace, error) {
	if root == "" {
		root = os.TempDir()
	}
	dir := filepath.Join(root, runid.Generate())
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	return &Workspace{dir: dir}, nil
}

// Dir returns the workspace directory.
func (w *Workspace) Dir() string {
	return w.dir
}

// Path returns the path of a file inside the workspace.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.dir, name)
}

// WriteFrameList writes a concat-demuxer list file naming each frame with a
// fixed per-frame duration, and returns its path.
func (w *Workspace) WriteFrameList(name string, frames []string, frameSeconds float64) (string, error) {
	f, err := os.Create(w.Path(name))
	if err != nil {
		return "", fmt.Errorf("create frame list: %w", err)
	}
	defer func() { _ = f.Close() }()

	for _, frame := range frames {
		abs, err := filepath.Abs(frame)
		if err != nil {
			return "", fmt.Errorf("get absolute path for %s: %w", frame, err)
		}
		if _, err := fmt.Fprintf(f, "file '%s'\nduration %g\n", abs, frameSeconds); err != nil {
			return "", fmt.Errorf("write frame list: %w", err)
		}
	}

	return f.Name(), nil
}

// Close removes the workspace and everything in it.
func (w *Workspace) Close() error {
	return os.RemoveAll(w.dir)
}
