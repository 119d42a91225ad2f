package canvas

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Exclusively-owned scratch directory for one video job. Holds the numbered
// frame PNGs plus the encoded container, removed on every exit path.
type Workspace struct {
	Dir string
}

func NewWorkspace(root string) (*Workspace, error) {
	if err := os.MkdirAll(root, 0770); err != nil {
		return nil, fmt.Errorf("workspace root: %w", err)
	}
	dir := filepath.Join(root, "job-"+uuid.NewString())
	if err := os.Mkdir(dir, 0770); err != nil {
		return nil, fmt.Errorf("workspace create: %w", err)
	}
	return &Workspace{Dir: dir}, nil
}

func (w *Workspace) FramePath(index int) string {
	return filepath.Join(w.Dir, fmt.Sprintf("frame_%04d.png", index))
}

// The pattern handed to the external encoder
func (w *Workspace) FramePattern() string {
	return filepath.Join(w.Dir, "frame_%04d.png")
}

func (w *Workspace) OutputPath() string {
	return filepath.Join(w.Dir, "output.mp4")
}

func (w *Workspace) Remove() {
	if err := os.RemoveAll(w.Dir); err != nil {
		log.Println("[encode] Workspace Cleanup Error:", err)
	}
}
