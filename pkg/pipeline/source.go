package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"strconv"

	"golang.org/x/exp/mmap"

	"github.com/dd0wney/cluso-stitch/pkg/diagram"
)

// ErrMissingDiagram marks an instance without a predicted diagram. The
// runner skips such instances.
var ErrMissingDiagram = errors.New("predicted diagram not found")

// Source loads the predicted diagram of one instance.
type Source interface {
	Load(ctx context.Context, pid int) (*diagram.Diagram, error)
}

// FileSource reads <dir>/<pid>.json documents through a read-only memory
// map.
type FileSource struct {
	dir string
}

// NewFileSource returns a Source over dir.
func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

// Path returns the document path for pid.
func (s *FileSource) Path(pid int) string {
	return filepath.Join(s.dir, strconv.Itoa(pid)+".json")
}

// Load implements Source.
func (s *FileSource) Load(ctx context.Context, pid int) (*diagram.Diagram, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return LoadFile(s.Path(pid))
}

// LoadFile decodes one diagram document. A missing file yields
// ErrMissingDiagram.
func LoadFile(path string) (*diagram.Diagram, error) {
	reader, err := mmap.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingDiagram, path)
		}
		return nil, err
	}
	defer reader.Close()

	d, err := diagram.Decode(io.NewSectionReader(reader, 0, int64(reader.Len())))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// MemorySource serves diagrams held in memory. Load hands out a deep copy so
// stitching never touches the stored diagram.
type MemorySource map[int]*diagram.Diagram

// Load implements Source.
func (m MemorySource) Load(ctx context.Context, pid int) (*diagram.Diagram, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d, ok := m[pid]
	if !ok {
		return nil, fmt.Errorf("%w: pid %d", ErrMissingDiagram, pid)
	}
	return d.Clone(), nil
}

