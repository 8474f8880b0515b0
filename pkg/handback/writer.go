package handback

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang/snappy"
)

const (
	jsonExt   = ".json"
	snappyExt = ".json.sz"
)

// Writer stores one handback document per instance under a directory.
type Writer struct {
	dir      string
	compress bool
}

// NewWriter creates dir if needed. With compress set documents are
// snappy-encoded and named <pid>.json.sz.
func NewWriter(dir string, compress bool) (*Writer, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create handback dir %s: %w", dir, err)
	}
	return &Writer{dir: dir, compress: compress}, nil
}

// Path returns the file the handback of pid is written to.
func (w *Writer) Path(pid int) string {
	ext := jsonExt
	if w.compress {
		ext = snappyExt
	}
	return filepath.Join(w.dir, strconv.Itoa(pid)+ext)
}

// Write stores h for pid, replacing any earlier document atomically.
func (w *Writer) Write(pid int, h Handback) error {
	data, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("failed to encode handback %d: %w", pid, err)
	}
	if w.compress {
		data = snappy.Encode(nil, data)
	}

	path := w.Path(pid)
	tmp := path + ".new"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write handback %d: %w", pid, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to rename handback %d: %w", pid, err)
	}
	return nil
}

// Read loads a document written by Writer, decompressing .sz files.
func Read(path string) (Handback, error) {
	var h Handback
	data, err := os.ReadFile(path)
	if err != nil {
		return h, err
	}
	if strings.HasSuffix(path, ".sz") {
		if data, err = snappy.Decode(nil, data); err != nil {
			return h, fmt.Errorf("failed to decompress %s: %w", path, err)
		}
	}
	if err := json.Unmarshal(data, &h); err != nil {
		return h, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return h, nil
}
