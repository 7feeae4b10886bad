package writer

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrClosed is returned by writes to a sink that was committed or aborted.
var ErrClosed = errors.New("writer: sink closed")

// AtomicFile writes to a temp file next to Path and renames it over Path on
// Commit, so readers never observe a partial file.
type AtomicFile struct {
	Path string

	tmp  *os.File
	bw   *bufio.Writer
	done bool
}

// CreateAtomic opens a temp file in the directory of path.
func CreateAtomic(path string) (*AtomicFile, error) {
	// Create temp file in same directory to ensure atomic rename
	tmp, err := os.CreateTemp(filepath.Dir(path), ".laskit-tmp-*")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	return &AtomicFile{Path: path, tmp: tmp, bw: bufio.NewWriterSize(tmp, 1<<20)}, nil
}

func (w *AtomicFile) Write(p []byte) (int, error) {
	if w.done {
		return 0, ErrClosed
	}
	return w.bw.Write(p)
}

// WriteAt flushes buffered bytes and writes p at off.
func (w *AtomicFile) WriteAt(p []byte, off int64) (int, error) {
	if w.done {
		return 0, ErrClosed
	}
	if err := w.bw.Flush(); err != nil {
		return 0, fmt.Errorf("flush temp file: %w", err)
	}
	return w.tmp.WriteAt(p, off)
}

// Commit flushes, syncs and renames the temp file over Path.
func (w *AtomicFile) Commit() error {
	if w.done {
		return ErrClosed
	}
	w.done = true
	tmpPath := w.tmp.Name()

	if err := w.bw.Flush(); err != nil {
		w.discard()
		return fmt.Errorf("flush temp file: %w", err)
	}
	if err := w.tmp.Sync(); err != nil {
		w.discard()
		return fmt.Errorf("sync temp file: %w", err)
	}
	// Close before rename
	if err := w.tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, w.Path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Abort removes the temp file.
func (w *AtomicFile) Abort() error {
	if w.done {
		return nil
	}
	w.done = true
	return w.discard()
}

func (w *AtomicFile) discard() error {
	name := w.tmp.Name()
	_ = w.tmp.Close()
	if err := os.Remove(name); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove temp file: %w", err)
	}
	return nil
}
