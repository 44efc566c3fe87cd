// Package fsutil holds the filesystem helpers shared by the loader and the
// output writer.
package fsutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// IOError is a failed read or write of a definition or output file.
type IOError struct {
	Op   string // "read", "write", "mkdir", "format"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// WriteFileAtomic writes data to path via a temp file and a rename, so
// readers never observe a partially written file.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	return WriteAtomic(path, perm, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// WriteAtomic streams the content produced by fill into path atomically.
func WriteAtomic(path string, perm os.FileMode, fill func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err = os.MkdirAll(dir, 0o755); err != nil {
		return &IOError{Op: "mkdir", Path: dir, Err: err}
	}
	f, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	tmp := f.Name()
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
		}
	}()

	if err = fill(f); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err = f.Chmod(perm); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	if err = f.Close(); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	// Atomic replace.
	if err = os.Rename(tmp, path); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}
