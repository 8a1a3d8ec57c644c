// Package fsys defines the small filesystem capability the repository core
// consumes, with afero-backed implementations for physical disk and memory.
package fsys

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"sync/atomic"

	"github.com/spf13/afero"
)

// FS is the set of directory and file primitives used by the object store,
// the index and the repository runtime. Paths use forward slashes.
type FS interface {
	Exists(name string) (bool, error)
	// CreateDir creates a single directory and fails if it already exists.
	CreateDir(name string) error
	CreateDirAll(name string) error
	// CreateFile creates or truncates name for writing.
	CreateFile(name string) (io.WriteCloser, error)
	// CreateExclusive creates name for writing and fails with an error
	// matching os.ErrExist if it is already present.
	CreateExclusive(name string) (io.WriteCloser, error)
	OpenFile(name string) (io.ReadCloser, error)
	AppendFile(name string) (io.WriteCloser, error)
	// ReadDir returns the entry names of a directory sorted by name.
	ReadDir(name string) ([]string, error)
	Metadata(name string) (Metadata, error)
	Rename(oldname, newname string) error
	Remove(name string) error
	// RemoveDir removes name and everything below it.
	RemoveDir(name string) error
}

// Metadata describes a single path.
type Metadata struct {
	IsDir bool
	Size  int64
}

// IsFile reports whether the path is a regular file.
func (m Metadata) IsFile() bool { return !m.IsDir }

// aferoFS adapts an afero.Fs to FS.
type aferoFS struct {
	fs afero.Fs
}

// New wraps an afero filesystem.
func New(fs afero.Fs) FS {
	return &aferoFS{fs: fs}
}

// NewDisk returns an FS over the physical directory root. All paths are
// resolved relative to root and cannot escape it.
func NewDisk(root string) FS {
	return New(afero.NewBasePathFs(afero.NewOsFs(), root))
}

// NewMemory returns an empty in-memory FS.
func NewMemory() FS {
	return New(afero.NewMemMapFs())
}

func (a *aferoFS) Exists(name string) (bool, error) {
	return afero.Exists(a.fs, name)
}

func (a *aferoFS) CreateDir(name string) error {
	return a.fs.Mkdir(name, 0o755)
}

func (a *aferoFS) CreateDirAll(name string) error {
	return a.fs.MkdirAll(name, 0o755)
}

func (a *aferoFS) CreateFile(name string) (io.WriteCloser, error) {
	return a.fs.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
}

func (a *aferoFS) CreateExclusive(name string) (io.WriteCloser, error) {
	return a.fs.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
}

func (a *aferoFS) OpenFile(name string) (io.ReadCloser, error) {
	return a.fs.Open(name)
}

func (a *aferoFS) AppendFile(name string) (io.WriteCloser, error) {
	return a.fs.OpenFile(name, os.O_WRONLY|os.O_APPEND, 0o644)
}

func (a *aferoFS) ReadDir(name string) ([]string, error) {
	infos, err := afero.ReadDir(a.fs, name)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(infos))
	for _, fi := range infos {
		names = append(names, fi.Name())
	}
	return names, nil
}

func (a *aferoFS) Metadata(name string) (Metadata, error) {
	fi, err := a.fs.Stat(name)
	if err != nil {
		return Metadata{}, err
	}
	return Metadata{IsDir: fi.IsDir(), Size: fi.Size()}, nil
}

func (a *aferoFS) Rename(oldname, newname string) error {
	return a.fs.Rename(oldname, newname)
}

func (a *aferoFS) Remove(name string) error {
	return a.fs.Remove(name)
}

func (a *aferoFS) RemoveDir(name string) error {
	ok, err := a.Exists(name)
	if err != nil {
		return err
	}
	if !ok {
		return &os.PathError{Op: "removedir", Path: name, Err: os.ErrNotExist}
	}
	return a.fs.RemoveAll(name)
}

// ReadFile reads the whole content of name.
func ReadFile(fs FS, name string) ([]byte, error) {
	f, err := fs.OpenFile(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

var tmpSeq atomic.Uint64

// WriteFileAtomic writes data to a temporary sibling of name and renames it
// into place, so readers never observe a partially written file.
func WriteFileAtomic(fs FS, name string, data []byte) error {
	tmpName := path.Join(path.Dir(name), fmt.Sprintf(".tmp-%d-%d", os.Getpid(), tmpSeq.Add(1)))

	tmp, err := fs.CreateExclusive(tmpName)
	if err != nil {
		return fmt.Errorf("tmpfile: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		fs.Remove(tmpName)
		return fmt.Errorf("write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		fs.Remove(tmpName)
		return fmt.Errorf("close: %w", err)
	}
	if err := fs.Rename(tmpName, name); err != nil {
		fs.Remove(tmpName)
		return fmt.Errorf("rename: %w", err)
	}
	return nil
}

// IsNotExist reports whether err means a path was missing.
func IsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
