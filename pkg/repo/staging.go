package repo

import (
	"fmt"
	"path"
	"runtime"
	"strings"

	"github.com/sourcegraph/conc/pool"

	"github.com/odvcencio/g1t/pkg/fsys"
	"github.com/odvcencio/g1t/pkg/index"
	"github.com/odvcencio/g1t/pkg/object"
)

// Add stages a single file. See AddAll.
func (r *Repo) Add(p string) error {
	return r.AddAll(p)
}

// AddAll stages the given files, each relative to the repository root:
//
//  1. Every file is read and hashed into a blob. Reads run concurrently.
//  2. If any file is missing or unreadable, AddAll fails and the index is
//     left untouched.
//  3. Blobs are inserted into the object store, then one entry per path is
//     appended to the index, in argument order.
//  4. The index is saved.
func (r *Repo) AddAll(paths ...string) error {
	if len(paths) == 0 {
		return nil
	}

	names := make([]string, len(paths))
	for i, p := range paths {
		name, err := r.cleanPath(p)
		if err != nil {
			return fmt.Errorf("add: %w", err)
		}
		names[i] = name
	}

	unlock, err := r.lock()
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}
	defer unlock()
	if err := r.reload(); err != nil {
		return fmt.Errorf("add: %w", err)
	}

	blobs := make([]*object.Blob, len(names))
	p := pool.New().WithErrors().WithMaxGoroutines(runtime.GOMAXPROCS(0))
	for i, name := range names {
		p.Go(func() error {
			content, err := r.readWorkFile(name)
			if err != nil {
				return err
			}
			blobs[i] = object.NewBlob(content)
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return fmt.Errorf("add: %w", err)
	}

	entries := make([]index.Entry, len(names))
	for i, name := range names {
		h, err := r.Store.Put(blobs[i])
		if err != nil {
			return fmt.Errorf("add: write blob %q: %w", name, err)
		}
		entries[i] = index.Entry{FileName: name, BlobHash: h}
	}
	prev := r.staging.Len()
	for _, e := range entries {
		r.staging.Append(e)
		r.logger.Debug("staged file", "path", e.FileName, "blob", e.BlobHash.String())
	}

	if err := r.staging.Save(); err != nil {
		r.staging.Truncate(prev)
		return fmt.Errorf("add: %w", err)
	}
	r.logger.Info("staged files", "count", len(names), "entries", r.staging.Len())
	return nil
}

// readWorkFile reads a file relative to the working root.
func (r *Repo) readWorkFile(name string) ([]byte, error) {
	full := path.Join(r.root, name)
	md, err := r.fs.Metadata(full)
	if err != nil {
		if fsys.IsNotExist(err) {
			return nil, fmt.Errorf("%q: %w", name, ErrFileNotFound)
		}
		return nil, fmt.Errorf("stat %q: %w", name, err)
	}
	if md.IsDir {
		return nil, fmt.Errorf("%q: is a directory: %w", name, ErrFileNotFound)
	}
	content, err := fsys.ReadFile(r.fs, full)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", name, err)
	}
	return content, nil
}

// cleanPath applies path.Clean to p and nothing else, rejecting paths that
// escape the working root or point into the repository directory.
func (r *Repo) cleanPath(p string) (string, error) {
	name := path.Clean(p)
	switch {
	case name == "." || name == "":
		return "", fmt.Errorf("%w: %q names the working root", ErrInvalidPath, p)
	case path.IsAbs(name), name == "..", strings.HasPrefix(name, "../"):
		return "", fmt.Errorf("%w: %q is outside the working root", ErrInvalidPath, p)
	case strings.ContainsAny(name, "\n\x00"):
		return "", fmt.Errorf("%w: %q contains a control character", ErrInvalidPath, p)
	}
	repoDir := path.Base(r.dir)
	if name == repoDir || strings.HasPrefix(name, repoDir+"/") {
		return "", fmt.Errorf("%w: %q is inside the repository directory", ErrInvalidPath, p)
	}
	return name, nil
}
