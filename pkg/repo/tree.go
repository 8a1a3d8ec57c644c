package repo

import (
	"fmt"
	"path"
	"strings"

	"github.com/odvcencio/g1t/pkg/object"
)

// TreeFileEntry represents a single file in a flattened tree.
type TreeFileEntry struct {
	Path     string
	BlobHash object.Hash
}

// BuildTree converts a flat path -> blob mapping into a hierarchy of Tree
// objects, writing each to the store and returning the root hash.
//
// Paths use forward slashes (e.g. "pkg/util/util.go"). Entries are grouped
// by directory and subtrees are built recursively.
func (r *Repo) BuildTree(files map[string]object.Hash) (object.Hash, error) {
	return r.buildTreeDir(files, "")
}

// buildTreeDir builds a Tree for the given directory prefix and writes it
// to the store. It returns the tree's hash.
func (r *Repo) buildTreeDir(files map[string]object.Hash, prefix string) (object.Hash, error) {
	blobs := make(map[string]object.Hash) // name -> blob
	subdirs := make(map[string]struct{})  // immediate child dir names

	for p, h := range files {
		rel := p
		if prefix != "" {
			if !strings.HasPrefix(p, prefix+"/") {
				continue
			}
			rel = p[len(prefix)+1:]
		}

		if slash := strings.IndexByte(rel, '/'); slash < 0 {
			blobs[rel] = h
		} else {
			subdirs[rel[:slash]] = struct{}{}
		}
	}

	entries := make([]object.TreeEntry, 0, len(blobs)+len(subdirs))
	for name, h := range blobs {
		if _, clash := subdirs[name]; clash {
			return object.ZeroHash, fmt.Errorf("build tree: %q is both a file and a directory", path.Join(prefix, name))
		}
		entries = append(entries, object.TreeEntry{Name: name, Mode: object.KindBlob, Hash: h})
	}
	for name := range subdirs {
		childPrefix := path.Join(prefix, name)
		subHash, err := r.buildTreeDir(files, childPrefix)
		if err != nil {
			return object.ZeroHash, err
		}
		entries = append(entries, object.TreeEntry{Name: name, Mode: object.KindTree, Hash: subHash})
	}

	// NewTree sorts entries, so map iteration order does not leak into the hash.
	h, err := r.Store.Put(object.NewTree(entries))
	if err != nil {
		return object.ZeroHash, fmt.Errorf("write tree (prefix=%q): %w", prefix, err)
	}
	return h, nil
}

// FlattenTree walks a tree recursively, returning all file entries with
// their full slash-separated paths.
func (r *Repo) FlattenTree(h object.Hash) ([]TreeFileEntry, error) {
	return r.flattenTreeRec(h, "")
}

func (r *Repo) flattenTreeRec(h object.Hash, prefix string) ([]TreeFileEntry, error) {
	tree, err := r.Store.ReadTree(h)
	if err != nil {
		return nil, fmt.Errorf("flatten tree: read %s: %w", h, err)
	}

	var result []TreeFileEntry
	for _, entry := range tree.Entries {
		fullPath := path.Join(prefix, entry.Name)
		switch entry.Mode {
		case object.KindTree:
			sub, err := r.flattenTreeRec(entry.Hash, fullPath)
			if err != nil {
				return nil, err
			}
			result = append(result, sub...)
		case object.KindBlob:
			result = append(result, TreeFileEntry{Path: fullPath, BlobHash: entry.Hash})
		default:
			return nil, fmt.Errorf("flatten tree %s: entry %q has unsupported mode %s", h, fullPath, entry.Mode)
		}
	}
	return result, nil
}
