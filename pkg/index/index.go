// Package index implements the staging index: an ordered list of file paths
// and the blob hashes staged for them, persisted as JSON.
package index

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/odvcencio/g1t/pkg/fsys"
	"github.com/odvcencio/g1t/pkg/object"
)

// ErrCorruptIndex is returned when the index file cannot be decoded.
var ErrCorruptIndex = errors.New("corrupt index")

// Entry records one staged file.
type Entry struct {
	FileName string      `json:"file_name"`
	BlobHash object.Hash `json:"blob_hash"`
}

// Index holds the staged entries in insertion order. Entries are never
// deduplicated: staging a path twice records it twice.
type Index struct {
	fs      fsys.FS
	path    string
	entries []Entry
}

type fileFormat struct {
	Entries []Entry `json:"entries"`
}

// Load reads the index stored at path. A missing file is initialized with
// an empty index before loading.
func Load(fs fsys.FS, path string) (*Index, error) {
	idx := &Index{fs: fs, path: path}

	exists, err := fs.Exists(path)
	if err != nil {
		return nil, fmt.Errorf("load index: %w", err)
	}
	if !exists {
		if err := idx.Save(); err != nil {
			return nil, fmt.Errorf("load index: %w", err)
		}
		return idx, nil
	}

	data, err := fsys.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("load index: %w", err)
	}
	var ff fileFormat
	if err := json.Unmarshal(data, &ff); err != nil {
		return nil, fmt.Errorf("load index: %w: %v", ErrCorruptIndex, err)
	}
	idx.entries = ff.Entries
	return idx, nil
}

// Append adds e to the end of the in-memory entry list. Call Save to
// persist it.
func (idx *Index) Append(e Entry) {
	idx.entries = append(idx.entries, e)
}

// Truncate drops every entry after the first n. It undoes Appends whose
// Save failed.
func (idx *Index) Truncate(n int) {
	if n < 0 {
		n = 0
	}
	if n < len(idx.entries) {
		idx.entries = idx.entries[:n]
	}
}

// Save writes the full index to its file via write-then-rename.
func (idx *Index) Save() error {
	ff := fileFormat{Entries: idx.entries}
	if ff.Entries == nil {
		ff.Entries = []Entry{}
	}
	data, err := json.MarshalIndent(ff, "", "  ")
	if err != nil {
		return fmt.Errorf("save index: marshal: %w", err)
	}
	if err := fsys.WriteFileAtomic(idx.fs, idx.path, data); err != nil {
		return fmt.Errorf("save index: %w", err)
	}
	return nil
}

// Len returns the number of entries, duplicates included.
func (idx *Index) Len() int {
	return len(idx.entries)
}

// Entries returns a copy of the entries in insertion order.
func (idx *Index) Entries() []Entry {
	out := make([]Entry, len(idx.entries))
	copy(out, idx.entries)
	return out
}

// Snapshot returns the effective path to blob mapping. When a path was
// staged more than once the most recent entry wins.
func (idx *Index) Snapshot() map[string]object.Hash {
	snap := make(map[string]object.Hash, len(idx.entries))
	for _, e := range idx.entries {
		snap[e.FileName] = e.BlobHash
	}
	return snap
}
