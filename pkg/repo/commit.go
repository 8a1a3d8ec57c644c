package repo

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/odvcencio/g1t/pkg/fsys"
	"github.com/odvcencio/g1t/pkg/object"
)

const headFile = "HEAD"

// Commit snapshots the index into a tree and records a commit on top of
// HEAD.
//
//  1. Build the tree from the index (last entry per path wins)
//  2. Create the Commit with the tree, HEAD as parent and the config author
//  3. Write the commit to the store
//  4. Advance HEAD and persist it
//
// The index is not cleared: every commit snapshots everything staged so far.
func (r *Repo) Commit(message string) (object.Hash, error) {
	if err := validateAuthor(r.author); err != nil {
		return object.ZeroHash, fmt.Errorf("commit: %w", err)
	}

	unlock, err := r.lock()
	if err != nil {
		return object.ZeroHash, fmt.Errorf("commit: %w", err)
	}
	defer unlock()
	if err := r.reload(); err != nil {
		return object.ZeroHash, fmt.Errorf("commit: %w", err)
	}

	snap := r.staging.Snapshot()
	if len(snap) == 0 {
		return object.ZeroHash, fmt.Errorf("commit: %w", ErrNothingStaged)
	}

	treeHash, err := r.BuildTree(snap)
	if err != nil {
		return object.ZeroHash, fmt.Errorf("commit: %w", err)
	}

	c := object.NewCommit(message, treeHash, r.head, r.author)
	commitHash, err := r.Store.Put(c)
	if err != nil {
		return object.ZeroHash, fmt.Errorf("commit: write commit: %w", err)
	}

	if err := r.writeHead(commitHash); err != nil {
		return object.ZeroHash, fmt.Errorf("commit: %w", err)
	}
	r.head = &commitHash

	r.logger.Info("created commit", "hash", commitHash.String(), "tree", treeHash.String(), "files", len(snap))
	return commitHash, nil
}

// Head returns the current head commit, or ok=false before the first commit.
func (r *Repo) Head() (h object.Hash, ok bool) {
	if r.head == nil {
		return object.ZeroHash, false
	}
	return *r.head, true
}

func (r *Repo) headPath() string {
	return path.Join(r.dir, headFile)
}

// readHead loads the persisted head. A missing file means no commits yet.
func (r *Repo) readHead() (*object.Hash, error) {
	data, err := fsys.ReadFile(r.fs, r.headPath())
	if err != nil {
		if fsys.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read HEAD: %w", err)
	}
	content := strings.TrimSpace(string(data))
	if content == "" {
		return nil, nil
	}
	h, err := object.ParseHash(content)
	if err != nil {
		return nil, fmt.Errorf("read HEAD: %w", err)
	}
	return &h, nil
}

func (r *Repo) writeHead(h object.Hash) error {
	if err := fsys.WriteFileAtomic(r.fs, r.headPath(), []byte(h.String()+"\n")); err != nil {
		return fmt.Errorf("write HEAD: %w", err)
	}
	return nil
}

// Log walks the history from HEAD following parent links, returning up to
// limit commits newest first. A limit of zero or less means no limit.
func (r *Repo) Log(limit int) ([]*object.Commit, error) {
	var commits []*object.Commit
	next := r.head

	for next != nil && (limit <= 0 || len(commits) < limit) {
		c, err := r.Store.ReadCommit(*next)
		if err != nil {
			if errors.Is(err, object.ErrObjectNotFound) {
				return nil, fmt.Errorf("log: history broken at %s: %w", *next, err)
			}
			return nil, fmt.Errorf("log: %w", err)
		}
		commits = append(commits, c)
		next = c.Parent
	}
	return commits, nil
}

func validateAuthor(name string) error {
	if strings.ContainsAny(name, "\n\x00") {
		return fmt.Errorf("author %q contains a control character", name)
	}
	return nil
}
