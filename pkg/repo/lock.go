package repo

import (
	"errors"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/odvcencio/g1t/pkg/fsys"
	"github.com/odvcencio/g1t/pkg/index"
)

// ErrLocked is returned when another process holds the repository lock for
// longer than the wait limit.
var ErrLocked = errors.New("repository locked")

const (
	lockFile       = "lock"
	lockRetryDelay = 5 * time.Millisecond
	lockWaitLimit  = 2 * time.Second
)

// lock takes the repository-wide advisory lock by exclusively creating
// <dir>/lock. The returned func releases it.
func (r *Repo) lock() (func(), error) {
	lockPath := path.Join(r.dir, lockFile)
	if err := acquireLock(r.fs, lockPath, lockWaitLimit); err != nil {
		return nil, err
	}
	return func() {
		if err := r.fs.Remove(lockPath); err != nil && !fsys.IsNotExist(err) {
			r.logger.Warn("release repository lock", "path", lockPath, "err", err)
		}
	}, nil
}

// reload re-reads the index and HEAD. Callers hold the lock, so another
// process's updates made since Open are not overwritten.
func (r *Repo) reload() error {
	staging, err := index.Load(r.fs, r.indexPath())
	if err != nil {
		return err
	}
	head, err := r.readHead()
	if err != nil {
		return err
	}
	r.staging, r.head = staging, head
	return nil
}

func acquireLock(fs fsys.FS, lockPath string, wait time.Duration) error {
	deadline := time.Now().Add(wait)
	for {
		f, err := fs.CreateExclusive(lockPath)
		if err == nil {
			fmt.Fprintf(f, "%d\n", os.Getpid())
			return f.Close()
		}
		if !errors.Is(err, os.ErrExist) {
			return fmt.Errorf("lock %s: %w", lockPath, err)
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("lock %s: %w", lockPath, ErrLocked)
		}
		time.Sleep(lockRetryDelay)
	}
}
