package repo

import (
	"fmt"
	"path"
)

// Reset deletes the repository layout: the objects/ store and then the
// repository directory itself. There is no confirmation and it cannot be
// undone. It fails with ErrNotInitialized when the repository is missing.
func Reset(opts Options) error {
	opts, err := opts.withDefaults()
	if err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	fs, dir := opts.FS, opts.dir()

	exists, err := fs.Exists(dir)
	if err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	if !exists {
		return fmt.Errorf("reset: %s: %w", dir, ErrNotInitialized)
	}

	lockPath := path.Join(dir, lockFile)
	if err := acquireLock(fs, lockPath, lockWaitLimit); err != nil {
		return fmt.Errorf("reset: %w", err)
	}
	// Removing dir drops the lock with it; this only matters on failure.
	defer fs.Remove(lockPath)

	objects := path.Join(dir, "objects")
	if ok, err := fs.Exists(objects); err != nil {
		return fmt.Errorf("reset: %w", err)
	} else if ok {
		if err := fs.RemoveDir(objects); err != nil {
			return fmt.Errorf("reset: remove %s: %w", objects, err)
		}
	}
	if err := fs.RemoveDir(dir); err != nil {
		return fmt.Errorf("reset: remove %s: %w", dir, err)
	}

	opts.Logger.Info("removed repository", "dir", dir)
	return nil
}
