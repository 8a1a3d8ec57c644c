package repo

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/g1t/pkg/fsys"
)

func TestConfig_DefaultsWrittenByInit(t *testing.T) {
	r, opts := initRepo(t)
	assert.Equal(t, DefaultConfig().Core.CacheSize, r.Config.Core.CacheSize)

	data, err := fsys.ReadFile(opts.FS, ".g1t/config.toml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "cache_size")
}

func TestConfig_MissingKeysKeepDefaults(t *testing.T) {
	fs := fsys.NewMemory()
	require.NoError(t, fsys.WriteFileAtomic(fs, "config.toml", []byte("[user]\nname = \"alice\"\n")))

	cfg, err := readConfig(fs, "config.toml")
	require.NoError(t, err)
	assert.Equal(t, "alice", cfg.User.Name)
	assert.Equal(t, DefaultConfig().Core.CacheSize, cfg.Core.CacheSize)
}

func TestConfig_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad toml":       "[user\n",
		"negative cache": "[core]\ncache_size = -1\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			fs := fsys.NewMemory()
			require.NoError(t, fsys.WriteFileAtomic(fs, "config.toml", []byte(content)))
			_, err := readConfig(fs, "config.toml")
			assert.Error(t, err)
		})
	}
}

func TestSetUserName_UsedByCommit(t *testing.T) {
	opts := Options{FS: fsys.NewMemory()}
	r, err := Init(opts)
	require.NoError(t, err)
	require.NoError(t, r.SetUserName("bob"))

	reopened, err := Open(opts)
	require.NoError(t, err)
	assert.Equal(t, "bob", reopened.Config.User.Name)

	writeFile(t, opts.FS, "a.txt", "a")
	require.NoError(t, reopened.Add("a.txt"))
	h, err := reopened.Commit("m")
	require.NoError(t, err)
	c, err := reopened.Store.ReadCommit(h)
	require.NoError(t, err)
	assert.Equal(t, "bob", c.Author)

	assert.Error(t, r.SetUserName("bad\nname"))
}

func TestLock_TimesOutWhileHeld(t *testing.T) {
	fs := fsys.NewMemory()
	require.NoError(t, acquireLock(fs, "lock", time.Second))

	err := acquireLock(fs, "lock", 20*time.Millisecond)
	assert.True(t, errors.Is(err, ErrLocked), "got %v", err)

	require.NoError(t, fs.Remove("lock"))
	assert.NoError(t, acquireLock(fs, "lock", 20*time.Millisecond))
}

func TestLock_HeldLockBlocksAdd(t *testing.T) {
	r, opts := initRepo(t)
	writeFile(t, opts.FS, "a.txt", "a")
	require.NoError(t, acquireLock(opts.FS, ".g1t/lock", time.Second))

	if testing.Short() {
		t.Skip("waits for the full lock timeout")
	}
	err := r.Add("a.txt")
	assert.True(t, errors.Is(err, ErrLocked), "got %v", err)
	assert.Empty(t, r.Index())
}
