// Package repo ties the object store and the staging index together into a
// repository with Init, Add, Commit and Reset operations.
package repo

import (
	"errors"
	"fmt"
	"log/slog"
	"path"

	"github.com/odvcencio/g1t/pkg/fsys"
	"github.com/odvcencio/g1t/pkg/index"
	"github.com/odvcencio/g1t/pkg/object"
)

// DefaultDirName is the repository directory created under the root.
const DefaultDirName = ".g1t"

var (
	ErrAlreadyInitialized = errors.New("repository already initialized")
	ErrNotInitialized     = errors.New("not a g1t repository")
	ErrFileNotFound       = errors.New("file not found")
	ErrNothingStaged      = errors.New("nothing staged")
	ErrInvalidPath        = errors.New("invalid path")
)

// Options locates a repository on a filesystem.
type Options struct {
	// FS is the filesystem holding both the working files and the
	// repository directory.
	FS fsys.FS
	// Root is the working directory root on FS. Defaults to ".".
	Root string
	// DirName is the repository directory under Root. Defaults to ".g1t".
	DirName string
	// Author overrides the user name from the repository config.
	Author string
	Logger *slog.Logger
}

func (o Options) withDefaults() (Options, error) {
	if o.FS == nil {
		return o, fmt.Errorf("repository options: filesystem is required")
	}
	if o.Root == "" {
		o.Root = "."
	}
	if o.DirName == "" {
		o.DirName = DefaultDirName
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	return o, nil
}

func (o Options) dir() string {
	return path.Join(o.Root, o.DirName)
}

// Repo is an opened repository.
type Repo struct {
	fs     fsys.FS
	root   string // working directory root
	dir    string // repository directory
	author string
	logger *slog.Logger

	Store  *object.Store
	Config *Config

	staging *index.Index
	head    *object.Hash
}

func (r *Repo) objectsDir() string { return path.Join(r.dir, "objects") }
func (r *Repo) indexPath() string { return path.Join(r.dir, "index.json") }

// Dir returns the repository directory path on the filesystem.
func (r *Repo) Dir() string { return r.dir }

// Init creates a new repository: the repository directory, an empty
// objects/ store, an empty index and a default config. It fails with
// ErrAlreadyInitialized, before writing anything, if the repository
// directory exists.
func Init(opts Options) (*Repo, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	fs, dir := opts.FS, opts.dir()

	exists, err := fs.Exists(dir)
	if err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("init: %s: %w", dir, ErrAlreadyInitialized)
	}

	if err := fs.CreateDirAll(opts.Root); err != nil {
		return nil, fmt.Errorf("init: mkdir %s: %w", opts.Root, err)
	}
	for _, d := range []string{dir, path.Join(dir, "objects")} {
		if err := fs.CreateDir(d); err != nil {
			return nil, fmt.Errorf("init: mkdir %s: %w", d, err)
		}
	}
	if _, err := index.Load(fs, path.Join(dir, "index.json")); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}
	if err := writeConfig(fs, path.Join(dir, configFile), DefaultConfig()); err != nil {
		return nil, fmt.Errorf("init: %w", err)
	}

	opts.Logger.Info("initialized repository", "dir", dir)
	return open(opts)
}

// Open opens an existing repository, loading its config, object store,
// index and HEAD.
func Open(opts Options) (*Repo, error) {
	opts, err := opts.withDefaults()
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	exists, err := opts.FS.Exists(opts.dir())
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("open: %s: %w", opts.dir(), ErrNotInitialized)
	}
	return open(opts)
}

func open(opts Options) (*Repo, error) {
	r := &Repo{
		fs:     opts.FS,
		root:   opts.Root,
		dir:    opts.dir(),
		logger: opts.Logger,
	}

	cfg, err := readConfig(r.fs, r.configPath())
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	r.Config = cfg
	r.author = cfg.User.Name
	if opts.Author != "" {
		r.author = opts.Author
	}

	r.Store, err = object.NewStore(r.fs, r.objectsDir(),
		object.WithCacheSize(cfg.Core.CacheSize),
		object.WithLogger(r.logger),
	)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	r.staging, err = index.Load(r.fs, r.indexPath())
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}

	r.head, err = r.readHead()
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	return r, nil
}

// Index returns a copy of the staged entries in insertion order.
func (r *Repo) Index() []index.Entry {
	return r.staging.Entries()
}

// Objects decodes every object in the store.
func (r *Repo) Objects() ([]object.Object, error) {
	raws, err := r.Store.GetAll()
	if err != nil {
		return nil, fmt.Errorf("objects: %w", err)
	}
	out := make([]object.Object, 0, len(raws))
	for _, raw := range raws {
		o, err := object.Unmarshal(raw)
		if err != nil {
			return nil, fmt.Errorf("objects: %w", err)
		}
		out = append(out, o)
	}
	return out, nil
}

// Cat reads the object with the given hash.
func (r *Repo) Cat(h object.Hash) (object.Object, error) {
	o, err := r.Store.Read(h)
	if err != nil {
		return nil, fmt.Errorf("cat: %w", err)
	}
	return o, nil
}
