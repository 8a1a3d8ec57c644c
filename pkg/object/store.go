package object

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"path"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/odvcencio/g1t/pkg/fsys"
)

var (
	// ErrMountNotFound is returned by NewStore when its root directory is
	// missing.
	ErrMountNotFound = errors.New("object store mount not found")
	// ErrObjectNotFound is returned by Read when no object has the hash.
	ErrObjectNotFound = errors.New("object not found")
)

// DefaultCacheSize is the number of payloads kept in the read cache.
const DefaultCacheSize = 256

// Store is a content-addressed object store with a 2-character fan-out
// directory layout: <root>/ab/cdef0123...
type Store struct {
	fs     fsys.FS
	root   string
	cache  *lru.Cache[Hash, []byte]
	logger *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*storeOptions)

type storeOptions struct {
	cacheSize int
	logger    *slog.Logger
}

// WithCacheSize bounds the read cache to n payloads. Zero disables it.
func WithCacheSize(n int) StoreOption {
	return func(o *storeOptions) { o.cacheSize = n }
}

// WithLogger sets the logger used for debug records.
func WithLogger(l *slog.Logger) StoreOption {
	return func(o *storeOptions) { o.logger = l }
}

// NewStore opens the store rooted at root on fs. The root directory must
// already exist.
func NewStore(fs fsys.FS, root string, opts ...StoreOption) (*Store, error) {
	o := storeOptions{cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}

	ok, err := fs.Exists(root)
	if err != nil {
		return nil, fmt.Errorf("open store %s: %w", root, err)
	}
	if !ok {
		return nil, fmt.Errorf("open store %s: %w", root, ErrMountNotFound)
	}

	s := &Store{fs: fs, root: root, logger: o.logger}
	if o.cacheSize > 0 {
		cache, err := lru.New[Hash, []byte](o.cacheSize)
		if err != nil {
			return nil, fmt.Errorf("open store %s: cache: %w", root, err)
		}
		s.cache = cache
	}
	return s, nil
}

// objectPath returns the storage path for a given hash.
func (s *Store) objectPath(h Hash) string {
	dir, file := h.Shard()
	return path.Join(s.root, dir, file)
}

// Has reports whether the store contains an object with the given hash.
func (s *Store) Has(h Hash) (bool, error) {
	if s.cache != nil && s.cache.Contains(h) {
		return true, nil
	}
	return s.fs.Exists(s.objectPath(h))
}

// Insert stores payload under h. The path is a pure function of the
// content, so an existing file is left untouched. New files are written to
// a temp file and renamed into place.
func (s *Store) Insert(h Hash, payload []byte) error {
	dest := s.objectPath(h)

	exists, err := s.fs.Exists(dest)
	if err != nil {
		return fmt.Errorf("object insert %s: %w", h, err)
	}
	if exists {
		s.logger.Debug("object already stored", "hash", h.String())
		return nil
	}

	if err := s.fs.CreateDirAll(path.Dir(dest)); err != nil {
		return fmt.Errorf("object insert mkdir: %w", err)
	}
	if err := fsys.WriteFileAtomic(s.fs, dest, payload); err != nil {
		return fmt.Errorf("object insert %s: %w", h, err)
	}
	s.logger.Debug("object stored", "hash", h.String(), "size", len(payload))
	return nil
}

// Get returns the full payload stored under h. ok is false when absent.
// The returned slice is owned by the caller.
func (s *Store) Get(h Hash) (payload []byte, ok bool, err error) {
	if s.cache != nil {
		if data, hit := s.cache.Get(h); hit {
			return bytes.Clone(data), true, nil
		}
	}

	data, err := fsys.ReadFile(s.fs, s.objectPath(h))
	if err != nil {
		if fsys.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("object read %s: %w", h, err)
	}
	if s.cache != nil {
		s.cache.Add(h, bytes.Clone(data))
	}
	return data, true, nil
}

// GetAll walks the store and returns the raw payload of every object in
// directory traversal order.
func (s *Store) GetAll() ([][]byte, error) {
	var out [][]byte
	if err := s.walk(s.root, &out); err != nil {
		return nil, fmt.Errorf("object walk: %w", err)
	}
	return out, nil
}

func (s *Store) walk(dir string, out *[][]byte) error {
	names, err := s.fs.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, name := range names {
		p := path.Join(dir, name)
		md, err := s.fs.Metadata(p)
		if err != nil {
			return err
		}
		if md.IsDir {
			if err := s.walk(p, out); err != nil {
				return err
			}
			continue
		}
		if isTempName(name) {
			continue
		}
		data, err := fsys.ReadFile(s.fs, p)
		if err != nil {
			return err
		}
		*out = append(*out, data)
	}
	return nil
}

func isTempName(name string) bool {
	return len(name) > 0 && name[0] == '.'
}

// ---------------------------------------------------------------------------
// Typed convenience methods
// ---------------------------------------------------------------------------

// Put serializes o and inserts it under its own hash.
func (s *Store) Put(o Object) (Hash, error) {
	h := o.Hash()
	if err := s.Insert(h, Marshal(o)); err != nil {
		return ZeroHash, err
	}
	return h, nil
}

// Read retrieves and decodes the object stored under h.
func (s *Store) Read(h Hash) (Object, error) {
	raw, ok, err := s.Get(h)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("object %s: %w", h, ErrObjectNotFound)
	}
	o, err := Unmarshal(raw)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", h, err)
	}
	if o.Hash() != h {
		return nil, fmt.Errorf("object %s: %w: content hashes to %s", h, ErrCorruptObject, o.Hash())
	}
	return o, nil
}

// ReadBlob reads the object under h and checks that it is a Blob.
func (s *Store) ReadBlob(h Hash) (*Blob, error) {
	o, err := s.Read(h)
	if err != nil {
		return nil, err
	}
	b, ok := o.(*Blob)
	if !ok {
		return nil, kindMismatch(h, o, KindBlob)
	}
	return b, nil
}

// ReadTree reads the object under h and checks that it is a Tree.
func (s *Store) ReadTree(h Hash) (*Tree, error) {
	o, err := s.Read(h)
	if err != nil {
		return nil, err
	}
	t, ok := o.(*Tree)
	if !ok {
		return nil, kindMismatch(h, o, KindTree)
	}
	return t, nil
}

// ReadCommit reads the object under h and checks that it is a Commit.
func (s *Store) ReadCommit(h Hash) (*Commit, error) {
	o, err := s.Read(h)
	if err != nil {
		return nil, err
	}
	c, ok := o.(*Commit)
	if !ok {
		return nil, kindMismatch(h, o, KindCommit)
	}
	return c, nil
}

func kindMismatch(h Hash, o Object, want Kind) error {
	return fmt.Errorf("object %s: type mismatch: got %q, want %q", h, o.Kind(), want)
}
