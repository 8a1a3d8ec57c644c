package object

import (
	"errors"
	"sort"
	"testing"

	"github.com/odvcencio/g1t/pkg/fsys"
)

func tempStore(t *testing.T, opts ...StoreOption) (*Store, fsys.FS) {
	t.Helper()
	fs := fsys.NewMemory()
	if err := fs.CreateDirAll("objects"); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	s, err := NewStore(fs, "objects", opts...)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return s, fs
}

func TestNewStoreMissingMount(t *testing.T) {
	_, err := NewStore(fsys.NewMemory(), "objects")
	if !errors.Is(err, ErrMountNotFound) {
		t.Fatalf("NewStore error = %v, want ErrMountNotFound", err)
	}
}

func TestStoreInsertGet(t *testing.T) {
	s, fs := tempStore(t)
	payload := []byte("hello world")
	h := HashBytes(payload)

	if err := s.Insert(h, payload); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, ok, err := s.Get(h)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if string(got) != string(payload) {
		t.Errorf("Get = %q, want %q", got, payload)
	}

	dir, file := h.Shard()
	exists, err := fs.Exists("objects/" + dir + "/" + file)
	if err != nil || !exists {
		t.Errorf("object file missing at sharded path: exists=%v err=%v", exists, err)
	}
}

func TestStoreGetMissing(t *testing.T) {
	s, _ := tempStore(t)
	_, ok, err := s.Get(HashBytes([]byte("nope")))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("Get reported a missing object as present")
	}
}

func TestStoreInsertIdempotent(t *testing.T) {
	s, fs := tempStore(t, WithCacheSize(0))
	payload := []byte("same")
	h := HashBytes(payload)

	for i := 0; i < 2; i++ {
		if err := s.Insert(h, payload); err != nil {
			t.Fatalf("Insert #%d: %v", i+1, err)
		}
	}

	dir, _ := h.Shard()
	names, err := fs.ReadDir("objects/" + dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(names) != 1 {
		t.Errorf("shard holds %d files, want 1: %v", len(names), names)
	}
}

func TestStoreInsertDoesNotOverwrite(t *testing.T) {
	s, _ := tempStore(t, WithCacheSize(0))
	h := HashBytes([]byte("first"))

	if err := s.Insert(h, []byte("first")); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := s.Insert(h, []byte("second")); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	got, _, _ := s.Get(h)
	if string(got) != "first" {
		t.Errorf("existing object was rewritten: %q", got)
	}
}

func TestStoreGetAll(t *testing.T) {
	s, _ := tempStore(t)
	want := []string{"alpha", "beta", "gamma"}
	for _, p := range want {
		if err := s.Insert(HashBytes([]byte(p)), []byte(p)); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	all, err := s.GetAll()
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	var got []string
	for _, raw := range all {
		got = append(got, string(raw))
	}
	sort.Strings(got)
	if len(got) != len(want) {
		t.Fatalf("GetAll returned %d objects, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("GetAll[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestStoreTypedRoundTrip(t *testing.T) {
	s, _ := tempStore(t)

	blob := NewBlob([]byte("content"))
	if _, err := s.Put(blob); err != nil {
		t.Fatalf("Put blob: %v", err)
	}
	tree := NewTree([]TreeEntry{{Name: "f", Mode: KindBlob, Hash: blob.Hash()}})
	if _, err := s.Put(tree); err != nil {
		t.Fatalf("Put tree: %v", err)
	}
	commit := NewCommit("msg", tree.Hash(), nil, "me")
	ch, err := s.Put(commit)
	if err != nil {
		t.Fatalf("Put commit: %v", err)
	}

	gotBlob, err := s.ReadBlob(blob.Hash())
	if err != nil {
		t.Fatalf("ReadBlob: %v", err)
	}
	if string(gotBlob.Content) != "content" {
		t.Errorf("blob content = %q", gotBlob.Content)
	}

	gotTree, err := s.ReadTree(tree.Hash())
	if err != nil {
		t.Fatalf("ReadTree: %v", err)
	}
	if len(gotTree.Entries) != 1 || gotTree.Entries[0].Hash != blob.Hash() {
		t.Errorf("tree entries = %+v", gotTree.Entries)
	}

	gotCommit, err := s.ReadCommit(ch)
	if err != nil {
		t.Fatalf("ReadCommit: %v", err)
	}
	if gotCommit.TreeHash != tree.Hash() || gotCommit.Parent != nil || gotCommit.Message != "msg" {
		t.Errorf("commit = %+v", gotCommit)
	}

	if _, err := s.ReadTree(blob.Hash()); err == nil {
		t.Error("ReadTree on a blob succeeded, want type mismatch")
	}
}

func TestStoreReadMissing(t *testing.T) {
	s, _ := tempStore(t)
	_, err := s.Read(HashBytes([]byte("missing")))
	if !errors.Is(err, ErrObjectNotFound) {
		t.Errorf("Read error = %v, want ErrObjectNotFound", err)
	}
}

func TestStoreReadDetectsHashMismatch(t *testing.T) {
	s, _ := tempStore(t, WithCacheSize(0))
	h := HashBytes([]byte("claimed"))
	if err := s.Insert(h, Marshal(NewBlob([]byte("actual")))); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if _, err := s.Read(h); !errors.Is(err, ErrCorruptObject) {
		t.Errorf("Read error = %v, want ErrCorruptObject", err)
	}
}

func TestStoreCacheServesReads(t *testing.T) {
	s, fs := tempStore(t, WithCacheSize(8))
	payload := []byte("cached")
	h := HashBytes(payload)
	if err := s.Insert(h, payload); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if _, _, err := s.Get(h); err != nil {
		t.Fatalf("Get: %v", err)
	}

	// Objects are immutable, so a cached payload stays valid even after the
	// backing file is gone.
	if err := fs.RemoveDir("objects"); err != nil {
		t.Fatalf("RemoveDir: %v", err)
	}
	got, ok, err := s.Get(h)
	if err != nil || !ok || string(got) != "cached" {
		t.Errorf("cached Get = %q ok=%v err=%v", got, ok, err)
	}
}

func TestStoreGetReturnsPrivateCopy(t *testing.T) {
	s, _ := tempStore(t, WithCacheSize(8))
	payload := []byte("immutable")
	h := HashBytes(payload)
	if err := s.Insert(h, payload); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	for i := 0; i < 2; i++ {
		got, _, err := s.Get(h)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if string(got) != "immutable" {
			t.Fatalf("Get #%d = %q, want %q", i, got, "immutable")
		}
		// Scribbling over the result must not reach the cache.
		for j := range got {
			got[j] = 'x'
		}
	}
}
