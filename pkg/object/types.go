package object

import (
	"fmt"
	"sort"
)

// Kind identifies the variant of an Object. Tree entries reuse it as their
// mode.
type Kind uint8

const (
	KindBlob Kind = iota + 1
	KindTree
	KindCommit
)

func (k Kind) String() string {
	switch k {
	case KindBlob:
		return "blob"
	case KindTree:
		return "tree"
	case KindCommit:
		return "commit"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// ParseKind maps a kind name back to its Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "blob":
		return KindBlob, nil
	case "tree":
		return KindTree, nil
	case "commit":
		return KindCommit, nil
	default:
		return 0, fmt.Errorf("unknown object kind %q", s)
	}
}

// Object is one of *Blob, *Tree or *Commit. The set is closed: the marker
// method is unexported, so callers can switch over the three variants
// exhaustively.
type Object interface {
	Kind() Kind
	// Hash returns the digest computed when the object was built.
	Hash() Hash
	object()
}

// Blob holds a snapshot of file content.
type Blob struct {
	hash    Hash
	Content []byte
}

// NewBlob builds a Blob whose hash is the SHA-1 of content.
func NewBlob(content []byte) *Blob {
	data := make([]byte, len(content))
	copy(data, content)
	return &Blob{hash: HashBytes(data), Content: data}
}

func (b *Blob) Kind() Kind { return KindBlob }
func (b *Blob) Hash() Hash { return b.hash }
func (*Blob) object() {}

// TreeEntry is one named child of a Tree.
type TreeEntry struct {
	Name string
	Mode Kind
	Hash Hash
}

// Tree maps path segments to child object hashes.
type Tree struct {
	hash    Hash
	Entries []TreeEntry // sorted by Name
}

// NewTree builds a Tree over a copy of entries sorted by name, so the hash
// depends only on the entry set and not on the order it was supplied in.
func NewTree(entries []TreeEntry) *Tree {
	sorted := make([]TreeEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})
	t := &Tree{Entries: sorted}
	t.hash = HashBytes(marshalTreeBody(t))
	return t
}

func (t *Tree) Kind() Kind { return KindTree }
func (t *Tree) Hash() Hash { return t.hash }
func (*Tree) object() {}

// Commit is a named snapshot of a Tree with an optional parent.
type Commit struct {
	hash     Hash
	Message  string
	TreeHash Hash
	Parent   *Hash
	Author   string
}

// NewCommit builds a Commit. The hash covers the tree, parent, author and
// message, so commits sharing a message but not a snapshot never collide.
func NewCommit(message string, tree Hash, parent *Hash, author string) *Commit {
	c := &Commit{
		Message:  message,
		TreeHash: tree,
		Author:   author,
	}
	if parent != nil {
		p := *parent
		c.Parent = &p
	}
	c.hash = HashBytes(marshalCommitBody(c))
	return c
}

func (c *Commit) Kind() Kind { return KindCommit }
func (c *Commit) Hash() Hash { return c.hash }
func (*Commit) object() {}
