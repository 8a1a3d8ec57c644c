package object

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrCorruptObject is returned when a stored payload cannot be decoded.
var ErrCorruptObject = errors.New("corrupt object")

// Marshal serializes an object into its stored form:
//
//	<kind> <len>\0<body>
//
// where body is the canonical encoding the object's hash was computed over
// (for a blob, the raw content).
func Marshal(o Object) []byte {
	var body []byte
	switch v := o.(type) {
	case *Blob:
		body = v.Content
	case *Tree:
		body = marshalTreeBody(v)
	case *Commit:
		body = marshalCommitBody(v)
	default:
		panic(fmt.Sprintf("object: marshal of unknown type %T", o))
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s %d\x00", o.Kind(), len(body))
	buf.Write(body)
	return buf.Bytes()
}

// Unmarshal parses a stored payload back into an Object, recomputing its
// hash from the body.
func Unmarshal(raw []byte) (Object, error) {
	nulIdx := bytes.IndexByte(raw, 0)
	if nulIdx < 0 {
		return nil, fmt.Errorf("%w: no header terminator", ErrCorruptObject)
	}
	header := string(raw[:nulIdx])
	body := raw[nulIdx+1:]

	kindName, lenStr, ok := strings.Cut(header, " ")
	if !ok {
		return nil, fmt.Errorf("%w: invalid header %q", ErrCorruptObject, header)
	}
	kind, err := ParseKind(kindName)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptObject, err)
	}
	length, err := strconv.Atoi(lenStr)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid length %q", ErrCorruptObject, lenStr)
	}
	if len(body) != length {
		return nil, fmt.Errorf("%w: length mismatch (header=%d, actual=%d)", ErrCorruptObject, length, len(body))
	}

	switch kind {
	case KindBlob:
		return NewBlob(body), nil
	case KindTree:
		return unmarshalTree(body)
	default:
		return unmarshalCommit(body)
	}
}

// marshalTreeBody encodes one line per entry:
//
//	<mode> <hex hash> <name>
//
// Entries are expected in canonical (sorted) order.
func marshalTreeBody(t *Tree) []byte {
	var buf bytes.Buffer
	for _, e := range t.Entries {
		fmt.Fprintf(&buf, "%s %s %s\n", e.Mode, e.Hash, e.Name)
	}
	return buf.Bytes()
}

func unmarshalTree(body []byte) (*Tree, error) {
	var entries []TreeEntry
	text := strings.TrimSuffix(string(body), "\n")
	if text != "" {
		for _, line := range strings.Split(text, "\n") {
			parts := strings.SplitN(line, " ", 3)
			if len(parts) != 3 {
				return nil, fmt.Errorf("%w: malformed tree entry %q", ErrCorruptObject, line)
			}
			mode, err := ParseKind(parts[0])
			if err != nil {
				return nil, fmt.Errorf("%w: tree entry %q: %v", ErrCorruptObject, line, err)
			}
			h, err := ParseHash(parts[1])
			if err != nil {
				return nil, fmt.Errorf("%w: tree entry %q: %v", ErrCorruptObject, line, err)
			}
			entries = append(entries, TreeEntry{Name: parts[2], Mode: mode, Hash: h})
		}
	}
	t := NewTree(entries)
	if !bytes.Equal(marshalTreeBody(t), body) {
		return nil, fmt.Errorf("%w: tree entries not in canonical order", ErrCorruptObject)
	}
	return t, nil
}

// marshalCommitBody encodes a commit:
//
//	tree H
//	parent H     (optional)
//	author A
//
//	message
func marshalCommitBody(c *Commit) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tree %s\n", c.TreeHash)
	if c.Parent != nil {
		fmt.Fprintf(&buf, "parent %s\n", *c.Parent)
	}
	fmt.Fprintf(&buf, "author %s\n", c.Author)
	buf.WriteByte('\n')
	buf.WriteString(c.Message)
	return buf.Bytes()
}

func unmarshalCommit(body []byte) (*Commit, error) {
	idx := bytes.Index(body, []byte("\n\n"))
	if idx < 0 {
		return nil, fmt.Errorf("%w: commit missing header/message separator", ErrCorruptObject)
	}
	header := string(body[:idx])
	message := string(body[idx+2:])

	var (
		tree    Hash
		hasTree bool
		parent  *Hash
		author  string
	)
	for _, line := range strings.Split(header, "\n") {
		key, val, ok := strings.Cut(line, " ")
		if !ok {
			return nil, fmt.Errorf("%w: malformed commit header line %q", ErrCorruptObject, line)
		}
		switch key {
		case "tree":
			h, err := ParseHash(val)
			if err != nil {
				return nil, fmt.Errorf("%w: commit tree: %v", ErrCorruptObject, err)
			}
			tree, hasTree = h, true
		case "parent":
			h, err := ParseHash(val)
			if err != nil {
				return nil, fmt.Errorf("%w: commit parent: %v", ErrCorruptObject, err)
			}
			parent = &h
		case "author":
			author = val
		default:
			return nil, fmt.Errorf("%w: unknown commit header key %q", ErrCorruptObject, key)
		}
	}
	if !hasTree {
		return nil, fmt.Errorf("%w: commit has no tree", ErrCorruptObject)
	}
	return NewCommit(message, tree, parent, author), nil
}
