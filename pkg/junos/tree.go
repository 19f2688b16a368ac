// Package junos extracts interface data from brace-delimited (Junos-style)
// configurations.
//
// Parse turns the text into a Tree of statements. Select walks down the
// tree by key patterns, FilterSection prunes it to the statements of
// interest, and the projectors (Interfaces, Addresses) fold the result into
// maps keyed by logical interface name.
package junos

import (
	"fmt"
	"io"
	"iter"
	"strings"
)

// Kind tags what a Value holds.
type Kind int

const (
	KindLeaf Kind = iota // statement terminated by ;
	KindTree             // block in { }
)

func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindTree:
		return "tree"
	default:
		return "unknown"
	}
}

// Value is the payload stored under a statement key: either a leaf marker
// or a nested Tree.
type Value struct {
	kind Kind
	tree *Tree
}

// Leaf returns the leaf marker.
func Leaf() Value {
	return Value{kind: KindLeaf}
}

// Subtree wraps t as a Value.
func Subtree(t *Tree) Value {
	return Value{kind: KindTree, tree: t}
}

// Kind returns the tag of v.
func (v Value) Kind() Kind { return v.kind }

// IsLeaf reports whether v is the leaf marker.
func (v Value) IsLeaf() bool { return v.kind == KindLeaf }

// Tree returns the nested tree, or nil for a leaf.
func (v Value) Tree() *Tree {
	if v.kind != KindTree {
		return nil
	}
	return v.tree
}

// Tree is one level of a parsed configuration: statement keys mapped to
// values, iterated in insertion order. Setting an existing key replaces its
// value but keeps its position.
type Tree struct {
	keys     []string
	children map[string]Value
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{children: make(map[string]Value)}
}

// Len returns the number of keys at this level.
func (t *Tree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Set stores v under key.
func (t *Tree) Set(key string, v Value) {
	if t.children == nil {
		t.children = make(map[string]Value)
	}
	if _, ok := t.children[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.children[key] = v
}

// Get returns the value stored under key.
func (t *Tree) Get(key string) (Value, bool) {
	if t == nil {
		return Value{}, false
	}
	v, ok := t.children[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (t *Tree) Keys() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.keys...)
}

// All iterates over the keys and values in insertion order.
func (t *Tree) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if t == nil {
			return
		}
		for _, k := range t.keys {
			if !yield(k, t.children[k]) {
				return
			}
		}
	}
}

// Merge copies every entry of other into t. Keys already present in t are
// overwritten, so when several subtrees are merged in turn the last one
// wins.
func (t *Tree) Merge(other *Tree) {
	for k, v := range other.All() {
		t.Set(k, v)
	}
}

// Equal reports whether t and other hold the same keys, in the same order,
// with equal values.
func (t *Tree) Equal(other *Tree) bool {
	if t.Len() != other.Len() {
		return false
	}
	for i, k := range t.Keys() {
		if other.keys[i] != k {
			return false
		}
		a, b := t.children[k], other.children[k]
		if a.kind != b.kind {
			return false
		}
		if a.kind == KindTree && !a.tree.Equal(b.tree) {
			return false
		}
	}
	return true
}

// Print writes the tree with three spaces of indentation per level. Blocks
// are printed as "key {" ... "}", leaves as the bare key.
func Print(w io.Writer, t *Tree) {
	printTree(w, t, "")
}

func printTree(w io.Writer, t *Tree, indent string) {
	for k, v := range t.All() {
		if v.IsLeaf() {
			fmt.Fprintf(w, "%s%s\n", indent, k)
			continue
		}
		fmt.Fprintf(w, "%s%s {\n", indent, k)
		printTree(w, v.Tree(), indent+"   ")
		fmt.Fprintf(w, "%s}\n", indent)
	}
}

// Format returns the output of Print as a string.
func (t *Tree) Format() string {
	var b strings.Builder
	Print(&b, t)
	return b.String()
}
