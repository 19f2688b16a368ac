package junos

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrBadPattern is returned when a caller-supplied pattern does not compile.
var ErrBadPattern = errors.New("invalid pattern")

// Select walks down tree one level per pattern. At each level every key
// matching the pattern (case-insensitive, anchored at the start of the key)
// is followed, and the subtrees reached when the patterns run out are
// merged into one result. Keys are visited in insertion order and on a
// collision the subtree visited last wins.
//
// If a matching key holds a leaf, that leaf is the whole result. With no
// patterns the tree itself is returned.
func Select(tree *Tree, patterns ...string) (Value, error) {
	res := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		re, err := regexp.Compile(`(?i)^(?:` + p + `)`)
		if err != nil {
			return Value{}, fmt.Errorf("%w %q: %v", ErrBadPattern, p, err)
		}
		res[i] = re
	}
	return selectTree(tree, res), nil
}

func selectTree(tree *Tree, res []*regexp.Regexp) Value {
	if len(res) == 0 {
		return Subtree(tree)
	}
	out := NewTree()
	for k, v := range tree.All() {
		if !res[0].MatchString(k) {
			continue
		}
		if v.IsLeaf() {
			return v
		}
		sub := selectTree(v.Tree(), res[1:])
		if sub.IsLeaf() {
			return sub
		}
		out.Merge(sub.Tree())
	}
	return Subtree(out)
}

// Section parses lines and selects the part of the tree reached by patterns.
func Section(lines []string, patterns ...string) (Value, error) {
	tree, err := Parse(lines)
	if err != nil {
		return Value{}, err
	}
	return Select(tree, patterns...)
}

// FilterSection keeps the parts of tree whose key matches pattern
// (case-sensitive, unanchored). A matching block is kept whole; a block
// that does not match is descended into. Blocks left empty are removed.
// Filtering a tree that was already filtered with the same pattern returns
// an equal tree.
func FilterSection(tree *Tree, pattern string) (*Tree, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrBadPattern, pattern, err)
	}
	return RemoveEmptySections(filterTree(tree, re)), nil
}

func filterTree(tree *Tree, re *regexp.Regexp) *Tree {
	out := NewTree()
	for k, v := range tree.All() {
		switch {
		case re.MatchString(k):
			out.Set(k, v)
		case v.IsLeaf():
			// dropped
		default:
			out.Set(k, Subtree(filterTree(v.Tree(), re)))
		}
	}
	return out
}

// RemoveEmptySections returns a copy of tree without blocks that have no
// leaves anywhere below them.
func RemoveEmptySections(tree *Tree) *Tree {
	out := NewTree()
	for k, v := range tree.All() {
		if v.IsLeaf() {
			out.Set(k, Leaf())
			continue
		}
		if sub := RemoveEmptySections(v.Tree()); sub.Len() > 0 {
			out.Set(k, Subtree(sub))
		}
	}
	return out
}

// FilterConfig parses lines, selects patterns and filters the selection with
// filter. A selection that ends on a leaf yields an empty tree.
func FilterConfig(lines []string, patterns []string, filter string) (*Tree, error) {
	sel, err := Section(lines, patterns...)
	if err != nil {
		return nil, err
	}
	if sel.IsLeaf() {
		return NewTree(), nil
	}
	return FilterSection(sel.Tree(), filter)
}
