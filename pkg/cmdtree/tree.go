// Package cmdtree defines the command tree of the interactive config
// browser. Tab completion, '?' help and the help command all walk it.
package cmdtree

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Source supplies the dynamic completion values of the loaded config.
type Source interface {
	// InterfaceNames returns the interfaces found in the config.
	InterfaceNames() []string
	// SectionNames returns top-level section names usable as patterns.
	SectionNames() []string
}

// Node defines a completion tree node with description, children, and optional dynamic values.
type Node struct {
	Desc      string
	Children  map[string]*Node
	DynamicFn func(src Source) []string
}

// Candidate holds a command name and its description for display.
type Candidate struct {
	Name string
	Desc string
}

func interfaceNames(src Source) []string { return src.InterfaceNames() }
func sectionNames(src Source) []string   { return src.SectionNames() }

// OperationalTree is the browser's command tree.
var OperationalTree = map[string]*Node{
	"show": {Desc: "Show information from the loaded configuration", Children: map[string]*Node{
		"interfaces": {Desc: "Show interfaces and descriptions", DynamicFn: interfaceNames},
		"vrfs":       {Desc: "Show the VRF of each interface"},
		"addresses": {Desc: "Show interface addresses", Children: map[string]*Node{
			"subnet": {Desc: "Include the prefix length"},
		}},
		"section": {Desc: "Show configuration sections matching patterns", DynamicFn: sectionNames},
		"filter":  {Desc: "Show lines of a section matching a pattern", DynamicFn: sectionNames},
		"log":     {Desc: "Show recent warnings"},
	}},
	"help": {Desc: "Show available commands"},
	"exit": {Desc: "Exit the browser"},
	"quit": {Desc: "Exit the browser"},
}

// HelpCandidates returns Candidates from a tree's children for help display.
func HelpCandidates(tree map[string]*Node) []Candidate {
	candidates := make([]Candidate, 0, len(tree))
	for name, node := range tree {
		candidates = append(candidates, Candidate{Name: name, Desc: node.Desc})
	}
	return candidates
}

// CompleteFromTree walks the tree to find completion candidates for the
// given words and partial.
func CompleteFromTree(tree map[string]*Node, words []string, partial string, src Source) []string {
	candidates := CompleteFromTreeWithDesc(tree, words, partial, src)
	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.Name
	}
	return names
}

// CompleteFromTreeWithDesc walks the tree returning name+description pairs.
// A word that is not a static child of a node with DynamicFn is taken as a
// dynamic value, and the walk stays at that node.
func CompleteFromTreeWithDesc(tree map[string]*Node, words []string, partial string, src Source) []Candidate {
	current := tree
	var currentNode *Node
	for _, w := range words {
		node, ok := current[w]
		if !ok {
			if currentNode != nil && currentNode.DynamicFn != nil {
				continue
			}
			return nil
		}
		currentNode = node
		current = node.Children
	}

	var candidates []Candidate
	for name, node := range current {
		if strings.HasPrefix(name, partial) {
			candidates = append(candidates, Candidate{Name: name, Desc: node.Desc})
		}
	}
	if currentNode != nil && currentNode.DynamicFn != nil && src != nil {
		for _, name := range currentNode.DynamicFn(src) {
			if strings.HasPrefix(name, partial) {
				candidates = append(candidates, Candidate{Name: name, Desc: "(configured)"})
			}
		}
	}
	return candidates
}

// WriteHelp prints aligned completion candidates to w.
// The entire output is built as a single string and written in one call
// so that readline's wrapWriter triggers only one Refresh cycle.
func WriteHelp(w io.Writer, candidates []Candidate) {
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].Name < candidates[j].Name })
	maxWidth := 20
	for _, c := range candidates {
		if len(c.Name)+2 > maxWidth {
			maxWidth = len(c.Name) + 2
		}
	}
	var sb strings.Builder
	sb.WriteString("Possible completions:\n")
	for _, c := range candidates {
		if c.Desc != "" {
			fmt.Fprintf(&sb, "  %-*s %s\n", maxWidth, c.Name, c.Desc)
		} else {
			fmt.Fprintf(&sb, "  %s\n", c.Name)
		}
	}
	io.WriteString(w, sb.String())
}

// CommonPrefix returns the longest shared prefix among the given strings.
func CommonPrefix(items []string) string {
	if len(items) == 0 {
		return ""
	}
	prefix := items[0]
	for _, s := range items[1:] {
		for !strings.HasPrefix(s, prefix) {
			prefix = prefix[:len(prefix)-1]
			if prefix == "" {
				return ""
			}
		}
	}
	return prefix
}

// KeysOf returns an unsorted list of keys from a Node map.
func KeysOf(m map[string]*Node) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
