package junos

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrUnbalanced is returned when the braces of the input do not pair up.
	ErrUnbalanced = errors.New("unbalanced braces")
	// ErrAnonymousBlock is returned for a '{' with no statement before it.
	ErrAnonymousBlock = errors.New("block without statement")
)

// ParseError describes where parsing stopped. Offset counts bytes into the
// normalized text (comments removed, whitespace collapsed).
type ParseError struct {
	Offset int
	Near   string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Near == "" {
		return fmt.Sprintf("offset %d: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("offset %d near %q: %v", e.Offset, e.Near, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var (
	blockComment = regexp.MustCompile(`(?s)/\*.*?\*/`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// Normalize flattens configuration lines into the single-line form the
// parser works on: '#' comment lines are dropped, /* */ comments removed and
// every whitespace run collapsed to one space.
func Normalize(lines []string) string {
	var b strings.Builder
	for _, line := range lines {
		if strings.HasPrefix(line, "#") {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	flat := blockComment.ReplaceAllString(b.String(), " ")
	return whitespace.ReplaceAllString(flat, " ")
}

// Parser builds a Tree from normalized configuration text.
type Parser struct {
	input string
	pos   int
}

// NewParser returns a parser for text already passed through Normalize.
func NewParser(text string) *Parser {
	return &Parser{input: text + "}"}
}

// Parse reads the whole input as the body of the root block.
func (p *Parser) Parse() (*Tree, error) {
	tree, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	if rest := p.input[p.pos:]; strings.TrimSpace(rest) != "" {
		return nil, p.errorf(p.pos-1, ErrUnbalanced, "unexpected '}'")
	}
	return tree, nil
}

// parseBlock consumes statements up to and including the '}' that closes
// the current block.
func (p *Parser) parseBlock() (*Tree, error) {
	tree := NewTree()
	for {
		i := strings.IndexAny(p.input[p.pos:], "{}")
		if i < 0 {
			return nil, p.errorf(len(p.input), ErrUnbalanced, "missing '}'")
		}
		content := p.input[p.pos : p.pos+i]
		delim := p.input[p.pos+i]
		at := p.pos + i
		p.pos = at + 1

		stmts := strings.Split(content, ";")
		if delim == '}' {
			addLeaves(tree, stmts)
			return tree, nil
		}

		key := strings.TrimSpace(stmts[len(stmts)-1])
		if key == "" {
			return nil, p.errorf(at, ErrAnonymousBlock, "")
		}
		addLeaves(tree, stmts[:len(stmts)-1])
		child, err := p.parseBlock()
		if err != nil {
			return nil, err
		}
		tree.Set(key, Subtree(child))
	}
}

func addLeaves(tree *Tree, stmts []string) {
	for _, s := range stmts {
		if s = strings.TrimSpace(s); s != "" {
			tree.Set(s, Leaf())
		}
	}
}

func (p *Parser) errorf(offset int, err error, detail string) error {
	if detail != "" {
		err = fmt.Errorf("%w: %s", err, detail)
	}
	// The sentinel '}' is not part of the caller's text.
	text := p.input[:len(p.input)-1]
	if offset > len(text) {
		offset = len(text)
	}
	start := max(offset-20, 0)
	return &ParseError{
		Offset: offset,
		Near:   strings.TrimSpace(text[start:offset]),
		Err:    err,
	}
}

// Parse parses configuration lines into a Tree. Unbalanced input is an
// error; no partial tree is returned.
func Parse(lines []string) (*Tree, error) {
	return NewParser(Normalize(lines)).Parse()
}

// ParseString is Parse for a configuration held in one string.
func ParseString(text string) (*Tree, error) {
	return Parse(strings.Split(text, "\n"))
}
