// Package cisco extracts interface data from indentation-delimited
// (IOS-style) configurations.
//
// The pipeline is Section -> FilterSection -> projector. Section groups the
// raw lines into blocks opened by a header pattern, FilterSection keeps the
// lines of interest inside each block, and the projectors (Interfaces, VRFs,
// Addresses) fold the filtered blocks into maps keyed by interface name.
package cisco

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode"
)

// ErrBadPattern is returned when a caller-supplied pattern does not compile.
var ErrBadPattern = errors.New("invalid pattern")

// SectionOption tunes how Section treats the edges of a scan.
type SectionOption func(*sectionOptions)

type sectionOptions struct {
	flushTrailing bool
	resume        bool
}

// WithFlushTrailing makes Section return a section that is still open when
// the input ends. By default such a section is dropped.
func WithFlushTrailing() SectionOption {
	return func(o *sectionOptions) { o.flushTrailing = true }
}

// WithResume keeps scanning for section headers after a block is closed by
// a line that does not open a new one. By default the scan stops there.
func WithResume() SectionOption {
	return func(o *sectionOptions) { o.resume = true }
}

// Section splits lines into the blocks whose header matches pattern.
// pattern is matched case-insensitively at the start of a line, after any
// leading whitespace. Each returned section starts with its header line.
//
// The whitespace before the header is the section's indentation. A later
// line with a non-space character at or before that column closes the
// section; if that line is itself a header, it opens the next section,
// otherwise the scan ends. Lines starting with '!' are ignored.
func Section(lines []string, pattern string, opts ...SectionOption) ([][]string, error) {
	re, err := headerRegexp(pattern)
	if err != nil {
		return nil, err
	}
	return section(lines, re, opts...), nil
}

func headerRegexp(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile(`(?i)^(\s*)(?:` + pattern + `)`)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrBadPattern, pattern, err)
	}
	return re, nil
}

func section(lines []string, header *regexp.Regexp, opts ...SectionOption) [][]string {
	var o sectionOptions
	for _, opt := range opts {
		opt(&o)
	}

	var (
		sections  [][]string
		current   []string
		indent    string
		inSection bool
	)
	for _, line := range lines {
		if strings.HasPrefix(line, "!") {
			continue
		}
		if m := header.FindStringSubmatch(line); m != nil {
			if inSection {
				sections = append(sections, current)
			}
			indent = m[1]
			current = []string{line}
			inSection = true
			continue
		}
		if !inSection {
			continue
		}
		if closesSection(line, indent) {
			sections = append(sections, current)
			current = nil
			inSection = false
			if !o.resume {
				return sections
			}
			continue
		}
		current = append(current, line)
	}
	if inSection && o.flushTrailing {
		sections = append(sections, current)
	}
	return sections
}

// closesSection reports whether line starts at or left of the column
// given by indent. Blank lines never close a section.
func closesSection(line, indent string) bool {
	body := strings.TrimLeftFunc(line, unicode.IsSpace)
	if strings.TrimSpace(body) == "" {
		return false
	}
	return len(line)-len(body) <= len(indent)
}

// FilterSection strips leading whitespace from every line and keeps the
// lines matching pattern (case-insensitive, unanchored). The result has one
// entry per input section, possibly empty.
func FilterSection(sections [][]string, pattern string) ([][]string, error) {
	re, err := regexp.Compile(`(?i)` + pattern)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrBadPattern, pattern, err)
	}
	return filterSection(sections, re), nil
}

func filterSection(sections [][]string, re *regexp.Regexp) [][]string {
	ret := make([][]string, 0, len(sections))
	for _, sec := range sections {
		var kept []string
		for _, line := range sec {
			line = strings.TrimRight(strings.TrimLeftFunc(line, unicode.IsSpace), "\r\n")
			if re.MatchString(line) {
				kept = append(kept, line)
			}
		}
		ret = append(ret, kept)
	}
	return ret
}

// FilterConfig runs Section with sectionPattern and filters the result
// with linePattern.
func FilterConfig(lines []string, sectionPattern, linePattern string, opts ...SectionOption) ([][]string, error) {
	sections, err := Section(lines, sectionPattern, opts...)
	if err != nil {
		return nil, err
	}
	return FilterSection(sections, linePattern)
}

// Print writes every line of every section to w, one per line.
func Print(w io.Writer, sections [][]string) {
	for _, sec := range sections {
		for _, line := range sec {
			fmt.Fprintln(w, line)
		}
	}
}
