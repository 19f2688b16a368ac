package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/psaab/rtk/pkg/cmdtree"
)

// completer implements readline.AutoCompleter over cmdtree.OperationalTree.
type completer struct {
	cli *CLI
}

// splitLine returns the completed words of text and the partial word being
// typed, which is empty after a trailing space.
func splitLine(text string) (words []string, partial string) {
	words = strings.Fields(text)
	trailingSpace := len(text) > 0 && text[len(text)-1] == ' '
	if !trailingSpace && len(words) > 0 {
		partial = words[len(words)-1]
		words = words[:len(words)-1]
	}
	return words, partial
}

func (cp *completer) Do(line []rune, pos int) ([][]rune, int) {
	words, partial := splitLine(string(line[:pos]))
	candidates := cmdtree.CompleteFromTreeWithDesc(cmdtree.OperationalTree, words, partial, cp.cli)
	if len(candidates) == 0 {
		return nil, 0
	}

	if len(candidates) == 1 {
		suffix := candidates[0].Name[len(partial):]
		return [][]rune{[]rune(suffix + " ")}, len(partial)
	}

	// Multiple matches: show descriptions above prompt.
	cmdtree.WriteHelp(cp.cli.stdout(), candidates)

	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.Name
	}
	sort.Strings(names)
	suffix := cmdtree.CommonPrefix(names)[len(partial):]
	if suffix == "" {
		return nil, 0
	}
	return [][]rune{[]rune(suffix)}, len(partial)
}

// helpListener prints the candidates for the current position when '?' is
// typed, and removes the '?' readline already inserted.
func (c *CLI) helpListener(line []rune, pos int, key rune) ([]rune, int, bool) {
	if key != '?' || pos < 1 {
		return line, pos, false
	}
	cleanLine := make([]rune, 0, len(line)-1)
	cleanLine = append(cleanLine, line[:pos-1]...)
	cleanLine = append(cleanLine, line[pos:]...)

	words, partial := splitLine(string(cleanLine[:pos-1]))
	candidates := cmdtree.CompleteFromTreeWithDesc(cmdtree.OperationalTree, words, partial, c)
	if len(candidates) == 0 {
		fmt.Fprintln(c.stdout(), "  (no help available)")
		return cleanLine, pos - 1, true
	}
	cmdtree.WriteHelp(c.stdout(), candidates)
	return cleanLine, pos - 1, true
}

func (c *CLI) stdout() io.Writer {
	if c.rl != nil {
		return c.rl.Stdout()
	}
	return c.out
}
