// Package cli implements the interactive browser over one loaded device
// configuration.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/chzyer/readline"
	"github.com/maruel/natural"

	"github.com/psaab/rtk/pkg/cisco"
	"github.com/psaab/rtk/pkg/cmdtree"
	"github.com/psaab/rtk/pkg/configstore"
	"github.com/psaab/rtk/pkg/inventory"
	"github.com/psaab/rtk/pkg/junos"
	"github.com/psaab/rtk/pkg/logging"
)

// CLI is the interactive command-line interface.
type CLI struct {
	rl   *readline.Instance
	out  io.Writer
	cfg  *configstore.Config
	opts inventory.Options
	dev  *inventory.Device
	tree *junos.Tree // parsed config, Juniper only
	logs *logging.Buffer
}

// New prepares a browser over cfg. Juniper configs are parsed up front so
// a malformed file is reported before the prompt appears. logs may be nil.
func New(cfg *configstore.Config, opts inventory.Options, logs *logging.Buffer) (*CLI, error) {
	dev, err := inventory.Extract(cfg, opts)
	if err != nil {
		return nil, err
	}
	c := &CLI{
		out:  os.Stdout,
		cfg:  cfg,
		opts: opts,
		dev:  dev,
		logs: logs,
	}
	if cfg.Dialect == configstore.Juniper {
		if c.tree, err = junos.Parse(cfg.Lines); err != nil {
			return nil, fmt.Errorf("%s: %w", cfg.Device, err)
		}
	}
	return c, nil
}

// Run starts the interactive CLI loop.
func (c *CLI) Run() error {
	var err error
	c.rl, err = readline.NewEx(&readline.Config{
		Prompt:          c.prompt(),
		HistoryFile:     filepath.Join(os.TempDir(), "rtk_history"),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    &completer{cli: c},
		Listener:        readline.FuncListener(c.helpListener),
	})
	if err != nil {
		return fmt.Errorf("readline init: %w", err)
	}
	defer c.rl.Close()
	c.out = c.rl.Stdout()

	fmt.Fprintf(c.out, "%s: %s configuration, %d interfaces\n", c.dev.Name, c.dev.Dialect, len(c.dev.Records))
	fmt.Fprintln(c.out, "Type '?' for help")
	fmt.Fprintln(c.out)

	for {
		line, err := c.rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			if err == io.EOF {
				break
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if err := c.dispatch(line); err != nil {
			if errors.Is(err, errExit) {
				return nil
			}
			fmt.Fprintf(c.rl.Stderr(), "error: %v\n", err)
		}
	}
	return nil
}

var errExit = errors.New("exit")

func (c *CLI) dispatch(line string) error {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}

	switch parts[0] {
	case "show":
		return c.handleShow(parts[1:])

	case "quit", "exit":
		return errExit

	case "?", "help":
		c.showHelp()
		return nil

	default:
		return fmt.Errorf("unknown command: %s", parts[0])
	}
}

func (c *CLI) handleShow(args []string) error {
	if len(args) == 0 {
		cmdtree.WriteHelp(c.out, cmdtree.HelpCandidates(cmdtree.OperationalTree["show"].Children))
		return nil
	}

	switch args[0] {
	case "interfaces":
		return c.showInterfaces(args[1:])

	case "vrfs":
		return c.showVRFs()

	case "addresses":
		return c.showAddresses(args[1:])

	case "section":
		if len(args) < 2 {
			return fmt.Errorf("usage: show section <pattern>...")
		}
		return c.showSection(args[1:])

	case "filter":
		if len(args) < 3 {
			return fmt.Errorf("usage: show filter <section> <pattern>")
		}
		return c.showFilter(args[1], strings.Join(args[2:], " "))

	case "log":
		c.showLog()
		return nil

	default:
		return fmt.Errorf("unknown show target: %s", args[0])
	}
}

func (c *CLI) showInterfaces(args []string) error {
	if len(args) > 0 {
		r, ok := c.dev.Lookup(args[0])
		if !ok {
			return fmt.Errorf("interface %s not found in configuration", args[0])
		}
		fmt.Fprintf(c.out, "Interface: %s\n", r.Name)
		fmt.Fprintf(c.out, "  Description: %s\n", r.Description)
		if c.cfg.Dialect == configstore.Cisco {
			fmt.Fprintf(c.out, "  VRF: %s\n", r.VRF)
		}
		fmt.Fprintf(c.out, "  IPv4: %s\n", r.IPv4)
		fmt.Fprintf(c.out, "  IPv6: %s\n", r.IPv6)
		return nil
	}
	for _, r := range c.dev.Records {
		fmt.Fprintf(c.out, "%-24s %s\n", r.Name, r.Description)
	}
	return nil
}

func (c *CLI) showVRFs() error {
	if c.cfg.Dialect != configstore.Cisco {
		return fmt.Errorf("vrfs: not available for %s configurations", c.cfg.Dialect)
	}
	for _, r := range c.dev.Records {
		vrf := r.VRF
		if vrf == "" {
			vrf = "-"
		}
		fmt.Fprintf(c.out, "%-24s %s\n", r.Name, vrf)
	}
	return nil
}

func (c *CLI) showAddresses(args []string) error {
	dev := c.dev
	if len(args) > 0 {
		if args[0] != "subnet" {
			return fmt.Errorf("unknown addresses option: %s", args[0])
		}
		opts := c.opts
		opts.SubnetSize = true
		var err error
		if dev, err = inventory.Extract(c.cfg, opts); err != nil {
			return err
		}
	}
	for _, r := range dev.Records {
		if r.IPv4 == "" && r.IPv6 == "" {
			continue
		}
		fmt.Fprintf(c.out, "%-24s %-20s %s\n", r.Name, r.IPv4, r.IPv6)
	}
	for _, w := range dev.Warnings {
		fmt.Fprintf(c.out, "warning: %s\n", w)
	}
	return nil
}

// showSection prints the blocks selected by patterns. IOS patterns are
// joined into one header pattern; Junos patterns select one level each.
func (c *CLI) showSection(patterns []string) error {
	if c.tree == nil {
		sections, err := cisco.Section(c.cfg.Lines, strings.Join(patterns, " "), c.sectionOptions()...)
		if err != nil {
			return err
		}
		cisco.Print(c.out, sections)
		return nil
	}
	sel, err := junos.Select(c.tree, patterns...)
	if err != nil {
		return err
	}
	if sel.IsLeaf() {
		fmt.Fprintln(c.out, strings.Join(patterns, " "))
		return nil
	}
	junos.Print(c.out, sel.Tree())
	return nil
}

func (c *CLI) showFilter(section, pattern string) error {
	if c.tree == nil {
		sections, err := cisco.FilterConfig(c.cfg.Lines, section, pattern, c.sectionOptions()...)
		if err != nil {
			return err
		}
		cisco.Print(c.out, sections)
		return nil
	}
	sel, err := junos.Select(c.tree, section)
	if err != nil {
		return err
	}
	if sel.IsLeaf() {
		return nil
	}
	filtered, err := junos.FilterSection(sel.Tree(), pattern)
	if err != nil {
		return err
	}
	junos.Print(c.out, filtered)
	return nil
}

func (c *CLI) sectionOptions() []cisco.SectionOption {
	opts := []cisco.SectionOption{cisco.WithResume()}
	if c.opts.FlushTrailing {
		opts = append(opts, cisco.WithFlushTrailing())
	}
	return opts
}

func (c *CLI) showLog() {
	if c.logs == nil {
		return
	}
	entries := c.logs.Latest(50)
	if len(entries) == 0 {
		fmt.Fprintln(c.out, "no warnings")
		return
	}
	for _, e := range entries {
		fmt.Fprintln(c.out, e)
	}
}

// InterfaceNames implements cmdtree.Source.
func (c *CLI) InterfaceNames() []string {
	return c.dev.Names()
}

// SectionNames implements cmdtree.Source. For Junos these are the
// top-level statements; for IOS the distinct first words of unindented
// lines.
func (c *CLI) SectionNames() []string {
	if c.tree != nil {
		return c.tree.Keys()
	}
	seen := make(map[string]bool)
	var names []string
	for _, line := range c.cfg.Lines {
		if line == "" || line[0] == ' ' || line[0] == '\t' || line[0] == '!' {
			continue
		}
		word, _, _ := strings.Cut(line, " ")
		if !seen[word] {
			seen[word] = true
			names = append(names, word)
		}
	}
	slices.SortFunc(names, func(a, b string) int {
		switch {
		case a == b:
			return 0
		case natural.Less(a, b):
			return -1
		default:
			return 1
		}
	})
	return names
}

func (c *CLI) prompt() string {
	return fmt.Sprintf("rtk:%s> ", c.dev.Name)
}

func (c *CLI) showHelp() {
	cmdtree.WriteHelp(c.out, cmdtree.HelpCandidates(cmdtree.OperationalTree))
}
