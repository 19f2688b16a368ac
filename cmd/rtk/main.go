// rtk extracts interface inventories from rancid-collected router
// configurations.
//
// Usage:
//
//	rtk [flags] report FILE...
//	rtk [flags] section FILE PATTERN...
//	rtk [flags] shell FILE
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/psaab/rtk/pkg/cisco"
	"github.com/psaab/rtk/pkg/cli"
	"github.com/psaab/rtk/pkg/configstore"
	"github.com/psaab/rtk/pkg/inventory"
	"github.com/psaab/rtk/pkg/junos"
	"github.com/psaab/rtk/pkg/logging"
	"github.com/psaab/rtk/pkg/metrics"
)

type options struct {
	format        string
	subnet        bool
	metricsFile   string
	dialect       string
	resume        bool
	flushTrailing bool
}

func main() {
	var opts options
	flag.StringVar(&opts.format, "format", "table", "report format: table or json")
	flag.BoolVar(&opts.subnet, "subnet", false, "include prefix lengths in addresses")
	flag.StringVar(&opts.metricsFile, "metrics-file", "", "write prometheus textfile metrics to this path")
	flag.StringVar(&opts.dialect, "dialect", "auto", "configuration dialect: auto, cisco or juniper")
	flag.BoolVar(&opts.resume, "resume", false, "keep scanning IOS sections after a non-matching top-level line")
	flag.BoolVar(&opts.flushTrailing, "flush-trailing", false, "keep an IOS section that runs to the end of the file")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Usage = usage
	flag.Parse()

	logs := logging.Setup(*debug)

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	var err error
	args := flag.Args()
	switch args[0] {
	case "report":
		err = runReport(context.Background(), opts, args[1:], os.Stdout)
	case "section":
		err = runSection(opts, args[1:], os.Stdout)
	case "shell":
		err = runShell(opts, args[1:], logs)
	default:
		err = fmt.Errorf("unknown command %q", args[0])
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "rtk: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), `usage:
  rtk [flags] report FILE...
  rtk [flags] section FILE PATTERN...
  rtk [flags] shell FILE

flags:
`)
	flag.PrintDefaults()
}

var errSomeFailed = errors.New("some configurations could not be parsed")

// load reads paths and applies the -dialect override.
func load(ctx context.Context, opts options, paths []string) ([]*configstore.Config, error) {
	override := configstore.Unknown
	if opts.dialect != "auto" {
		d, err := configstore.ParseDialect(opts.dialect)
		if err != nil {
			return nil, err
		}
		override = d
	}
	cfgs, err := configstore.LoadAll(ctx, paths)
	if err != nil {
		return nil, err
	}
	if override != configstore.Unknown {
		for _, cfg := range cfgs {
			cfg.Dialect = override
		}
	}
	return cfgs, nil
}

func (o options) inventoryOptions() inventory.Options {
	return inventory.Options{SubnetSize: o.subnet, FlushTrailing: o.flushTrailing, Resume: o.resume}
}

// runReport extracts every file and renders the combined report. Files that
// fail to parse are logged and counted; the report still covers the rest.
func runReport(ctx context.Context, opts options, paths []string, w io.Writer) error {
	if len(paths) == 0 {
		return errors.New("report: no files given")
	}
	if opts.format != "table" && opts.format != "json" {
		return fmt.Errorf("unknown format %q", opts.format)
	}
	cfgs, err := load(ctx, opts, paths)
	if err != nil {
		return err
	}

	collector := metrics.NewCollector()
	var (
		devices []*inventory.Device
		failed  bool
	)
	for _, cfg := range cfgs {
		dev, err := inventory.Extract(cfg, opts.inventoryOptions())
		if err != nil {
			slog.Error("extract failed", "path", cfg.Path, "err", err)
			collector.ObserveError(cfg.Device, cfg.Dialect)
			failed = true
			continue
		}
		collector.Observe(dev)
		devices = append(devices, dev)
	}

	if opts.format == "json" {
		err = inventory.RenderJSON(w, devices)
	} else {
		err = inventory.RenderTable(w, devices)
	}
	if err != nil {
		return err
	}
	if opts.metricsFile != "" {
		if err := metrics.WriteTextfile(opts.metricsFile, collector); err != nil {
			return err
		}
	}
	if failed {
		return errSomeFailed
	}
	return nil
}

// runSection prints the sections of one file selected by patterns.
func runSection(opts options, args []string, w io.Writer) error {
	if len(args) < 2 {
		return errors.New("section: need FILE and at least one PATTERN")
	}
	cfgs, err := load(context.Background(), opts, args[:1])
	if err != nil {
		return err
	}
	cfg := cfgs[0]
	patterns := args[1:]

	switch cfg.Dialect {
	case configstore.Cisco:
		var sopts []cisco.SectionOption
		if opts.resume {
			sopts = append(sopts, cisco.WithResume())
		}
		if opts.flushTrailing {
			sopts = append(sopts, cisco.WithFlushTrailing())
		}
		sections, err := cisco.Section(cfg.Lines, strings.Join(patterns, " "), sopts...)
		if err != nil {
			return err
		}
		cisco.Print(w, sections)
	case configstore.Juniper:
		sel, err := junos.Section(cfg.Lines, patterns...)
		if err != nil {
			return err
		}
		if !sel.IsLeaf() {
			junos.Print(w, sel.Tree())
		}
	default:
		return fmt.Errorf("%s: unsupported dialect %s", cfg.Device, cfg.Dialect)
	}
	return nil
}

func runShell(opts options, args []string, logs *logging.Buffer) error {
	if len(args) != 1 {
		return errors.New("shell: need exactly one FILE")
	}
	cfgs, err := load(context.Background(), opts, args)
	if err != nil {
		return err
	}
	c, err := cli.New(cfgs[0], opts.inventoryOptions(), logs)
	if err != nil {
		return err
	}
	return c.Run()
}
