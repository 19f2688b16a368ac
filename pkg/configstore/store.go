// Package configstore loads device configurations from disk and works out
// which configuration dialect each one is written in.
package configstore

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Dialect identifies the configuration syntax of a device.
type Dialect int

const (
	Unknown Dialect = iota
	Cisco           // indentation-delimited
	Juniper         // brace-delimited
)

func (d Dialect) String() string {
	switch d {
	case Cisco:
		return "cisco"
	case Juniper:
		return "juniper"
	default:
		return "unknown"
	}
}

// ParseDialect maps a dialect or rancid device type name to a Dialect.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "cisco", "ios", "cisco-nx", "cisco-xr", "cisco-xe", "arista", "foundry", "flat":
		return Cisco, nil
	case "juniper", "junos", "juniper-srx", "nested":
		return Juniper, nil
	}
	return Unknown, fmt.Errorf("unknown dialect %q", name)
}

// rancidHeader is the first line rancid writes into every collected config.
const rancidHeader = "RANCID-CONTENT-TYPE:"

// Config is one device configuration read from disk.
type Config struct {
	Path    string
	Device  string
	Dialect Dialect
	Lines   []string
}

// Detect works out the dialect of lines. A rancid content-type header
// decides when present. Otherwise the first statement line that opens a
// brace block marks a Junos config, and a top-level "interface " or
// "hostname " line marks an IOS one.
func Detect(lines []string) Dialect {
	for _, line := range lines {
		if len(line) > 0 && (line[0] == '!' || line[0] == '#') {
			if i := strings.Index(line, rancidHeader); i >= 0 {
				if d, err := ParseDialect(line[i+len(rancidHeader):]); err == nil {
					return d
				}
			}
			continue
		}
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			continue
		case strings.HasSuffix(trimmed, "{"):
			return Juniper
		case strings.HasPrefix(line, "interface "), strings.HasPrefix(line, "hostname "):
			return Cisco
		}
	}
	return Unknown
}

// Load reads the configuration at path. The device name is the file name.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	lines := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), "\n")
	cfg := &Config{
		Path:    path,
		Device:  filepath.Base(path),
		Dialect: Detect(lines),
		Lines:   lines,
	}
	slog.Debug("loaded config", "path", path, "dialect", cfg.Dialect, "lines", len(lines))
	return cfg, nil
}

// LoadAll reads every path concurrently. The result is in the order of
// paths; the first error cancels the remaining reads.
func LoadAll(ctx context.Context, paths []string) ([]*Config, error) {
	cfgs := make([]*Config, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			cfg, err := Load(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			cfgs[i] = cfg
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return cfgs, nil
}
