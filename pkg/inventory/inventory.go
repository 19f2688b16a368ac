// Package inventory runs the dialect projectors over a loaded configuration
// and merges their maps into one record per interface.
package inventory

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/maruel/natural"

	"github.com/psaab/rtk/pkg/cisco"
	"github.com/psaab/rtk/pkg/configstore"
	"github.com/psaab/rtk/pkg/ipaddr"
	"github.com/psaab/rtk/pkg/junos"
)

// Record is everything known about one interface.
type Record struct {
	Name        string
	Description string
	VRF         string
	IPv4        string
	IPv6        string
}

// Device is the extracted inventory of one configuration.
type Device struct {
	Name     string
	Dialect  configstore.Dialect
	Records  []Record
	Warnings []string
}

// Options controls extraction.
type Options struct {
	// SubnetSize renders addresses with their prefix length.
	SubnetSize bool
	// FlushTrailing keeps an IOS interface block that runs to the end of
	// the file.
	FlushTrailing bool
	// Resume keeps looking for IOS interface blocks after other top-level
	// statements.
	Resume bool
}

// Extract runs the projectors for cfg's dialect. Records are sorted in
// natural interface order (ge-0/0/2 before ge-0/0/10).
func Extract(cfg *configstore.Config, opts Options) (*Device, error) {
	var (
		descriptions map[string]string
		vrfs         map[string]string
		addresses    map[string]map[string]string
	)
	switch cfg.Dialect {
	case configstore.Cisco:
		var sopts []cisco.SectionOption
		if opts.FlushTrailing {
			sopts = append(sopts, cisco.WithFlushTrailing())
		}
		if opts.Resume {
			sopts = append(sopts, cisco.WithResume())
		}
		descriptions = cisco.Interfaces(cfg.Lines, sopts...)
		vrfs = cisco.VRFs(cfg.Lines, sopts...)
		addresses = cisco.Addresses(cfg.Lines, opts.SubnetSize, sopts...)
	case configstore.Juniper:
		var err error
		if descriptions, err = junos.Interfaces(cfg.Lines); err != nil {
			return nil, fmt.Errorf("%s: interfaces: %w", cfg.Device, err)
		}
		if addresses, err = junos.Addresses(cfg.Lines, opts.SubnetSize); err != nil {
			return nil, fmt.Errorf("%s: addresses: %w", cfg.Device, err)
		}
	default:
		return nil, fmt.Errorf("%s: unsupported dialect %s", cfg.Device, cfg.Dialect)
	}

	dev := &Device{
		Name:    cfg.Device,
		Dialect: cfg.Dialect,
		Records: Merge(descriptions, vrfs, addresses),
	}
	if opts.SubnetSize {
		var v4 []string
		for _, r := range dev.Records {
			if r.IPv4 != "" {
				v4 = append(v4, r.IPv4)
			}
		}
		if err := ipaddr.CheckOverlap(v4); err != nil {
			slog.Warn("overlapping subnets", "device", dev.Name, "err", err)
			dev.Warnings = append(dev.Warnings, err.Error())
		}
	}
	slog.Debug("extracted inventory", "device", dev.Name, "interfaces", len(dev.Records))
	return dev, nil
}

// Merge joins the projector maps into records, one per interface name
// found in any of them.
func Merge(descriptions, vrfs map[string]string, addresses map[string]map[string]string) []Record {
	byName := make(map[string]*Record)
	get := func(name string) *Record {
		r, ok := byName[name]
		if !ok {
			r = &Record{Name: name}
			byName[name] = r
		}
		return r
	}
	for name, d := range descriptions {
		get(name).Description = d
	}
	for name, v := range vrfs {
		get(name).VRF = v
	}
	for name, fams := range addresses {
		r := get(name)
		r.IPv4 = fams[cisco.FamilyIPv4]
		r.IPv6 = fams[cisco.FamilyIPv6]
	}

	records := make([]Record, 0, len(byName))
	for _, r := range byName {
		records = append(records, *r)
	}
	slices.SortFunc(records, func(a, b Record) int {
		switch {
		case a.Name == b.Name:
			return 0
		case natural.Less(a.Name, b.Name):
			return -1
		default:
			return 1
		}
	})
	return records
}

// Names returns the interface names of d in record order.
func (d *Device) Names() []string {
	names := make([]string, len(d.Records))
	for i, r := range d.Records {
		names[i] = r.Name
	}
	return names
}

// Lookup returns the record for name.
func (d *Device) Lookup(name string) (Record, bool) {
	for _, r := range d.Records {
		if r.Name == name {
			return r, true
		}
	}
	return Record{}, false
}
