package cisco

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/psaab/rtk/pkg/ipaddr"
)

var (
	interfaceHeader = regexp.MustCompile(`(?i)^(\s*)(?:interface)`)

	interfaceLine   = regexp.MustCompile(`^interface (.*)`)
	descriptionLine = regexp.MustCompile(`^description (.*)`)
	vrfLine         = regexp.MustCompile(`^(ip )?vrf forwarding (.*)`)
	addressLine     = regexp.MustCompile(`^(ip|ipv6) address (.*)`)
	vlanName        = regexp.MustCompile(`^Vlan`)

	descriptionFilter = regexp.MustCompile(`(?i)^interface|^description`)
	vrfFilter         = regexp.MustCompile(`(?i)^interface|^(ip )?vrf forwarding`)
	addressFilter     = regexp.MustCompile(`(?i)^interface|^ip address|^ipv6 address`)
)

// Address families used as keys of the Addresses inner map.
const (
	FamilyIPv4 = "ip"
	FamilyIPv6 = "ipv6"
)

// fieldProjector folds filtered interface lines into interface -> value.
// Interface lines move it to a new interface; Vlan interfaces put it into
// the suppressed state until the next interface line.
type fieldProjector struct {
	field *regexp.Regexp
	group int

	current  string
	suppress bool
}

// startSection forgets the interface of the previous section. The
// suppression flag is only cleared by the next interface line.
func (p *fieldProjector) startSection() {
	p.current = ""
}

// step consumes one filtered line. ok is false when the line produces no
// update; otherwise key gets value, where value is "" for any line other
// than a matching field line.
func (p *fieldProjector) step(line string) (key, value string, ok bool) {
	if m := interfaceLine.FindStringSubmatch(line); m != nil {
		p.suppress = vlanName.MatchString(m[1])
		if !p.suppress {
			p.current = m[1]
		}
	}
	if p.suppress {
		return "", "", false
	}
	if m := p.field.FindStringSubmatch(line); m != nil {
		return p.current, m[p.group], true
	}
	return p.current, "", true
}

func (p *fieldProjector) run(sections [][]string) map[string]string {
	ret := make(map[string]string)
	for _, sec := range sections {
		p.startSection()
		for _, line := range sec {
			if key, value, ok := p.step(line); ok {
				ret[key] = value
			}
		}
	}
	return ret
}

// Interfaces maps every interface to its description ("" when it has
// none). Vlan interfaces are left out entirely.
func Interfaces(lines []string, opts ...SectionOption) map[string]string {
	sections := filterSection(section(lines, interfaceHeader, opts...), descriptionFilter)
	p := &fieldProjector{field: descriptionLine, group: 1}
	return p.run(sections)
}

// VRFs maps every interface to the VRF it forwards in ("" for the global
// table). Vlan interfaces are left out entirely.
func VRFs(lines []string, opts ...SectionOption) map[string]string {
	sections := filterSection(section(lines, interfaceHeader, opts...), vrfFilter)
	p := &fieldProjector{field: vrfLine, group: 2}
	return p.run(sections)
}

// Addresses maps every interface to its addresses keyed by family
// (FamilyIPv4, FamilyIPv6). Unlike Interfaces and VRFs, Vlan interfaces are
// included. When an interface has several addresses of one family the last
// one wins.
//
// Without withSubnetSize only the bare address is kept. With it, IPv4
// addresses are rendered as their network ("10.0.0.0/24") and IPv6 keeps
// the addr/len text as written; IPv4 entries that cannot be converted are
// skipped.
func Addresses(lines []string, withSubnetSize bool, opts ...SectionOption) map[string]map[string]string {
	sections := filterSection(section(lines, interfaceHeader, opts...), addressFilter)
	ret := make(map[string]map[string]string)
	for _, sec := range sections {
		current := ""
		for _, line := range sec {
			if m := interfaceLine.FindStringSubmatch(line); m != nil {
				current = m[1]
			}
			if current == "" {
				continue
			}
			m := addressLine.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			family, rest := m[1], m[2]
			address, ok := renderAddress(family, rest, withSubnetSize)
			if !ok {
				slog.Debug("skipping address", "interface", current, "line", line)
				continue
			}
			if ret[current] == nil {
				ret[current] = make(map[string]string)
			}
			ret[current][family] = address
		}
	}
	return ret
}

func renderAddress(family, rest string, withSubnetSize bool) (string, bool) {
	switch {
	case family == FamilyIPv4 && withSubnetSize:
		fields := strings.Split(rest, " ")
		if !ipaddr.IsIPv4(fields[0]) || len(fields) < 2 {
			return "", false
		}
		network, err := ipaddr.NetworkCIDR(fields[0], fields[1])
		if err != nil {
			return "", false
		}
		return network, true
	case family == FamilyIPv6 && withSubnetSize:
		return strings.Split(rest, " ")[0], true
	default:
		if i := strings.IndexAny(rest, "/ "); i >= 0 {
			return rest[:i], true
		}
		return rest, true
	}
}
