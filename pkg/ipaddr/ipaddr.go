// Package ipaddr renders interface addresses found in configuration text.
package ipaddr

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"strconv"

	cidrlib "github.com/apparentlymart/go-cidr/cidr"
)

var (
	// ErrNotIPv4 is returned when an IPv4 address was required.
	ErrNotIPv4 = errors.New("not an IPv4 address")
	// ErrBadMask is returned for masks that are neither a netmask, a
	// hostmask nor a prefix length.
	ErrBadMask = errors.New("invalid mask")
)

// IsIPv4 reports whether s is a dotted-quad IPv4 address.
func IsIPv4(s string) bool {
	addr, err := netip.ParseAddr(s)
	return err == nil && addr.Is4()
}

// NetworkCIDR returns the network containing addr in CIDR notation.
// mask is a dotted netmask (255.255.255.0), a dotted hostmask (0.0.0.255)
// or a bare prefix length (24).
//
//	NetworkCIDR("10.0.0.1", "255.255.255.0") == "10.0.0.0/24"
func NetworkCIDR(addr, mask string) (string, error) {
	ip, err := netip.ParseAddr(addr)
	if err != nil || !ip.Is4() {
		return "", fmt.Errorf("%w: %q", ErrNotIPv4, addr)
	}
	bits, err := PrefixLen(mask)
	if err != nil {
		return "", err
	}
	prefix, err := ip.Prefix(bits)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrBadMask, mask)
	}
	return prefix.String(), nil
}

// PrefixLen converts an IPv4 mask to its prefix length. Netmasks are tried
// before hostmasks, so 0.0.0.0 is /0 and 255.255.255.255 is /32.
func PrefixLen(mask string) (int, error) {
	if n, err := strconv.Atoi(mask); err == nil {
		if n < 0 || n > 32 {
			return 0, fmt.Errorf("%w: %q", ErrBadMask, mask)
		}
		return n, nil
	}
	ip := net.ParseIP(mask).To4()
	if ip == nil {
		return 0, fmt.Errorf("%w: %q", ErrBadMask, mask)
	}
	if ones, bits := net.IPMask(ip).Size(); bits != 0 {
		return ones, nil
	}
	inverted := make(net.IPMask, len(ip))
	for i, b := range ip {
		inverted[i] = ^b
	}
	if ones, bits := inverted.Size(); bits != 0 {
		return ones, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrBadMask, mask)
}

// CheckOverlap returns an error naming the first pair of IPv4 prefixes that
// share addresses. Entries that do not parse as IPv4 CIDR are ignored.
func CheckOverlap(prefixes []string) error {
	_, all, _ := net.ParseCIDR("0.0.0.0/0")
	subnets := make([]*net.IPNet, 0, len(prefixes))
	for _, p := range prefixes {
		ip, subnet, err := net.ParseCIDR(p)
		if err != nil || ip.To4() == nil {
			continue
		}
		subnets = append(subnets, subnet)
	}
	if len(subnets) < 2 {
		return nil
	}
	return cidrlib.VerifyNoOverlap(subnets, all)
}
