package ipaddr

import (
	"errors"
	"testing"
)

func TestIsIPv4(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"10.0.0.1", true},
		{"255.255.255.255", true},
		{"2001:db8::1", false},
		{"::ffff:10.0.0.1", false},
		{"dhcp", false},
		{"10.0.0.1/24", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsIPv4(tt.in); got != tt.want {
			t.Errorf("IsIPv4(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNetworkCIDR(t *testing.T) {
	tests := []struct {
		addr, mask string
		want       string
	}{
		{"10.0.0.1", "255.255.255.0", "10.0.0.0/24"},
		{"192.168.1.77", "255.255.255.252", "192.168.1.76/30"},
		{"172.16.5.5", "255.255.0.0", "172.16.0.0/16"},
		{"10.1.2.3", "255.255.255.255", "10.1.2.3/32"},
		{"10.1.2.3", "0.0.0.255", "10.1.2.0/24"},
		{"10.1.2.3", "24", "10.1.2.0/24"},
		{"10.1.2.3", "0.0.0.0", "0.0.0.0/0"},
	}
	for _, tt := range tests {
		got, err := NetworkCIDR(tt.addr, tt.mask)
		if err != nil {
			t.Errorf("NetworkCIDR(%q, %q): %v", tt.addr, tt.mask, err)
			continue
		}
		if got != tt.want {
			t.Errorf("NetworkCIDR(%q, %q) = %q, want %q", tt.addr, tt.mask, got, tt.want)
		}
	}
}

func TestNetworkCIDRErrors(t *testing.T) {
	if _, err := NetworkCIDR("2001:db8::1", "64"); !errors.Is(err, ErrNotIPv4) {
		t.Errorf("IPv6 address: got %v, want ErrNotIPv4", err)
	}
	if _, err := NetworkCIDR("dhcp", ""); !errors.Is(err, ErrNotIPv4) {
		t.Errorf("dhcp: got %v, want ErrNotIPv4", err)
	}
	for _, mask := range []string{"255.0.255.0", "33", "-1", "secondary", ""} {
		if _, err := NetworkCIDR("10.0.0.1", mask); !errors.Is(err, ErrBadMask) {
			t.Errorf("mask %q: got %v, want ErrBadMask", mask, err)
		}
	}
}

func TestCheckOverlap(t *testing.T) {
	if err := CheckOverlap([]string{"10.0.0.0/24", "10.0.1.0/24", "2001:db8::/64"}); err != nil {
		t.Errorf("disjoint prefixes: %v", err)
	}
	if err := CheckOverlap([]string{"10.0.0.0/16", "10.0.5.0/24"}); err == nil {
		t.Error("expected overlap between 10.0.0.0/16 and 10.0.5.0/24")
	}
	if err := CheckOverlap([]string{"10.0.0.1", "bogus"}); err != nil {
		t.Errorf("unparsable entries should be ignored: %v", err)
	}
}
