package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/psaab/rtk/pkg/configstore"
	"github.com/psaab/rtk/pkg/inventory"
)

func testCollector() *Collector {
	c := NewCollector()
	c.Observe(&inventory.Device{
		Name:    "core1",
		Dialect: configstore.Cisco,
		Records: []inventory.Record{
			{Name: "Gi0/1", Description: "uplink", IPv4: "10.0.0.1", IPv6: "2001:db8::1"},
			{Name: "Gi0/2"},
			{Name: "Vlan10", IPv4: "10.10.0.1"},
		},
	})
	c.ObserveError("edge1", configstore.Juniper)
	c.ObserveError("edge1", configstore.Juniper)
	return c
}

func TestCollector(t *testing.T) {
	want := `
# HELP rtk_interfaces Interfaces found in the device configuration.
# TYPE rtk_interfaces gauge
rtk_interfaces{device="core1",dialect="cisco"} 3
# HELP rtk_interfaces_addressed Interfaces with an address of the given family.
# TYPE rtk_interfaces_addressed gauge
rtk_interfaces_addressed{device="core1",dialect="cisco",family="ipv4"} 2
rtk_interfaces_addressed{device="core1",dialect="cisco",family="ipv6"} 1
# HELP rtk_interfaces_described Interfaces with a description.
# TYPE rtk_interfaces_described gauge
rtk_interfaces_described{device="core1",dialect="cisco"} 1
# HELP rtk_parse_errors_total Configurations that could not be parsed.
# TYPE rtk_parse_errors_total counter
rtk_parse_errors_total{device="edge1",dialect="juniper"} 2
`
	if err := testutil.CollectAndCompare(testCollector(), strings.NewReader(want)); err != nil {
		t.Error(err)
	}
}

func TestCollectorEmpty(t *testing.T) {
	if n := testutil.CollectAndCount(NewCollector()); n != 0 {
		t.Errorf("CollectAndCount = %d, want 0", n)
	}
}

func TestWriteTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rtk.prom")
	if err := WriteTextfile(path, testCollector()); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, s := range []string{
		`rtk_interfaces{device="core1",dialect="cisco"} 3`,
		`rtk_parse_errors_total{device="edge1",dialect="juniper"} 2`,
	} {
		if !strings.Contains(string(data), s) {
			t.Errorf("textfile missing %q:\n%s", s, data)
		}
	}
}
