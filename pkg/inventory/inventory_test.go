package inventory

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/psaab/rtk/pkg/configstore"
)

const iosConfig = `!RANCID-CONTENT-TYPE: cisco
hostname core1
!
interface GigabitEthernet0/10
 description backbone
 ip address 10.0.10.1 255.255.255.0
!
interface GigabitEthernet0/2
 description customer
 vrf forwarding CUST
 ip address 10.0.10.2 255.255.255.0
 ipv6 address 2001:db8::2/64
!
interface Vlan100
 ip address 192.168.100.1 255.255.255.0
!
router ospf 1
`

const junosConfig = `interfaces {
    ge-0/0/10 {
        unit 0 {
            family inet { address 192.0.2.1/30; }
        }
    }
    ge-0/0/2 {
        description "uplink";
        unit 0 {
            description "transit";
            family inet6 { address 2001:db8:1::1/64; }
        }
    }
}`

func config(name, text string) *configstore.Config {
	lines := strings.Split(text, "\n")
	return &configstore.Config{Device: name, Dialect: configstore.Detect(lines), Lines: lines}
}

func TestExtractCisco(t *testing.T) {
	dev, err := Extract(config("core1", iosConfig), Options{})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if dev.Dialect != configstore.Cisco {
		t.Errorf("Dialect = %s, want cisco", dev.Dialect)
	}
	want := []Record{
		{Name: "GigabitEthernet0/2", Description: "customer", VRF: "CUST", IPv4: "10.0.10.2", IPv6: "2001:db8::2"},
		{Name: "GigabitEthernet0/10", Description: "backbone", IPv4: "10.0.10.1"},
		{Name: "Vlan100", IPv4: "192.168.100.1"},
	}
	if !reflect.DeepEqual(dev.Records, want) {
		t.Errorf("Records = %+v, want %+v", dev.Records, want)
	}
	if len(dev.Warnings) != 0 {
		t.Errorf("unexpected warnings %q", dev.Warnings)
	}
}

func TestExtractResume(t *testing.T) {
	text := iosConfig + "interface Loopback0\n ip address 192.0.2.1 255.255.255.255\n!\nend\n"
	dev, err := Extract(config("core1", text), Options{})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if _, ok := dev.Lookup("Loopback0"); ok {
		t.Error("Loopback0 after the terminator should be skipped by default")
	}
	dev, err = Extract(config("core1", text), Options{Resume: true})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if r, ok := dev.Lookup("Loopback0"); !ok || r.IPv4 != "192.0.2.1" {
		t.Errorf("Loopback0 = %+v, %v", r, ok)
	}
}

func TestExtractSubnetOverlap(t *testing.T) {
	dev, err := Extract(config("core1", iosConfig), Options{SubnetSize: true})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	r, ok := dev.Lookup("GigabitEthernet0/10")
	if !ok {
		t.Fatal("GigabitEthernet0/10 missing")
	}
	if r.IPv4 != "10.0.10.0/24" {
		t.Errorf("IPv4 = %q, want %q", r.IPv4, "10.0.10.0/24")
	}
	if len(dev.Warnings) != 1 {
		t.Errorf("expected one overlap warning, got %q", dev.Warnings)
	}
}

func TestExtractJunos(t *testing.T) {
	dev, err := Extract(config("edge1", junosConfig), Options{SubnetSize: true})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := []Record{
		{Name: "ge-0/0/2", Description: "uplink"},
		{Name: "ge-0/0/2.0", Description: "transit", IPv6: "2001:db8:1::1/64"},
		{Name: "ge-0/0/10.0", IPv4: "192.0.2.1/30"},
	}
	if !reflect.DeepEqual(dev.Records, want) {
		t.Errorf("Records = %+v, want %+v", dev.Records, want)
	}
	if names := dev.Names(); !reflect.DeepEqual(names, []string{"ge-0/0/2", "ge-0/0/2.0", "ge-0/0/10.0"}) {
		t.Errorf("Names = %q", names)
	}
}

func TestExtractErrors(t *testing.T) {
	if _, err := Extract(config("x", "interfaces {"), Options{}); err == nil {
		t.Error("expected parse error")
	}
	cfg := &configstore.Config{Device: "x", Lines: []string{"foo"}}
	if _, err := Extract(cfg, Options{}); err == nil {
		t.Error("expected unsupported dialect error")
	}
}

func TestMerge(t *testing.T) {
	got := Merge(
		map[string]string{"eth10": "b", "eth2": "a"},
		map[string]string{"eth2": "red"},
		map[string]map[string]string{"eth3": {"ip": "10.0.0.3"}},
	)
	want := []Record{
		{Name: "eth2", Description: "a", VRF: "red"},
		{Name: "eth3", IPv4: "10.0.0.3"},
		{Name: "eth10", Description: "b"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Merge = %+v, want %+v", got, want)
	}
}

func TestRenderTable(t *testing.T) {
	dev, err := Extract(config("core1", iosConfig), Options{})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	var buf bytes.Buffer
	if err := RenderTable(&buf, []*Device{dev}); err != nil {
		t.Fatalf("RenderTable: %v", err)
	}
	out := buf.String()
	for _, s := range []string{"GigabitEthernet0/2", "customer", "CUST", "10.0.10.2", "Vlan100"} {
		if !strings.Contains(out, s) {
			t.Errorf("table missing %q:\n%s", s, out)
		}
	}
	if strings.Index(out, "GigabitEthernet0/2 ") > strings.Index(out, "GigabitEthernet0/10") {
		t.Errorf("rows not in natural order:\n%s", out)
	}
}

func TestRenderJSON(t *testing.T) {
	dev, err := Extract(config("edge1", junosConfig), Options{})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	dev.Warnings = []string{"overlap"}
	var buf bytes.Buffer
	if err := RenderJSON(&buf, []*Device{dev}); err != nil {
		t.Fatalf("RenderJSON: %v", err)
	}

	var doc struct {
		Devices []struct {
			Name       string              `json:"name"`
			Dialect    string              `json:"dialect"`
			Interfaces []map[string]string `json:"interfaces"`
			Warnings   []string            `json:"warnings"`
		} `json:"devices"`
	}
	if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, buf.String())
	}
	if len(doc.Devices) != 1 {
		t.Fatalf("devices = %d, want 1", len(doc.Devices))
	}
	d := doc.Devices[0]
	if d.Name != "edge1" || d.Dialect != "juniper" {
		t.Errorf("device = %q/%q", d.Name, d.Dialect)
	}
	if !reflect.DeepEqual(d.Warnings, []string{"overlap"}) {
		t.Errorf("warnings = %q", d.Warnings)
	}
	want := []map[string]string{
		{"name": "ge-0/0/2", "description": "uplink"},
		{"name": "ge-0/0/2.0", "description": "transit", "ipv6": "2001:db8:1::1"},
		{"name": "ge-0/0/10.0", "ipv4": "192.0.2.1"},
	}
	if !reflect.DeepEqual(d.Interfaces, want) {
		t.Errorf("interfaces = %v, want %v", d.Interfaces, want)
	}
}
