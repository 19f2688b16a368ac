package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const iosConfig = `!RANCID-CONTENT-TYPE: cisco
hostname core1
!
interface GigabitEthernet0/1
 description uplink
 ip address 10.0.0.1 255.255.255.0
!
router ospf 1
 network 10.0.0.0 0.0.0.255 area 0
!
`

const junosConfig = `#RANCID-CONTENT-TYPE: juniper
interfaces {
    ge-0/0/0 {
        description "WAN";
        unit 0 { family inet { address 198.51.100.2/30; } }
    }
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func defaultOptions() options {
	return options{format: "table", dialect: "auto"}
}

func TestRunReport(t *testing.T) {
	dir := t.TempDir()
	ios := writeFile(t, dir, "core1", iosConfig)
	junos := writeFile(t, dir, "edge1", junosConfig)

	opts := defaultOptions()
	opts.metricsFile = filepath.Join(dir, "rtk.prom")
	var buf bytes.Buffer
	if err := runReport(context.Background(), opts, []string{ios, junos}, &buf); err != nil {
		t.Fatalf("runReport: %v", err)
	}
	for _, s := range []string{"core1", "GigabitEthernet0/1", "uplink", "edge1", "ge-0/0/0.0", "198.51.100.2"} {
		if !strings.Contains(buf.String(), s) {
			t.Errorf("report missing %q:\n%s", s, buf.String())
		}
	}
	data, err := os.ReadFile(opts.metricsFile)
	if err != nil {
		t.Fatalf("metrics file: %v", err)
	}
	if !strings.Contains(string(data), `rtk_interfaces{device="edge1",dialect="juniper"} 2`) {
		t.Errorf("metrics file:\n%s", data)
	}
}

func TestRunReportJSON(t *testing.T) {
	dir := t.TempDir()
	junos := writeFile(t, dir, "edge1", junosConfig)
	opts := defaultOptions()
	opts.format = "json"
	opts.subnet = true
	var buf bytes.Buffer
	if err := runReport(context.Background(), opts, []string{junos}, &buf); err != nil {
		t.Fatalf("runReport: %v", err)
	}
	if !strings.Contains(buf.String(), "198.51.100.2/30") {
		t.Errorf("json report:\n%s", buf.String())
	}
}

func TestRunReportErrors(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad", "interfaces {\n")
	good := writeFile(t, dir, "edge1", junosConfig)

	var buf bytes.Buffer
	err := runReport(context.Background(), defaultOptions(), []string{bad, good}, &buf)
	if !errors.Is(err, errSomeFailed) {
		t.Errorf("got %v, want errSomeFailed", err)
	}
	if !strings.Contains(buf.String(), "ge-0/0/0") {
		t.Errorf("good file missing from report:\n%s", buf.String())
	}

	if err := runReport(context.Background(), defaultOptions(), nil, &buf); err == nil {
		t.Error("expected error without files")
	}
	opts := defaultOptions()
	opts.format = "xml"
	if err := runReport(context.Background(), opts, []string{good}, &buf); err == nil {
		t.Error("expected error for unknown format")
	}
	opts = defaultOptions()
	opts.dialect = "mikrotik"
	if err := runReport(context.Background(), opts, []string{good}, &buf); err == nil {
		t.Error("expected error for unknown dialect")
	}
}

func TestRunSection(t *testing.T) {
	dir := t.TempDir()
	ios := writeFile(t, dir, "core1", iosConfig)
	junos := writeFile(t, dir, "edge1", junosConfig)

	var buf bytes.Buffer
	if err := runSection(defaultOptions(), []string{ios, "interface"}, &buf); err != nil {
		t.Fatalf("runSection: %v", err)
	}
	want := "interface GigabitEthernet0/1\n description uplink\n ip address 10.0.0.1 255.255.255.0\n"
	if buf.String() != want {
		t.Errorf("cisco section =\n%q\nwant\n%q", buf.String(), want)
	}

	buf.Reset()
	if err := runSection(defaultOptions(), []string{junos, "interfaces", "ge-0/0/0"}, &buf); err != nil {
		t.Fatalf("runSection: %v", err)
	}
	if !strings.HasPrefix(buf.String(), "description \"WAN\"\nunit 0 {\n") {
		t.Errorf("junos section =\n%s", buf.String())
	}

	if err := runSection(defaultOptions(), []string{ios}, &buf); err == nil {
		t.Error("expected usage error")
	}
}
