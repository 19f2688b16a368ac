package inventory

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"
	"github.com/olekukonko/tablewriter/tw"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

var tableHeaders = []string{"Device", "Interface", "Description", "VRF", "IPv4", "IPv6"}

// RenderTable writes one row per interface across all devices.
func RenderTable(w io.Writer, devices []*Device) error {
	cell := tw.CellConfig{
		Formatting: tw.CellFormatting{
			AutoWrap:  tw.WrapNormal,
			Alignment: tw.AlignLeft,
		},
		Padding: tw.CellPadding{Global: tw.Padding{Right: "    "}},
	}
	rendition := tw.Rendition{
		Borders: tw.BorderNone,
		Settings: tw.Settings{
			Lines:      tw.LinesNone,
			Separators: tw.SeparatorsNone,
		},
	}
	table := tablewriter.NewTable(w,
		tablewriter.WithRenderer(renderer.NewBlueprint(rendition)),
		tablewriter.WithConfig(tablewriter.Config{Row: cell, Header: cell}),
	)
	table.Header(tableHeaders)

	var rows [][]string
	for _, d := range devices {
		for _, r := range d.Records {
			rows = append(rows, []string{d.Name, r.Name, r.Description, r.VRF, r.IPv4, r.IPv6})
		}
	}
	if err := table.Bulk(rows); err != nil {
		return fmt.Errorf("table rows: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("render table: %w", err)
	}
	return nil
}

// RenderJSON writes devices as a JSON document:
//
//	{"devices": [{"name": ..., "dialect": ..., "interfaces": [...], "warnings": [...]}]}
//
// Empty record fields are omitted.
func RenderJSON(w io.Writer, devices []*Device) error {
	list := make([]any, 0, len(devices))
	for _, d := range devices {
		list = append(list, deviceMap(d))
	}
	doc, err := structpb.NewStruct(map[string]any{"devices": list})
	if err != nil {
		return fmt.Errorf("build json: %w", err)
	}
	out, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if _, err := w.Write(append(out, '\n')); err != nil {
		return err
	}
	return nil
}

func deviceMap(d *Device) map[string]any {
	ifaces := make([]any, 0, len(d.Records))
	for _, r := range d.Records {
		m := map[string]any{"name": r.Name}
		for k, v := range map[string]string{
			"description": r.Description,
			"vrf":         r.VRF,
			"ipv4":        r.IPv4,
			"ipv6":        r.IPv6,
		} {
			if v != "" {
				m[k] = v
			}
		}
		ifaces = append(ifaces, m)
	}
	out := map[string]any{
		"name":       d.Name,
		"dialect":    d.Dialect.String(),
		"interfaces": ifaces,
	}
	if len(d.Warnings) > 0 {
		warnings := make([]any, len(d.Warnings))
		for i, s := range d.Warnings {
			warnings[i] = s
		}
		out["warnings"] = warnings
	}
	return out
}
