// Package metrics exposes extracted inventories as prometheus gauges and
// writes them in node_exporter textfile format.
package metrics

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/psaab/rtk/pkg/configstore"
	"github.com/psaab/rtk/pkg/inventory"
)

// Collector implements prometheus.Collector over the devices recorded with
// Observe. Values are computed on each scrape.
type Collector struct {
	mu        sync.Mutex
	devices   []*inventory.Device
	errCounts map[deviceKey]int

	interfaces       *prometheus.Desc
	described        *prometheus.Desc
	addressed        *prometheus.Desc
	parseErrorsTotal *prometheus.Desc
}

type deviceKey struct {
	device  string
	dialect string
}

func NewCollector() *Collector {
	labels := []string{"device", "dialect"}
	return &Collector{
		errCounts: make(map[deviceKey]int),

		interfaces: prometheus.NewDesc(
			"rtk_interfaces",
			"Interfaces found in the device configuration.",
			labels, nil,
		),
		described: prometheus.NewDesc(
			"rtk_interfaces_described",
			"Interfaces with a description.",
			labels, nil,
		),
		addressed: prometheus.NewDesc(
			"rtk_interfaces_addressed",
			"Interfaces with an address of the given family.",
			append(labels, "family"), nil,
		),
		parseErrorsTotal: prometheus.NewDesc(
			"rtk_parse_errors_total",
			"Configurations that could not be parsed.",
			labels, nil,
		),
	}
}

// Observe records an extracted device.
func (c *Collector) Observe(d *inventory.Device) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.devices = append(c.devices, d)
}

// ObserveError records a configuration that failed to parse.
func (c *Collector) ObserveError(device string, dialect configstore.Dialect) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errCounts[deviceKey{device, dialect.String()}]++
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.interfaces
	ch <- c.described
	ch <- c.addressed
	ch <- c.parseErrorsTotal
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, d := range c.devices {
		var described, v4, v6 int
		for _, r := range d.Records {
			if r.Description != "" {
				described++
			}
			if r.IPv4 != "" {
				v4++
			}
			if r.IPv6 != "" {
				v6++
			}
		}
		dialect := d.Dialect.String()
		ch <- prometheus.MustNewConstMetric(c.interfaces, prometheus.GaugeValue,
			float64(len(d.Records)), d.Name, dialect)
		ch <- prometheus.MustNewConstMetric(c.described, prometheus.GaugeValue,
			float64(described), d.Name, dialect)
		ch <- prometheus.MustNewConstMetric(c.addressed, prometheus.GaugeValue,
			float64(v4), d.Name, dialect, "ipv4")
		ch <- prometheus.MustNewConstMetric(c.addressed, prometheus.GaugeValue,
			float64(v6), d.Name, dialect, "ipv6")
	}
	for k, n := range c.errCounts {
		ch <- prometheus.MustNewConstMetric(c.parseErrorsTotal, prometheus.CounterValue,
			float64(n), k.device, k.dialect)
	}
}

// WriteTextfile writes the collector's metrics to path atomically, for the
// node_exporter textfile collector.
func WriteTextfile(path string, c *Collector) error {
	reg := prometheus.NewRegistry()
	if err := reg.Register(c); err != nil {
		return fmt.Errorf("register collector: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
