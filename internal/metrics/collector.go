// Package metrics provides a lightweight metrics collector for channelog.
// It outputs Prometheus text exposition format without pulling in the heavy
// prometheus/client_golang dependency; for a one-shot CLI the values are
// dumped at the end of a run instead of being scraped.
package metrics

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Collector is the global metrics collector.
var Collector = NewMetricsCollector()

// MetricsCollector aggregates counters and gauges.
type MetricsCollector struct {
	counters  sync.Map // name -> *Counter
	gauges    sync.Map // name -> *Gauge
	startTime time.Time
}

// NewMetricsCollector creates a new collector.
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{startTime: time.Now()}
}

// Uptime returns how long the collector has been running.
func (c *MetricsCollector) Uptime() time.Duration {
	return time.Since(c.startTime)
}

// Counter is a monotonically increasing counter.
type Counter struct {
	name  string
	help  string
	value atomic.Int64
}

// Inc increments the counter by 1.
func (c *Counter) Inc() { c.value.Add(1) }

// Add increments the counter by n.
func (c *Counter) Add(n int64) { c.value.Add(n) }

// Value returns the current counter value.
func (c *Counter) Value() int64 { return c.value.Load() }

// Gauge is a value that can go up and down.
type Gauge struct {
	name  string
	help  string
	value atomic.Int64
}

// Set sets the gauge to the given value.
func (g *Gauge) Set(v int64) { g.value.Store(v) }

// Inc increments the gauge by 1.
func (g *Gauge) Inc() { g.value.Add(1) }

// Value returns the current gauge value.
func (g *Gauge) Value() int64 { return g.value.Load() }

// Counter returns (creating if needed) the named counter.
func (c *MetricsCollector) Counter(name, help string) *Counter {
	if v, ok := c.counters.Load(name); ok {
		return v.(*Counter)
	}
	ctr := &Counter{name: name, help: help}
	actual, _ := c.counters.LoadOrStore(name, ctr)
	return actual.(*Counter)
}

// Gauge returns (creating if needed) the named gauge.
func (c *MetricsCollector) Gauge(name, help string) *Gauge {
	if v, ok := c.gauges.Load(name); ok {
		return v.(*Gauge)
	}
	g := &Gauge{name: name, help: help}
	actual, _ := c.gauges.LoadOrStore(name, g)
	return actual.(*Gauge)
}

// WriteTo renders all metrics in Prometheus text exposition format.
func (c *MetricsCollector) WriteTo(w io.Writer) {
	var lines []string
	c.counters.Range(func(_, v any) bool {
		ctr := v.(*Counter)
		lines = append(lines, fmt.Sprintf("# HELP %s %s\n# TYPE %s counter\n%s %d\n",
			ctr.name, ctr.help, ctr.name, ctr.name, ctr.Value()))
		return true
	})
	c.gauges.Range(func(_, v any) bool {
		g := v.(*Gauge)
		lines = append(lines, fmt.Sprintf("# HELP %s %s\n# TYPE %s gauge\n%s %d\n",
			g.name, g.help, g.name, g.name, g.Value()))
		return true
	})
	sort.Strings(lines)
	for _, l := range lines {
		io.WriteString(w, l)
	}
}
