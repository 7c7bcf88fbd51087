package metrics

import (
	"strings"
	"testing"
)

func TestCounter_SameNameSameInstance(t *testing.T) {
	c := NewMetricsCollector()
	a := c.Counter("test_total", "help")
	b := c.Counter("test_total", "other help")
	a.Inc()
	b.Add(2)
	if a.Value() != 3 {
		t.Fatalf("got %d", a.Value())
	}
}

func TestGauge_SetAndInc(t *testing.T) {
	c := NewMetricsCollector()
	g := c.Gauge("test_gauge", "help")
	g.Set(5)
	g.Inc()
	if g.Value() != 6 {
		t.Fatalf("got %d", g.Value())
	}
}

func TestWriteTo_ExpositionFormat(t *testing.T) {
	c := NewMetricsCollector()
	c.Counter("pages_total", "pages fetched").Add(3)

	var buf strings.Builder
	c.WriteTo(&buf)
	out := buf.String()

	for _, want := range []string{"# TYPE pages_total counter", "pages_total 3"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}
