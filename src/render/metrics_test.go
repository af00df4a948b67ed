package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestMetrics_WriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.SessionsLoaded.Set(3)
	m.ChartsRendered.WithLabelValues("radial", "svg").Inc()
	m.RenderDuration.WithLabelValues("radial").Observe(0.02)
	path := filepath.Join(t.TempDir(), "render.prom")
	if err := WriteTextfile(path, reg); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	out := string(b)
	for _, want := range []string{"sessioncharts_sessions_loaded 3", `sessioncharts_charts_rendered_total{chart="radial",format="svg"} 1`, "sessioncharts_render_duration_seconds_count"} {
		if !strings.Contains(out, want) {
			t.Fatalf("metrics output missing %q:\n%s", want, out)
		}
	}
}

func TestMetrics_NilRegistry(t *testing.T) {
	m := NewMetrics(nil)
	m.FramesWritten.Inc()
}
