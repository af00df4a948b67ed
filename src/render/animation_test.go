package render

import (
	"math"
	"testing"
	"time"

	"github.com/josanescod/ciber-intrusion-visualization/src/analysis"
)

func TestEasingEndpoints(t *testing.T) {
	for _, e := range []Easing{EaseLinear, EaseQuadOut, EaseCubicOut, EaseCubicInOut, EaseCircleOut} {
		if v := e.Apply(0); math.Abs(v) > 1e-12 {
			t.Fatalf("%s(0) = %v", e, v)
		}
		if v := e.Apply(1); math.Abs(v-1) > 1e-12 {
			t.Fatalf("%s(1) = %v", e, v)
		}
		if v := e.Apply(2); math.Abs(v-1) > 1e-12 {
			t.Fatalf("%s should clamp, got %v", e, v)
		}
	}
	if EaseQuadOut.Apply(0.5) != 0.75 || EaseCubicInOut.Apply(0.5) != 0.5 {
		t.Fatalf("unexpected midpoints")
	}
}

func TestRadialTimeline_Schedule(t *testing.T) {
	l := analysis.BuildRadial(testSessions(), analysis.CategoryProtocol, analysis.ModeCount, analysis.DefaultRadialConfig())
	tl := RadialTimeline(l)
	// legend + grid + 5 rings + 5 labels + spokes + segments + category labels
	want := 2 + 2*len(l.Grid) + len(l.Spokes) + len(l.Segments) + len(l.Labels)
	if len(tl.Keyframes) != want {
		t.Fatalf("want %d keyframes got %d", want, len(tl.Keyframes))
	}
	if tl.Duration() != 1400*time.Millisecond {
		t.Fatalf("legend should finish last at 1.4s, got %s", tl.Duration())
	}
	for _, k := range tl.Keyframes {
		if k.Target != TargetArc {
			continue
		}
		s := l.Segments[k.Index]
		delay := time.Duration(400+s.GroupIndex*40+s.RiskIndex*80) * time.Millisecond
		if k.Delay != delay || k.Duration != 600*time.Millisecond || k.Ease != EaseCubicOut {
			t.Fatalf("arc %d: unexpected keyframe %v", k.Index, k)
		}
	}
	empty := RadialTimeline(analysis.BuildRadial(nil, analysis.CategoryProtocol, analysis.ModeCount, analysis.DefaultRadialConfig()))
	if len(empty.Keyframes) != 1 || empty.Keyframes[0].Target != TargetLegend {
		t.Fatalf("empty layout only fades the legend in")
	}
}

func TestSampleRadial(t *testing.T) {
	l := analysis.BuildRadial(testSessions(), analysis.CategoryProtocol, analysis.ModeCount, analysis.DefaultRadialConfig())
	tl := RadialTimeline(l)
	start := SampleRadial(l, tl, 0)
	if start.GridOpacity != 0 || start.LegendOpacity != 0 {
		t.Fatalf("grid and legend start hidden")
	}
	for _, s := range start.Segments {
		if s.OuterRadius != 0 || s.InnerRadius != 0 {
			t.Fatalf("arcs start collapsed at the centre, got %+v", s)
		}
	}
	for _, sp := range start.Spokes {
		if sp.End != l.Center {
			t.Fatalf("spokes start at the centre")
		}
	}
	if l.Segments[len(l.Segments)-1].OuterRadius == 0 {
		t.Fatalf("sampling must not modify the input layout")
	}
	end := SampleRadial(l, tl, tl.Duration())
	for i, s := range end.Segments {
		if math.Abs(s.OuterRadius-l.Segments[i].OuterRadius) > 1e-9 {
			t.Fatalf("segment %d should settle on its final radius", i)
		}
	}
	for i, g := range end.Grid {
		if math.Abs(g.Radius-l.Grid[i].Radius) > 1e-9 || g.LabelOpacity != 1 {
			t.Fatalf("ring %d should settle", i)
		}
	}
	mid := SampleRadial(l, tl, 700*time.Millisecond)
	if mid.Labels[0].Opacity != 0 {
		t.Fatalf("category labels wait until 800ms")
	}
	frames := Frames(l, tl, 5)
	if len(frames) != 5 || frames[4].LegendOpacity != 1 || frames[0].LegendOpacity != 0 {
		t.Fatalf("unexpected frames")
	}
}
