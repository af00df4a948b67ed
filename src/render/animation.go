package render

import (
	"fmt"
	"math"
	"time"

	"github.com/josanescod/ciber-intrusion-visualization/src/analysis"
)

// Easing names an easing curve.
type Easing string

const (
	EaseLinear     Easing = "linear"
	EaseQuadOut    Easing = "quad-out"
	EaseCubicOut   Easing = "cubic-out"
	EaseCubicInOut Easing = "cubic-in-out"
	EaseCircleOut  Easing = "circle-out"
)

// Apply maps linear progress t in [0,1] through the curve.
func (e Easing) Apply(t float64) float64 {
	t = math.Max(0, math.Min(1, t))
	switch e {
	case EaseQuadOut:
		return t * (2 - t)
	case EaseCubicOut:
		u := t - 1
		return u*u*u + 1
	case EaseCubicInOut:
		if t < 0.5 {
			return 4 * t * t * t
		}
		u := 2*t - 2
		return u*u*u/2 + 1
	case EaseCircleOut:
		u := t - 1
		return math.Sqrt(1 - u*u)
	}
	return t
}

// Target is the layout element a keyframe animates.
type Target string

const (
	TargetGrid      Target = "grid"
	TargetGridRing  Target = "grid-ring"
	TargetGridLabel Target = "grid-label"
	TargetSpoke     Target = "spoke"
	TargetArc       Target = "arc"
	TargetLabel     Target = "label"
	TargetLegend    Target = "legend"
)

// Keyframe interpolates one property of one element from From to To.
// Index addresses the element within its layout slice.
type Keyframe struct {
	Target   Target
	Index    int
	Property string
	From, To float64
	Delay    time.Duration
	Duration time.Duration
	Ease     Easing
}

// End is when the keyframe settles.
func (k Keyframe) End() time.Duration { return k.Delay + k.Duration }

// ValueAt returns the property value at offset t.
func (k Keyframe) ValueAt(t time.Duration) float64 {
	var progress float64
	switch {
	case t <= k.Delay:
		progress = 0
	case t >= k.End() || k.Duration <= 0:
		progress = 1
	default:
		progress = float64(t-k.Delay) / float64(k.Duration)
	}
	return k.From + (k.To-k.From)*k.Ease.Apply(progress)
}

func (k Keyframe) String() string {
	idx := ""
	if k.Index >= 0 {
		idx = fmt.Sprintf("[%d]", k.Index)
	}
	return fmt.Sprintf("%-10s %-6s %-8s %6s +%-6s %s", k.Target, idx, k.Property, k.Delay, k.Duration, k.Ease)
}

// Timeline is the entry animation of a layout.
type Timeline struct {
	Keyframes []Keyframe
}

// Duration is the time until the last keyframe settles.
func (tl Timeline) Duration() time.Duration {
	var d time.Duration
	for _, k := range tl.Keyframes {
		if e := k.End(); e > d {
			d = e
		}
	}
	return d
}

const ms = time.Millisecond

// RadialTimeline builds the staged entry animation for l: grid first, then
// spokes, arcs growing out from the centre, category labels and the legend.
func RadialTimeline(l analysis.RadialLayout) Timeline {
	var tl Timeline
	add := func(k Keyframe) { tl.Keyframes = append(tl.Keyframes, k) }
	add(Keyframe{Target: TargetLegend, Index: -1, Property: "opacity", To: 1, Delay: 1000 * ms, Duration: 400 * ms, Ease: EaseCubicInOut})
	if l.Empty {
		return tl
	}
	add(Keyframe{Target: TargetGrid, Index: -1, Property: "opacity", To: 1, Duration: 300 * ms, Ease: EaseCubicInOut})
	for i, g := range l.Grid {
		level := time.Duration(i + 1)
		add(Keyframe{Target: TargetGridRing, Index: i, Property: "radius", To: g.Radius, Delay: level * 40 * ms, Duration: 400 * ms, Ease: EaseCircleOut})
		add(Keyframe{Target: TargetGridLabel, Index: i, Property: "opacity", To: 1, Delay: 300*ms + level*40*ms, Duration: 300 * ms, Ease: EaseCubicInOut})
	}
	for i := range l.Spokes {
		add(Keyframe{Target: TargetSpoke, Index: i, Property: "length", To: l.Radius, Delay: 200*ms + time.Duration(i)*30*ms, Duration: 400 * ms, Ease: EaseQuadOut})
	}
	for i, s := range l.Segments {
		delay := 400*ms + time.Duration(s.GroupIndex)*40*ms + time.Duration(s.RiskIndex)*80*ms
		add(Keyframe{Target: TargetArc, Index: i, Property: "growth", To: 1, Delay: delay, Duration: 600 * ms, Ease: EaseCubicOut})
	}
	for i := range l.Labels {
		add(Keyframe{Target: TargetLabel, Index: i, Property: "opacity", To: 1, Delay: 800*ms + time.Duration(i)*40*ms, Duration: 400 * ms, Ease: EaseCubicInOut})
	}
	return tl
}

// SampleRadial returns l as it looks t into tl. l is not modified.
func SampleRadial(l analysis.RadialLayout, tl Timeline, t time.Duration) analysis.RadialLayout {
	out := l
	out.Grid = append([]analysis.GridRing(nil), l.Grid...)
	out.Spokes = append([]analysis.Spoke(nil), l.Spokes...)
	out.Segments = append([]analysis.ArcSegment(nil), l.Segments...)
	out.Labels = append([]analysis.CategoryLabel(nil), l.Labels...)
	for _, k := range tl.Keyframes {
		v := k.ValueAt(t)
		switch k.Target {
		case TargetGrid:
			out.GridOpacity = v
		case TargetLegend:
			out.LegendOpacity = v
		case TargetGridRing:
			if k.Index < len(out.Grid) {
				out.Grid[k.Index].Radius = v
			}
		case TargetGridLabel:
			if k.Index < len(out.Grid) {
				out.Grid[k.Index].LabelOpacity = v
			}
		case TargetSpoke:
			if k.Index < len(out.Spokes) {
				s := &out.Spokes[k.Index]
				s.End = analysis.Point{X: l.Center.X + math.Sin(s.Angle)*v, Y: l.Center.Y - math.Cos(s.Angle)*v}
			}
		case TargetArc:
			if k.Index < len(out.Segments) {
				s := &out.Segments[k.Index]
				s.InnerRadius *= v
				s.OuterRadius *= v
			}
		case TargetLabel:
			if k.Index < len(out.Labels) {
				out.Labels[k.Index].Opacity = v
			}
		}
	}
	return out
}

// Frames samples tl at n evenly spaced offsets including both ends.
func Frames(l analysis.RadialLayout, tl Timeline, n int) []analysis.RadialLayout {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []analysis.RadialLayout{SampleRadial(l, tl, tl.Duration())}
	}
	total := tl.Duration()
	out := make([]analysis.RadialLayout, n)
	for i := range out {
		out[i] = SampleRadial(l, tl, total*time.Duration(i)/time.Duration(n-1))
	}
	return out
}
