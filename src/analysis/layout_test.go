package analysis

import (
	"math"
	"testing"

	"github.com/josanescod/ciber-intrusion-visualization/src/sessions"
)

const eps = 1e-9

func outerBySegmentGroup(l RadialLayout) map[string]float64 {
	out := map[string]float64{}
	for _, s := range l.Segments {
		if s.OuterRadius > out[s.Group] {
			out[s.Group] = s.OuterRadius
		}
	}
	return out
}

func TestLayoutRadial_PercentModeFillsRadius(t *testing.T) {
	l := BuildRadial(sampleRecords(), CategoryProtocol, ModePercent, DefaultRadialConfig())
	if l.Empty {
		t.Fatalf("layout should not be empty")
	}
	if l.Radius != 250 {
		t.Fatalf("radius want 250 got %v", l.Radius)
	}
	for g, r := range outerBySegmentGroup(l) {
		if math.Abs(r-l.Radius) > eps {
			t.Fatalf("group %s: outer radius %v want %v", g, r, l.Radius)
		}
	}
}

func TestLayoutRadial_CountModeProportional(t *testing.T) {
	l := BuildRadial(sampleRecords(), CategoryProtocol, ModeCount, DefaultRadialConfig())
	outer := outerBySegmentGroup(l)
	if l.MaxTotal != 3 {
		t.Fatalf("max total want 3 got %d", l.MaxTotal)
	}
	if math.Abs(outer["TCP"]-l.Radius) > eps {
		t.Fatalf("largest group should reach the radius, got %v", outer["TCP"])
	}
	if math.Abs(outer["UDP"]-l.Radius*2/3) > eps || math.Abs(outer["ICMP"]-l.Radius/3) > eps {
		t.Fatalf("unexpected outer radii %+v", outer)
	}
	// segments stack without gaps in risk order
	for i := 1; i < len(l.Segments); i++ {
		a, b := l.Segments[i-1], l.Segments[i]
		if a.Group == b.Group && math.Abs(a.OuterRadius-b.InnerRadius) > eps {
			t.Fatalf("gap between %s/%s and %s/%s", a.Group, a.Risk, b.Group, b.Risk)
		}
	}
	if len(l.Segments) != 3*len(sessions.RiskLevels) {
		t.Fatalf("expected one segment per group and risk, got %d", len(l.Segments))
	}
}

func TestLayoutRadial_GridLabels(t *testing.T) {
	recs := make([]sessions.Session, 0, 10)
	for i := 0; i < 10; i++ {
		recs = append(recs, rec("TCP", "AES", sessions.RiskLow, 0))
	}
	count := BuildRadial(recs, CategoryProtocol, ModeCount, DefaultRadialConfig())
	pct := BuildRadial(recs, CategoryProtocol, ModePercent, DefaultRadialConfig())
	wantCount := []string{"2", "4", "6", "8", "10"}
	wantPct := []string{"20%", "40%", "60%", "80%", "100%"}
	if len(count.Grid) != 5 || len(pct.Grid) != 5 {
		t.Fatalf("expected 5 grid rings")
	}
	for i := range wantCount {
		if count.Grid[i].Label != wantCount[i] {
			t.Fatalf("count ring %d: want %s got %s", i, wantCount[i], count.Grid[i].Label)
		}
		if pct.Grid[i].Label != wantPct[i] {
			t.Fatalf("percent ring %d: want %s got %s", i, wantPct[i], pct.Grid[i].Label)
		}
	}
	if math.Abs(count.Grid[4].Radius-count.Radius) > eps {
		t.Fatalf("outer ring should sit on the radius")
	}
}

func TestLayoutRadial_Empty(t *testing.T) {
	l := BuildRadial(nil, CategoryEncryption, ModeCount, DefaultRadialConfig())
	if !l.Empty {
		t.Fatalf("expected empty layout")
	}
	if len(l.Segments) != 0 || len(l.Grid) != 0 {
		t.Fatalf("empty layout should have no geometry")
	}
	if len(l.Legend) != 4 {
		t.Fatalf("legend should always list 4 risk levels, got %d", len(l.Legend))
	}
	if _, ok := l.SegmentAt(l.Center.X, l.Center.Y); ok {
		t.Fatalf("empty layout should not hit")
	}
}

func TestBandScale_RadialPadding(t *testing.T) {
	b := NewBandScale([]string{"a", "b", "c", "d"}, 0, 2*math.Pi, 0.1, 0.1, 0.5)
	step := 2 * math.Pi / 4.1
	if math.Abs(b.Step()-step) > eps {
		t.Fatalf("step want %v got %v", step, b.Step())
	}
	if math.Abs(b.Bandwidth()-0.9*step) > eps {
		t.Fatalf("bandwidth want %v got %v", 0.9*step, b.Bandwidth())
	}
	a, _ := b.Position("a")
	d, _ := b.Position("d")
	if math.Abs(a-0.1*step) > eps || math.Abs(d+b.Bandwidth()-(2*math.Pi-0.1*step)) > eps {
		t.Fatalf("unexpected band positions a=%v d=%v", a, d)
	}
	if _, ok := b.Position("zzz"); ok {
		t.Fatalf("unknown key should not resolve")
	}
}

func TestPointScale(t *testing.T) {
	p := NewPointScale([]string{"w", "x", "y", "z"}, 0, 800, 0.5)
	want := []float64{100, 300, 500, 700}
	for i, k := range []string{"w", "x", "y", "z"} {
		got, _ := p.Position(k)
		if math.Abs(got-want[i]) > eps {
			t.Fatalf("%s: want %v got %v", k, want[i], got)
		}
	}
	if p.Bandwidth() != 0 {
		t.Fatalf("point scale has zero bandwidth")
	}
}

func TestSegmentAt(t *testing.T) {
	recs := []sessions.Session{rec("TCP", "AES", sessions.RiskLow, 1), rec("TCP", "AES", sessions.RiskHigh, 0)}
	l := BuildRadial(recs, CategoryProtocol, ModeCount, DefaultRadialConfig())
	mid := l.Spokes[0].Angle
	probe := func(r float64) (ArcSegment, bool) {
		return l.SegmentAt(l.Center.X+math.Sin(mid)*r, l.Center.Y-math.Cos(mid)*r)
	}
	seg, ok := probe(l.Radius * 0.25)
	if !ok || seg.Risk != sessions.RiskLow {
		t.Fatalf("inner half should be Low, got %+v ok=%v", seg, ok)
	}
	seg, ok = probe(l.Radius * 0.75)
	if !ok || seg.Risk != sessions.RiskHigh {
		t.Fatalf("outer half should be High, got %+v ok=%v", seg, ok)
	}
	if _, ok := probe(l.Radius + 5); ok {
		t.Fatalf("outside the radius should miss")
	}
	g, _ := l.Group(seg.Group)
	lines := RadialTooltip(l.Category, seg, g)
	if lines[0] != "protocol_type: TCP" || lines[2] != "Sessions: 1" || lines[3] != "Attack rate: 50.0%" {
		t.Fatalf("unexpected tooltip %q", lines)
	}
}

func TestSectorPolygon(t *testing.T) {
	c := Point{X: 100, Y: 100}
	pts := SectorPolygon(c, 0, 50, 0, math.Pi/2)
	if last := pts[len(pts)-1]; last != c {
		t.Fatalf("pie sector should close at the centre, got %+v", last)
	}
	if math.Abs(pts[0].X-100) > eps || math.Abs(pts[0].Y-50) > eps {
		t.Fatalf("angle 0 should point up, got %+v", pts[0])
	}
	end := pts[len(pts)-2]
	if math.Abs(end.X-150) > eps || math.Abs(end.Y-100) > eps {
		t.Fatalf("angle pi/2 should point right, got %+v", end)
	}
	ring := SectorPolygon(c, 20, 50, 0, math.Pi)
	if len(ring)%2 != 0 {
		t.Fatalf("annular sector should mirror outer and inner arcs")
	}
}
