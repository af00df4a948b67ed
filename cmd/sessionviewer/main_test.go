package main

import (
	"math"
	"strings"
	"testing"

	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"

	"github.com/josanescod/ciber-intrusion-visualization/src/analysis"
	"github.com/josanescod/ciber-intrusion-visualization/src/sessions"
)

func testRecords() []sessions.Session {
	return []sessions.Session{
		{ID: "S1", PacketRate: 120, SessionDuration: 300, FailedLoginRatio: 0.1, IPReputationScore: 0.2, AttackDetected: 0, UnusualTimeAccess: 0, ProtocolType: "TCP", EncryptionUsed: "AES", RiskLevel: sessions.RiskLow},
		{ID: "S2", PacketRate: 900, SessionDuration: 60, FailedLoginRatio: 0.8, IPReputationScore: 0.9, AttackDetected: 1, UnusualTimeAccess: 1, ProtocolType: "UDP", EncryptionUsed: "DES", RiskLevel: sessions.RiskHigh},
		{ID: "S3", PacketRate: 45, SessionDuration: 1200, FailedLoginRatio: 0.3, IPReputationScore: 0.5, AttackDetected: 1, UnusualTimeAccess: 0, ProtocolType: "TCP", EncryptionUsed: "", RiskLevel: sessions.RiskConfirmed},
		{ID: "S4", PacketRate: math.NaN(), SessionDuration: 10, FailedLoginRatio: 0.0, IPReputationScore: 0.1, AttackDetected: 0, UnusualTimeAccess: 1, ProtocolType: "ICMP", EncryptionUsed: "AES", RiskLevel: sessions.RiskMedium},
	}
}

func loadedState() *uiState {
	s := newUIState()
	s.setRecords(testRecords())
	return s
}

// Smoke test: every chart renders with no data and with data, without a window.
func TestRenderChart_Smoke(t *testing.T) {
	empty := newUIState()
	empty.relayoutBubble()
	empty.relayoutParallel()
	empty.relayoutRadial()
	s := loadedState()
	for _, st := range []*uiState{empty, s} {
		for k := range chartTitles {
			img := st.renderChart(chartKind(k))
			if img == nil {
				t.Fatalf("%s: expected image", chartTitles[k])
			}
			w, h := st.imageSize(chartKind(k))
			b := img.Bounds()
			if b.Dx() != int(w) || b.Dy() != int(h) {
				t.Fatalf("%s: image %dx%d, layout %vx%v", chartTitles[k], b.Dx(), b.Dy(), w, h)
			}
		}
	}
}

func TestSetRecords_ReportsSkippedBubbles(t *testing.T) {
	s := loadedState()
	if s.bubble.Skipped != 1 {
		t.Fatalf("expected the NaN packet rate to be skipped, got %d", s.bubble.Skipped)
	}
	if len(s.radial.Groups) != 3 {
		t.Fatalf("expected 3 protocol groups, got %d", len(s.radial.Groups))
	}
}

func TestHoverText_Bubble(t *testing.T) {
	s := loadedState()
	var b analysis.Bubble
	for _, c := range s.bubble.Bubbles {
		if c.Visible {
			b = c
			break
		}
	}
	lines := s.hoverText(kindBubble, b.X, b.Y)
	if len(lines) == 0 || !strings.HasPrefix(lines[0], "Attack:") {
		t.Fatalf("unexpected bubble tooltip %v", lines)
	}
	if got := s.hoverText(kindBubble, -50, -50); got != nil {
		t.Fatalf("expected no tooltip outside the plot, got %v", got)
	}
}

func TestHoverText_RadialAndHighlight(t *testing.T) {
	s := loadedState()
	seg := s.radial.Segments[0]
	for _, c := range s.radial.Segments {
		if c.OuterRadius > c.InnerRadius {
			seg = c
			break
		}
	}
	a := (seg.StartAngle + seg.EndAngle) / 2
	r := (seg.InnerRadius + seg.OuterRadius) / 2
	x := s.radial.Center.X + math.Sin(a)*r
	y := s.radial.Center.Y - math.Cos(a)*r

	lines := s.hoverText(kindRadial, x, y)
	if len(lines) != 4 || !strings.Contains(lines[1], string(seg.Risk)) {
		t.Fatalf("unexpected radial tooltip %v", lines)
	}
	if !s.setHoverSegment(x, y, true) {
		t.Fatalf("expected highlight to change on first hover")
	}
	if s.setHoverSegment(x, y, true) {
		t.Fatalf("expected no change when hovering the same segment")
	}
	if s.hoverSeg == nil || s.hoverSeg.GroupIndex != seg.GroupIndex || s.hoverSeg.RiskIndex != seg.RiskIndex {
		t.Fatalf("wrong highlighted segment %+v", s.hoverSeg)
	}
	if img := s.renderChart(kindRadial); img == nil {
		t.Fatalf("expected highlighted radial image")
	}
	if !s.setHoverSegment(0, 0, false) || s.hoverSeg != nil {
		t.Fatalf("expected highlight cleared on leave")
	}
}

func TestCommitAndClearBrush(t *testing.T) {
	s := loadedState()
	ax := s.parallel.Axes[0]
	x := s.parallel.Origin.X + ax.X
	y0 := s.parallel.Origin.Y + 10
	y1 := s.parallel.Origin.Y + 80
	if s.commitBrush(x+3*s.parallel.BrushHalfWidth, y0, y1) {
		t.Fatalf("drag away from every axis must not brush")
	}
	if !s.commitBrush(x, y0, y1) {
		t.Fatalf("expected brush on %s", ax.Field)
	}
	if s.brushes.Len() != 1 || len(s.parallel.Brushes) != 1 {
		t.Fatalf("expected one brush, got set=%d layout=%d", s.brushes.Len(), len(s.parallel.Brushes))
	}
	if s.clearBrushAt(x + 3*s.parallel.BrushHalfWidth) {
		t.Fatalf("tap away from the axis must not clear")
	}
	if !s.clearBrushAt(x) || s.brushes.Len() != 0 {
		t.Fatalf("expected brush cleared")
	}
	if s.clearBrushAt(x) {
		t.Fatalf("clearing an unbrushed axis reports no change")
	}
}

func TestWirePair_UnchecksOther(t *testing.T) {
	test.NewTempApp(t)
	var p analysis.TogglePair
	calls := 0
	a := widget.NewCheck("A", nil)
	b := widget.NewCheck("B", nil)
	wirePair(&p, a, b, func() { calls++ })

	a.SetChecked(true)
	if p.Filter() != analysis.OnlyA {
		t.Fatalf("expected only A, got %v", p.Filter())
	}
	b.SetChecked(true)
	if a.Checked || !b.Checked || p.Filter() != analysis.OnlyB {
		t.Fatalf("expected A cleared: a=%v b=%v filter=%v", a.Checked, b.Checked, p.Filter())
	}
	if calls != 2 {
		t.Fatalf("expected one change per click, got %d", calls)
	}
	b.SetChecked(false)
	if p.Filter() != analysis.ShowAll {
		t.Fatalf("expected all shown, got %v", p.Filter())
	}
}

func TestGroupCell(t *testing.T) {
	headers := []string{"Group", "Total", "Low", "Medium", "High", "Confirmed", "Attack rate"}
	groups := []analysis.GroupAggregate{
		{Key: "", Total: 3, RiskCounts: [4]int{1, 0, 2, 0}, AttackRate: 0.5},
		{Key: "UDP", Total: 0, AttackRate: math.NaN()},
	}
	cases := []struct {
		row, col int
		want     string
	}{
		{0, 0, "Group"},
		{1, 0, analysis.DisplayKey("")},
		{1, 1, "3"},
		{1, 4, "2"},
		{1, 6, "50.0%"},
		{2, 6, "n/a"},
		{3, 0, ""},
	}
	for _, c := range cases {
		if got := groupCell(groups, c.row, c.col, headers); got != c.want {
			t.Fatalf("cell(%d,%d): want %q got %q", c.row, c.col, c.want, got)
		}
	}
}

func TestTruncatePathAndFileName(t *testing.T) {
	if got := truncatePath("short.csv", 60); got != "short.csv" {
		t.Fatalf("unexpected %q", got)
	}
	long := "/very/long/path/to/some/dataset/directory/cybersecurity_intrusion_data.csv"
	got := truncatePath(long, 20)
	if len([]rune(got)) != 20 || !strings.HasSuffix(long, strings.TrimPrefix(got, "…")) {
		t.Fatalf("unexpected truncation %q", got)
	}
	if kindRadial.fileName() != "radial_chart.png" {
		t.Fatalf("unexpected file name %q", kindRadial.fileName())
	}
}
