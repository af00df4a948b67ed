package analysis

import (
	"math"
	"testing"

	"github.com/josanescod/ciber-intrusion-visualization/src/sessions"
)

func TestLineOpacity(t *testing.T) {
	in := sessions.Session{PacketRate: 5, UnusualTimeAccess: 1}
	out := sessions.Session{PacketRate: 12, UnusualTimeAccess: 0}
	b := NewBrushSet()
	if got := LineOpacity(in, TogglePair{}, b); got != LineOpacityBase {
		t.Fatalf("untouched chart want %v got %v", LineOpacityBase, got)
	}
	if got := LineOpacity(in, TogglePair{}, nil); got != LineOpacityBase {
		t.Fatalf("nil brushes want %v got %v", LineOpacityBase, got)
	}
	b.Set(sessions.FieldPacketRate, 10, 0)
	if br, _ := b.Get(sessions.FieldPacketRate); br.Lo != 0 || br.Hi != 10 {
		t.Fatalf("bounds should be ordered, got %+v", br)
	}
	if got := LineOpacity(in, TogglePair{}, b); got != LineOpacityActive {
		t.Fatalf("in-range line want %v got %v", LineOpacityActive, got)
	}
	if got := LineOpacity(out, TogglePair{}, b); got != LineOpacityInactive {
		t.Fatalf("out-of-range line want %v got %v", LineOpacityInactive, got)
	}
	if got := LineOpacity(in, TogglePair{B: true}, b); got != LineOpacityHidden {
		t.Fatalf("UTA-hidden line want 0 got %v", got)
	}
	b.Clear(sessions.FieldPacketRate)
	if b.Len() != 0 || !b.Touched() {
		t.Fatalf("clear should keep the touched state")
	}
	if got := LineOpacity(out, TogglePair{}, b); got != LineOpacityActive {
		t.Fatalf("zero brushes after brushing want %v got %v", LineOpacityActive, got)
	}
	b.Reset()
	if b.Touched() {
		t.Fatalf("reset should forget brushing")
	}
}

func TestBrush_NaNNeverActive(t *testing.T) {
	b := NewBrushSet()
	b.Set(sessions.FieldFailedLoginRatio, 0, 1)
	if b.Active(sessions.Session{FailedLoginRatio: math.NaN()}) {
		t.Fatalf("missing values should fail an active brush")
	}
}

func TestBrush_SetPixels(t *testing.T) {
	b := NewBrushSet()
	y := LinearScale{D0: 0, D1: 100, R0: 400, R1: 0}
	b.SetPixels(sessions.FieldIPReputationScore, y, 100, 300)
	br, ok := b.Get(sessions.FieldIPReputationScore)
	if !ok || math.Abs(br.Lo-25) > eps || math.Abs(br.Hi-75) > eps {
		t.Fatalf("want [25,75] got %+v", br)
	}
}
