package uihelpers

import (
	"math"
	"testing"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-3 }

func TestContainRect(t *testing.T) {
	// wide view: letterbox left and right
	x, y, w, h, s := ContainRect(700, 700, 1000, 500)
	if !near(float64(s), 500.0/700.0) || !near(float64(w), 500) || !near(float64(h), 500) || !near(float64(x), 250) || y != 0 {
		t.Fatalf("unexpected rect x=%v y=%v w=%v h=%v s=%v", x, y, w, h, s)
	}
	if _, _, _, _, s := ContainRect(0, 10, 10, 10); s != 0 {
		t.Fatalf("zero image should give zero scale")
	}
}

func TestViewToImageRoundTrip(t *testing.T) {
	ix, iy, ok := ViewToImage(500, 250, 700, 700, 1000, 500)
	if !ok || !near(ix, 350) || !near(iy, 350) {
		t.Fatalf("view centre should map to image centre, got %v %v %v", ix, iy, ok)
	}
	px, py := ImageToView(ix, iy, 700, 700, 1000, 500)
	if !near(float64(px), 500) || !near(float64(py), 250) {
		t.Fatalf("round trip got %v %v", px, py)
	}
	if _, _, ok := ViewToImage(100, 250, 700, 700, 1000, 500); ok {
		t.Fatalf("letterbox should not map into the image")
	}
}

func TestTooltipPosition(t *testing.T) {
	x, y := TooltipPosition(10, 10, 100, 50, 400, 300)
	if x != 22 || y != 22 {
		t.Fatalf("want tooltip below-right, got %v %v", x, y)
	}
	x, y = TooltipPosition(390, 290, 100, 50, 400, 300)
	if x != 278 || y != 228 {
		t.Fatalf("want tooltip flipped above-left, got %v %v", x, y)
	}
}

func TestComputeTableColumnWidths(t *testing.T) {
	if got := ComputeTableColumnWidths(400); got[2] != 0 || got[0] != 110 {
		t.Fatalf("ultra compact should hide risk columns: %#v", got)
	}
	if got := ComputeTableColumnWidths(1200); got != [7]int{220, 80, 80, 90, 80, 100, 110} {
		t.Fatalf("full widths mismatch: %#v", got)
	}
	if got := ComputeTableColumnWidths(899); got[0] != 140 {
		t.Fatalf("expected compact layout below 900: %#v", got)
	}
}
