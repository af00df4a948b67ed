package analysis

import (
	"fmt"
	"math"

	"github.com/josanescod/ciber-intrusion-visualization/src/sessions"
)

// ParallelConfig sizes the parallel-coordinates chart.
type ParallelConfig struct {
	Width, Height  int
	Margin         Margin
	BrushHalfWidth float64 // horizontal reach of an axis brush on each side
}

func DefaultParallelConfig() ParallelConfig {
	return ParallelConfig{Width: 900, Height: 500, Margin: Margin{Top: 40, Right: 50, Bottom: 20, Left: 50}, BrushHalfWidth: 10}
}

// ParallelAxis is one vertical axis; X is relative to the plot origin.
type ParallelAxis struct {
	Field sessions.Field
	X     float64
	Scale LinearScale // value -> y relative to the plot origin
	Ticks []AxisTick
}

// ParallelLine is one session; Segments are runs of defined points.
type ParallelLine struct {
	Session  sessions.Session
	Segments [][]Point
	Color    string
	Opacity  float64
	Visible  bool
}

type ParallelLayout struct {
	Width, Height  int
	Margin         Margin
	Origin         Point
	InnerWidth     float64
	InnerHeight    float64
	BrushHalfWidth float64
	Axes           []ParallelAxis
	Lines          []ParallelLine
	Brushes        []BrushExtent
	Empty          bool
}

// BrushExtent is an active brush in pixels, for drawing the selection box.
type BrushExtent struct {
	Field  sessions.Field
	X      float64 // absolute axis position
	Y0, Y1 float64 // absolute, Y0 <= Y1
}

// LayoutParallel lays out one polyline per session across NumericFields.
// Line opacity combines the unusual-time-access pair (A = UTA 1, B = UTA 0)
// with the brush set, see LineOpacity.
func LayoutParallel(records []sessions.Session, uta TogglePair, brushes *BrushSet, cfg ParallelConfig) ParallelLayout {
	d := DefaultParallelConfig()
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = d.Width, d.Height
	}
	if cfg.Margin == (Margin{}) {
		cfg.Margin = d.Margin
	}
	if cfg.BrushHalfWidth <= 0 {
		cfg.BrushHalfWidth = d.BrushHalfWidth
	}
	l := ParallelLayout{
		Width:          cfg.Width,
		Height:         cfg.Height,
		Margin:         cfg.Margin,
		Origin:         Point{X: cfg.Margin.Left, Y: cfg.Margin.Top},
		InnerWidth:     float64(cfg.Width) - cfg.Margin.Left - cfg.Margin.Right,
		InnerHeight:    float64(cfg.Height) - cfg.Margin.Top - cfg.Margin.Bottom,
		BrushHalfWidth: cfg.BrushHalfWidth,
	}
	if len(records) == 0 {
		l.Empty = true
		return l
	}
	names := make([]string, len(sessions.NumericFields))
	for i, f := range sessions.NumericFields {
		names[i] = string(f)
	}
	xs := NewPointScale(names, 0, l.InnerWidth, 0.5)
	for _, f := range sessions.NumericFields {
		lo, hi, ok := sessions.Extent(records, f)
		if !ok {
			lo, hi = 0, 1
		}
		x, _ := xs.Position(string(f))
		sc := LinearScale{D0: lo, D1: hi, R0: l.InnerHeight, R1: 0}
		ax := ParallelAxis{Field: f, X: x, Scale: sc}
		for _, v := range sc.Ticks(10) {
			ax.Ticks = append(ax.Ticks, AxisTick{Value: v, Pos: sc.Map(v), Label: FormatNumericTick(v)})
		}
		l.Axes = append(l.Axes, ax)
		if br, ok := brushes.get(f); ok {
			y0, y1 := sc.Map(br.Hi), sc.Map(br.Lo)
			if y0 > y1 {
				y0, y1 = y1, y0
			}
			l.Brushes = append(l.Brushes, BrushExtent{Field: f, X: l.Origin.X + x, Y0: l.Origin.Y + y0, Y1: l.Origin.Y + y1})
		}
	}

	for _, s := range records {
		line := ParallelLine{Session: s, Color: FlagColors[0]}
		if s.UnusualTimeAccess == 1 {
			line.Color = FlagColors[1]
		}
		var run []Point
		for _, ax := range l.Axes {
			v := s.Value(ax.Field)
			if math.IsNaN(v) {
				if len(run) > 0 {
					line.Segments = append(line.Segments, run)
				}
				run = nil
				continue
			}
			run = append(run, Point{X: l.Origin.X + ax.X, Y: l.Origin.Y + ax.Scale.Map(v)})
		}
		if len(run) > 0 {
			line.Segments = append(line.Segments, run)
		}
		line.Opacity = LineOpacity(s, uta, brushes)
		line.Visible = line.Opacity > 0
		l.Lines = append(l.Lines, line)
	}
	return l
}

// Axis returns the axis for field.
func (l ParallelLayout) Axis(field sessions.Field) (ParallelAxis, bool) {
	for _, a := range l.Axes {
		if a.Field == field {
			return a, true
		}
	}
	return ParallelAxis{}, false
}

// AxisAt returns the axis whose brush area contains pixel x.
func (l ParallelLayout) AxisAt(x float64) (ParallelAxis, bool) {
	for _, a := range l.Axes {
		if math.Abs(x-(l.Origin.X+a.X)) <= l.BrushHalfWidth {
			return a, true
		}
	}
	return ParallelAxis{}, false
}

// LineAt returns the top-most visible line passing within tol pixels of (x, y).
func (l ParallelLayout) LineAt(x, y, tol float64) (ParallelLine, bool) {
	for i := len(l.Lines) - 1; i >= 0; i-- {
		line := l.Lines[i]
		if !line.Visible {
			continue
		}
		for _, run := range line.Segments {
			for j := 1; j < len(run); j++ {
				if segmentDistance(x, y, run[j-1], run[j]) <= tol {
					return line, true
				}
			}
		}
	}
	return ParallelLine{}, false
}

func segmentDistance(x, y float64, a, b Point) float64 {
	dx, dy := b.X-a.X, b.Y-a.Y
	l2 := dx*dx + dy*dy
	if l2 == 0 {
		return math.Hypot(x-a.X, y-a.Y)
	}
	t := math.Max(0, math.Min(1, ((x-a.X)*dx+(y-a.Y)*dy)/l2))
	return math.Hypot(x-(a.X+t*dx), y-(a.Y+t*dy))
}

// ApplyBrush converts a vertical pixel drag [y0, y1] on field's axis into a
// value brush. The drag is clamped to the plot; a zero-height drag clears the brush.
func (l ParallelLayout) ApplyBrush(brushes *BrushSet, field sessions.Field, y0, y1 float64) {
	ax, ok := l.Axis(field)
	if !ok || brushes == nil {
		return
	}
	clamp := func(y float64) float64 {
		y -= l.Origin.Y
		return math.Max(0, math.Min(l.InnerHeight, y))
	}
	a, b := clamp(y0), clamp(y1)
	if a == b {
		brushes.Clear(field)
		return
	}
	brushes.SetPixels(field, ax.Scale, a, b)
}

// ParallelTooltip mirrors the line hover card.
func ParallelTooltip(s sessions.Session) []string {
	return []string{
		fmt.Sprintf("Session: %s", s.ID),
		fmt.Sprintf("Packet rate: %.2f", s.PacketRate),
		fmt.Sprintf("Duration: %.0f s", s.SessionDuration),
		fmt.Sprintf("Failed ratio: %.2f", s.FailedLoginRatio),
		fmt.Sprintf("IP reputation: %.2f", s.IPReputationScore),
		fmt.Sprintf("UTA: %s", flagText(s.UnusualTimeAccess)),
	}
}
