package analysis

import (
	"fmt"
	"math"

	"github.com/josanescod/ciber-intrusion-visualization/src/sessions"
)

// Point is a position in chart pixel space (y grows downwards).
type Point struct{ X, Y float64 }

// RiskColors is the radial palette, indexed like sessions.RiskLevels.
var RiskColors = [4]string{"#69b3a2", "#fdd835", "#fb8c00", "#8b0000"}

// RadialConfig sizes the radial chart.
type RadialConfig struct {
	Width, Height int
	Margin        float64 // subtracted from half the short side to get the plot radius
	BandPadding   float64 // inner and outer band padding as a fraction of the step
	GridLevels    int
	LabelOffset   float64 // distance of category labels beyond the plot radius
}

// DefaultRadialConfig is the 700x700 layout used by the viewer and CLI.
func DefaultRadialConfig() RadialConfig {
	return RadialConfig{Width: 700, Height: 700, Margin: 100, BandPadding: 0.1, GridLevels: 5, LabelOffset: 30}
}

func (c RadialConfig) withDefaults() RadialConfig {
	d := DefaultRadialConfig()
	if c.Width <= 0 {
		c.Width = d.Width
	}
	if c.Height <= 0 {
		c.Height = d.Height
	}
	if c.Margin < 0 {
		c.Margin = d.Margin
	}
	if c.BandPadding < 0 || c.BandPadding >= 1 {
		c.BandPadding = d.BandPadding
	}
	if c.GridLevels <= 0 {
		c.GridLevels = d.GridLevels
	}
	return c
}

// Radius is the plot radius; never negative.
func (c RadialConfig) Radius() float64 {
	c = c.withDefaults()
	r := math.Min(float64(c.Width), float64(c.Height))/2 - c.Margin
	if r < 0 {
		return 0
	}
	return r
}

// ArcSegment is one stacked annular sector: a (group, risk level) pair.
type ArcSegment struct {
	Group       string             `json:"group"`
	GroupIndex  int                `json:"group_index"`
	Risk        sessions.RiskLevel `json:"risk"`
	RiskIndex   int                `json:"risk_index"`
	Count       int                `json:"count"`
	Value       float64            `json:"value"` // stacked quantity in domain units
	InnerRadius float64            `json:"inner_radius"`
	OuterRadius float64            `json:"outer_radius"`
	StartAngle  float64            `json:"start_angle"`
	EndAngle    float64            `json:"end_angle"`
	Color       string             `json:"color"`
	Opacity     float64            `json:"opacity"`
}

// GridRing is one concentric reference circle with its label.
type GridRing struct {
	Level        int     `json:"level"`
	Radius       float64 `json:"radius"`
	Label        string  `json:"label"`
	LabelPos     Point   `json:"label_pos"`
	Opacity      float64 `json:"opacity"`
	LabelOpacity float64 `json:"label_opacity"`
}

// Spoke is the dashed line from the centre through a group's band centre.
type Spoke struct {
	Group string  `json:"group"`
	Angle float64 `json:"angle"`
	End   Point   `json:"end"`
}

// CategoryLabel names a group outside the plot.
type CategoryLabel struct {
	Text    string  `json:"text"`
	Angle   float64 `json:"angle"`
	Pos     Point   `json:"pos"`
	Opacity float64 `json:"opacity"`
}

// LegendEntry is one swatch row of the risk legend.
type LegendEntry struct {
	Risk  sessions.RiskLevel `json:"risk"`
	Color string             `json:"color"`
	Pos   Point              `json:"pos"` // top-left of the swatch
}

// RadialLayout is everything needed to draw the radial chart.
type RadialLayout struct {
	Category      Category         `json:"category"`
	Mode          Mode             `json:"mode"`
	Width         int              `json:"width"`
	Height        int              `json:"height"`
	Center        Point            `json:"center"`
	Radius        float64          `json:"radius"`
	MaxTotal      int              `json:"max_total"`
	Bandwidth     float64          `json:"bandwidth"`
	Groups        []GroupAggregate `json:"groups"`
	Segments      []ArcSegment     `json:"segments"`
	Grid          []GridRing       `json:"grid"`
	GridOpacity   float64          `json:"grid_opacity"`
	Spokes        []Spoke          `json:"spokes"`
	Labels        []CategoryLabel  `json:"labels"`
	Legend        []LegendEntry    `json:"legend"`
	LegendOpacity float64          `json:"legend_opacity"`
	Empty         bool             `json:"empty"`
}

// LayoutRadial computes the stacked radial bars for aggs.
// An empty aggregate list produces an Empty layout with no scales.
func LayoutRadial(aggs []GroupAggregate, mode Mode, cfg RadialConfig) RadialLayout {
	cfg = cfg.withDefaults()
	if mode != ModePercent {
		mode = ModeCount
	}
	l := RadialLayout{
		Mode:          mode,
		Width:         cfg.Width,
		Height:        cfg.Height,
		Center:        Point{X: float64(cfg.Width) / 2, Y: float64(cfg.Height) / 2},
		Radius:        cfg.Radius(),
		Groups:        aggs,
		GridOpacity:   1,
		LegendOpacity: 1,
	}
	for i, r := range sessions.RiskLevels {
		l.Legend = append(l.Legend, LegendEntry{Risk: r, Color: RiskColors[i], Pos: Point{X: 20, Y: 20 + float64(i)*20}})
	}
	l.MaxTotal = MaxTotal(aggs)
	if len(aggs) == 0 || l.MaxTotal <= 0 {
		l.Empty = true
		return l
	}

	keys := make([]string, len(aggs))
	for i, a := range aggs {
		keys[i] = a.Key
	}
	angle := NewBandScale(keys, 0, 2*math.Pi, cfg.BandPadding, cfg.BandPadding, 0.5)
	l.Bandwidth = angle.Bandwidth()
	maxV := float64(l.MaxTotal)
	radius := LinearScale{D0: 0, D1: maxV, R0: 0, R1: l.Radius}

	levels := cfg.GridLevels
	for i := 1; i <= levels; i++ {
		frac := float64(i) / float64(levels)
		var label string
		if mode == ModeCount {
			label = fmt.Sprintf("%d", int(math.Round(maxV*frac)))
		} else {
			label = fmt.Sprintf("%d%%", int(math.Round(frac*100)))
		}
		rr := l.Radius * frac
		l.Grid = append(l.Grid, GridRing{
			Level:        i,
			Radius:       rr,
			Label:        label,
			LabelPos:     Point{X: l.Center.X, Y: l.Center.Y - rr - 4},
			Opacity:      1,
			LabelOpacity: 1,
		})
	}

	for gi, g := range aggs {
		a0, _ := angle.Position(g.Key)
		a1 := a0 + angle.Bandwidth()
		mid := a0 + angle.Bandwidth()/2
		l.Spokes = append(l.Spokes, Spoke{Group: g.Key, Angle: mid, End: l.polar(mid, l.Radius)})
		l.Labels = append(l.Labels, CategoryLabel{
			Text:    DisplayKey(g.Key),
			Angle:   mid,
			Pos:     l.polar(mid, l.Radius+cfg.LabelOffset),
			Opacity: 1,
		})

		start := 0.0
		for ri, risk := range sessions.RiskLevels {
			value := float64(g.RiskCounts[ri])
			if mode == ModePercent && g.Total > 0 {
				value = value / float64(g.Total) * maxV
			}
			l.Segments = append(l.Segments, ArcSegment{
				Group:       g.Key,
				GroupIndex:  gi,
				Risk:        risk,
				RiskIndex:   ri,
				Count:       g.RiskCounts[ri],
				Value:       value,
				InnerRadius: radius.Map(start),
				OuterRadius: radius.Map(start + value),
				StartAngle:  a0,
				EndAngle:    a1,
				Color:       RiskColors[ri],
				Opacity:     1,
			})
			start += value
		}
	}
	return l
}

// polar converts a chart angle (0 at 12 o'clock, clockwise) and radius to pixels.
func (l RadialLayout) polar(a, r float64) Point {
	return Point{X: l.Center.X + math.Sin(a)*r, Y: l.Center.Y - math.Cos(a)*r}
}

// Group returns the aggregate for key.
func (l RadialLayout) Group(key string) (GroupAggregate, bool) {
	for _, g := range l.Groups {
		if g.Key == key {
			return g, true
		}
	}
	return GroupAggregate{}, false
}

// SegmentPolygon returns the closed outline of seg in pixel space.
func (l RadialLayout) SegmentPolygon(seg ArcSegment) []Point {
	return SectorPolygon(l.Center, seg.InnerRadius, seg.OuterRadius, seg.StartAngle, seg.EndAngle)
}

// SegmentAt returns the segment under (x, y), ignoring zero-thickness segments.
func (l RadialLayout) SegmentAt(x, y float64) (ArcSegment, bool) {
	if l.Empty {
		return ArcSegment{}, false
	}
	dx, dy := x-l.Center.X, y-l.Center.Y
	r := math.Hypot(dx, dy)
	a := math.Atan2(dx, -dy)
	if a < 0 {
		a += 2 * math.Pi
	}
	for _, s := range l.Segments {
		if s.OuterRadius-s.InnerRadius <= 0 {
			continue
		}
		if r >= s.InnerRadius && r <= s.OuterRadius && a >= s.StartAngle && a <= s.EndAngle {
			return s, true
		}
	}
	return ArcSegment{}, false
}

// arcStep is the angular resolution used to flatten arcs.
const arcStep = math.Pi / 90

// SectorPolygon flattens an annular sector into a polygon: the outer arc from
// a0 to a1, then the inner arc back (or the centre when inner is zero).
func SectorPolygon(center Point, inner, outer, a0, a1 float64) []Point {
	n := int(math.Ceil(math.Abs(a1-a0) / arcStep))
	if n < 2 {
		n = 2
	}
	at := func(a, r float64) Point {
		return Point{X: center.X + math.Sin(a)*r, Y: center.Y - math.Cos(a)*r}
	}
	pts := make([]Point, 0, 2*(n+1))
	for i := 0; i <= n; i++ {
		pts = append(pts, at(a0+(a1-a0)*float64(i)/float64(n), outer))
	}
	if inner <= 0 {
		return append(pts, center)
	}
	for i := n; i >= 0; i-- {
		pts = append(pts, at(a0+(a1-a0)*float64(i)/float64(n), inner))
	}
	return pts
}

// RadialTooltip mirrors the hover card of the radial chart.
func RadialTooltip(category Category, seg ArcSegment, g GroupAggregate) []string {
	rate := "n/a"
	if !math.IsNaN(g.AttackRate) {
		rate = fmt.Sprintf("%.1f%%", g.AttackRate*100)
	}
	return []string{
		fmt.Sprintf("%s: %s", category, DisplayKey(seg.Group)),
		fmt.Sprintf("Risk: %s", seg.Risk),
		fmt.Sprintf("Sessions: %d", seg.Count),
		fmt.Sprintf("Attack rate: %s", rate),
	}
}
