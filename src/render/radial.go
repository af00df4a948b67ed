package render

import (
	"io"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/josanescod/ciber-intrusion-visualization/src/analysis"
)

var gridDash = []float64{4, 4}

// RadialOptions tweak how a radial layout is painted.
type RadialOptions struct {
	// Highlight outlines one segment more heavily (hover).
	Highlight    *analysis.ArcSegment
	HideLegend   bool
	SkipEmptyMsg bool
}

// Radial draws the stacked radial bar chart.
func Radial(w io.Writer, format Format, l analysis.RadialLayout, opts RadialOptions) error {
	p, err := newPainter(format, l.Width, l.Height)
	if err != nil {
		return err
	}
	if l.Empty {
		if !opts.SkipEmptyMsg {
			p.emptyState()
		}
	} else {
		drawRadialGrid(p, l)
		for _, s := range l.Segments {
			if s.OuterRadius-s.InnerRadius <= 0 || s.Opacity <= 0 {
				continue
			}
			width := 1.5
			if opts.Highlight != nil && opts.Highlight.GroupIndex == s.GroupIndex && opts.Highlight.RiskIndex == s.RiskIndex {
				width = 3
			}
			p.polygon(l.SegmentPolygon(s), withOpacity(hexColor(s.Color), s.Opacity), drawing.ColorWhite, width)
		}
		for _, lb := range l.Labels {
			p.text(lb.Text, lb.Pos.X, lb.Pos.Y, 14, withOpacity(colorAxis, lb.Opacity), anchorMiddle)
		}
	}
	if !opts.HideLegend {
		for _, e := range l.Legend {
			p.rect(e.Pos.X, e.Pos.Y, 14, 14, withOpacity(hexColor(e.Color), l.LegendOpacity))
			p.text(string(e.Risk), e.Pos.X+20, e.Pos.Y+12, 12, withOpacity(colorAxis, l.LegendOpacity), anchorStart)
		}
	}
	return p.save(w)
}

func drawRadialGrid(p *painter, l analysis.RadialLayout) {
	if l.GridOpacity <= 0 {
		return
	}
	stroke := withOpacity(colorGrid, l.GridOpacity)
	for _, g := range l.Grid {
		if g.Radius > 0 {
			p.ring(l.Center, g.Radius, withOpacity(colorGrid, l.GridOpacity*g.Opacity), 0.8, gridDash)
		}
	}
	for _, s := range l.Spokes {
		p.line(l.Center.X, l.Center.Y, s.End.X, s.End.Y, stroke, 0.8, gridDash)
	}
	for _, g := range l.Grid {
		p.text(g.Label, g.LabelPos.X, g.LabelPos.Y, 11, withOpacity(colorMuted, l.GridOpacity*g.LabelOpacity), anchorMiddle)
	}
}
