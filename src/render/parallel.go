package render

import (
	"io"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/josanescod/ciber-intrusion-visualization/src/analysis"
)

// Parallel draws the parallel-coordinates chart with its brush boxes.
func Parallel(w io.Writer, format Format, l analysis.ParallelLayout) error {
	p, err := newPainter(format, l.Width, l.Height)
	if err != nil {
		return err
	}
	if l.Empty {
		p.emptyState()
		return p.save(w)
	}
	for _, line := range l.Lines {
		if line.Opacity <= 0 {
			continue
		}
		stroke := withOpacity(hexColor(line.Color), line.Opacity)
		for _, seg := range line.Segments {
			p.polyline(seg, stroke, 1.5, nil)
		}
	}
	top, bottom := l.Origin.Y, l.Origin.Y+l.InnerHeight
	for _, ax := range l.Axes {
		x := l.Origin.X + ax.X
		p.line(x, top, x, bottom, colorAxis, 1, nil)
		for _, t := range ax.Ticks {
			y := l.Origin.Y + t.Pos
			p.line(x-6, y, x, y, colorAxis, 1, nil)
			p.text(t.Label, x-9, y+4, 10, colorAxis, anchorEnd)
		}
		p.text(string(ax.Field), x, top-12, 12, colorAxis, anchorMiddle)
	}
	for _, b := range l.Brushes {
		p.polygon([]analysis.Point{
			{X: b.X - l.BrushHalfWidth, Y: b.Y0},
			{X: b.X + l.BrushHalfWidth, Y: b.Y0},
			{X: b.X + l.BrushHalfWidth, Y: b.Y1},
			{X: b.X - l.BrushHalfWidth, Y: b.Y1},
		}, withOpacity(colorBrush, 0.3), drawing.ColorWhite, 1)
	}
	return p.save(w)
}
