package render

import (
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/josanescod/ciber-intrusion-visualization/src/analysis"
)

// Bubble draws the packet-rate / failed-login scatter.
func Bubble(w io.Writer, format Format, l analysis.BubbleLayout) error {
	p, err := newPainter(format, l.Width, l.Height)
	if err != nil {
		return err
	}
	if l.Empty {
		p.emptyState()
		return p.save(w)
	}
	width, height := float64(l.Width), float64(l.Height)
	m := l.Margin
	x0, x1 := m.Left, width-m.Right
	y0, y1 := height-m.Bottom, m.Top

	p.line(x0, y0, x1, y0, colorAxis, 1, nil)
	for _, t := range l.XTicks {
		p.line(t.Pos, y0, t.Pos, y0+6, colorAxis, 1, nil)
		p.text(t.Label, t.Pos, y0+20, 10, colorAxis, anchorMiddle)
	}
	p.line(x0, y0, x0, y1, colorAxis, 1, nil)
	for _, t := range l.YTicks {
		p.line(x0-6, t.Pos, x0, t.Pos, colorAxis, 1, nil)
		p.text(t.Label, x0-9, t.Pos+4, 10, colorAxis, anchorEnd)
	}
	p.text(l.XLabel, (x0+x1)/2, height-20, 12, colorAxis, anchorMiddle)
	p.verticalText(l.YLabel, 24, (y0+y1)/2, 12, colorAxis)

	for _, b := range l.Bubbles {
		if b.Opacity <= 0 {
			continue
		}
		p.circle(analysis.Point{X: b.X, Y: b.Y}, b.R, withOpacity(hexColor(b.Color), b.Opacity), withOpacity(drawing.ColorWhite, b.Opacity), 0.5)
	}

	legend := []struct {
		name  string
		color string
	}{{"Attack", analysis.FlagColors[1]}, {"Normal", analysis.FlagColors[0]}}
	for i, e := range legend {
		y := m.Top + float64(i)*20
		p.rect(x1-90, y, 14, 14, hexColor(e.color))
		p.text(e.name, x1-70, y+12, 12, colorAxis, anchorStart)
	}
	if l.Skipped > 0 {
		p.text(fmt.Sprintf("%d sessions without a plottable rate omitted", l.Skipped), x1, height-4, 10, colorMuted, anchorEnd)
	}
	return p.save(w)
}
