// Package render draws analysis layouts with go-chart renderers (SVG or PNG).
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"os"
	"strings"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/josanescod/ciber-intrusion-visualization/src/analysis"
)

// Format is an output encoding.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ParseFormat accepts svg or png.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatSVG:
		return FormatSVG, nil
	case FormatPNG:
		return FormatPNG, nil
	}
	return "", fmt.Errorf("unknown format %q (want svg or png)", s)
}

// EmptyMessage is drawn instead of a chart when there is nothing to plot.
const EmptyMessage = "No sessions to display"

var (
	colorBackground = drawing.ColorWhite
	colorGrid       = hexColor("#cccccc")
	colorAxis       = hexColor("#333333")
	colorMuted      = hexColor("#666666")
	colorBrush      = hexColor("#777777")
)

// hexColor parses #rrggbb; go-chart wants it without the hash.
func hexColor(s string) drawing.Color {
	return drawing.ColorFromHex(strings.TrimPrefix(s, "#"))
}

func withOpacity(c drawing.Color, op float64) drawing.Color {
	if math.IsNaN(op) {
		op = 0
	}
	op = math.Max(0, math.Min(1, op))
	return c.WithAlpha(uint8(math.Round(op * float64(c.A))))
}

type anchor int

const (
	anchorStart anchor = iota
	anchorMiddle
	anchorEnd
)

// painter wraps a go-chart renderer with float geometry helpers.
type painter struct {
	r    chart.Renderer
	w, h int
}

func newPainter(format Format, w, h int) (*painter, error) {
	var (
		rd  chart.Renderer
		err error
	)
	switch format {
	case FormatSVG:
		rd, err = chart.SVG(w, h)
	case FormatPNG:
		rd, err = chart.PNG(w, h)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s renderer: %w", format, err)
	}
	font, err := chart.GetDefaultFont()
	if err != nil {
		return nil, fmt.Errorf("load default font: %w", err)
	}
	rd.SetFont(font)
	p := &painter{r: rd, w: w, h: h}
	p.rect(0, 0, float64(w), float64(h), colorBackground)
	return p, nil
}

func px(v float64) int { return int(math.Round(v)) }

func (p *painter) path(pts []analysis.Point, closed bool) {
	for i, pt := range pts {
		if i == 0 {
			p.r.MoveTo(px(pt.X), px(pt.Y))
			continue
		}
		p.r.LineTo(px(pt.X), px(pt.Y))
	}
	if closed {
		p.r.Close()
	}
}

func (p *painter) rect(x, y, w, h float64, fill drawing.Color) {
	p.polygon([]analysis.Point{{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h}}, fill, drawing.ColorTransparent, 0)
}

// polygon fills and optionally strokes a closed shape.
func (p *painter) polygon(pts []analysis.Point, fill, stroke drawing.Color, strokeWidth float64) {
	if len(pts) < 3 {
		return
	}
	p.r.SetFillColor(fill)
	p.r.SetStrokeColor(stroke)
	p.r.SetStrokeWidth(strokeWidth)
	p.r.SetStrokeDashArray(nil)
	p.path(pts, true)
	if strokeWidth > 0 {
		p.r.FillStroke()
	} else {
		p.r.Fill()
	}
}

// polyline strokes an open path; dash may be nil.
func (p *painter) polyline(pts []analysis.Point, stroke drawing.Color, width float64, dash []float64) {
	if len(pts) < 2 {
		return
	}
	p.r.SetStrokeColor(stroke)
	p.r.SetStrokeWidth(width)
	p.r.SetStrokeDashArray(dash)
	p.path(pts, false)
	p.r.Stroke()
	p.r.SetStrokeDashArray(nil)
}

func (p *painter) line(x0, y0, x1, y1 float64, stroke drawing.Color, width float64, dash []float64) {
	p.polyline([]analysis.Point{{X: x0, Y: y0}, {X: x1, Y: y1}}, stroke, width, dash)
}

// circle draws a flattened circle; a transparent stroke draws fill only.
func (p *painter) circle(c analysis.Point, r float64, fill, stroke drawing.Color, strokeWidth float64) {
	p.polygon(circlePoints(c, r), fill, stroke, strokeWidth)
}

// ring strokes a circle outline.
func (p *painter) ring(c analysis.Point, r float64, stroke drawing.Color, width float64, dash []float64) {
	pts := circlePoints(c, r)
	p.polyline(append(pts, pts[0]), stroke, width, dash)
}

func circlePoints(c analysis.Point, r float64) []analysis.Point {
	n := int(math.Max(12, math.Ceil(2*math.Pi*r/4)))
	pts := make([]analysis.Point, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = analysis.Point{X: c.X + math.Sin(a)*r, Y: c.Y - math.Cos(a)*r}
	}
	return pts
}

// text draws body with its baseline at y.
func (p *painter) text(body string, x, y float64, size float64, col drawing.Color, a anchor) {
	if body == "" || col.A == 0 {
		return
	}
	p.r.SetFontSize(size)
	p.r.SetFontColor(col)
	box := p.r.MeasureText(body)
	switch a {
	case anchorMiddle:
		x -= float64(box.Width()) / 2
	case anchorEnd:
		x -= float64(box.Width())
	}
	p.r.Text(body, px(x), px(y))
}

// verticalText draws body rotated a quarter turn counter-clockwise, centred on (x, y).
func (p *painter) verticalText(body string, x, y, size float64, col drawing.Color) {
	p.r.SetFontSize(size)
	p.r.SetFontColor(col)
	box := p.r.MeasureText(body)
	p.r.SetTextRotation(-math.Pi / 2)
	p.r.Text(body, px(x), px(y+float64(box.Width())/2))
	p.r.ClearTextRotation()
}

func (p *painter) emptyState() {
	p.text(EmptyMessage, float64(p.w)/2, float64(p.h)/2, 14, colorMuted, anchorMiddle)
}

func (p *painter) save(w io.Writer) error {
	if err := p.r.Save(w); err != nil {
		return fmt.Errorf("encode chart: %w", err)
	}
	return nil
}

// DrawFunc renders one chart in the given format.
type DrawFunc func(w io.Writer, format Format) error

// Image renders draw as PNG and decodes it, for UI display.
func Image(draw DrawFunc) (image.Image, error) {
	var buf bytes.Buffer
	if err := draw(&buf, FormatPNG); err != nil {
		return nil, err
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decode chart png: %w", err)
	}
	return img, nil
}

// WriteFile renders draw into path.
func WriteFile(path string, format Format, draw DrawFunc) error {
	var buf bytes.Buffer
	if err := draw(&buf, format); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
