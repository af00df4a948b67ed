package main

import (
	"image/color"
	"strings"

	fyne "fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/josanescod/ciber-intrusion-visualization/cmd/sessionviewer/uihelpers"
	"github.com/josanescod/ciber-intrusion-visualization/src/analysis"
	"github.com/josanescod/ciber-intrusion-visualization/src/sessions"
)

// hit-test tolerance for parallel lines, in image pixels
const lineHitTolerance = 4

// chartOverlay sits on top of a chart image. It shows the hover card and,
// on the parallel chart, turns vertical drags on an axis into brushes.
type chartOverlay struct {
	widget.BaseWidget
	state    *uiState
	kind     chartKind
	mouse    fyne.Position
	hovering bool

	dragging  bool
	dragStart fyne.Position
	dragEnd   fyne.Position
	dragField sessions.Field
}

func newChartOverlay(state *uiState, kind chartKind) *chartOverlay {
	c := &chartOverlay{state: state, kind: kind}
	c.ExtendBaseWidget(c)
	return c
}

// imageSize is the pixel size of the chart currently shown for k.
func (state *uiState) imageSize(k chartKind) (float32, float32) {
	switch k {
	case kindBubble:
		return float32(state.bubble.Width), float32(state.bubble.Height)
	case kindParallel:
		return float32(state.parallel.Width), float32(state.parallel.Height)
	}
	return float32(state.radial.Width), float32(state.radial.Height)
}

// hoverText returns the tooltip lines at image pixel (ix, iy) of chart k.
func (state *uiState) hoverText(k chartKind, ix, iy float64) []string {
	switch k {
	case kindBubble:
		if b, ok := state.bubble.BubbleAt(ix, iy); ok {
			return analysis.BubbleTooltip(b)
		}
	case kindParallel:
		if line, ok := state.parallel.LineAt(ix, iy, lineHitTolerance); ok {
			return analysis.ParallelTooltip(line.Session)
		}
	case kindRadial:
		seg, ok := state.radial.SegmentAt(ix, iy)
		if !ok {
			return nil
		}
		g, _ := state.radial.Group(seg.Group)
		return analysis.RadialTooltip(state.category, seg, g)
	}
	return nil
}

// setHoverSegment updates the highlighted arc; it reports whether it changed.
func (state *uiState) setHoverSegment(ix, iy float64, inside bool) bool {
	var next *analysis.ArcSegment
	if inside {
		if seg, ok := state.radial.SegmentAt(ix, iy); ok {
			next = &seg
		}
	}
	prev := state.hoverSeg
	switch {
	case prev == nil && next == nil:
		return false
	case prev != nil && next != nil && prev.GroupIndex == next.GroupIndex && prev.RiskIndex == next.RiskIndex:
		return false
	}
	state.hoverSeg = next
	return true
}

// commitBrush brushes the axis under image x0 with the vertical span [y0, y1].
// A drag that starts off every axis does nothing.
func (state *uiState) commitBrush(x0, y0, y1 float64) bool {
	ax, ok := state.parallel.AxisAt(x0)
	if !ok {
		return false
	}
	state.parallel.ApplyBrush(state.brushes, ax.Field, y0, y1)
	state.relayoutParallel()
	return true
}

// clearBrushAt removes the brush of the axis under image x.
func (state *uiState) clearBrushAt(x float64) bool {
	ax, ok := state.parallel.AxisAt(x)
	if !ok {
		return false
	}
	if _, brushed := state.brushes.Get(ax.Field); !brushed {
		return false
	}
	state.brushes.Clear(ax.Field)
	state.relayoutParallel()
	return true
}

// toImage maps a view position to image pixels without rejecting the letterbox,
// so drags that leave the chart still end somewhere sensible.
func (c *chartOverlay) toImage(p fyne.Position) (float64, float64) {
	imgW, imgH := c.state.imageSize(c.kind)
	size := c.Size()
	x, y, _, _, scale := uihelpers.ContainRect(imgW, imgH, size.Width, size.Height)
	if scale == 0 {
		return 0, 0
	}
	return float64((p.X - x) / scale), float64((p.Y - y) / scale)
}

func (c *chartOverlay) CreateRenderer() fyne.WidgetRenderer {
	// transparent background so the whole area receives pointer events
	bg := canvas.NewRectangle(color.Transparent)
	brush := canvas.NewRectangle(color.RGBA{R: 70, G: 130, B: 180, A: 60})
	brush.StrokeColor = color.RGBA{R: 70, G: 130, B: 180, A: 200}
	brush.StrokeWidth = 1
	labelBG := canvas.NewRectangle(color.RGBA{R: 0, G: 0, B: 0, A: 170})
	labelBG.CornerRadius = 4
	label := widget.NewRichText()
	label.Wrapping = fyne.TextWrapOff
	objs := []fyne.CanvasObject{bg, brush, labelBG, label}
	return &overlayRenderer{c: c, bg: bg, brush: brush, labelBG: labelBG, label: label, objs: objs}
}

type overlayRenderer struct {
	c       *chartOverlay
	bg      *canvas.Rectangle
	brush   *canvas.Rectangle
	labelBG *canvas.Rectangle
	label   *widget.RichText
	objs    []fyne.CanvasObject
}

func (r *overlayRenderer) Destroy() {}

func (r *overlayRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))
	r.layoutBrush()
	r.layoutLabel(size)
}

func (r *overlayRenderer) layoutBrush() {
	c := r.c
	if !c.dragging {
		r.brush.Resize(fyne.NewSize(0, 0))
		r.brush.Move(fyne.NewPos(-1000, -1000))
		return
	}
	imgW, imgH := c.state.imageSize(c.kind)
	size := c.Size()
	ax, _ := c.state.parallel.Axis(c.dragField)
	half := c.state.parallel.BrushHalfWidth
	axisX := c.state.parallel.Origin.X + ax.X
	left, _ := uihelpers.ImageToView(axisX-half, 0, imgW, imgH, size.Width, size.Height)
	right, _ := uihelpers.ImageToView(axisX+half, 0, imgW, imgH, size.Width, size.Height)
	top, bottom := c.dragStart.Y, c.dragEnd.Y
	if bottom < top {
		top, bottom = bottom, top
	}
	r.brush.Resize(fyne.NewSize(right-left, bottom-top))
	r.brush.Move(fyne.NewPos(left, top))
}

func (r *overlayRenderer) layoutLabel(size fyne.Size) {
	c := r.c
	var lines []string
	if c.hovering && !c.dragging {
		imgW, imgH := c.state.imageSize(c.kind)
		if ix, iy, ok := uihelpers.ViewToImage(c.mouse.X, c.mouse.Y, imgW, imgH, size.Width, size.Height); ok {
			lines = c.state.hoverText(c.kind, ix, iy)
		}
	}
	if len(lines) == 0 {
		r.label.Segments = nil
		r.labelBG.Resize(fyne.NewSize(0, 0))
		r.labelBG.Move(fyne.NewPos(-1000, -1000))
		r.label.Move(fyne.NewPos(-1000, -1000))
		return
	}
	r.label.Segments = []widget.RichTextSegment{&widget.TextSegment{Text: strings.Join(lines, "\n")}}
	r.label.Refresh()
	pad := float32(6)
	ts := r.label.MinSize()
	bgW, bgH := ts.Width+2*pad, ts.Height+2*pad
	tx, ty := uihelpers.TooltipPosition(c.mouse.X, c.mouse.Y, bgW, bgH, size.Width, size.Height)
	r.labelBG.Resize(fyne.NewSize(bgW, bgH))
	r.labelBG.Move(fyne.NewPos(tx, ty))
	r.label.Move(fyne.NewPos(tx+pad, ty+pad))
}

func (r *overlayRenderer) MinSize() fyne.Size           { return fyne.NewSize(10, 10) }
func (r *overlayRenderer) Objects() []fyne.CanvasObject { return r.objs }
func (r *overlayRenderer) Refresh() {
	r.Layout(r.c.Size())
	r.bg.Refresh()
	r.brush.Refresh()
	r.labelBG.Refresh()
	r.label.Refresh()
}

func (c *chartOverlay) MouseIn(ev *desktop.MouseEvent) {
	c.hovering = true
	c.MouseMoved(ev)
}

func (c *chartOverlay) MouseMoved(ev *desktop.MouseEvent) {
	c.hovering = true
	c.mouse = ev.Position
	if c.kind == kindRadial {
		imgW, imgH := c.state.imageSize(kindRadial)
		ix, iy, inside := uihelpers.ViewToImage(ev.Position.X, ev.Position.Y, imgW, imgH, c.Size().Width, c.Size().Height)
		if c.state.setHoverSegment(ix, iy, inside) && c.state.radialAnim == nil {
			c.state.paint(kindRadial)
			return
		}
	}
	c.Refresh()
}

func (c *chartOverlay) MouseOut() {
	c.hovering = false
	if c.kind == kindRadial && c.state.setHoverSegment(0, 0, false) {
		c.state.paint(kindRadial)
		return
	}
	c.Refresh()
}

func (c *chartOverlay) Dragged(ev *fyne.DragEvent) {
	if c.kind != kindParallel {
		return
	}
	if !c.dragging {
		start := ev.Position.Subtract(ev.Dragged)
		ix, _ := c.toImage(start)
		ax, ok := c.state.parallel.AxisAt(ix)
		if !ok {
			return
		}
		c.dragging = true
		c.dragStart = start
		c.dragField = ax.Field
	}
	c.dragEnd = ev.Position
	c.Refresh()
}

func (c *chartOverlay) DragEnd() {
	if !c.dragging {
		return
	}
	c.dragging = false
	x0, y0 := c.toImage(c.dragStart)
	_, y1 := c.toImage(c.dragEnd)
	if c.state.commitBrush(x0, y0, y1) {
		c.state.paint(kindParallel)
		return
	}
	c.Refresh()
}

func (c *chartOverlay) Tapped(ev *fyne.PointEvent) {
	if c.kind != kindParallel {
		return
	}
	ix, _ := c.toImage(ev.Position)
	if c.state.clearBrushAt(ix) {
		c.state.paint(kindParallel)
	}
}

var (
	_ desktop.Hoverable = (*chartOverlay)(nil)
	_ fyne.Draggable    = (*chartOverlay)(nil)
	_ fyne.Tappable     = (*chartOverlay)(nil)
)
