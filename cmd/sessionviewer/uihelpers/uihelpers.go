package uihelpers

import "math"

// ContainRect returns where an image of imgW x imgH lands inside a view of
// viewW x viewH when scaled to fit while keeping its aspect ratio (centred).
func ContainRect(imgW, imgH, viewW, viewH float32) (x, y, w, h, scale float32) {
	if imgW <= 0 || imgH <= 0 || viewW <= 0 || viewH <= 0 {
		return 0, 0, 0, 0, 0
	}
	scale = float32(math.Min(float64(viewW/imgW), float64(viewH/imgH)))
	w, h = imgW*scale, imgH*scale
	x, y = (viewW-w)/2, (viewH-h)/2
	return x, y, w, h, scale
}

// ViewToImage maps a point in view coordinates to image pixels. ok is false
// when the point falls in the letterbox around the image.
func ViewToImage(px, py, imgW, imgH, viewW, viewH float32) (ix, iy float64, ok bool) {
	x, y, w, h, scale := ContainRect(imgW, imgH, viewW, viewH)
	if scale == 0 || px < x || py < y || px > x+w || py > y+h {
		return 0, 0, false
	}
	return float64((px - x) / scale), float64((py - y) / scale), true
}

// ImageToView is the inverse of ViewToImage.
func ImageToView(ix, iy float64, imgW, imgH, viewW, viewH float32) (px, py float32) {
	x, y, _, _, scale := ContainRect(imgW, imgH, viewW, viewH)
	return x + float32(ix)*scale, y + float32(iy)*scale
}

// TooltipPosition places a w x h box next to the pointer, flipping to the
// other side when it would leave the view.
func TooltipPosition(mx, my, w, h, viewW, viewH float32) (float32, float32) {
	const offset = 12
	x, y := mx+offset, my+offset
	if x+w > viewW {
		x = mx - offset - w
	}
	if y+h > viewH {
		y = my - offset - h
	}
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return x, y
}

// ComputeTableColumnWidths returns the 7 column widths of the group table.
// Order: Group, Total, Low, Medium, High, Confirmed, Attack rate
func ComputeTableColumnWidths(winW float32) [7]int {
	const compactBreakpoint = 900
	const ultraCompactBreakpoint = 520
	if winW < ultraCompactBreakpoint {
		return [7]int{110, 60, 0, 0, 0, 0, 80}
	}
	if winW < compactBreakpoint {
		return [7]int{140, 60, 55, 65, 55, 80, 90}
	}
	return [7]int{220, 80, 80, 90, 80, 100, 110}
}
