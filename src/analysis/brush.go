package analysis

import (
	"math"

	"github.com/josanescod/ciber-intrusion-visualization/src/sessions"
)

// Opacities used by the parallel-coordinates chart.
const (
	LineOpacityBase     = 0.35
	LineOpacityActive   = 0.9
	LineOpacityInactive = 0.05
	LineOpacityHidden   = 0.0
)

// Brush is an inclusive value range on one axis.
type Brush struct {
	Field  sessions.Field
	Lo, Hi float64
}

// Contains reports whether v lies in the range; NaN never does.
func (b Brush) Contains(v float64) bool {
	return !math.IsNaN(v) && v >= b.Lo && v <= b.Hi
}

// BrushSet holds at most one active brush per axis.
type BrushSet struct {
	brushes map[sessions.Field]Brush
	touched bool
}

// NewBrushSet returns an empty set.
func NewBrushSet() *BrushSet {
	return &BrushSet{brushes: map[sessions.Field]Brush{}}
}

// Set activates a value range on field; the bounds may be given in either order.
func (s *BrushSet) Set(field sessions.Field, a, b float64) {
	if a > b {
		a, b = b, a
	}
	s.brushes[field] = Brush{Field: field, Lo: a, Hi: b}
	s.touched = true
}

// SetPixels activates a brush from a pixel selection [y0, y1] on an axis
// whose scale is y.
func (s *BrushSet) SetPixels(field sessions.Field, y LinearScale, y0, y1 float64) {
	s.Set(field, y.Invert(y0), y.Invert(y1))
}

// Clear removes the brush on field (a brush gesture that ended with no selection).
func (s *BrushSet) Clear(field sessions.Field) {
	delete(s.brushes, field)
	s.touched = true
}

// Reset drops every brush and forgets that brushing happened.
func (s *BrushSet) Reset() {
	s.brushes = map[sessions.Field]Brush{}
	s.touched = false
}

// Get returns the brush on field.
func (s *BrushSet) Get(field sessions.Field) (Brush, bool) {
	b, ok := s.brushes[field]
	return b, ok
}

// get is Get for a possibly nil set.
func (s *BrushSet) get(field sessions.Field) (Brush, bool) {
	if s == nil {
		return Brush{}, false
	}
	return s.Get(field)
}

// Len is the number of active brushes.
func (s *BrushSet) Len() int { return len(s.brushes) }

// Touched reports whether any brush gesture happened since the last Reset.
func (s *BrushSet) Touched() bool { return s.touched }

// Active reports whether rec passes every active brush. No brushes: all active.
func (s *BrushSet) Active(rec sessions.Session) bool {
	for f, b := range s.brushes {
		if !b.Contains(rec.Value(f)) {
			return false
		}
	}
	return true
}

// Opacity is the brush highlight of rec: 0.9 when active, 0.05 otherwise.
func (s *BrushSet) Opacity(rec sessions.Session) float64 {
	if s.Active(rec) {
		return LineOpacityActive
	}
	return LineOpacityInactive
}

// LineOpacity combines the unusual-time-access pair with the brushes:
// a line hidden by the pair is invisible, a brushed chart highlights
// active lines, and an untouched chart uses the base opacity.
func LineOpacity(rec sessions.Session, uta TogglePair, brushes *BrushSet) float64 {
	if !uta.Shows(rec.UnusualTimeAccess == 1, rec.UnusualTimeAccess == 0) {
		return LineOpacityHidden
	}
	if brushes != nil && brushes.Touched() {
		return brushes.Opacity(rec)
	}
	return LineOpacityBase
}
