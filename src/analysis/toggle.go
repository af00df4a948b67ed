package analysis

// Side identifies one checkbox of a TogglePair.
type Side int

const (
	SideA Side = iota
	SideB
)

// Visibility is the effective filter of a TogglePair.
type Visibility int

const (
	ShowAll Visibility = iota
	OnlyA
	OnlyB
)

func (v Visibility) String() string {
	switch v {
	case OnlyA:
		return "only-a"
	case OnlyB:
		return "only-b"
	}
	return "all"
}

// TogglePair is two mutually exclusive "show only" checkboxes. Neither
// checked shows everything; the pair can never end up with both checked.
type TogglePair struct {
	A, B bool
}

// Click applies a checkbox change. If both end up checked, the side that
// was not clicked is cleared. It reports whether the other side was changed.
func (p *TogglePair) Click(side Side, checked bool) (otherCleared bool) {
	if side == SideA {
		p.A = checked
	} else {
		p.B = checked
	}
	if p.A && p.B {
		if side == SideA {
			p.B = false
		} else {
			p.A = false
		}
		return true
	}
	return false
}

// Filter reports which group the pair currently shows.
func (p TogglePair) Filter() Visibility {
	switch {
	case p.A && !p.B:
		return OnlyA
	case p.B && !p.A:
		return OnlyB
	}
	return ShowAll
}

// Shows reports whether an item belonging to group A (isA) or group B
// (isB) is visible. Items in neither group are only shown under ShowAll.
func (p TogglePair) Shows(isA, isB bool) bool {
	switch p.Filter() {
	case OnlyA:
		return isA
	case OnlyB:
		return isB
	}
	return true
}
