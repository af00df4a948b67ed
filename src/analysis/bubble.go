package analysis

import (
	"fmt"
	"math"

	"github.com/josanescod/ciber-intrusion-visualization/src/sessions"
)

// Colors for the 0/1 flags used by the bubble and parallel charts.
var FlagColors = [2]string{"#69b3a2", "#d95f02"}

const (
	BubbleOpacityVisible = 0.7
	BubbleOpacityHidden  = 0.0
)

// Margin is the plot inset of a cartesian chart.
type Margin struct {
	Top, Right, Bottom, Left float64
}

// AxisTick is a labelled tick; Pos is in pixels along the axis.
type AxisTick struct {
	Value float64 `json:"value"`
	Pos   float64 `json:"pos"`
	Label string  `json:"label"`
}

// BubbleConfig sizes the bubble scatter.
type BubbleConfig struct {
	Width, Height        int
	Margin               Margin
	MinRadius, MaxRadius float64
}

func DefaultBubbleConfig() BubbleConfig {
	return BubbleConfig{Width: 900, Height: 600, Margin: Margin{Top: 40, Right: 40, Bottom: 70, Left: 80}, MinRadius: 3, MaxRadius: 18}
}

// Bubble is one plotted session.
type Bubble struct {
	Session sessions.Session `json:"session"`
	X       float64          `json:"x"`
	Y       float64          `json:"y"`
	R       float64          `json:"r"`
	Color   string           `json:"color"`
	Opacity float64          `json:"opacity"`
	Visible bool             `json:"visible"` // hidden bubbles do not take hover
}

// BubbleLayout is the bubble scatter: x = packet rate (log), y = failed login
// ratio, area = session duration, colour = attack flag.
type BubbleLayout struct {
	Width, Height int
	Margin        Margin
	XScale        LogScale
	YScale        LinearScale
	RScale        SqrtScale
	XTicks        []AxisTick
	YTicks        []AxisTick
	XLabel        string
	YLabel        string
	Bubbles       []Bubble
	Skipped       int // sessions without a plottable packet rate or failed login ratio
	Empty         bool
}

// LayoutBubbles lays out the scatter. attacks is the attack/normal pair:
// side A shows attacks only, side B normal sessions only.
func LayoutBubbles(records []sessions.Session, attacks TogglePair, cfg BubbleConfig) BubbleLayout {
	d := DefaultBubbleConfig()
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = d.Width, d.Height
	}
	if cfg.Margin == (Margin{}) {
		cfg.Margin = d.Margin
	}
	if cfg.MaxRadius <= 0 {
		cfg.MinRadius, cfg.MaxRadius = d.MinRadius, d.MaxRadius
	}
	l := BubbleLayout{
		Width:  cfg.Width,
		Height: cfg.Height,
		Margin: cfg.Margin,
		XLabel: "Packet rate (traffic intensity)",
		YLabel: "Failed login ratio",
	}
	xMin, xMax, okX := sessions.ExtentFunc(records, func(s sessions.Session) float64 {
		if s.PacketRate <= 0 {
			return math.NaN()
		}
		return s.PacketRate
	})
	yMin, yMax, okY := sessions.Extent(records, sessions.FieldFailedLoginRatio)
	if !okX || !okY {
		l.Empty = true
		l.Skipped = len(records)
		return l
	}
	rMin, rMax, okR := sessions.Extent(records, sessions.FieldSessionDuration)

	w, h := float64(cfg.Width), float64(cfg.Height)
	l.XScale = LogScale{D0: xMin, D1: xMax, R0: cfg.Margin.Left, R1: w - cfg.Margin.Right}
	l.YScale = LinearScale{D0: yMin, D1: yMax, R0: h - cfg.Margin.Bottom, R1: cfg.Margin.Top}.Nice(10)
	if okR {
		l.RScale = SqrtScale{D0: rMin, D1: rMax, R0: cfg.MinRadius, R1: cfg.MaxRadius}
	}
	for _, v := range l.XScale.Ticks() {
		l.XTicks = append(l.XTicks, AxisTick{Value: v, Pos: l.XScale.Map(v), Label: FormatNumericTick(v)})
	}
	for _, v := range l.YScale.Ticks(10) {
		l.YTicks = append(l.YTicks, AxisTick{Value: v, Pos: l.YScale.Map(v), Label: FormatNumericTick(v)})
	}

	for _, s := range records {
		x := l.XScale.Map(s.PacketRate)
		if math.IsNaN(x) || math.IsNaN(s.FailedLoginRatio) {
			l.Skipped++
			continue
		}
		r := cfg.MinRadius
		if okR && !math.IsNaN(s.SessionDuration) {
			r = l.RScale.Map(s.SessionDuration)
		}
		color := FlagColors[0]
		if s.AttackDetected == 1 {
			color = FlagColors[1]
		}
		visible := attacks.Shows(s.AttackDetected == 1, s.AttackDetected == 0)
		op := BubbleOpacityVisible
		if !visible {
			op = BubbleOpacityHidden
		}
		l.Bubbles = append(l.Bubbles, Bubble{
			Session: s,
			X:       x,
			Y:       l.YScale.Map(s.FailedLoginRatio),
			R:       r,
			Color:   color,
			Opacity: op,
			Visible: visible,
		})
	}
	if len(l.Bubbles) == 0 {
		l.Empty = true
	}
	return l
}

// BubbleAt returns the top-most visible bubble containing (x, y).
func (l BubbleLayout) BubbleAt(x, y float64) (Bubble, bool) {
	for i := len(l.Bubbles) - 1; i >= 0; i-- {
		b := l.Bubbles[i]
		if !b.Visible {
			continue
		}
		if math.Hypot(x-b.X, y-b.Y) <= b.R {
			return b, true
		}
	}
	return Bubble{}, false
}

// BubbleTooltip mirrors the scatter hover card.
func BubbleTooltip(b Bubble) []string {
	return []string{
		fmt.Sprintf("Attack: %s", flagText(b.Session.AttackDetected)),
		fmt.Sprintf("Packet rate: %.2f", b.Session.PacketRate),
		fmt.Sprintf("Failed ratio: %.2f", b.Session.FailedLoginRatio),
		fmt.Sprintf("Duration: %.0f s", b.Session.SessionDuration),
	}
}

func flagText(v int) string {
	if v == sessions.FlagUnknown {
		return "?"
	}
	return fmt.Sprintf("%d", v)
}
