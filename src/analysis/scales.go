package analysis

import (
	"math"
	"strconv"
)

// BandScale maps discrete keys to equal-width slots over a continuous range,
// following d3's scaleBand (inner/outer padding as a fraction of the step, align in [0,1]).
type BandScale struct {
	domain    []string
	index     map[string]int
	start     float64
	step      float64
	bandwidth float64
}

// NewBandScale builds a band scale over [start, stop].
func NewBandScale(domain []string, start, stop, paddingInner, paddingOuter, align float64) BandScale {
	b := BandScale{domain: append([]string(nil), domain...), index: make(map[string]int, len(domain))}
	for i, k := range b.domain {
		if _, dup := b.index[k]; !dup {
			b.index[k] = i
		}
	}
	n := float64(len(b.domain))
	b.step = (stop - start) / math.Max(1, n-paddingInner+paddingOuter*2)
	b.start = start + (stop-start-b.step*(n-paddingInner))*align
	b.bandwidth = b.step * (1 - paddingInner)
	return b
}

// NewPointScale is a band scale with zero bandwidth (d3 scalePoint).
func NewPointScale(domain []string, start, stop, padding float64) BandScale {
	return NewBandScale(domain, start, stop, 1, padding, 0.5)
}

// Position returns the start of key's band.
func (b BandScale) Position(key string) (float64, bool) {
	i, ok := b.index[key]
	if !ok {
		return math.NaN(), false
	}
	return b.start + b.step*float64(i), true
}

// Center returns the middle of key's band.
func (b BandScale) Center(key string) (float64, bool) {
	p, ok := b.Position(key)
	return p + b.bandwidth/2, ok
}

func (b BandScale) Bandwidth() float64 { return b.bandwidth }
func (b BandScale) Step() float64      { return b.step }
func (b BandScale) Domain() []string   { return append([]string(nil), b.domain...) }

// LinearScale maps [D0,D1] onto [R0,R1]. A zero-width domain maps everything to the range midpoint.
type LinearScale struct {
	D0, D1 float64
	R0, R1 float64
}

func (s LinearScale) Map(v float64) float64 {
	if s.D1 == s.D0 {
		return (s.R0 + s.R1) / 2
	}
	return s.R0 + (v-s.D0)/(s.D1-s.D0)*(s.R1-s.R0)
}

// Invert maps a range value back into the domain.
func (s LinearScale) Invert(px float64) float64 {
	if s.R1 == s.R0 {
		return s.D0
	}
	return s.D0 + (px-s.R0)/(s.R1-s.R0)*(s.D1-s.D0)
}

// Nice extends the domain to round tick boundaries (d3 linear.nice).
func (s LinearScale) Nice(count int) LinearScale {
	start, stop := s.D0, s.D1
	reversed := stop < start
	if reversed {
		start, stop = stop, start
	}
	prestep := 0.0
	for iter := 0; iter < 10; iter++ {
		step := tickIncrement(start, stop, count)
		if step == prestep {
			break
		}
		switch {
		case step > 0:
			start = math.Floor(start/step) * step
			stop = math.Ceil(stop/step) * step
		case step < 0:
			start = math.Ceil(start*step) / step
			stop = math.Floor(stop*step) / step
		default:
			iter = 10
		}
		prestep = step
	}
	if reversed {
		start, stop = stop, start
	}
	s.D0, s.D1 = start, stop
	return s
}

// Ticks returns roughly count round values inside the domain.
func (s LinearScale) Ticks(count int) []float64 {
	lo, hi := s.D0, s.D1
	if hi < lo {
		lo, hi = hi, lo
	}
	if count <= 0 || math.IsNaN(lo) || math.IsNaN(hi) {
		return nil
	}
	if lo == hi {
		return []float64{lo}
	}
	step := tickStep(lo, hi, count)
	if step <= 0 || math.IsInf(step, 0) {
		return nil
	}
	var out []float64
	for i := math.Ceil(lo / step); i*step <= hi+step*1e-9; i++ {
		out = append(out, round6(i*step))
	}
	return out
}

var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// tickIncrement follows d3-array: positive is the step, negative is the inverse step.
func tickIncrement(start, stop float64, count int) float64 {
	if count <= 0 || stop <= start {
		return 0
	}
	step := (stop - start) / float64(count)
	power := math.Floor(math.Log10(step))
	err := step / math.Pow(10, power)
	factor := 1.0
	switch {
	case err >= e10:
		factor = 10
	case err >= e5:
		factor = 5
	case err >= e2:
		factor = 2
	}
	if power < 0 {
		return -math.Pow(10, -power) / factor
	}
	return factor * math.Pow(10, power)
}

func tickStep(start, stop float64, count int) float64 {
	inc := tickIncrement(start, stop, count)
	if inc < 0 {
		return 1 / -inc
	}
	return inc
}

// LogScale is a base-10 log scale. Non-positive inputs map to NaN.
type LogScale struct {
	D0, D1 float64
	R0, R1 float64
}

func (s LogScale) Map(v float64) float64 {
	if v <= 0 || math.IsNaN(v) || s.D0 <= 0 || s.D1 <= 0 {
		return math.NaN()
	}
	l0, l1 := math.Log10(s.D0), math.Log10(s.D1)
	if l0 == l1 {
		return (s.R0 + s.R1) / 2
	}
	return s.R0 + (math.Log10(v)-l0)/(l1-l0)*(s.R1-s.R0)
}

// Ticks returns powers of ten inside the domain; spans of three decades or
// less also get the 2x and 5x multiples.
func (s LogScale) Ticks() []float64 {
	lo, hi := s.D0, s.D1
	if hi < lo {
		lo, hi = hi, lo
	}
	if lo <= 0 || math.IsNaN(lo) || math.IsNaN(hi) {
		return nil
	}
	p0, p1 := math.Floor(math.Log10(lo)), math.Ceil(math.Log10(hi))
	mults := []float64{1}
	if p1-p0 <= 3 {
		mults = []float64{1, 2, 5}
	}
	var out []float64
	for p := p0; p <= p1; p++ {
		for _, m := range mults {
			v := m * math.Pow(10, p)
			if v >= lo*(1-1e-9) && v <= hi*(1+1e-9) {
				out = append(out, round6(v))
			}
		}
	}
	if len(out) == 0 {
		out = []float64{lo, hi}
	}
	return out
}

// SqrtScale is a sign-preserving square-root scale (d3 scaleSqrt).
type SqrtScale struct {
	D0, D1 float64
	R0, R1 float64
}

func signedSqrt(v float64) float64 {
	if v < 0 {
		return -math.Sqrt(-v)
	}
	return math.Sqrt(v)
}

func (s SqrtScale) Map(v float64) float64 {
	t0, t1 := signedSqrt(s.D0), signedSqrt(s.D1)
	if t0 == t1 {
		return (s.R0 + s.R1) / 2
	}
	return s.R0 + (signedSqrt(v)-t0)/(t1-t0)*(s.R1-s.R0)
}

// round6 rounds to 6 decimal places to stabilize tick values and labels.
func round6(v float64) float64 { return math.Round(v*1e6) / 1e6 }

// FormatNumericTick provides a compact axis label.
func FormatNumericTick(v float64) string {
	av := math.Abs(v)
	switch {
	case v == 0:
		return "0"
	case av >= 100:
		return strconv.FormatInt(int64(math.Round(v)), 10)
	case av >= 10:
		return strconv.FormatFloat(v, 'f', 1, 64)
	case av >= 1:
		return strconv.FormatFloat(v, 'f', 2, 64)
	case av >= 0.01:
		return strconv.FormatFloat(v, 'f', 3, 64)
	default:
		return strconv.FormatFloat(v, 'f', 4, 64)
	}
}
