// Package analysis turns session records into chart-ready aggregates and
// geometry. Everything here is synchronous and free of rendering concerns.
package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/josanescod/ciber-intrusion-visualization/src/sessions"
)

// Category is the grouping key of the radial chart.
type Category string

const (
	CategoryProtocol   Category = "protocol_type"
	CategoryEncryption Category = "encryption_used"
)

// Categories lists the selectable groupings in control order.
var Categories = []Category{CategoryProtocol, CategoryEncryption}

// ParseCategory accepts the column name, case-insensitively.
func ParseCategory(s string) (Category, error) {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryProtocol:
		return CategoryProtocol, nil
	case CategoryEncryption:
		return CategoryEncryption, nil
	}
	return "", fmt.Errorf("unknown category %q (want protocol_type or encryption_used)", s)
}

// Key returns the group key of s under c. Missing encryption is reported as
// sessions.NoEncryption; s itself is never modified.
func (c Category) Key(s sessions.Session) string {
	switch c {
	case CategoryEncryption:
		return s.Encryption()
	default:
		return s.ProtocolType
	}
}

// Mode selects absolute counts or per-group composition for the radial bars.
type Mode string

const (
	ModeCount   Mode = "count"
	ModePercent Mode = "percent"
)

// ParseMode accepts "count" or "percent".
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeCount:
		return ModeCount, nil
	case ModePercent:
		return ModePercent, nil
	}
	return "", fmt.Errorf("unknown mode %q (want count or percent)", s)
}

// GroupAggregate summarises one category group.
type GroupAggregate struct {
	Key        string  `json:"key"`
	Total      int     `json:"total"`
	RiskCounts [4]int  `json:"risk_counts"` // indexed like sessions.RiskLevels
	// Unclassified counts sessions whose risk_level was not recognised; zero for valid data.
	Unclassified int     `json:"unclassified,omitempty"`
	AttackRate   float64 `json:"attack_rate"` // mean attack_detected over known flags; NaN when none
}

// Count returns the number of sessions in the group with risk r.
func (g GroupAggregate) Count(r sessions.RiskLevel) int {
	if i := r.Index(); i >= 0 {
		return g.RiskCounts[i]
	}
	return g.Unclassified
}

// Aggregate groups records by category in first-seen order.
func Aggregate(records []sessions.Session, category Category) []GroupAggregate {
	out := []GroupAggregate{}
	pos := map[string]int{}
	attackSum := []float64{}
	attackN := []int{}
	for _, r := range records {
		key := category.Key(r)
		i, ok := pos[key]
		if !ok {
			i = len(out)
			pos[key] = i
			out = append(out, GroupAggregate{Key: key})
			attackSum = append(attackSum, 0)
			attackN = append(attackN, 0)
		}
		g := &out[i]
		g.Total++
		if ri := r.RiskLevel.Index(); ri >= 0 {
			g.RiskCounts[ri]++
		} else {
			g.Unclassified++
		}
		if r.AttackDetected != sessions.FlagUnknown {
			attackSum[i] += float64(r.AttackDetected)
			attackN[i]++
		}
	}
	for i := range out {
		if attackN[i] == 0 {
			out[i].AttackRate = math.NaN()
			continue
		}
		out[i].AttackRate = attackSum[i] / float64(attackN[i])
	}
	return out
}

// MaxTotal returns the largest group total, 0 for no groups.
func MaxTotal(aggs []GroupAggregate) int {
	m := 0
	for _, a := range aggs {
		if a.Total > m {
			m = a.Total
		}
	}
	return m
}

// DisplayKey renders an empty group key readably.
func DisplayKey(key string) string {
	if strings.TrimSpace(key) == "" {
		return "(none)"
	}
	return key
}

// BuildRadial is the full radial pipeline: aggregate then lay out.
func BuildRadial(records []sessions.Session, category Category, mode Mode, cfg RadialConfig) RadialLayout {
	aggs := Aggregate(records, category)
	l := LayoutRadial(aggs, mode, cfg)
	l.Category = category
	return l
}
