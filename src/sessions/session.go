// Package sessions holds the cybersecurity session record, its CSV loader
// and the leveled logger shared by the rest of the module.
package sessions

import (
	"math"
	"strings"
)

// RiskLevel classifies a session.
type RiskLevel string

const (
	RiskLow       RiskLevel = "Low"
	RiskMedium    RiskLevel = "Medium"
	RiskHigh      RiskLevel = "High"
	RiskConfirmed RiskLevel = "Confirmed"
	RiskUnknown   RiskLevel = ""
)

// RiskLevels is the fixed stacking order used by the radial chart.
var RiskLevels = [4]RiskLevel{RiskLow, RiskMedium, RiskHigh, RiskConfirmed}

// ParseRiskLevel matches case-insensitively; anything else is RiskUnknown.
func ParseRiskLevel(s string) RiskLevel {
	for _, r := range RiskLevels {
		if strings.EqualFold(strings.TrimSpace(s), string(r)) {
			return r
		}
	}
	return RiskUnknown
}

// Index returns the stacking position of r, or -1 for RiskUnknown.
func (r RiskLevel) Index() int {
	for i, l := range RiskLevels {
		if l == r {
			return i
		}
	}
	return -1
}

// NoEncryption is the sentinel shown for sessions without an encryption_used value.
const NoEncryption = "No encrypt"

// FlagUnknown marks a 0/1 flag column that was missing or malformed.
const FlagUnknown = -1

// Session is one CSV row. Missing numerics are NaN, missing flags FlagUnknown.
type Session struct {
	ID                string    `json:"session_id"`
	PacketRate        float64   `json:"packet_rate"`
	SessionDuration   float64   `json:"session_duration"`
	FailedLoginRatio  float64   `json:"failed_login_ratio"`
	IPReputationScore float64   `json:"ip_reputation_score"`
	AttackDetected    int       `json:"attack_detected"`
	UnusualTimeAccess int       `json:"unusual_time_access"`
	ProtocolType      string    `json:"protocol_type"`
	EncryptionUsed    string    `json:"encryption_used"`
	RiskLevel         RiskLevel `json:"risk_level"`
}

// Field names a numeric column used by the bubble and parallel charts.
type Field string

const (
	FieldPacketRate        Field = "packet_rate"
	FieldSessionDuration   Field = "session_duration"
	FieldFailedLoginRatio  Field = "failed_login_ratio"
	FieldIPReputationScore Field = "ip_reputation_score"
)

// NumericFields lists the parallel-coordinates dimensions in display order.
var NumericFields = []Field{FieldPacketRate, FieldSessionDuration, FieldFailedLoginRatio, FieldIPReputationScore}

// Value returns the numeric value of f, NaN for unknown fields.
func (s Session) Value(f Field) float64 {
	switch f {
	case FieldPacketRate:
		return s.PacketRate
	case FieldSessionDuration:
		return s.SessionDuration
	case FieldFailedLoginRatio:
		return s.FailedLoginRatio
	case FieldIPReputationScore:
		return s.IPReputationScore
	}
	return math.NaN()
}

// Encryption returns encryption_used with the NoEncryption sentinel applied.
func (s Session) Encryption() string {
	if strings.TrimSpace(s.EncryptionUsed) == "" {
		return NoEncryption
	}
	return s.EncryptionUsed
}

// NormalizeEncryption returns a copy of records with missing encryption_used
// rewritten to NoEncryption. The input slice is left untouched.
func NormalizeEncryption(records []Session) []Session {
	out := make([]Session, len(records))
	for i, r := range records {
		r.EncryptionUsed = r.Encryption()
		out[i] = r
	}
	return out
}

// Extent returns min and max of f over finite values; ok is false when none exist.
func Extent(records []Session, f Field) (min, max float64, ok bool) {
	return ExtentFunc(records, func(s Session) float64 { return s.Value(f) })
}

// ExtentFunc is Extent over an arbitrary accessor.
func ExtentFunc(records []Session, value func(Session) float64) (min, max float64, ok bool) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, r := range records {
		v := value(r)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		ok = true
	}
	if !ok {
		return math.NaN(), math.NaN(), false
	}
	return min, max, true
}
