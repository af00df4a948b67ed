package sessions

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"
)

// DefaultDatasetFile is used when no dataset path is configured.
const DefaultDatasetFile = "datasets/cybersecurity_intrusion_data_clipped_outliers.csv"

// RequiredColumns must all be present in the CSV header.
var RequiredColumns = []string{
	"session_id",
	"packet_rate",
	"session_duration",
	"failed_login_ratio",
	"ip_reputation_score",
	"attack_detected",
	"unusual_time_access",
	"protocol_type",
	"encryption_used",
	"risk_level",
}

// ErrMissingColumns is wrapped by ReadCSV when the header lacks required columns.
var ErrMissingColumns = errors.New("missing required columns")

// LoadCSV opens path and parses it with ReadCSV.
func LoadCSV(path string) ([]Session, error) {
	defer TimeTrack(time.Now(), "load "+path)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	recs, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	Infof("[load] %d sessions from %s", len(recs), path)
	return recs, nil
}

// ReadCSV parses a header-first session CSV. Extra columns are ignored.
// A header-only input yields an empty, non-nil slice.
func ReadCSV(r io.Reader) ([]Session, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty input: %w", ErrMissingColumns)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := map[string]int{}
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		idx[strings.ToLower(h)] = i
	}
	var missing []string
	for _, c := range RequiredColumns {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	out := []Session{}
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if blankRow(row) {
			continue
		}
		cell := func(name string) string {
			i := idx[name]
			if i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}
		s := Session{
			ID:                cell("session_id"),
			PacketRate:        parseNumber(cell("packet_rate"), line, "packet_rate"),
			SessionDuration:   parseNumber(cell("session_duration"), line, "session_duration"),
			FailedLoginRatio:  parseNumber(cell("failed_login_ratio"), line, "failed_login_ratio"),
			IPReputationScore: parseNumber(cell("ip_reputation_score"), line, "ip_reputation_score"),
			AttackDetected:    parseFlag(cell("attack_detected"), line, "attack_detected"),
			UnusualTimeAccess: parseFlag(cell("unusual_time_access"), line, "unusual_time_access"),
			ProtocolType:      cell("protocol_type"),
			EncryptionUsed:    cell("encryption_used"),
			RiskLevel:         ParseRiskLevel(cell("risk_level")),
		}
		if s.RiskLevel == RiskUnknown {
			Debugf("[load] line %d: unrecognized risk_level %q", line, cell("risk_level"))
		}
		out = append(out, s)
	}
	return out, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// parseNumber: empty cell -> NaN silently, malformed -> NaN with a debug note.
func parseNumber(s string, line int, col string) float64 {
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		Debugf("[load] line %d: %s=%q is not numeric", line, col, s)
		return math.NaN()
	}
	return v
}

func parseFlag(s string, line int, col string) int {
	v := parseNumber(s, line, col)
	switch v {
	case 0:
		return 0
	case 1:
		return 1
	}
	if !math.IsNaN(v) {
		Debugf("[load] line %d: %s=%v is not a 0/1 flag", line, col, v)
	}
	return FlagUnknown
}
