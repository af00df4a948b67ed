package analysis

import (
	"math"
	"reflect"
	"testing"

	"github.com/josanescod/ciber-intrusion-visualization/src/sessions"
)

func rec(proto, enc string, risk sessions.RiskLevel, attack int) sessions.Session {
	return sessions.Session{ProtocolType: proto, EncryptionUsed: enc, RiskLevel: risk, AttackDetected: attack, UnusualTimeAccess: 0}
}

func sampleRecords() []sessions.Session {
	return []sessions.Session{
		rec("TCP", "AES", sessions.RiskLow, 0),
		rec("UDP", "DES", sessions.RiskHigh, 1),
		rec("TCP", "", sessions.RiskConfirmed, 1),
		rec("TCP", "AES", sessions.RiskLow, 0),
		rec("ICMP", "DES", sessions.RiskMedium, 0),
		rec("UDP", "", sessions.RiskLow, 1),
	}
}

func TestAggregate_FirstSeenOrderAndCounts(t *testing.T) {
	aggs := Aggregate(sampleRecords(), CategoryProtocol)
	if len(aggs) != 3 {
		t.Fatalf("expected 3 groups got %d", len(aggs))
	}
	want := []string{"TCP", "UDP", "ICMP"}
	for i, k := range want {
		if aggs[i].Key != k {
			t.Fatalf("group %d: want %s got %s", i, k, aggs[i].Key)
		}
	}
	tcp := aggs[0]
	if tcp.Total != 3 || tcp.Count(sessions.RiskLow) != 2 || tcp.Count(sessions.RiskConfirmed) != 1 {
		t.Fatalf("unexpected TCP aggregate: %+v", tcp)
	}
	if math.Abs(tcp.AttackRate-1.0/3.0) > 1e-12 {
		t.Fatalf("TCP attack rate want 1/3 got %v", tcp.AttackRate)
	}
	if aggs[1].AttackRate != 1 {
		t.Fatalf("UDP attack rate want 1 got %v", aggs[1].AttackRate)
	}
}

func TestAggregate_RiskCountsSumToTotal(t *testing.T) {
	recs := append(sampleRecords(), rec("TCP", "AES", sessions.RiskUnknown, sessions.FlagUnknown))
	for _, c := range Categories {
		aggs := Aggregate(recs, c)
		sum := 0
		for _, g := range aggs {
			risk := g.Unclassified
			for _, n := range g.RiskCounts {
				risk += n
			}
			if risk != g.Total {
				t.Fatalf("%s/%s: risk counts %d != total %d", c, g.Key, risk, g.Total)
			}
			sum += g.Total
		}
		if sum != len(recs) {
			t.Fatalf("%s: totals %d != records %d", c, sum, len(recs))
		}
	}
}

func TestAggregate_EncryptionSentinelAndRegroup(t *testing.T) {
	recs := sampleRecords()
	enc := Aggregate(recs, CategoryEncryption)
	found := false
	for _, g := range enc {
		if g.Key == sessions.NoEncryption {
			found = true
			if g.Total != 2 {
				t.Fatalf("expected 2 unencrypted sessions got %d", g.Total)
			}
		}
		if g.Key == "" {
			t.Fatalf("empty encryption key should be grouped under %q", sessions.NoEncryption)
		}
	}
	if !found {
		t.Fatalf("missing %q group", sessions.NoEncryption)
	}
	first := Aggregate(recs, CategoryProtocol)
	_ = Aggregate(recs, CategoryEncryption)
	again := Aggregate(recs, CategoryProtocol)
	if !reflect.DeepEqual(first, again) {
		t.Fatalf("regrouping changed the protocol aggregate:\n%+v\n%+v", first, again)
	}
	if recs[2].EncryptionUsed != "" {
		t.Fatalf("aggregation must not modify the input records")
	}
}

func TestAggregate_NoKnownAttackFlags(t *testing.T) {
	aggs := Aggregate([]sessions.Session{rec("TCP", "AES", sessions.RiskLow, sessions.FlagUnknown)}, CategoryProtocol)
	if !math.IsNaN(aggs[0].AttackRate) {
		t.Fatalf("attack rate without known flags should be NaN, got %v", aggs[0].AttackRate)
	}
	lines := RadialTooltip(CategoryProtocol, ArcSegment{Group: "TCP", Risk: sessions.RiskLow, Count: 1}, aggs[0])
	if lines[3] != "Attack rate: n/a" {
		t.Fatalf("unexpected tooltip line %q", lines[3])
	}
}

func TestParseCategoryAndMode(t *testing.T) {
	if c, err := ParseCategory(" Encryption_Used "); err != nil || c != CategoryEncryption {
		t.Fatalf("ParseCategory: %v %v", c, err)
	}
	if _, err := ParseCategory("risk_level"); err == nil {
		t.Fatalf("expected error for unsupported category")
	}
	if m, err := ParseMode("PERCENT"); err != nil || m != ModePercent {
		t.Fatalf("ParseMode: %v %v", m, err)
	}
	if _, err := ParseMode("ratio"); err == nil {
		t.Fatalf("expected error for unsupported mode")
	}
}

func TestDisplayKey(t *testing.T) {
	if DisplayKey("") != "(none)" || DisplayKey("TCP") != "TCP" {
		t.Fatalf("unexpected display keys")
	}
}
