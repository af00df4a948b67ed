package sessions

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetLogOutput(zapcore.AddSync(&buf))
	t.Cleanup(func() {
		SetLogOutput(zapcore.Lock(os.Stderr))
		SetLogLevel("info")
	})
	return &buf
}

func TestInfof_NoDoubleFormattingWithPercent(t *testing.T) {
	buf := captureLogs(t)
	SetLogLevel("info")

	msg := "[radial] protocol_type: TCP total=412 high=38 (9.2% of group) attack_rate=44.7%"
	Infof(msg)

	out := buf.String()
	if !strings.Contains(out, "(9.2% of group)") {
		t.Fatalf("log output missing expected percent segment: %s", out)
	}
	if strings.Contains(out, "%!o(MISSING)") || strings.Contains(out, "%!(NOVERB)") {
		t.Fatalf("log output still shows fmt artifact: %s", out)
	}
}

func TestSetLogLevel_FiltersBelowThreshold(t *testing.T) {
	buf := captureLogs(t)
	SetLogLevel("warn")
	Infof("hidden %d", 1)
	Warnf("shown %d", 2)
	out := buf.String()
	if strings.Contains(out, "hidden 1") {
		t.Fatalf("info line should be filtered at warn level: %s", out)
	}
	if !strings.Contains(out, "shown 2") {
		t.Fatalf("warn line missing: %s", out)
	}
	if GetLogLevel() != LevelWarn {
		t.Fatalf("GetLogLevel=%v want %v", GetLogLevel(), LevelWarn)
	}
	SetLogLevel("bogus")
	if GetLogLevel() != LevelWarn {
		t.Fatalf("unknown level name must not change the level")
	}
}
