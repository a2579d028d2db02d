package utils

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{" warn ", LevelWarn},
		{"quiet", LevelError},
		{"", LevelInfo},
		{"verbose", LevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %d; want %d", tt.in, got, tt.want)
		}
	}
}

func TestLoggerRespectsLevel(t *testing.T) {
	var out, errOut bytes.Buffer
	l := NewLoggerTo(&out, &errOut, LevelWarn)

	l.Debug("hidden %d", 1)
	l.Info("hidden %d", 2)
	l.Warn("shown %d", 3)
	l.Error("failed %d", 4)

	if strings.Contains(out.String(), "hidden") {
		t.Errorf("debug/info should be suppressed at warn level, got %q", out.String())
	}
	if !strings.Contains(out.String(), "shown 3") {
		t.Errorf("warn missing from stdout sink: %q", out.String())
	}
	if !strings.Contains(errOut.String(), "failed 4") {
		t.Errorf("error missing from stderr sink: %q", errOut.String())
	}
}
