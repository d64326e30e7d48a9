package logs

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		raw  string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.raw); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}

func TestToJournalKey(t *testing.T) {
	if got := toJournalKey("card.id-x"); got != "CARD_ID_X" {
		t.Errorf("unexpected key %q", got)
	}
}

func TestNewRespectsLevel(t *testing.T) {
	if isSystemdService() {
		t.Skip("terminal handler disabled under systemd")
	}
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelWarn)
	logger.Info("quiet")
	logger.Warn("loud", "card", "c1")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Errorf("info record written at warn level: %s", out)
	}
	if !strings.Contains(out, "loud") || !strings.Contains(out, "card=c1") {
		t.Errorf("warn record missing: %s", out)
	}
}
