package log

import (
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"bogus", slog.LevelInfo},
	}
	for _, tc := range cases {
		if got := ParseLevel(tc.in); got != tc.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestWithComponentReturnsNewLogger(t *testing.T) {
	base := New(slog.LevelInfo, "app")
	scoped := base.WithComponent("tracker")
	if scoped == base || scoped.Logger == base.Logger {
		t.Fatal("WithComponent must not mutate the parent logger")
	}
	if scoped.Logger == nil {
		t.Fatal("scoped logger missing slog.Logger")
	}
}
