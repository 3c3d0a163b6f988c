package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		" WARN ":  zerolog.WarnLevel,
		"warning": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"trace":   zerolog.TraceLevel,
		"off":     zerolog.Disabled,
		"":        zerolog.InfoLevel,
		"loud":    zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	log, closer, err := New(Options{Level: "warn", Out: &buf, NoColor: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer closer.Close()

	log.Info().Msg("hidden")
	log.Warn().Str("set", "Lorenz").Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info should be filtered at warn level")
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "set=Lorenz") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestNewGraylog(t *testing.T) {
	var buf bytes.Buffer
	log, closer, err := New(Options{GraylogAddr: "127.0.0.1:12201", Out: &buf, NoColor: true})
	if err != nil {
		t.Fatalf("gelf over udp should not need a listener: %v", err)
	}
	log.Info().Msg("teed")
	if err := closer.Close(); err != nil {
		t.Errorf("close: %v", err)
	}
	if !strings.Contains(buf.String(), "teed") {
		t.Error("console output missing")
	}
}
