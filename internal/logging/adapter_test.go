package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNewSlogAdapter_WithNil(t *testing.T) {
	adapter := NewSlogAdapter(nil)
	if adapter.Logger() == nil {
		t.Error("expected slog.Default() when created with nil")
	}
}

func TestSlogAdapter_Levels(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	var l Logger = NewSlogAdapter(logger)

	l.Debug("d", "k", 1)
	l.Info("i")
	l.Warn("w")
	l.Error("e")

	out := buf.String()
	for _, want := range []string{"level=DEBUG", "level=INFO", "level=WARN", "level=ERROR", "k=1"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output", want)
		}
	}
}

func TestDiscard(t *testing.T) {
	var l Logger = Discard{}
	l.Warn("ignored", "k", "v")
}
