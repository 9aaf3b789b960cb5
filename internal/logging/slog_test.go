package logging

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func TestWithHelpers(t *testing.T) {
	buf := &bytes.Buffer{}
	base := slog.New(slog.NewTextHandler(buf, nil))

	WithTool(WithOperation(base, "meeting_data"), "find_key_moments").Info("done", BotID("bot-1"), Tier("speaker"))

	out := buf.String()
	for _, want := range []string{"operation=meeting_data", "tool=find_key_moments", "bot_id=bot-1", "tier=speaker"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in %q", want, out)
		}
	}
}

func TestAttrs(t *testing.T) {
	tests := []struct {
		attr slog.Attr
		key  string
		val  string
	}{
		{Operation("join"), KeyOperation, "join"},
		{Tool("list_bots"), KeyTool, "list_bots"},
		{Status(StatusError), KeyStatus, "error"},
		{Backend("sqlite"), KeyBackend, "sqlite"},
	}
	for _, tt := range tests {
		if tt.attr.Key != tt.key || tt.attr.Value.String() != tt.val {
			t.Errorf("got %s=%s, want %s=%s", tt.attr.Key, tt.attr.Value.String(), tt.key, tt.val)
		}
	}
}

func TestErr(t *testing.T) {
	attr := Err(errors.New("boom"))
	if attr.Key != KeyError || attr.Value.String() != "boom" {
		t.Errorf("unexpected attr %v", attr)
	}

	buf := &bytes.Buffer{}
	slog.New(slog.NewTextHandler(buf, nil)).Info("ok", Err(nil))
	if strings.Contains(buf.String(), "error") {
		t.Errorf("nil error should be omitted, got %q", buf.String())
	}
}

func TestHashID(t *testing.T) {
	if HashID("") != "" {
		t.Error("empty id should hash to empty")
	}
	a, b := HashID("session-1"), HashID("session-1")
	if a != b {
		t.Error("hash must be stable")
	}
	if len(a) != 16 {
		t.Errorf("expected 16 hex chars, got %d", len(a))
	}
	if HashID("session-2") == a {
		t.Error("different ids should hash differently")
	}
	if attr := SessionHash("session-1"); attr.Key != KeySession || attr.Value.String() != a {
		t.Errorf("unexpected session attr %v", attr)
	}
}

func TestSanitizeAPIKey(t *testing.T) {
	if got := SanitizeAPIKey(""); got != "<empty>" {
		t.Errorf("got %q", got)
	}
	got := SanitizeAPIKey("super-secret-key")
	if got != "[key:16 chars]" {
		t.Errorf("got %q", got)
	}
	if strings.Contains(got, "secret") {
		t.Error("key content leaked")
	}
}
