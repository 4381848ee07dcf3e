package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestLookupLevel(t *testing.T) {
	tests := []struct {
		input string
		want  Level
		ok    bool
	}{
		{"debug", LevelDebug, true},
		{"info", LevelInfo, true},
		{"warn", LevelWarn, true},
		{"warning", LevelWarn, true},
		{"ERROR", LevelError, true},
		{"dEbUg", LevelDebug, true},
		{"", 0, false},
		{"trace", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := LookupLevel(tt.input)
			if ok != tt.ok || got != tt.want {
				t.Errorf("LookupLevel(%q) = %v, %v; want %v, %v", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestLookupFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
		ok    bool
	}{
		{"json", FormatJSON, true},
		{"Json", FormatJSON, true},
		{"text", FormatText, true},
		{"", "", false},
		{"yaml", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := LookupFormat(tt.input)
			if ok != tt.ok || got != tt.want {
				t.Errorf("LookupFormat(%q) = %q, %v; want %q, %v", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: LevelInfo, Format: FormatJSON, Output: &buf})

	logger.Info("loaded", "model", "example")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "loaded" {
		t.Errorf("msg = %v, want loaded", entry["msg"])
	}
	if entry["model"] != "example" {
		t.Errorf("model = %v, want example", entry["model"])
	}
}

func TestFromSettings(t *testing.T) {
	var buf bytes.Buffer
	logger := FromSettings("debug", "json", &buf)
	logger.Debug("index loaded")
	if !strings.HasPrefix(buf.String(), "{") || !strings.Contains(buf.String(), "index loaded") {
		t.Errorf("debug JSON entry missing: %q", buf.String())
	}

	buf.Reset()
	logger = FromSettings("verbose", "yaml", &buf)
	logger.Info("hidden")
	logger.Warn("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("unknown level should fall back to warn: %q", out)
	}
	if !strings.Contains(out, "level=WARN") {
		t.Errorf("unknown format should fall back to text: %q", out)
	}
}

func TestNopAndOrNop(t *testing.T) {
	Nop().ErrorContext(context.Background(), "discarded")
	if OrNop(nil) == nil {
		t.Fatal("OrNop(nil) returned nil")
	}
	l := New(Config{})
	if OrNop(l) != l {
		t.Error("OrNop should return the given logger")
	}
}
