package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"nonsense", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.expected {
			t.Errorf("parseLevel(%q) = %v; want %v", tt.input, got, tt.expected)
		}
	}
}

func TestSetup_JSONCarriesRunID(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	Setup("info", "json", &buf)

	ctx, id := WithRun(context.Background())
	WithFields(ctx, "file", "people.xlsx").Info("file processed")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, buf.String())
	}
	if entry["run_id"] != id {
		t.Errorf("run_id = %v; want %s", entry["run_id"], id)
	}
	if entry["file"] != "people.xlsx" {
		t.Errorf("file = %v", entry["file"])
	}
}

func TestSetup_LevelFilters(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	Setup("warn", "text", &buf)

	slog.Info("hidden")
	slog.Warn("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Error("info entry should be filtered at warn level")
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Error("warn entry missing")
	}
}

func TestEnsureRun(t *testing.T) {
	ctx, id := WithRun(context.Background())

	same, got := EnsureRun(ctx)
	if got != id || RunID(same) != id {
		t.Errorf("EnsureRun replaced existing run ID %s with %s", id, got)
	}

	_, fresh := EnsureRun(context.Background())
	if fresh == "" || fresh == id {
		t.Errorf("EnsureRun() = %q; want a new ID", fresh)
	}

	if RunID(context.Background()) != "" {
		t.Error("Expected no run ID on a bare context")
	}
}
